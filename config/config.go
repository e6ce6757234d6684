// Package config defines the simulation's tunable Config and the ambient
// CLI/TOML configuration layer built around it.
package config

import (
	"math/rand"

	"synapsim/common"
)

// Config is the immutable-per-tick set of scalar tunables governing a
// Brain's Process phases. Optional fields are nil pointers when disabled.
type Config struct {
	// PropagationSpeed is distance-per-Δt an impulse advances (Phase B).
	PropagationSpeed common.Scalar
	// NeuronPotentialDecay is the per-Δt magnitude a neuron's potential
	// moves toward zero (Phase A).
	NeuronPotentialDecay common.Scalar
	// ActionPotentialThreshold is the potential at or above which a neuron
	// fires (Phase A).
	ActionPotentialThreshold common.Scalar
	// ReceptorsExcitation is the per-Δt receptor gain per impulse arrival
	// (Phase B).
	ReceptorsExcitation common.Scalar
	// ReceptorsInhibition is the per-Δt receptor loss applied to every
	// synapse (Phase C). Zero disables inhibition/pruning entirely.
	ReceptorsInhibition common.Scalar
	// DefaultReceptorsMin/Max bound the uniform draw used to endow a newly
	// bound synapse with its initial receptors.
	DefaultReceptorsMin common.Scalar
	DefaultReceptorsMax common.Scalar
	// SynapseInactivityTime is the cooldown a synapse receives after firing
	// an impulse, before it is eligible to fire again.
	SynapseInactivityTime common.Scalar
	// SynapsePropagationDecay scales the in-flight potential loss per unit
	// of propagation distance (Phase B).
	SynapsePropagationDecay common.Scalar

	// SynapseReconnectionRange, when set, restricts select_neuron candidates
	// to neurons strictly outside this radius of the origin (Phase C/F).
	SynapseReconnectionRange *common.Scalar
	// SynapseOverdoseReceptors, when set, excludes synapses at or above this
	// receptor level from firing new impulses (Phase A).
	SynapseOverdoseReceptors *common.Scalar
	// SynapseNewConnectionReceptors, when set, is the receptor threshold
	// above which a synapse may bud a sibling (Phase F). Budding is disabled
	// entirely when nil.
	SynapseNewConnectionReceptors *common.Scalar
}

// Default returns a Config with moderate, demo-friendly tunables. The cmd
// subcommands use it unchanged as AppConfig.Core; the TOML file and the
// command-line flags only set CLIConfig fields.
func Default() Config {
	overdose := 40.0
	budding := 25.0
	reconnect := 5.0
	return Config{
		PropagationSpeed:              1.0,
		NeuronPotentialDecay:          0.1,
		ActionPotentialThreshold:      1.0,
		ReceptorsExcitation:           0.05,
		ReceptorsInhibition:           0.01,
		DefaultReceptorsMin:           1.0,
		DefaultReceptorsMax:           5.0,
		SynapseInactivityTime:         0.2,
		SynapsePropagationDecay:       0.01,
		SynapseReconnectionRange:      &reconnect,
		SynapseOverdoseReceptors:      &overdose,
		SynapseNewConnectionReceptors: &budding,
	}
}

func mergeScalar(a, b common.Scalar) common.Scalar {
	return (a + b) / 2
}

func mergeOptional(a, b *common.Scalar) *common.Scalar {
	switch {
	case a != nil && b != nil:
		v := mergeScalar(*a, *b)
		return &v
	case a != nil:
		v := *a
		return &v
	case b != nil:
		v := *b
		return &v
	default:
		return nil
	}
}

// Merge produces a new Config with every scalar field averaged; an optional
// field present in both operands averages, present in only one keeps that
// value, and absent in both stays absent.
func Merge(a, b Config) Config {
	return Config{
		PropagationSpeed:              mergeScalar(a.PropagationSpeed, b.PropagationSpeed),
		NeuronPotentialDecay:          mergeScalar(a.NeuronPotentialDecay, b.NeuronPotentialDecay),
		ActionPotentialThreshold:      mergeScalar(a.ActionPotentialThreshold, b.ActionPotentialThreshold),
		ReceptorsExcitation:           mergeScalar(a.ReceptorsExcitation, b.ReceptorsExcitation),
		ReceptorsInhibition:           mergeScalar(a.ReceptorsInhibition, b.ReceptorsInhibition),
		DefaultReceptorsMin:           mergeScalar(a.DefaultReceptorsMin, b.DefaultReceptorsMin),
		DefaultReceptorsMax:           mergeScalar(a.DefaultReceptorsMax, b.DefaultReceptorsMax),
		SynapseInactivityTime:         mergeScalar(a.SynapseInactivityTime, b.SynapseInactivityTime),
		SynapsePropagationDecay:       mergeScalar(a.SynapsePropagationDecay, b.SynapsePropagationDecay),
		SynapseReconnectionRange:      mergeOptional(a.SynapseReconnectionRange, b.SynapseReconnectionRange),
		SynapseOverdoseReceptors:      mergeOptional(a.SynapseOverdoseReceptors, b.SynapseOverdoseReceptors),
		SynapseNewConnectionReceptors: mergeOptional(a.SynapseNewConnectionReceptors, b.SynapseNewConnectionReceptors),
	}
}

// RandomDefaultReceptors draws a receptors value uniformly from
// [DefaultReceptorsMin, DefaultReceptorsMax), used to endow a freshly bound
// synapse.
func RandomDefaultReceptors(cfg Config, rng *rand.Rand) common.Scalar {
	lo, hi := cfg.DefaultReceptorsMin, cfg.DefaultReceptorsMax
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
