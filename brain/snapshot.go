package brain

import (
	"math/rand"

	"synapsim/common"
	"synapsim/config"
)

// NeuronRecord is one neuron's persisted state.
type NeuronRecord struct {
	ID        NeuronID        `json:"id"`
	Position  common.Position `json:"position"`
	Potential common.Scalar   `json:"potential"`
}

// ImpulseRecord is one in-flight impulse's persisted state.
type ImpulseRecord struct {
	Potential common.Scalar `json:"potential"`
	Timeout   common.Scalar `json:"timeout"`
}

// SynapseRecord is one synapse's persisted state.
type SynapseRecord struct {
	ID         SynapseID       `json:"id"`
	Source     NeuronID        `json:"source"`
	Target     NeuronID        `json:"target"`
	Distance   common.Scalar   `json:"distance"`
	Receptors  common.Scalar   `json:"receptors"`
	Inactivity common.Scalar   `json:"inactivity"`
	Impulses   []ImpulseRecord `json:"impulses"`
}

// SensorRecord is one sensor's persisted state.
type SensorRecord struct {
	ID     SensorID `json:"id"`
	Target NeuronID `json:"target"`
}

// EffectorRecord is one effector's persisted state.
type EffectorRecord struct {
	ID        EffectorID    `json:"id"`
	Source    NeuronID      `json:"source"`
	Potential common.Scalar `json:"potential"`
}

// Snapshot is the flat, round-trippable record of a brain's entity graph and
// config: { id, neurons[], synapses[], sensors[], effectors[], config }.
type Snapshot struct {
	ID        common.ID[Brain] `json:"id"`
	Neurons   []NeuronRecord   `json:"neurons"`
	Synapses  []SynapseRecord  `json:"synapses"`
	Sensors   []SensorRecord   `json:"sensors"`
	Effectors []EffectorRecord `json:"effectors"`
	Config    config.Config    `json:"config"`
}

// ToSnapshot produces a flat, serializable copy of the brain's current
// entity graph and config.
func (b *Brain) ToSnapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Snapshot{
		ID:        b.id,
		Neurons:   make([]NeuronRecord, 0, len(b.neurons)),
		Synapses:  make([]SynapseRecord, 0, len(b.synapses)),
		Sensors:   make([]SensorRecord, 0, len(b.sensors)),
		Effectors: make([]EffectorRecord, 0, len(b.effectors)),
		Config:    b.cfg,
	}
	for id, n := range b.neurons {
		s.Neurons = append(s.Neurons, NeuronRecord{ID: id, Position: n.position, Potential: n.potential})
	}
	for id, syn := range b.synapses {
		impulses := make([]ImpulseRecord, len(syn.impulses))
		for i, imp := range syn.impulses {
			impulses[i] = ImpulseRecord{Potential: imp.Potential, Timeout: imp.Timeout}
		}
		s.Synapses = append(s.Synapses, SynapseRecord{
			ID: id, Source: syn.source, Target: syn.target,
			Distance: syn.distance, Receptors: syn.receptors,
			Inactivity: syn.inactivity, Impulses: impulses,
		})
	}
	for id, sn := range b.sensors {
		s.Sensors = append(s.Sensors, SensorRecord{ID: id, Target: sn.target})
	}
	for id, e := range b.effectors {
		s.Effectors = append(s.Effectors, EffectorRecord{ID: id, Source: e.source, Potential: e.potential})
	}
	return s
}

// FromSnapshot rebuilds a Brain from a Snapshot, preserving every identifier.
// rng seeds the resulting brain's randomness for any subsequent Process or
// rewiring calls; the snapshot itself carries no RNG state.
func FromSnapshot(s Snapshot, rng *rand.Rand) *Brain {
	b := &Brain{
		id:               s.ID,
		cfg:              s.Config,
		rng:              rng,
		neurons:          make(map[NeuronID]*Neuron, len(s.Neurons)),
		synapses:         make(map[SynapseID]*synapseState, len(s.Synapses)),
		sensors:          make(map[SensorID]*sensorState, len(s.Sensors)),
		effectors:        make(map[EffectorID]*effectorState, len(s.Effectors)),
		bySourceTarget:   make(map[[2]NeuronID]SynapseID, len(s.Synapses)),
		outgoing:         make(map[NeuronID]map[SynapseID]struct{}, len(s.Neurons)),
		incoming:         make(map[NeuronID]map[SynapseID]struct{}, len(s.Neurons)),
		sensorByTarget:   make(map[NeuronID]SensorID, len(s.Sensors)),
		effectorBySource: make(map[NeuronID]EffectorID, len(s.Effectors)),
	}
	for _, rec := range s.Neurons {
		b.neurons[rec.ID] = &Neuron{id: rec.ID, ownerID: b.id, position: rec.Position, potential: rec.Potential}
		b.outgoing[rec.ID] = make(map[SynapseID]struct{})
		b.incoming[rec.ID] = make(map[SynapseID]struct{})
	}
	for _, rec := range s.Synapses {
		impulses := make([]Impulse, len(rec.Impulses))
		for i, imp := range rec.Impulses {
			impulses[i] = Impulse{Potential: imp.Potential, Timeout: imp.Timeout}
		}
		b.synapses[rec.ID] = &synapseState{
			id: rec.ID, source: rec.Source, target: rec.Target,
			distance: rec.Distance, receptors: rec.Receptors,
			inactivity: rec.Inactivity, impulses: impulses,
		}
		b.bySourceTarget[[2]NeuronID{rec.Source, rec.Target}] = rec.ID
		if out, ok := b.outgoing[rec.Source]; ok {
			out[rec.ID] = struct{}{}
		}
		if in, ok := b.incoming[rec.Target]; ok {
			in[rec.ID] = struct{}{}
		}
	}
	for _, rec := range s.Sensors {
		b.sensors[rec.ID] = &sensorState{id: rec.ID, target: rec.Target}
		b.sensorByTarget[rec.Target] = rec.ID
	}
	for _, rec := range s.Effectors {
		b.effectors[rec.ID] = &effectorState{id: rec.ID, source: rec.Source, potential: rec.Potential}
		b.effectorBySource[rec.Source] = rec.ID
	}
	return b
}
