package brain

import (
	"math/rand"
	"testing"

	"synapsim/common"
	"synapsim/config"
)

func TestBuildActivityMapRespectsFlags(t *testing.T) {
	b := New(config.Default(), rand.New(rand.NewSource(1)))
	a := b.CreateNeuron(common.Position{})
	c := b.CreateNeuron(common.Position{X: 1})
	if _, _, err := b.BindNeurons(a, c); err != nil {
		t.Fatalf("BindNeurons: %v", err)
	}
	if _, err := b.CreateSensor(a); err != nil {
		t.Fatalf("CreateSensor: %v", err)
	}

	m := b.BuildActivityMap(ActivityConnections)
	if len(m.Connections) != 1 {
		t.Fatalf("Connections = %d, want 1", len(m.Connections))
	}
	if m.Sensors != nil || m.Neurons != nil {
		t.Fatalf("unflagged subsets must stay nil, got sensors=%v neurons=%v", m.Sensors, m.Neurons)
	}

	full := b.BuildActivityMap(ActivityAll)
	if len(full.Neurons) != 2 {
		t.Fatalf("Neurons = %d, want 2", len(full.Neurons))
	}
	if len(full.Sensors) != 1 {
		t.Fatalf("Sensors = %d, want 1", len(full.Sensors))
	}
}

func TestBuildActivityStatsOnEmptyBrainDefaultsToZero(t *testing.T) {
	b := New(config.Default(), rand.New(rand.NewSource(1)))
	stats := b.BuildActivityStats()
	if stats.NeuronPotentialMin != 0 || stats.NeuronPotentialMax != 0 {
		t.Fatalf("empty brain stats must default to zero, got min=%v max=%v",
			stats.NeuronPotentialMin, stats.NeuronPotentialMax)
	}
}

func TestIgniteRandomSynapsesAddsImpulses(t *testing.T) {
	b := New(config.Default(), rand.New(rand.NewSource(1)))
	a := b.CreateNeuron(common.Position{})
	c := b.CreateNeuron(common.Position{X: 2})
	if _, _, err := b.BindNeurons(a, c); err != nil {
		t.Fatalf("BindNeurons: %v", err)
	}

	b.IgniteRandomSynapses(3, [2]common.Scalar{1, 2}, rand.New(rand.NewSource(1)))

	stats := b.BuildActivityStats()
	if stats.ImpulsesCount != 3 {
		t.Fatalf("ImpulsesCount = %d, want 3", stats.ImpulsesCount)
	}
	if stats.ImpulsePotentialMin < 1 || stats.ImpulsePotentialMax > 2 {
		t.Fatalf("impulse potentials out of range: min=%v max=%v",
			stats.ImpulsePotentialMin, stats.ImpulsePotentialMax)
	}
}
