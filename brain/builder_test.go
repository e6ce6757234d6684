package brain

import (
	"math/rand"
	"testing"
)

func TestBrainBuilderBuildProducesConnectedTopology(t *testing.T) {
	bb := DefaultBrainBuilder()
	bb.Neurons = 20
	bb.Connections = 5
	bb.Sensors = 2
	bb.Effectors = 2

	b := bb.Build(rand.New(rand.NewSource(42)))

	if got := b.NeuronsCount(); got < 1 || got > bb.Neurons+1 {
		t.Fatalf("NeuronsCount = %d, want between 1 and %d", got, bb.Neurons+1)
	}
	if got := len(b.Sensors()); got > bb.Sensors {
		t.Fatalf("Sensors count = %d, want at most %d", got, bb.Sensors)
	}
	if got := len(b.Effectors()); got > bb.Effectors {
		t.Fatalf("Effectors count = %d, want at most %d", got, bb.Effectors)
	}
	if b.SynapsesCount() == 0 {
		t.Fatalf("expected at least the seed growth synapses")
	}
}

func TestBrainBuilderNoLoopConnectionsAvoidsDuplicateEdges(t *testing.T) {
	bb := DefaultBrainBuilder()
	bb.Neurons = 30
	bb.Connections = 50
	bb.Sensors = 0
	bb.Effectors = 0
	bb.NoLoopConnections = true

	b := bb.Build(rand.New(rand.NewSource(7)))

	seen := make(map[[2]NeuronID]bool)
	for _, syn := range b.synapses {
		key := [2]NeuronID{syn.source, syn.target}
		if seen[key] {
			t.Fatalf("duplicate synapse %v found despite NoLoopConnections", key)
		}
		seen[key] = true
		if b.AreConnected(syn.target, syn.source) {
			t.Fatalf("both-direction edge %v<->%v found despite NoLoopConnections", syn.source, syn.target)
		}
	}
}

func TestBrainBuilderZeroNeuronsYieldsSeedOnly(t *testing.T) {
	bb := DefaultBrainBuilder()
	bb.Neurons = 0
	bb.Connections = 0
	bb.Sensors = 0
	bb.Effectors = 0

	b := bb.Build(rand.New(rand.NewSource(1)))
	if b.NeuronsCount() != 1 {
		t.Fatalf("NeuronsCount = %d, want 1 (seed only)", b.NeuronsCount())
	}
}
