package brain

import (
	"math/rand"
	"testing"
)

func buildSmallBrain(seed int64) *Brain {
	bb := DefaultBrainBuilder()
	bb.Neurons = 10
	bb.Connections = 3
	bb.Sensors = 1
	bb.Effectors = 1
	return bb.Build(rand.New(rand.NewSource(seed)))
}

func TestOffspringMutateGrowsWithoutTouchingParent(t *testing.T) {
	parent := buildSmallBrain(1)
	parentNeurons := parent.NeuronsCount()

	ob := OffspringBuilder{BrainBuilder: DefaultBrainBuilder()}
	ob.Neurons = 5
	ob.Connections = 1
	ob.Sensors = 0
	ob.Effectors = 0

	child := ob.Mutate(parent, rand.New(rand.NewSource(2)))

	if parent.NeuronsCount() != parentNeurons {
		t.Fatalf("parent mutated: now %d neurons, was %d", parent.NeuronsCount(), parentNeurons)
	}
	if child.NeuronsCount() < parentNeurons {
		t.Fatalf("child has fewer neurons (%d) than parent (%d)", child.NeuronsCount(), parentNeurons)
	}
	if child.ID() == parent.ID() {
		t.Fatalf("child must have a fresh identifier")
	}
}

func TestOffspringMergeProducesIndependentBrain(t *testing.T) {
	a := buildSmallBrain(3)
	bb := buildSmallBrain(4)

	ob := OffspringBuilder{BrainBuilder: DefaultBrainBuilder()}
	ob.Neurons = 0
	ob.Connections = 0
	ob.Sensors = 0
	ob.Effectors = 0

	merged := ob.Merge(a, bb, rand.New(rand.NewSource(5)))

	if merged.ID() == a.ID() || merged.ID() == bb.ID() {
		t.Fatalf("merged brain must have a fresh identifier")
	}
	if merged.NeuronsCount() == 0 {
		t.Fatalf("merged brain unexpectedly empty")
	}
	// Parents must be untouched by Merge (it operates on duplicates).
	if a.NeuronsCount() == 0 || bb.NeuronsCount() == 0 {
		t.Fatalf("parents were mutated by Merge")
	}
}

func TestDuplicateClearsImpulsesAndInactivity(t *testing.T) {
	parent := buildSmallBrain(9)
	for i := 0; i < 5; i++ {
		_ = parent.Process(1)
	}

	dup := parent.Duplicate()
	if dup.ID() == parent.ID() {
		t.Fatalf("duplicate must have a fresh identifier")
	}
	if dup.NeuronsCount() != parent.NeuronsCount() {
		t.Fatalf("duplicate neuron count = %d, want %d", dup.NeuronsCount(), parent.NeuronsCount())
	}
	stats := dup.BuildActivityStats()
	if stats.ImpulsesCount != 0 {
		t.Fatalf("duplicate carried over %d in-flight impulses, want 0", stats.ImpulsesCount)
	}
	for _, syn := range dup.synapses {
		if syn.inactivity != 0 {
			t.Fatalf("duplicate synapse inactivity = %v, want 0", syn.inactivity)
		}
	}
}
