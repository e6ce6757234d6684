package brain

import (
	"math/rand"

	"synapsim/common"
	"synapsim/config"
	"synapsim/space"
)

// OffspringBuilder derives new brains from one or two parents: Mutate grows
// a duplicate by the builder's counts; Merge unions two duplicated parents,
// shrinks to mean population sizes, then grows by the offspring deltas.
type OffspringBuilder struct {
	BrainBuilder
}

// Mutate deep-duplicates parent, then applies BrainBuilder's growth steps
// (neighbor neurons, local connections, peripheral sensors/effectors) with
// the builder's own counts, on top of the existing entities.
func (ob OffspringBuilder) Mutate(parent *Brain, rng *rand.Rand) *Brain {
	child := parent.Duplicate()
	ob.growExisting(child, rng)
	return child
}

// Merge creates a brain whose initial populations are the union of
// duplicated parentA and parentB, shrunk randomly to the mean size of each
// entity kind, then grown by the offspring deltas. The merged Config is the
// pairwise-averaged merge of the parents' configs.
func (ob OffspringBuilder) Merge(parentA, parentB *Brain, rng *rand.Rand) *Brain {
	a := parentA.Duplicate()
	bb := parentB.Duplicate()

	merged := New(config.Merge(a.Config(), bb.Config()), rng)
	unionInto(merged, a)
	unionInto(merged, bb)

	targetNeurons := (a.NeuronsCount() + bb.NeuronsCount()) / 2
	targetSynapses := (a.SynapsesCount() + bb.SynapsesCount()) / 2
	targetSensors := (len(a.Sensors()) + len(bb.Sensors())) / 2
	targetEffectors := (len(a.Effectors()) + len(bb.Effectors())) / 2

	shrinkSynapses(merged, targetSynapses, rng)
	shrinkSensors(merged, targetSensors, rng)
	shrinkEffectors(merged, targetEffectors, rng)
	shrinkNeurons(merged, targetNeurons, rng)

	beforeSensors := len(merged.Sensors())
	beforeEffectors := len(merged.Effectors())

	ob.growExisting(merged, rng)

	for i := 0; i < targetSensors-beforeSensors; i++ {
		ob.placePeripheralOn(merged, rng, false)
	}
	for i := 0; i < targetEffectors-beforeEffectors; i++ {
		ob.placePeripheralOn(merged, rng, true)
	}

	return merged
}

// growExisting applies BrainBuilder.Build's steps 2-5 on top of an
// already-populated brain, matching Mutate's "duplicate then grow" shape.
func (ob OffspringBuilder) growExisting(b *Brain, rng *rand.Rand) {
	neurons := b.Neurons()
	for i := 0; i < ob.Neurons; i++ {
		if id, ok := ob.BrainBuilder.growNeighbor(b, neurons, rng); ok {
			neurons = append(neurons, id)
		}
	}

	positions := entriesFor(b, neurons)
	for i := 0; i < ob.Connections; i++ {
		ob.BrainBuilder.connectNeighbors(b, positions, rng)
	}
	for i := 0; i < ob.Sensors; i++ {
		ob.BrainBuilder.placePeripheral(b, positions, rng, false)
	}
	for i := 0; i < ob.Effectors; i++ {
		ob.BrainBuilder.placePeripheral(b, positions, rng, true)
	}
}

func (ob OffspringBuilder) placePeripheralOn(b *Brain, rng *rand.Rand, effector bool) {
	positions := entriesFor(b, b.Neurons())
	ob.BrainBuilder.placePeripheral(b, positions, rng, effector)
}

func entriesFor(b *Brain, ids []NeuronID) []space.Entry {
	out := make([]space.Entry, 0, len(ids))
	for _, id := range ids {
		pos, ok := b.NeuronPosition(id)
		if !ok {
			continue
		}
		out = append(out, space.Entry{NeuronID: common.Retag[Neuron, space.Neuron](id), Position: pos})
	}
	return out
}

// unionInto copies every neuron, synapse, sensor and effector of src into
// dst, remapping neuron identifiers since dst mints its own.
func unionInto(dst, src *Brain) {
	idMap := make(map[NeuronID]NeuronID, src.NeuronsCount())
	for _, oldID := range src.Neurons() {
		pos, _ := src.NeuronPosition(oldID)
		idMap[oldID] = dst.CreateNeuron(pos)
	}

	src.mu.RLock()
	synapses := make([]*synapseState, 0, len(src.synapses))
	for _, syn := range src.synapses {
		synapses = append(synapses, syn)
	}
	sensors := make([]*sensorState, 0, len(src.sensors))
	for _, s := range src.sensors {
		sensors = append(sensors, s)
	}
	effectors := make([]*effectorState, 0, len(src.effectors))
	for _, e := range src.effectors {
		effectors = append(effectors, e)
	}
	src.mu.RUnlock()

	dst.mu.Lock()
	for _, syn := range synapses {
		newSrc, okA := idMap[syn.source]
		newDst, okB := idMap[syn.target]
		if !okA || !okB {
			continue
		}
		id := common.NewID[Synapse]()
		dst.synapses[id] = &synapseState{
			id:         id,
			source:     newSrc,
			target:     newDst,
			distance:   syn.distance,
			receptors:  syn.receptors,
			inactivity: syn.inactivity,
		}
		dst.bySourceTarget[[2]NeuronID{newSrc, newDst}] = id
		dst.outgoing[newSrc][id] = struct{}{}
		dst.incoming[newDst][id] = struct{}{}
	}
	dst.mu.Unlock()

	for _, sensor := range sensors {
		if target, ok := idMap[sensor.target]; ok {
			_, _ = dst.CreateSensor(target)
		}
	}
	for _, effector := range effectors {
		if source, ok := idMap[effector.source]; ok {
			_, _ = dst.CreateEffector(source)
		}
	}
}

func shrinkSynapses(b *Brain, target int, rng *rand.Rand) {
	for b.SynapsesCount() > target {
		ids := b.synapseIDs()
		if len(ids) == 0 {
			return
		}
		id := ids[rng.Intn(len(ids))]
		b.mu.Lock()
		b.removeSynapseLocked(id)
		b.mu.Unlock()
	}
}

func shrinkSensors(b *Brain, target int, rng *rand.Rand) {
	for len(b.Sensors()) > target {
		ids := b.Sensors()
		_ = b.KillSensor(ids[rng.Intn(len(ids))])
	}
}

func shrinkEffectors(b *Brain, target int, rng *rand.Rand) {
	for len(b.Effectors()) > target {
		ids := b.Effectors()
		_ = b.KillEffector(ids[rng.Intn(len(ids))])
	}
}

func shrinkNeurons(b *Brain, target int, rng *rand.Rand) {
	for b.NeuronsCount() > target {
		ids := b.Neurons()
		if len(ids) == 0 {
			return
		}
		_ = b.KillNeuron(ids[rng.Intn(len(ids))])
	}
}

func (b *Brain) synapseIDs() []SynapseID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]SynapseID, 0, len(b.synapses))
	for id := range b.synapses {
		out = append(out, id)
	}
	return out
}
