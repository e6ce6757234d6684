package brain

import "synapsim/common"

// Duplicate returns a deep copy of b with fresh identifiers for the brain
// and every neuron; synapses, sensors and effectors are re-attached to the
// new neuron ids. In-flight impulses are cleared and inactivity timers
// zeroed; Config is copied as-is.
func (b *Brain) Duplicate() *Brain {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := New(b.cfg, b.rng)

	idMap := make(map[NeuronID]NeuronID, len(b.neurons))
	for oldID, n := range b.neurons {
		newID := out.createNeuronLocked(n.position)
		out.neurons[newID].potential = n.potential
		idMap[oldID] = newID
	}

	for _, syn := range b.synapses {
		newSrc, okA := idMap[syn.source]
		newDst, okB := idMap[syn.target]
		if !okA || !okB {
			continue
		}
		id := common.NewID[Synapse]()
		out.synapses[id] = &synapseState{
			id:        id,
			source:    newSrc,
			target:    newDst,
			distance:  syn.distance,
			receptors: syn.receptors,
			// impulses cleared, inactivity zeroed per Duplicate's contract.
		}
		out.bySourceTarget[[2]NeuronID{newSrc, newDst}] = id
		out.outgoing[newSrc][id] = struct{}{}
		out.incoming[newDst][id] = struct{}{}
	}

	for _, s := range b.sensors {
		target, ok := idMap[s.target]
		if !ok {
			continue
		}
		id := common.NewID[Sensor]()
		out.sensors[id] = &sensorState{id: id, target: target}
		out.sensorByTarget[target] = id
	}

	for _, e := range b.effectors {
		source, ok := idMap[e.source]
		if !ok {
			continue
		}
		id := common.NewID[Effector]()
		out.effectors[id] = &effectorState{id: id, source: source}
		out.effectorBySource[source] = id
	}

	return out
}
