package brain

import (
	"math/rand"

	"synapsim/common"
)

// ActivityFlags selects which subsets BuildActivityMap populates.
type ActivityFlags uint8

const (
	ActivityNone        ActivityFlags = 0
	ActivityConnections ActivityFlags = 1 << 0
	ActivityImpulses    ActivityFlags = 1 << 1
	ActivitySensors     ActivityFlags = 1 << 2
	ActivityEffectors   ActivityFlags = 1 << 3
	ActivityNeurons     ActivityFlags = 1 << 4
	ActivityAll         ActivityFlags = 0xFF
)

func (f ActivityFlags) has(bit ActivityFlags) bool { return f&bit != 0 }

// ConnectionActivity describes one synapse for visualization.
type ConnectionActivity struct {
	Source    common.Position
	Target    common.Position
	Receptors common.Scalar
}

// ImpulseActivity describes one in-flight impulse for visualization.
// Progress is in [0,1], 0 at the source and approaching 1 as it nears
// delivery; it is 0 when the synapse's distance is zero.
type ImpulseActivity struct {
	Source   common.Position
	Target   common.Position
	Progress common.Scalar
}

// ActivityMap is a flat, visualization-friendly snapshot of requested
// subsets of the brain's current state.
type ActivityMap struct {
	Connections []ConnectionActivity
	Impulses    []ImpulseActivity
	Sensors     []common.Position
	Effectors   []common.Position
	Neurons     []common.Position
}

// BuildActivityMap produces the flagged subsets of the current state.
func (b *Brain) BuildActivityMap(flags ActivityFlags) ActivityMap {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var m ActivityMap
	if flags.has(ActivityConnections) {
		m.Connections = make([]ConnectionActivity, 0, len(b.synapses))
		for _, syn := range b.synapses {
			srcPos := b.neurons[syn.source].position
			dstPos := b.neurons[syn.target].position
			m.Connections = append(m.Connections, ConnectionActivity{
				Source: srcPos, Target: dstPos, Receptors: syn.receptors,
			})
		}
	}
	if flags.has(ActivityImpulses) {
		for _, syn := range b.synapses {
			srcPos := b.neurons[syn.source].position
			dstPos := b.neurons[syn.target].position
			for _, imp := range syn.impulses {
				var progress common.Scalar
				if syn.distance > 0 {
					timeout := imp.Timeout
					if timeout < 0 {
						timeout = 0
					}
					if timeout > syn.distance {
						timeout = syn.distance
					}
					progress = 1 - timeout/syn.distance
				}
				m.Impulses = append(m.Impulses, ImpulseActivity{
					Source: srcPos, Target: dstPos, Progress: progress,
				})
			}
		}
	}
	if flags.has(ActivitySensors) {
		m.Sensors = make([]common.Position, 0, len(b.sensors))
		for _, s := range b.sensors {
			m.Sensors = append(m.Sensors, b.neurons[s.target].position)
		}
	}
	if flags.has(ActivityEffectors) {
		m.Effectors = make([]common.Position, 0, len(b.effectors))
		for _, e := range b.effectors {
			m.Effectors = append(m.Effectors, b.neurons[e.source].position)
		}
	}
	if flags.has(ActivityNeurons) {
		m.Neurons = make([]common.Position, 0, len(b.neurons))
		for _, n := range b.neurons {
			m.Neurons = append(m.Neurons, n.position)
		}
	}
	return m
}

// ActivityStats summarizes counts and potential/connection extremes across
// the brain.
type ActivityStats struct {
	NeuronsCount  int
	SynapsesCount int
	ImpulsesCount int

	NeuronPotentialCurrent, NeuronPotentialMin, NeuronPotentialMax common.Scalar
	ImpulsePotentialCurrent, ImpulsePotentialMin, ImpulsePotentialMax common.Scalar
	CombinedPotentialCurrent, CombinedPotentialMin, CombinedPotentialMax common.Scalar

	IncomingConnectionsMin, IncomingConnectionsMax int
	OutgoingConnectionsMin, OutgoingConnectionsMax int

	ReceptorsMin, ReceptorsMax common.Scalar
}

// BuildActivityStats computes ActivityStats over the brain's current state.
func (b *Brain) BuildActivityStats() ActivityStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var s ActivityStats
	s.NeuronsCount = len(b.neurons)
	s.SynapsesCount = len(b.synapses)

	first := true
	for _, n := range b.neurons {
		s.NeuronPotentialCurrent += n.potential
		if first || n.potential < s.NeuronPotentialMin {
			s.NeuronPotentialMin = n.potential
		}
		if first || n.potential > s.NeuronPotentialMax {
			s.NeuronPotentialMax = n.potential
		}
		first = false
	}

	firstImp := true
	for _, syn := range b.synapses {
		s.ImpulsesCount += len(syn.impulses)
		for _, imp := range syn.impulses {
			s.ImpulsePotentialCurrent += imp.Potential
			if firstImp || imp.Potential < s.ImpulsePotentialMin {
				s.ImpulsePotentialMin = imp.Potential
			}
			if firstImp || imp.Potential > s.ImpulsePotentialMax {
				s.ImpulsePotentialMax = imp.Potential
			}
			firstImp = false
		}
	}

	s.CombinedPotentialCurrent = s.NeuronPotentialCurrent + s.ImpulsePotentialCurrent
	s.CombinedPotentialMin = minScalar(s.NeuronPotentialMin, s.ImpulsePotentialMin)
	s.CombinedPotentialMax = maxScalar(s.NeuronPotentialMax, s.ImpulsePotentialMax)

	firstConn := true
	for id := range b.neurons {
		in := len(b.incoming[id])
		out := len(b.outgoing[id])
		if firstConn {
			s.IncomingConnectionsMin, s.IncomingConnectionsMax = in, in
			s.OutgoingConnectionsMin, s.OutgoingConnectionsMax = out, out
			firstConn = false
			continue
		}
		if in < s.IncomingConnectionsMin {
			s.IncomingConnectionsMin = in
		}
		if in > s.IncomingConnectionsMax {
			s.IncomingConnectionsMax = in
		}
		if out < s.OutgoingConnectionsMin {
			s.OutgoingConnectionsMin = out
		}
		if out > s.OutgoingConnectionsMax {
			s.OutgoingConnectionsMax = out
		}
	}

	firstRec := true
	for _, syn := range b.synapses {
		if firstRec || syn.receptors < s.ReceptorsMin {
			s.ReceptorsMin = syn.receptors
		}
		if firstRec || syn.receptors > s.ReceptorsMax {
			s.ReceptorsMax = syn.receptors
		}
		firstRec = false
	}

	return s
}

func minScalar(a, b common.Scalar) common.Scalar {
	if a < b {
		return a
	}
	return b
}

func maxScalar(a, b common.Scalar) common.Scalar {
	if a > b {
		return a
	}
	return b
}

// IgniteRandomSynapses appends count random impulses to randomly chosen
// synapses, each with potential uniform in potentialRange and timeout
// uniform in [0, distance]. Used by tests and demos to seed activity
// without going through a sensor.
func (b *Brain) IgniteRandomSynapses(count int, potentialRange [2]common.Scalar, rng *rand.Rand) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]SynapseID, 0, len(b.synapses))
	for id := range b.synapses {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}
	lo, hi := potentialRange[0], potentialRange[1]
	for i := 0; i < count; i++ {
		syn := b.synapses[ids[rng.Intn(len(ids))]]
		potential := lo
		if hi > lo {
			potential = lo + rng.Float64()*(hi-lo)
		}
		timeout := rng.Float64() * syn.distance
		syn.impulses = append(syn.impulses, Impulse{Potential: potential, Timeout: timeout})
	}
}
