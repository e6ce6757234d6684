package brain

import (
	"math/rand"

	"synapsim/common"
	"synapsim/config"
	"synapsim/space"
)

// BrainBuilder constructs an initial brain topology: a seed neuron at the
// origin, a cloud of neighbor neurons grown outward from it, a handful of
// extra local connections, and peripheral sensors/effectors. It is a named
// option struct rather than a chain of fluent setters, since Go has no
// move semantics to make a consuming-self chain read naturally.
type BrainBuilder struct {
	Config              config.Config
	Neurons             int
	Connections         int
	Radius              common.Scalar
	MinNeurogenesisRange common.Scalar
	MaxNeurogenesisRange common.Scalar
	Sensors             int
	Effectors           int
	NoLoopConnections   bool
}

// DefaultBrainBuilder returns a builder with the same proportions as the
// reference implementation's defaults.
func DefaultBrainBuilder() BrainBuilder {
	return BrainBuilder{
		Config:               config.Default(),
		Neurons:              100,
		Connections:          0,
		Radius:               10.0,
		MinNeurogenesisRange: 0.1,
		MaxNeurogenesisRange: 1.0,
		Sensors:              1,
		Effectors:            1,
		NoLoopConnections:    true,
	}
}

// Build grows a brain per the builder's parameters, using rng as the sole
// source of randomness.
func (bb BrainBuilder) Build(rng *rand.Rand) *Brain {
	b := New(bb.Config, rng)

	origin := b.CreateNeuron(common.Position{})
	neurons := []NeuronID{origin}

	for i := 0; i < bb.Neurons; i++ {
		if id, ok := bb.growNeighbor(b, neurons, rng); ok {
			neurons = append(neurons, id)
		}
	}

	positions := make([]space.Entry, len(neurons))
	for i, id := range neurons {
		pos, _ := b.NeuronPosition(id)
		positions[i] = space.Entry{NeuronID: common.Retag[Neuron, space.Neuron](id), Position: pos}
	}

	for i := 0; i < bb.Connections; i++ {
		bb.connectNeighbors(b, positions, rng)
	}
	for i := 0; i < bb.Sensors; i++ {
		bb.placePeripheral(b, positions, rng, false)
	}
	for i := 0; i < bb.Effectors; i++ {
		bb.placePeripheral(b, positions, rng, true)
	}

	return b
}

// growNeighbor implements BrainBuilder step 2: pick an existing neuron,
// offset it by a random unit-sphere vector scaled by U(min,max), clamp to
// the outer radius, create the neuron, and bind origin -> new. Skips (does
// not add) the neuron if the bind fails.
func (bb BrainBuilder) growNeighbor(b *Brain, neurons []NeuronID, rng *rand.Rand) (NeuronID, bool) {
	origin := neurons[rng.Intn(len(neurons))]
	originPos, ok := b.NeuronPosition(origin)
	if !ok {
		return NeuronID{}, false
	}
	dist := space.RandomUniformRange(bb.MinNeurogenesisRange, bb.MaxNeurogenesisRange, rng)
	newPos := space.RandomOffset(originPos, dist, rng)
	newPos = space.ClampToSphere(newPos, bb.Radius)

	id := b.CreateNeuron(newPos)
	if _, _, err := b.BindNeurons(origin, id); err != nil {
		_ = b.KillNeuron(id)
		return NeuronID{}, false
	}
	return id, true
}

// connectNeighbors implements BrainBuilder step 3: pick a random neuron A,
// restrict to neurons within MaxNeurogenesisRange of A, pick B uniformly
// from that set, and bind A -> B subject to the no-loop-connections rule.
func (bb BrainBuilder) connectNeighbors(b *Brain, positions []space.Entry, rng *rand.Rand) {
	if len(positions) == 0 {
		return
	}
	origin := positions[rng.Intn(len(positions))]

	candidates := positions
	grid, err := space.NewGrid(bb.MaxNeurogenesisRange, boundingOrigin(positions, bb.MaxNeurogenesisRange))
	if err == nil {
		grid.Rebuild(positions)
		candidates = grid.QueryWithinRadius(origin.Position, bb.MaxNeurogenesisRange)
	}
	filtered := make([]space.Entry, 0, len(candidates))
	for _, p := range candidates {
		if p.Position.Distance(origin.Position) <= bb.MaxNeurogenesisRange {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 {
		return
	}
	target := filtered[rng.Intn(len(filtered))]

	originID := common.Retag[space.Neuron, Neuron](origin.NeuronID)
	targetID := common.Retag[space.Neuron, Neuron](target.NeuronID)
	if originID == targetID {
		return
	}
	if bb.NoLoopConnections && (b.AreConnected(originID, targetID) || b.AreConnected(targetID, originID)) {
		return
	}
	_, _, _ = b.BindNeurons(originID, targetID)
}

// placePeripheral implements BrainBuilder steps 4/5: draw a random point on
// the outer sphere and attach a sensor (or effector) to its nearest neuron.
func (bb BrainBuilder) placePeripheral(b *Brain, positions []space.Entry, rng *rand.Rand, effector bool) {
	if len(positions) == 0 {
		return
	}
	pos := space.RandomPeripheralPosition(bb.Radius, rng)

	best := positions[0]
	bestDist := best.Position.DistanceSqr(pos)
	for _, p := range positions[1:] {
		if d := p.Position.DistanceSqr(pos); d < bestDist {
			best, bestDist = p, d
		}
	}

	nearest := common.Retag[space.Neuron, Neuron](best.NeuronID)
	if effector {
		_, _ = b.CreateEffector(nearest)
	} else {
		_, _ = b.CreateSensor(nearest)
	}
}
