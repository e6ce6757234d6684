package brain

import (
	"synapsim/common"
	"synapsim/config"
	"synapsim/space"
)

type delivery struct {
	target    NeuronID
	potential common.Scalar
}

// Process advances the brain by one tick of Δt, executing phases A through F
// in strict order. It returns immediately (nil) on an empty brain. It always
// returns nil: a failed internal BindNeurons call while rewiring (Phase C) or
// budding (Phase F) is dropped as a no-op for that one candidate and does not
// otherwise affect the tick.
func (b *Brain) Process(dt common.Scalar) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.neurons) == 0 {
		return nil
	}

	cfg := b.cfg

	b.phaseA(dt, cfg)
	b.phaseB(dt, cfg)
	if err := b.phaseC(dt, cfg); err != nil {
		return err
	}
	b.phaseD()
	b.phaseE()
	if err := b.phaseF(cfg); err != nil {
		return err
	}
	return nil
}

// phaseA is potential summation, firing, and decay.
func (b *Brain) phaseA(dt common.Scalar, cfg config.Config) {
	type firing struct {
		id        NeuronID
		potential common.Scalar
	}
	var firingNeurons []firing

	d := dt * cfg.NeuronPotentialDecay
	for id, n := range b.neurons {
		p := n.potential
		fired := p >= cfg.ActionPotentialThreshold
		if fired {
			n.potential = 0
		}
		n.potential = decayTowardZero(n.potential, d)
		if fired {
			firingNeurons = append(firingNeurons, firing{id: id, potential: p})
		}
	}

	for _, f := range firingNeurons {
		eligible := make([]SynapseID, 0, len(b.outgoing[f.id]))
		for synID := range b.outgoing[f.id] {
			syn := b.synapses[synID]
			if syn.inactivity > 0 {
				continue
			}
			if cfg.SynapseOverdoseReceptors != nil && syn.receptors >= *cfg.SynapseOverdoseReceptors {
				continue
			}
			eligible = append(eligible, synID)
		}
		k := len(eligible)
		if k == 0 {
			continue
		}
		share := f.potential / common.Scalar(k)
		for _, synID := range eligible {
			syn := b.synapses[synID]
			syn.impulses = append(syn.impulses, Impulse{Potential: share, Timeout: syn.distance})
			syn.inactivity = cfg.SynapseInactivityTime
		}
	}
}

// phaseB is impulse propagation and delivery.
func (b *Brain) phaseB(dt common.Scalar, cfg config.Config) {
	s := cfg.PropagationSpeed * dt
	r := cfg.ReceptorsExcitation * dt
	delta := cfg.SynapsePropagationDecay * s

	var deliveries []delivery
	for _, syn := range b.synapses {
		kept := syn.impulses[:0]
		var arrivals int
		for _, imp := range syn.impulses {
			imp.Potential -= delta
			imp.Timeout -= s
			if imp.Timeout <= 0 {
				arrivals++
				if imp.Potential > 0 {
					deliveries = append(deliveries, delivery{target: syn.target, potential: imp.Potential})
				}
				continue
			}
			if imp.Potential <= 0 {
				continue // lost in flight
			}
			kept = append(kept, imp)
		}
		syn.impulses = kept
		syn.receptors += common.Scalar(arrivals) * r
		syn.inactivity = decayTowardZero(syn.inactivity, dt)
	}

	for _, dl := range deliveries {
		if n, ok := b.neurons[dl.target]; ok {
			n.potential += dl.potential
		}
	}
}

// phaseC is inhibition, pruning, and stochastic rewiring.
func (b *Brain) phaseC(dt common.Scalar, cfg config.Config) error {
	if cfg.ReceptorsInhibition <= 0 {
		return nil
	}
	loss := cfg.ReceptorsInhibition * dt

	var dying []SynapseID
	for id, syn := range b.synapses {
		syn.receptors -= loss
		if syn.receptors <= 0 {
			dying = append(dying, id)
		}
	}
	if len(dying) == 0 {
		return nil
	}

	type rewire struct{ source, candidate NeuronID }
	var accepted []rewire
	for _, id := range dying {
		syn := b.synapses[id]
		candidate, ok := b.selectNeuronLocked(syn.source, cfg)
		if !ok || candidate == syn.source {
			continue
		}
		if b.connectedEitherDirectionLocked(syn.source, candidate) {
			continue
		}
		accepted = append(accepted, rewire{source: syn.source, candidate: candidate})
	}

	for _, id := range dying {
		b.removeSynapseLocked(id)
	}
	for _, rw := range accepted {
		if _, _, err := b.bindNeuronsLocked(rw.source, rw.candidate); err != nil {
			continue
		}
	}
	return nil
}

// phaseD is the orphan-neuron sweep.
func (b *Brain) phaseD() {
	var orphans []NeuronID
	for id := range b.neurons {
		if len(b.outgoing[id]) == 0 && len(b.incoming[id]) == 0 {
			orphans = append(orphans, id)
		}
	}
	for _, id := range orphans {
		_ = b.killNeuronLocked(id)
	}
}

// phaseE publishes source-neuron potential to every effector.
func (b *Brain) phaseE() {
	for _, e := range b.effectors {
		if n, ok := b.neurons[e.source]; ok {
			e.potential = n.potential
		}
	}
}

// phaseF is budding: saturated synapses spawn a sibling from their source.
func (b *Brain) phaseF(cfg config.Config) error {
	if cfg.SynapseNewConnectionReceptors == nil {
		return nil
	}
	threshold := *cfg.SynapseNewConnectionReceptors

	var budders []SynapseID
	for id, syn := range b.synapses {
		if syn.receptors > threshold {
			budders = append(budders, id)
		}
	}

	for _, id := range budders {
		syn, ok := b.synapses[id]
		if !ok {
			continue
		}
		candidate, ok := b.selectNeuronLocked(syn.source, cfg)
		if !ok || candidate == syn.source {
			continue
		}
		if b.connectedEitherDirectionLocked(syn.source, candidate) {
			continue
		}
		receptors, created, err := b.bindNeuronsLocked(syn.source, candidate)
		if err != nil || !created {
			continue
		}
		syn.receptors -= receptors
	}
	return nil
}

func (b *Brain) connectedEitherDirectionLocked(a, c NeuronID) bool {
	_, fwd := b.bySourceTarget[[2]NeuronID{a, c}]
	_, rev := b.bySourceTarget[[2]NeuronID{c, a}]
	return fwd || rev
}

// selectNeuronLocked implements select_neuron(origin_pos): a uniformly
// random neuron that is not a sensor target and, if
// SynapseReconnectionRange is set, lies strictly outside that radius of
// origin's position.
func (b *Brain) selectNeuronLocked(origin NeuronID, cfg config.Config) (NeuronID, bool) {
	originN, ok := b.neurons[origin]
	if !ok {
		return NeuronID{}, false
	}

	all := make([]space.Entry, 0, len(b.neurons))
	for id, n := range b.neurons {
		if _, isSensorTarget := b.sensorByTarget[id]; isSensorTarget {
			continue
		}
		all = append(all, space.Entry{NeuronID: common.Retag[Neuron, space.Neuron](id), Position: n.position})
	}
	if len(all) == 0 {
		return NeuronID{}, false
	}

	candidates := all
	if cfg.SynapseReconnectionRange != nil {
		grid, err := space.NewGrid(*cfg.SynapseReconnectionRange, boundingOrigin(all, *cfg.SynapseReconnectionRange))
		if err == nil {
			grid.Rebuild(all)
			candidates = grid.QueryOutsideRadius(originN.position, *cfg.SynapseReconnectionRange, all)
		}
	}
	if len(candidates) == 0 {
		return NeuronID{}, false
	}
	pick := candidates[b.rng.Intn(len(candidates))]
	return common.Retag[space.Neuron, Neuron](pick.NeuronID), true
}

func boundingOrigin(entries []space.Entry, cellSize common.Scalar) common.Position {
	if len(entries) == 0 {
		return common.Position{}
	}
	lo := entries[0].Position
	for _, e := range entries[1:] {
		if e.Position.X < lo.X {
			lo.X = e.Position.X
		}
		if e.Position.Y < lo.Y {
			lo.Y = e.Position.Y
		}
		if e.Position.Z < lo.Z {
			lo.Z = e.Position.Z
		}
	}
	return common.Position{X: lo.X - cellSize, Y: lo.Y - cellSize, Z: lo.Z - cellSize}
}

func decayTowardZero(v, d common.Scalar) common.Scalar {
	if d < 0 {
		d = -d
	}
	switch {
	case v > 0:
		if v-d < 0 {
			return 0
		}
		return v - d
	case v < 0:
		if v+d > 0 {
			return 0
		}
		return v + d
	default:
		return 0
	}
}
