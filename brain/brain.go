package brain

import (
	"math/rand"
	"sync"

	"synapsim/common"
	"synapsim/config"
)

// Brain is the single owning container of a complete simulated network: its
// neurons, synapses, sensors, effectors and the Config that governs their
// tick-by-tick evolution. All cross-entity references are identifiers; no
// pointer crosses the Brain boundary.
//
// A Brain is safe for concurrent readers once mu is held; Process must not
// run concurrently with any mutator.
type Brain struct {
	mu sync.RWMutex

	id        common.ID[Brain]
	cfg       config.Config
	rng       *rand.Rand
	neurons   map[NeuronID]*Neuron
	synapses  map[SynapseID]*synapseState
	sensors   map[SensorID]*sensorState
	effectors map[EffectorID]*effectorState

	// bySourceTarget indexes synapses by (source,target) for the "at most
	// one synapse per ordered pair" invariant and O(1) AreConnected checks.
	bySourceTarget map[[2]NeuronID]SynapseID
	// outgoing/incoming index synapse ids by endpoint for fast fan-out
	// during Phase A/B/C and cascading removal on KillNeuron.
	outgoing map[NeuronID]map[SynapseID]struct{}
	incoming map[NeuronID]map[SynapseID]struct{}
	// sensorByTarget / effectorBySource enforce the sensor/effector mutual
	// exclusion and let BindNeurons/CreateSensor/CreateEffector check in O(1).
	sensorByTarget   map[NeuronID]SensorID
	effectorBySource map[NeuronID]EffectorID
}

// New creates an empty Brain governed by cfg, seeded from rng. Passing a nil
// rng is a programmer error; callers that don't care about reproducibility
// should still pass rand.New(rand.NewSource(seed)) explicitly, per the
// "stochasticity as injected capability" design note.
func New(cfg config.Config, rng *rand.Rand) *Brain {
	return &Brain{
		id:               common.NewID[Brain](),
		cfg:              cfg,
		rng:              rng,
		neurons:          make(map[NeuronID]*Neuron),
		synapses:         make(map[SynapseID]*synapseState),
		sensors:          make(map[SensorID]*sensorState),
		effectors:        make(map[EffectorID]*effectorState),
		bySourceTarget:   make(map[[2]NeuronID]SynapseID),
		outgoing:         make(map[NeuronID]map[SynapseID]struct{}),
		incoming:         make(map[NeuronID]map[SynapseID]struct{}),
		sensorByTarget:   make(map[NeuronID]SensorID),
		effectorBySource: make(map[NeuronID]EffectorID),
	}
}

// ID returns the brain's own identifier.
func (b *Brain) ID() common.ID[Brain] { return b.id }

// Config returns a copy of the brain's current configuration.
func (b *Brain) Config() config.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cfg
}

// SetConfig replaces the brain's configuration, effective starting with the
// next Process call.
func (b *Brain) SetConfig(cfg config.Config) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg = cfg
}

// NeuronsCount returns the number of live neurons.
func (b *Brain) NeuronsCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.neurons)
}

// SynapsesCount returns the number of live synapses.
func (b *Brain) SynapsesCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.synapses)
}

// Neurons returns the identifiers of every live neuron, in no particular order.
func (b *Brain) Neurons() []NeuronID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]NeuronID, 0, len(b.neurons))
	for id := range b.neurons {
		out = append(out, id)
	}
	return out
}

// Sensors returns the identifiers of every live sensor.
func (b *Brain) Sensors() []SensorID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]SensorID, 0, len(b.sensors))
	for id := range b.sensors {
		out = append(out, id)
	}
	return out
}

// Effectors returns the identifiers of every live effector.
func (b *Brain) Effectors() []EffectorID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]EffectorID, 0, len(b.effectors))
	for id := range b.effectors {
		out = append(out, id)
	}
	return out
}

// NeuronPosition returns the position of neuron id, or false if absent.
func (b *Brain) NeuronPosition(id NeuronID) (common.Position, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n, ok := b.neurons[id]
	if !ok {
		return common.Position{}, false
	}
	return n.position, true
}

// NeuronPotential returns the current potential of neuron id, or false if absent.
func (b *Brain) NeuronPotential(id NeuronID) (common.Scalar, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n, ok := b.neurons[id]
	if !ok {
		return 0, false
	}
	return n.potential, true
}

// CreateNeuron inserts a new neuron at position with zero potential. Always
// succeeds.
func (b *Brain) CreateNeuron(position common.Position) NeuronID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createNeuronLocked(position)
}

func (b *Brain) createNeuronLocked(position common.Position) NeuronID {
	id := common.NewID[Neuron]()
	b.neurons[id] = &Neuron{id: id, ownerID: b.id, position: position}
	b.outgoing[id] = make(map[SynapseID]struct{})
	b.incoming[id] = make(map[SynapseID]struct{})
	return id
}

// KillNeuron removes the neuron and, transitively, every incident synapse,
// sensor or effector. Fails with KindNeuronDoesNotExist if id is absent.
func (b *Brain) KillNeuron(id NeuronID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.killNeuronLocked(id)
}

func (b *Brain) killNeuronLocked(id NeuronID) error {
	if _, ok := b.neurons[id]; !ok {
		return newError("KillNeuron", KindNeuronDoesNotExist)
	}
	for synID := range b.outgoing[id] {
		b.removeSynapseLocked(synID)
	}
	for synID := range b.incoming[id] {
		b.removeSynapseLocked(synID)
	}
	if sensorID, ok := b.sensorByTarget[id]; ok {
		delete(b.sensors, sensorID)
		delete(b.sensorByTarget, id)
	}
	if effectorID, ok := b.effectorBySource[id]; ok {
		delete(b.effectors, effectorID)
		delete(b.effectorBySource, id)
	}
	delete(b.neurons, id)
	delete(b.outgoing, id)
	delete(b.incoming, id)
	return nil
}

func (b *Brain) removeSynapseLocked(id SynapseID) {
	syn, ok := b.synapses[id]
	if !ok {
		return
	}
	delete(b.bySourceTarget, [2]NeuronID{syn.source, syn.target})
	delete(b.outgoing[syn.source], id)
	delete(b.incoming[syn.target], id)
	delete(b.synapses, id)
}

// CreateSensor attaches a sensor to target. Fails if target is missing or
// already carries a sensor or an effector.
func (b *Brain) CreateSensor(target NeuronID) (SensorID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.neurons[target]; !ok {
		return SensorID{}, newError("CreateSensor", KindNeuronDoesNotExist)
	}
	if _, ok := b.sensorByTarget[target]; ok {
		return SensorID{}, newError("CreateSensor", KindNeuronIsAlreadyConnectedToSensor)
	}
	if _, ok := b.effectorBySource[target]; ok {
		return SensorID{}, newError("CreateSensor", KindNeuronIsAlreadyConnectedToEffector)
	}
	id := common.NewID[Sensor]()
	b.sensors[id] = &sensorState{id: id, target: target}
	b.sensorByTarget[target] = id
	return id, nil
}

// KillSensor removes sensor id. Fails if absent.
func (b *Brain) KillSensor(id SensorID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sensors[id]
	if !ok {
		return newError("KillSensor", KindSensorDoesNotExist)
	}
	delete(b.sensorByTarget, s.target)
	delete(b.sensors, id)
	return nil
}

// CreateEffector attaches an effector to source. Fails if source is missing
// or already carries an effector or a sensor.
func (b *Brain) CreateEffector(source NeuronID) (EffectorID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.neurons[source]; !ok {
		return EffectorID{}, newError("CreateEffector", KindNeuronDoesNotExist)
	}
	if _, ok := b.effectorBySource[source]; ok {
		return EffectorID{}, newError("CreateEffector", KindNeuronIsAlreadyConnectedToEffector)
	}
	if _, ok := b.sensorByTarget[source]; ok {
		return EffectorID{}, newError("CreateEffector", KindNeuronIsAlreadyConnectedToSensor)
	}
	id := common.NewID[Effector]()
	b.effectors[id] = &effectorState{id: id, source: source}
	b.effectorBySource[source] = id
	return id, nil
}

// KillEffector removes effector id. Fails if absent.
func (b *Brain) KillEffector(id EffectorID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.effectors[id]
	if !ok {
		return newError("KillEffector", KindEffectorDoesNotExist)
	}
	delete(b.effectorBySource, e.source)
	delete(b.effectors, id)
	return nil
}

// AreConnected reports whether a synapse from -> to exists.
func (b *Brain) AreConnected(from, to NeuronID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.bySourceTarget[[2]NeuronID{from, to}]
	return ok
}

// BindNeurons creates a synapse from -> to, or reports an existing one.
// Precondition ordering: self-loop -> missing-endpoint -> already-connected
// (idempotent success) -> sensor-at-target -> effector-at-source -> create.
//
// created reports whether a new synapse was created (false on the idempotent
// already-connected path).
func (b *Brain) BindNeurons(from, to NeuronID) (receptors common.Scalar, created bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bindNeuronsLocked(from, to)
}

func (b *Brain) bindNeuronsLocked(from, to NeuronID) (common.Scalar, bool, error) {
	if from == to {
		return 0, false, newError("BindNeurons", KindBindingNeuronToItSelf)
	}
	fromN, fromOK := b.neurons[from]
	_, toOK := b.neurons[to]
	if !fromOK || !toOK {
		return 0, false, newError("BindNeurons", KindNeuronDoesNotExist)
	}
	if existing, ok := b.bySourceTarget[[2]NeuronID{from, to}]; ok {
		return b.synapses[existing].receptors, false, nil
	}
	if _, ok := b.sensorByTarget[to]; ok {
		return 0, false, newError("BindNeurons", KindBindingNeuronToSensor)
	}
	if _, ok := b.effectorBySource[from]; ok {
		return 0, false, newError("BindNeurons", KindBindingEffectorToNeuron)
	}
	distance := fromN.position.Distance(b.neurons[to].position)
	receptors := config.RandomDefaultReceptors(b.cfg, b.rng)
	id := common.NewID[Synapse]()
	b.synapses[id] = &synapseState{
		id:        id,
		source:    from,
		target:    to,
		distance:  distance,
		receptors: receptors,
	}
	b.bySourceTarget[[2]NeuronID{from, to}] = id
	b.outgoing[from][id] = struct{}{}
	b.incoming[to][id] = struct{}{}
	return receptors, true, nil
}

// UnbindNeurons removes the synapse from -> to if one exists. existed
// reports whether it did. Fails on self-pair or a missing endpoint.
func (b *Brain) UnbindNeurons(from, to NeuronID) (existed bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if from == to {
		return false, newError("UnbindNeurons", KindUnbindingNeuronFromItSelf)
	}
	if _, ok := b.neurons[from]; !ok {
		return false, newError("UnbindNeurons", KindNeuronDoesNotExist)
	}
	if _, ok := b.neurons[to]; !ok {
		return false, newError("UnbindNeurons", KindNeuronDoesNotExist)
	}
	id, ok := b.bySourceTarget[[2]NeuronID{from, to}]
	if !ok {
		return false, nil
	}
	b.removeSynapseLocked(id)
	return true, nil
}

// SensorTriggerImpulse adds potential to the target neuron of sensor id.
// Fails if the sensor or its target is missing.
func (b *Brain) SensorTriggerImpulse(id SensorID, potential common.Scalar) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sensors[id]
	if !ok {
		return newError("SensorTriggerImpulse", KindSensorDoesNotExist)
	}
	n, ok := b.neurons[s.target]
	if !ok {
		return newError("SensorTriggerImpulse", KindNeuronDoesNotExist)
	}
	n.potential += potential
	return nil
}

// EffectorPotentialRelease returns effector id's current potential and
// resets it to zero. Fails if absent.
func (b *Brain) EffectorPotentialRelease(id EffectorID) (common.Scalar, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.effectors[id]
	if !ok {
		return 0, newError("EffectorPotentialRelease", KindEffectorDoesNotExist)
	}
	v := e.potential
	e.potential = 0
	return v, nil
}

// KillImpulses zeros every neuron potential, drops every in-flight impulse,
// and zeros every effector potential. Topology is preserved.
func (b *Brain) KillImpulses() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range b.neurons {
		n.potential = 0
	}
	for _, s := range b.synapses {
		s.impulses = nil
	}
	for _, e := range b.effectors {
		e.potential = 0
	}
}
