package brain

import "fmt"

// Kind enumerates the distinct error categories structural mutators can
// return. Callers discriminate with errors.Is against the Kind sentinels
// below, or errors.As against *Error for the failing operation's name.
type Kind int

const (
	// KindNeuronDoesNotExist is returned when an operation names a neuron id
	// that is not present in the brain.
	KindNeuronDoesNotExist Kind = iota
	// KindSensorDoesNotExist is returned for an absent sensor id.
	KindSensorDoesNotExist
	// KindEffectorDoesNotExist is returned for an absent effector id.
	KindEffectorDoesNotExist
	// KindBindingNeuronToItSelf is returned when from == to in BindNeurons.
	KindBindingNeuronToItSelf
	// KindUnbindingNeuronFromItSelf is returned when from == to in UnbindNeurons.
	KindUnbindingNeuronFromItSelf
	// KindBindingNeuronToSensor is returned when the target of BindNeurons
	// already carries a sensor.
	KindBindingNeuronToSensor
	// KindBindingEffectorToNeuron is returned when the source of BindNeurons
	// already drives an effector.
	KindBindingEffectorToNeuron
	// KindNeuronIsAlreadyConnectedToSensor is returned by CreateSensor when
	// the target neuron already has a sensor.
	KindNeuronIsAlreadyConnectedToSensor
	// KindNeuronIsAlreadyConnectedToEffector is returned by CreateEffector
	// when the source neuron already has an effector.
	KindNeuronIsAlreadyConnectedToEffector
	// KindIOError is reserved for persistence collaborators.
	KindIOError
)

func (k Kind) String() string {
	switch k {
	case KindNeuronDoesNotExist:
		return "NeuronDoesNotExist"
	case KindSensorDoesNotExist:
		return "SensorDoesNotExist"
	case KindEffectorDoesNotExist:
		return "EffectorDoesNotExist"
	case KindBindingNeuronToItSelf:
		return "BindingNeuronToItSelf"
	case KindUnbindingNeuronFromItSelf:
		return "UnbindingNeuronFromItSelf"
	case KindBindingNeuronToSensor:
		return "BindingNeuronToSensor"
	case KindBindingEffectorToNeuron:
		return "BindingEffectorToNeuron"
	case KindNeuronIsAlreadyConnectedToSensor:
		return "NeuronIsAlreadyConnectedToSensor"
	case KindNeuronIsAlreadyConnectedToEffector:
		return "NeuronIsAlreadyConnectedToEffector"
	case KindIOError:
		return "IOError"
	default:
		return "Unknown"
	}
}

// Error is the single error type returned by every Brain mutator. Op names
// the operation that failed (e.g. "BindNeurons"); Kind identifies the
// precondition that was violated.
type Error struct {
	Op   string
	Kind Kind
}

func (e *Error) Error() string {
	return fmt.Sprintf("brain: %s: %s", e.Op, e.Kind)
}

// Is supports errors.Is(err, brain.ErrKind(KindNeuronDoesNotExist)) style
// checks by comparing Kind only, ignoring Op.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// ErrKind builds a sentinel *Error carrying only a Kind, suitable as the
// target of errors.Is.
func ErrKind(k Kind) error {
	return &Error{Kind: k}
}

func newError(op string, kind Kind) *Error {
	return &Error{Op: op, Kind: kind}
}
