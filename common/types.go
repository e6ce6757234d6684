// Package common defines identifiers and scalar types shared across the
// simulation packages: opaque entity handles, the fixed 3D coordinate frame,
// and a small family of named float64 aliases (Scalar, Rate, Threshold);
// Config and the tick engine use Scalar throughout.
package common

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Scalar is the single numeric type used throughout the simulation.
type Scalar = float64

// ID is an opaque, globally-unique, type-tagged identifier. T never appears
// in a value of ID[T]; it only prevents an ID[Neuron] from being accepted
// where an ID[Synapse] is expected.
type ID[T any] struct {
	uuid uuid.UUID
}

// NewID generates a fresh random (v4) identifier for entity kind T.
func NewID[T any]() ID[T] {
	return ID[T]{uuid: uuid.New()}
}

// IsZero reports whether id is the zero value (never returned by NewID).
func (id ID[T]) IsZero() bool {
	return id.uuid == uuid.Nil
}

// String renders the canonical dashed hex form.
func (id ID[T]) String() string {
	return id.uuid.String()
}

// Bytes returns the 16-byte binary form used at serialization/FFI boundaries.
func (id ID[T]) Bytes() [16]byte {
	var b [16]byte
	copy(b[:], id.uuid[:])
	return b
}

// MarshalText implements encoding.TextMarshaler so ID[T] renders as a plain
// string in JSON rather than a base64 byte array.
func (id ID[T]) MarshalText() ([]byte, error) {
	return []byte(id.uuid.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID[T]) UnmarshalText(text []byte) error {
	u, err := uuid.Parse(string(text))
	if err != nil {
		return fmt.Errorf("common: parse id: %w", err)
	}
	id.uuid = u
	return nil
}

var (
	_ json.Marshaler   = ID[struct{}]{}
	_ json.Unmarshaler = (*ID[struct{}])(nil)
)

// MarshalJSON is implemented explicitly (rather than relying solely on
// MarshalText) so a zero ID still round-trips through json.Marshal in
// contexts that construct the value via reflection.
func (id ID[T]) MarshalJSON() ([]byte, error) {
	text, err := id.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID[T]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return id.UnmarshalText([]byte(s))
}

// Retag reinterprets an identifier under a different phantom type without
// touching the underlying UUID. It exists for package boundaries (e.g. the
// space package's spatial index) that need to carry a neuron identifier
// without importing the package that defines the real entity type.
func Retag[T, U any](id ID[T]) ID[U] {
	return ID[U]{uuid: id.uuid}
}

// Rate represents a per-tick rate (decay, inhibition, excitation gain).
type Rate = Scalar

// Threshold represents a firing or budding threshold.
type Threshold = Scalar
