package typedql

import "encoding/json"

// Value is the slot type of a selected field. Generated data structs have
// one type-parameter slot per schema field; selecting a field instantiates
// its slot as Value[H], where H is the Go type of the field, and exposes
// the typed accessor Val. Unselected slots stay [Skip], which has no Val,
// so reading an unselected field is a compile error for the consumer.
type Value[T any] struct {
	v T
}

// NewValue returns a Value holding v. It exists for tests and for
// constructing response fixtures by hand; decoded responses populate
// slots through UnmarshalJSON.
func NewValue[T any](v T) Value[T] {
	return Value[T]{v: v}
}

// Val returns the decoded field value.
func (s Value[T]) Val() T {
	return s.v
}

// UnmarshalJSON decodes the wire value of the field into the slot.
func (s *Value[T]) UnmarshalJSON(b []byte) error {
	return json.Unmarshal(b, &s.v)
}

// MarshalJSON encodes the held value. It allows decoded responses to be
// re-encoded, which tests use to build fixtures.
func (s Value[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.v)
}

// Skip is the slot type of an unselected field. It holds no value and has
// no accessor; a server can never populate it and a consumer can never
// read it.
type Skip struct{}

// UnmarshalJSON discards the wire value. A conforming server does not send
// unselected fields, but a stray one must not fail the whole decode.
func (Skip) UnmarshalJSON([]byte) error {
	return nil
}

// MarshalJSON encodes an unselected slot as null.
func (Skip) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}
