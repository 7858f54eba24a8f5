// Package serialiser provides the per-property-type byte serialisers
// that a Schema binds to each TypeDefinition at load time. The codec
// never inspects a Go value's type to pick a serialiser — the Schema
// resolves the serialiser once, and the codec just calls it.
package serialiser

import "fmt"

// ToBytesSerialiser turns a property value into bytes and back. Vertex
// identity serialisers additionally promise order preservation (see
// StringSerialiser and OrderedInt64Serialiser below); value-slot
// serialisers need not.
type ToBytesSerialiser interface {
	// Serialise encodes v. It returns an error if v is not a type this
	// serialiser can handle.
	Serialise(v any) ([]byte, error)
	// Deserialise decodes b back into a value.
	Deserialise(b []byte) (any, error)
	// SerialiseNull returns the sentinel written when a property is
	// declared but absent from the input. It may be empty.
	SerialiseNull() []byte
	// DeserialiseEmpty returns the value produced when a decoded
	// length is zero. ElemCodec and PropCodec call it for every
	// zero-length frame; returning the zero value of CanHandle's type
	// is a safe implementation.
	DeserialiseEmpty() any
	// CanHandle reports whether this serialiser can encode v.
	CanHandle(v any) bool
}

// ErrUnsupportedType is returned by Serialise when v is not a type the
// serialiser handles.
type ErrUnsupportedType struct {
	Serialiser string
	Value      any
}

func (e *ErrUnsupportedType) Error() string {
	return fmt.Sprintf("%s: cannot serialise value of type %T", e.Serialiser, e.Value)
}
