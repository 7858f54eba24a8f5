package serialiser

import (
	"encoding/binary"
	"math"
)

// RawDoubleSerialiser encodes a float64 as its raw 8-byte big-endian
// IEEE-754 bit pattern. Unlike OrderedInt64Serialiser it does not
// preserve ordering (negative floats sort the wrong way once the sign
// bit is top-most); Gaffer's RawDoubleSerialiser has the same
// limitation and is only used for value-slot properties, never as a
// vertex serialiser.
type RawDoubleSerialiser struct{}

func (RawDoubleSerialiser) Serialise(v any) ([]byte, error) {
	f, ok := asFloat64(v)
	if !ok {
		return nil, &ErrUnsupportedType{Serialiser: "RawDoubleSerialiser", Value: v}
	}
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(f))
	return b, nil
}

func (RawDoubleSerialiser) Deserialise(b []byte) (any, error) {
	if len(b) != 8 {
		return nil, &ErrUnsupportedType{Serialiser: "RawDoubleSerialiser", Value: b}
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func (RawDoubleSerialiser) SerialiseNull() []byte {
	return []byte{}
}

func (RawDoubleSerialiser) DeserialiseEmpty() any {
	return float64(0)
}

func (RawDoubleSerialiser) CanHandle(v any) bool {
	_, ok := asFloat64(v)
	return ok
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	default:
		return 0, false
	}
}
