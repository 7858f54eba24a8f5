package serialiser

import "encoding/binary"

// RawInt32Serialiser encodes an int32 as its raw 4-byte big-endian bit
// pattern with no sign-bit adjustment. Like RawDoubleSerialiser, it
// does not preserve ordering across negative/non-negative boundaries
// and is only suitable for value-slot or group-by properties whose
// domain is known never to need cross-sign ordered comparison.
type RawInt32Serialiser struct{}

func (RawInt32Serialiser) Serialise(v any) ([]byte, error) {
	i, ok := asInt32(v)
	if !ok {
		return nil, &ErrUnsupportedType{Serialiser: "RawInt32Serialiser", Value: v}
	}
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(i))
	return b, nil
}

func (RawInt32Serialiser) Deserialise(b []byte) (any, error) {
	if len(b) != 4 {
		return nil, &ErrUnsupportedType{Serialiser: "RawInt32Serialiser", Value: b}
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (RawInt32Serialiser) SerialiseNull() []byte {
	return []byte{}
}

func (RawInt32Serialiser) DeserialiseEmpty() any {
	return int32(0)
}

func (RawInt32Serialiser) CanHandle(v any) bool {
	_, ok := asInt32(v)
	return ok
}
