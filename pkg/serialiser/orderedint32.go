package serialiser

import "encoding/binary"

// OrderedInt32Serialiser encodes an int32 as 4 big-endian bytes with
// the sign bit flipped, the 32-bit sibling of OrderedInt64Serialiser.
type OrderedInt32Serialiser struct{}

func (OrderedInt32Serialiser) Serialise(v any) ([]byte, error) {
	i, ok := asInt32(v)
	if !ok {
		return nil, &ErrUnsupportedType{Serialiser: "OrderedInt32Serialiser", Value: v}
	}
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(i)^0x80000000)
	return b, nil
}

func (OrderedInt32Serialiser) Deserialise(b []byte) (any, error) {
	if len(b) != 4 {
		return nil, &ErrUnsupportedType{Serialiser: "OrderedInt32Serialiser", Value: b}
	}
	u := binary.BigEndian.Uint32(b) ^ 0x80000000
	return int32(u), nil
}

func (OrderedInt32Serialiser) SerialiseNull() []byte {
	return []byte{}
}

func (OrderedInt32Serialiser) DeserialiseEmpty() any {
	return int32(0)
}

func (OrderedInt32Serialiser) CanHandle(v any) bool {
	_, ok := asInt32(v)
	return ok
}

func asInt32(v any) (int32, bool) {
	switch x := v.(type) {
	case int32:
		return x, true
	case int:
		return int32(x), true
	default:
		return 0, false
	}
}
