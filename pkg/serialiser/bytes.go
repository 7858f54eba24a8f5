package serialiser

// BytesSerialiser is the identity serialiser for raw []byte
// properties.
type BytesSerialiser struct{}

func (BytesSerialiser) Serialise(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, &ErrUnsupportedType{Serialiser: "BytesSerialiser", Value: v}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (BytesSerialiser) Deserialise(b []byte) (any, error) {
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (BytesSerialiser) SerialiseNull() []byte {
	return []byte{}
}

func (BytesSerialiser) DeserialiseEmpty() any {
	return []byte{}
}

func (BytesSerialiser) CanHandle(v any) bool {
	_, ok := v.([]byte)
	return ok
}

// BoolSerialiser encodes a bool as a single byte.
type BoolSerialiser struct{}

func (BoolSerialiser) Serialise(v any) ([]byte, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, &ErrUnsupportedType{Serialiser: "BoolSerialiser", Value: v}
	}
	if b {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

func (BoolSerialiser) Deserialise(b []byte) (any, error) {
	if len(b) != 1 {
		return nil, &ErrUnsupportedType{Serialiser: "BoolSerialiser", Value: b}
	}
	return b[0] != 0, nil
}

func (BoolSerialiser) SerialiseNull() []byte {
	return []byte{}
}

func (BoolSerialiser) DeserialiseEmpty() any {
	return false
}

func (BoolSerialiser) CanHandle(v any) bool {
	_, ok := v.(bool)
	return ok
}
