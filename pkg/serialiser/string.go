package serialiser

// StringSerialiser encodes a string as its raw UTF-8 bytes. UTF-8's
// byte-wise encoding preserves the natural ordering of Go strings
// (which already compare byte-wise), so it is suitable as a vertex
// serialiser.
type StringSerialiser struct{}

func (StringSerialiser) Serialise(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, &ErrUnsupportedType{Serialiser: "StringSerialiser", Value: v}
	}
	return []byte(s), nil
}

func (StringSerialiser) Deserialise(b []byte) (any, error) {
	return string(b), nil
}

func (StringSerialiser) SerialiseNull() []byte {
	return []byte{}
}

func (StringSerialiser) DeserialiseEmpty() any {
	return ""
}

func (StringSerialiser) CanHandle(v any) bool {
	_, ok := v.(string)
	return ok
}
