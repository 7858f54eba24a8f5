package codec

import (
	"github.com/vertexkv/vertexkv/pkg/element"
	"github.com/vertexkv/vertexkv/pkg/schema"
	"github.com/vertexkv/vertexkv/pkg/varframe"
)

// PropCodec serialises and deserialises an ordered list of a group's
// properties as a concatenation of VarFrame(len) ∥ raw_bytes pairs.
// It has no state of its own; every call is parameterised by the
// SchemaElementDefinition and property list it's given.
type PropCodec struct{}

// Serialise walks names in order and appends each one's framed bytes
// to the output. A property absent from props is written using its
// serialiser's null sentinel; a property with no bound serialiser at
// all is written as an empty frame, and warn (if non-nil) is notified
// so a declared-but-unserialisable property doesn't fail silently.
func (PropCodec) Serialise(group string, def *schema.SchemaElementDefinition, names []string, props element.Properties, warn schema.WarnFunc) ([]byte, error) {
	var out []byte
	for _, name := range names {
		td := def.PropertyTypeDef(name)
		if td == nil {
			if warn != nil {
				warn("schema: group %q property %q has no bound serialiser, encoding empty frame", group, name)
			}
			out = varframe.Write(0, out)
			continue
		}

		var raw []byte
		if v, ok := props[name]; ok && v != nil {
			b, err := td.Serialiser.Serialise(v)
			if err != nil {
				return nil, serializationFailed(group, name, err)
			}
			raw = b
		} else {
			raw = td.Serialiser.SerialiseNull()
		}
		out = varframe.AppendLen(raw, out)
	}
	return out, nil
}

// Deserialise walks buf, decoding one VarFrame-prefixed value per name
// in order, and stops early either when names is exhausted or when the
// cursor reaches the end of buf — a tail-truncated buf legally yields
// a strict prefix of the declared properties.
func (PropCodec) Deserialise(group string, def *schema.SchemaElementDefinition, names []string, buf []byte) (element.Properties, error) {
	props := make(element.Properties)
	pos := 0
	for _, name := range names {
		if pos >= len(buf) {
			break
		}

		length, advance, err := varframe.Read(buf, pos)
		if err != nil {
			return nil, corruptRecord("column data for "+group+"."+name, err)
		}
		pos += advance

		from, to := pos, pos+int(length)
		if to > len(buf) {
			return nil, corruptRecord("column data for "+group+"."+name, errFrameOverrunsBuffer)
		}
		pos = to

		td := def.PropertyTypeDef(name)
		if td == nil {
			continue
		}

		if from < to {
			v, err := td.Serialiser.Deserialise(buf[from:to])
			if err != nil {
				return nil, serializationFailed(group, name, err)
			}
			props[name] = v
		} else {
			// Present-but-zero-length still routes through
			// DeserialiseEmpty, not a bare nil — the serialiser
			// decides what "empty" means for its type.
			props[name] = td.Serialiser.DeserialiseEmpty()
		}
	}
	return props, nil
}

// PrefixBytesForFirstK returns the byte prefix of buf covering exactly
// the first k VarFrame-prefixed values, without decoding them. When k
// equals the total number of frames present, the input is returned
// unchanged with no copy.
func (PropCodec) PrefixBytesForFirstK(buf []byte, k int) ([]byte, error) {
	if k <= 0 {
		return []byte{}, nil
	}

	pos := 0
	for i := 0; i < k; i++ {
		if pos >= len(buf) {
			return buf[:pos], nil
		}
		length, advance, err := varframe.Read(buf, pos)
		if err != nil {
			return nil, corruptRecord("prefix projection", err)
		}
		pos += advance
		to := pos + int(length)
		if to > len(buf) {
			return nil, corruptRecord("prefix projection", errFrameOverrunsBuffer)
		}
		pos = to
	}

	if pos == len(buf) {
		return buf, nil
	}
	return buf[:pos], nil
}

var errFrameOverrunsBuffer = frameOverrunError{}

type frameOverrunError struct{}

func (frameOverrunError) Error() string { return "declared frame length exceeds remaining buffer" }
