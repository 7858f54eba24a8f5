package codec

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/vertexkv/vertexkv/pkg/element"
	"github.com/vertexkv/vertexkv/pkg/schema"
)

// friendDef returns the "friend" group definition used throughout
// this package's tests: group_by is since (a raw 4-byte int32), value
// slot is weight (a raw 8-byte double).
func friendDef() *schema.SchemaElementDefinition {
	s, err := schema.Parse([]byte(`
vertex:
  serialiser: string
groups:
  friend:
    properties: [since, weight]
    groupBy: [since]
    types:
      since: rawint32
      weight: rawdouble
`))
	if err != nil {
		panic(err)
	}
	return s.Element("friend")
}

func TestPropCodecSerialiseDeserialiseRoundTrip(t *testing.T) {
	def := friendDef()
	props := element.Properties{"since": int32(3), "weight": 1.0}

	var pc PropCodec
	buf, err := pc.Serialise("friend", def, def.Properties, props, nil)
	if err != nil {
		t.Fatalf("Serialise: %v", err)
	}

	got, err := pc.Deserialise("friend", def, def.Properties, buf)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if got["since"] != int32(3) {
		t.Errorf("since = %v, want 3", got["since"])
	}
	if got["weight"] != 1.0 {
		t.Errorf("weight = %v, want 1.0", got["weight"])
	}
}

func TestPropCodecLiteralColumnQualifier(t *testing.T) {
	def := friendDef()
	props := element.Properties{"since": int32(3)}

	var pc PropCodec
	buf, err := pc.Serialise("friend", def, []string{"since"}, props, nil)
	if err != nil {
		t.Fatalf("Serialise: %v", err)
	}
	want := []byte{0x04, 0x00, 0x00, 0x00, 0x03}
	if !bytes.Equal(buf, want) {
		t.Errorf("cq = %x, want %x", buf, want)
	}
}

func TestPropCodecAbsentPropertyUsesNullSentinel(t *testing.T) {
	def := friendDef()
	var pc PropCodec
	buf, err := pc.Serialise("friend", def, []string{"since", "weight"}, element.Properties{"since": int32(3)}, nil)
	if err != nil {
		t.Fatalf("Serialise: %v", err)
	}

	got, err := pc.Deserialise("friend", def, []string{"since", "weight"}, buf)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if got["weight"] != float64(0) {
		t.Errorf("weight = %v, want zero value from DeserialiseEmpty", got["weight"])
	}
}

func TestPropCodecTailTruncationToleratesMissingTrailingProperties(t *testing.T) {
	def := friendDef()
	var pc PropCodec
	full, err := pc.Serialise("friend", def, []string{"since", "weight"}, element.Properties{"since": int32(3), "weight": 1.0}, nil)
	if err != nil {
		t.Fatalf("Serialise: %v", err)
	}

	truncated := full[:5] // only the complete since frame: 1-byte length + 4-byte int32
	got, err := pc.Deserialise("friend", def, []string{"since", "weight"}, truncated)
	if err != nil {
		t.Fatalf("Deserialise of truncated buffer should not error: %v", err)
	}
	if got["since"] != int32(3) {
		t.Errorf("since = %v, want 3", got["since"])
	}
	if _, ok := got["weight"]; ok {
		t.Errorf("weight should be absent after truncation, got %v", got["weight"])
	}
}

func TestPropCodecPrefixBytesForFirstKMatchesDirectSerialise(t *testing.T) {
	def := friendDef()
	var pc PropCodec
	props := element.Properties{"since": int32(3), "weight": 1.0}

	full, err := pc.Serialise("friend", def, []string{"since", "weight"}, props, nil)
	if err != nil {
		t.Fatalf("Serialise: %v", err)
	}

	prefix, err := pc.PrefixBytesForFirstK(full, 1)
	if err != nil {
		t.Fatalf("PrefixBytesForFirstK: %v", err)
	}
	wantPrefix, err := pc.Serialise("friend", def, []string{"since"}, props, nil)
	if err != nil {
		t.Fatalf("Serialise: %v", err)
	}
	if !bytes.Equal(prefix, wantPrefix) {
		t.Errorf("prefix(1) = %x, want %x", prefix, wantPrefix)
	}

	full2, err := pc.PrefixBytesForFirstK(full, 2)
	if err != nil {
		t.Fatalf("PrefixBytesForFirstK: %v", err)
	}
	if !bytes.Equal(full2, full) {
		t.Error("prefix covering all frames should equal input unchanged")
	}
}

func TestPropCodecCorruptLengthErrors(t *testing.T) {
	def := friendDef()
	var pc PropCodec
	buf := []byte{0x7f, 0x00}
	if _, err := pc.Deserialise("friend", def, []string{"since"}, buf); err == nil {
		t.Fatal("expected CorruptRecord for a declared length exceeding the buffer")
	}
}

func TestPropCodecSerialiseWarnsOnMissingGroupBySerialiser(t *testing.T) {
	s, err := schema.Parse([]byte(`
vertex:
  serialiser: string
groups:
  friend:
    properties: [since, weight]
    groupBy: [since]
    types:
      weight: rawdouble
`))
	if err != nil {
		t.Fatalf("schema.Parse: %v", err)
	}
	def := s.Element("friend")

	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	var pc PropCodec
	if _, err := pc.Serialise("friend", def, def.GroupBy, element.Properties{"since": int32(3)}, warn); err != nil {
		t.Fatalf("Serialise: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "friend") || !strings.Contains(warnings[0], "since") {
		t.Errorf("warning %q should name the group and property", warnings[0])
	}
}

func TestPropCodecEmptyInputYieldsEmptyProperties(t *testing.T) {
	def := friendDef()
	var pc PropCodec
	got, err := pc.Deserialise("friend", def, def.Properties, nil)
	if err != nil {
		t.Fatalf("Deserialise: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}
