package codec

import (
	"bytes"
	"testing"

	"github.com/vertexkv/vertexkv/pkg/escape"
)

func TestByteOrderedLayoutRoundTrip(t *testing.T) {
	layout := ByteOrderedLayout{}
	a, b := []byte("alice"), []byte("bob")

	row := layout.BuildEdgeRow(a, b, flagDirectedPrimary)
	gotA, gotB, flag, err := layout.ParseEdgeRow(row)
	if err != nil {
		t.Fatalf("ParseEdgeRow: %v", err)
	}
	if !bytes.Equal(gotA, a) || !bytes.Equal(gotB, b) {
		t.Errorf("got (%s, %s), want (%s, %s)", gotA, gotB, a, b)
	}
	if flag != flagDirectedPrimary {
		t.Errorf("flag = %v, want flagDirectedPrimary", flag)
	}
}

func TestByteOrderedLayoutPreservesEndpointOrder(t *testing.T) {
	layout := ByteOrderedLayout{}
	rowA := layout.BuildEdgeRow([]byte("aaa"), []byte("zzz"), flagUndirectedPrimary)
	rowB := layout.BuildEdgeRow([]byte("bbb"), []byte("zzz"), flagUndirectedPrimary)
	if bytes.Compare(rowA, rowB) >= 0 {
		t.Errorf("row keyed by %q should sort before row keyed by %q", "aaa", "bbb")
	}
}

func TestHashPrefixedLayoutRoundTrip(t *testing.T) {
	layout := HashPrefixedLayout{}
	a, b := []byte("alice"), []byte("bob")

	row := layout.BuildEdgeRow(a, b, flagUndirectedReverse)
	gotA, gotB, flag, err := layout.ParseEdgeRow(row)
	if err != nil {
		t.Fatalf("ParseEdgeRow: %v", err)
	}
	if !bytes.Equal(gotA, a) || !bytes.Equal(gotB, b) {
		t.Errorf("got (%s, %s), want (%s, %s)", gotA, gotB, a, b)
	}
	if flag != flagUndirectedReverse {
		t.Errorf("flag = %v, want flagUndirectedReverse", flag)
	}
}

func TestHashPrefixedLayoutIsDeterministic(t *testing.T) {
	layout := HashPrefixedLayout{}
	row1 := layout.BuildEdgeRow([]byte("alice"), []byte("bob"), flagDirectedPrimary)
	row2 := layout.BuildEdgeRow([]byte("alice"), []byte("bob"), flagDirectedPrimary)
	if !bytes.Equal(row1, row2) {
		t.Error("BuildEdgeRow should be a pure function of its inputs")
	}
}

func TestParseEdgeRowRejectsInvalidFlagsByte(t *testing.T) {
	row := escape.Join([]byte("a"), []byte("b"), []byte{0x7f})
	if _, _, _, err := (ByteOrderedLayout{}).ParseEdgeRow(row); err == nil {
		t.Fatal("expected error for an out-of-range flags byte")
	}
}

func TestParseEdgeRowRejectsWrongSegmentCount(t *testing.T) {
	row := escape.Join([]byte("a"), []byte("b"))
	if _, _, _, err := (ByteOrderedLayout{}).ParseEdgeRow(row); err == nil {
		t.Fatal("expected error for a row missing its flags segment")
	}
}

func TestEdgeFlagForCombinations(t *testing.T) {
	cases := []struct {
		directed, reverse bool
		want              edgeFlag
	}{
		{false, false, flagUndirectedPrimary},
		{false, true, flagUndirectedReverse},
		{true, false, flagDirectedPrimary},
		{true, true, flagDirectedReverse},
	}
	for _, c := range cases {
		got := edgeFlagFor(c.directed, c.reverse)
		if got != c.want {
			t.Errorf("edgeFlagFor(%v, %v) = %v, want %v", c.directed, c.reverse, got, c.want)
		}
		if got.directed() != c.directed {
			t.Errorf("flag %v .directed() = %v, want %v", got, got.directed(), c.directed)
		}
		if got.reverse() != c.reverse {
			t.Errorf("flag %v .reverse() = %v, want %v", got, got.reverse(), c.reverse)
		}
	}
}
