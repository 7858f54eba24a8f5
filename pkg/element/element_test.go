package element

import "testing"

func TestPropertiesClone(t *testing.T) {
	p := Properties{"a": 1, "b": "two"}
	clone := p.Clone()
	clone["a"] = 999

	if p["a"] != 1 {
		t.Fatalf("Clone should not alias the original map; original mutated to %v", p["a"])
	}
	if clone["b"] != "two" {
		t.Fatalf("clone missing key b")
	}
}

func TestPropertiesCloneNil(t *testing.T) {
	var p Properties
	if p.Clone() != nil {
		t.Fatalf("Clone of nil Properties should return nil")
	}
}

func TestEdgeIsSelfEdge(t *testing.T) {
	cases := []struct {
		name string
		edge Edge
		want bool
	}{
		{"distinct", Edge{Source: "a", Destination: "b"}, false},
		{"self", Edge{Source: "a", Destination: "a"}, true},
		{"self-int", Edge{Source: int64(5), Destination: int64(5)}, true},
		{"distinct-int", Edge{Source: int64(5), Destination: int64(6)}, false},
		{"self-bytes", Edge{Source: []byte("a"), Destination: []byte("a")}, true},
		{"distinct-bytes", Edge{Source: []byte("a"), Destination: []byte("b")}, false},
	}
	for _, c := range cases {
		if got := c.edge.IsSelfEdge(); got != c.want {
			t.Errorf("%s: IsSelfEdge() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestElementGroup(t *testing.T) {
	var e Element = Entity{Group: "person"}
	if e.ElementGroup() != "person" {
		t.Errorf("got %q", e.ElementGroup())
	}
	e = Edge{Group: "friend"}
	if e.ElementGroup() != "friend" {
		t.Errorf("got %q", e.ElementGroup())
	}
}

func TestFixedClock(t *testing.T) {
	c := FixedClock(12345)
	if c.NowUnixMillis() != 12345 {
		t.Errorf("got %d", c.NowUnixMillis())
	}
}
