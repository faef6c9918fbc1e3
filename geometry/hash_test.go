package geometry

import "testing"

func TestHashEqualValuesHashIdentically(t *testing.T) {
	a := NewPolygon([][]Coord{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}})
	b := NewPolygon([][]Coord{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}})

	if !a.Equal(b) {
		t.Fatal("precondition failed: expected a and b to be equal")
	}
	if a.Hash() != b.Hash() {
		t.Errorf("equal geometries hashed differently: %d vs %d", a.Hash(), b.Hash())
	}
}

func TestHashRoundTripParseMatches(t *testing.T) {
	src := `{ type: "Point", coordinates: [ -0.118, 51.509 ] }`
	g, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	back, err := Parse(g.String())
	if err != nil {
		t.Fatalf("round-trip Parse error: %v", err)
	}
	if g.Hash() != back.Hash() {
		t.Error("expected a round-tripped geometry to hash the same as the original")
	}
}

func TestHashDistinguishesVariantsWithSameCoordinates(t *testing.T) {
	point := NewPoint(0, 0)
	multi := NewMultiPoint([]Coord{{0, 0}})

	if point.Hash() == multi.Hash() {
		t.Error("expected distinct variants sharing coordinates to hash differently")
	}
}

func TestHashDistinguishesDifferentCoordinates(t *testing.T) {
	a := NewPoint(0, 0)
	b := NewPoint(1, 1)

	if a.Hash() == b.Hash() {
		t.Error("expected distinct points to hash differently")
	}
}
