package geometry

// kindRank gives the variant precedence used when comparing Geometries
// of different kinds: Point < Line < Polygon < MultiPoint < MultiLine <
// MultiPolygon < Collection.
func kindRank(k Kind) int {
	switch k {
	case KindPoint:
		return 0
	case KindLine:
		return 1
	case KindPolygon:
		return 2
	case KindMultiPoint:
		return 3
	case KindMultiLine:
		return 4
	case KindMultiPolygon:
		return 5
	default:
		return 6
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpCoord(a, b Coord) int {
	if c := cmpFloat(a.X, b.X); c != 0 {
		return c
	}
	return cmpFloat(a.Y, b.Y)
}

func cmpCoordSeq(a, b []Coord) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmpCoord(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpFloat(float64(len(a)), float64(len(b)))
}

// ringsSeq flattens a polygon's rings into the order the original
// implementation compares them in: interior rings first, then the
// exterior ring.
func ringsSeq(rings [][]Coord) []Coord {
	if len(rings) == 0 {
		return nil
	}
	var out []Coord
	for _, hole := range rings[1:] {
		out = append(out, hole...)
	}
	out = append(out, rings[0]...)
	return out
}

func cmpRings(a, b [][]Coord) int {
	return cmpCoordSeq(ringsSeq(a), ringsSeq(b))
}

// flattenLines concatenates a MultiLine's member lines in their given
// order: unlike a polygon's rings, a MultiLine has no interior/exterior
// distinction to reorder around.
func flattenLines(lines [][]Coord) []Coord {
	var out []Coord
	for _, line := range lines {
		out = append(out, line...)
	}
	return out
}

func cmpMultiLine(a, b [][]Coord) int {
	return cmpCoordSeq(flattenLines(a), flattenLines(b))
}

func cmpRingsSeq(a, b [][][]Coord) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmpRings(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpFloat(float64(len(a)), float64(len(b)))
}

// Cmp totally orders g against other: different kinds order by
// kindRank, same-kind values order lexicographically by coordinate.
func (g Geometry) Cmp(other Geometry) int {
	if g.kind != other.kind {
		return cmpFloat(float64(kindRank(g.kind)), float64(kindRank(other.kind)))
	}

	switch g.kind {
	case KindPoint:
		return cmpCoord(g.point, other.point)
	case KindLine:
		return cmpCoordSeq(g.line, other.line)
	case KindPolygon:
		return cmpRings(g.polygon, other.polygon)
	case KindMultiPoint:
		return cmpCoordSeq(g.multiPoint, other.multiPoint)
	case KindMultiLine:
		return cmpMultiLine(g.multiLine, other.multiLine)
	case KindMultiPolygon:
		return cmpRingsSeq(g.multiPolygon, other.multiPolygon)
	default:
		for i := 0; i < len(g.collection) && i < len(other.collection); i++ {
			if c := g.collection[i].Cmp(other.collection[i]); c != 0 {
				return c
			}
		}
		return cmpFloat(float64(len(g.collection)), float64(len(other.collection)))
	}
}

// Equal reports whether g and other compare equal under Cmp.
func (g Geometry) Equal(other Geometry) bool { return g.Cmp(other) == 0 }
