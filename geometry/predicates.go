package geometry

import "math"

const epsilon = 1e-9

func floatEqual(a, b float64) bool { return math.Abs(a-b) < epsilon }

func coordEqual(a, b Coord) bool { return floatEqual(a.X, b.X) && floatEqual(a.Y, b.Y) }

// onSegment reports whether p lies on the closed segment [a, b].
func onSegment(p, a, b Coord) bool {
	cross := (p.Y-a.Y)*(b.X-a.X) - (p.X-a.X)*(b.Y-a.Y)
	if math.Abs(cross) > epsilon {
		return false
	}
	if p.X < math.Min(a.X, b.X)-epsilon || p.X > math.Max(a.X, b.X)+epsilon {
		return false
	}
	if p.Y < math.Min(a.Y, b.Y)-epsilon || p.Y > math.Max(a.Y, b.Y)+epsilon {
		return false
	}
	return true
}

func lineContainsPoint(line []Coord, p Coord) bool {
	for i := 0; i+1 < len(line); i++ {
		if onSegment(p, line[i], line[i+1]) {
			return true
		}
	}
	return false
}

func lineContainsLine(self, other []Coord) bool {
	for _, p := range other {
		if !lineContainsPoint(self, p) {
			return false
		}
	}
	return true
}

func segmentsIntersect(a1, a2, b1, b2 Coord) bool {
	d := func(p, q, r Coord) float64 {
		return (q.X-p.X)*(r.Y-p.Y) - (q.Y-p.Y)*(r.X-p.X)
	}
	d1 := d(b1, b2, a1)
	d2 := d(b1, b2, a2)
	d3 := d(a1, a2, b1)
	d4 := d(a1, a2, b2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if math.Abs(d1) < epsilon && onSegment(a1, b1, b2) {
		return true
	}
	if math.Abs(d2) < epsilon && onSegment(a2, b1, b2) {
		return true
	}
	if math.Abs(d3) < epsilon && onSegment(b1, a1, a2) {
		return true
	}
	if math.Abs(d4) < epsilon && onSegment(b2, a1, a2) {
		return true
	}
	return false
}

func lineIntersectsLine(a, b []Coord) bool {
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if segmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				return true
			}
		}
	}
	return false
}

// ringContainsPoint implements even-odd ray casting; boundary points
// count as contained.
func ringContainsPoint(ring []Coord, p Coord) bool {
	if lineContainsPoint(ring, p) {
		return true
	}
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := ring[i], ring[j]
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xIntersect := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if p.X < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

func polygonContainsPoint(rings [][]Coord, p Coord) bool {
	if len(rings) == 0 || !ringContainsPoint(rings[0], p) {
		return false
	}
	for _, hole := range rings[1:] {
		if ringContainsPoint(hole, p) && !lineContainsPoint(hole, p) {
			return false
		}
	}
	return true
}

func polygonContainsLine(rings [][]Coord, line []Coord) bool {
	for _, p := range line {
		if !polygonContainsPoint(rings, p) {
			return false
		}
	}
	return true
}

func polygonContainsPolygon(self, other [][]Coord) bool {
	if len(other) == 0 {
		return false
	}
	return polygonContainsLine(self, other[0])
}

func polygonIntersectsLine(rings [][]Coord, line []Coord) bool {
	for _, p := range line {
		if polygonContainsPoint(rings, p) {
			return true
		}
	}
	for _, ring := range rings {
		if lineIntersectsLine(ring, line) {
			return true
		}
	}
	return false
}

func polygonIntersectsPolygon(a, b [][]Coord) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if polygonContainsPoint(a, b[0][0]) || polygonContainsPoint(b, a[0][0]) {
		return true
	}
	return lineIntersectsLine(a[0], b[0])
}

// Contains reports whether g spatially contains other, using the
// conjunctive rule for collections on either side: a Collection
// contains other only if every member does, and a Collection is
// contained only when it is contained as a whole by treating each of
// its own members individually.
func (g Geometry) Contains(other Geometry) bool {
	if g.kind == KindCollection {
		for _, member := range g.collection {
			if !member.Contains(other) {
				return false
			}
		}
		return true
	}
	if other.kind == KindCollection {
		for _, member := range other.collection {
			if !g.Contains(member) {
				return false
			}
		}
		return true
	}

	switch g.kind {
	case KindPoint:
		switch other.kind {
		case KindPoint:
			return coordEqual(g.point, other.point)
		case KindMultiPoint:
			for _, p := range other.multiPoint {
				if !coordEqual(g.point, p) {
					return false
				}
			}
			return true
		}
	case KindLine:
		switch other.kind {
		case KindPoint:
			return lineContainsPoint(g.line, other.point)
		case KindLine:
			return lineContainsLine(g.line, other.line)
		case KindMultiLine:
			for _, l := range other.multiLine {
				if !lineContainsLine(g.line, l) {
					return false
				}
			}
			return true
		}
	case KindPolygon:
		switch other.kind {
		case KindPoint:
			return polygonContainsPoint(g.polygon, other.point)
		case KindLine:
			return polygonContainsLine(g.polygon, other.line)
		case KindPolygon:
			return polygonContainsPolygon(g.polygon, other.polygon)
		case KindMultiPolygon:
			for _, poly := range other.multiPolygon {
				if !polygonContainsPolygon(g.polygon, poly) {
					return false
				}
			}
			return true
		}
	case KindMultiPoint:
		switch other.kind {
		case KindPoint:
			for _, p := range g.multiPoint {
				if coordEqual(p, other.point) {
					return true
				}
			}
			return false
		case KindMultiPoint:
			for _, p := range other.multiPoint {
				found := false
				for _, q := range g.multiPoint {
					if coordEqual(p, q) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
			return true
		}
	case KindMultiLine:
		switch other.kind {
		case KindPoint:
			for _, l := range g.multiLine {
				if lineContainsPoint(l, other.point) {
					return true
				}
			}
			return false
		case KindLine:
			for _, l := range g.multiLine {
				if lineContainsLine(l, other.line) {
					return true
				}
			}
			return false
		case KindMultiLine:
			for _, ol := range other.multiLine {
				found := false
				for _, l := range g.multiLine {
					if lineContainsLine(l, ol) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
			return true
		}
	case KindMultiPolygon:
		switch other.kind {
		case KindPoint:
			for _, poly := range g.multiPolygon {
				if polygonContainsPoint(poly, other.point) {
					return true
				}
			}
			return false
		case KindLine:
			for _, poly := range g.multiPolygon {
				if polygonContainsLine(poly, other.line) {
					return true
				}
			}
			return false
		case KindPolygon:
			for _, poly := range g.multiPolygon {
				if polygonContainsPolygon(poly, other.polygon) {
					return true
				}
			}
			return false
		case KindMultiPoint:
			for _, p := range other.multiPoint {
				found := false
				for _, poly := range g.multiPolygon {
					if polygonContainsPoint(poly, p) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
			return true
		case KindMultiLine:
			for _, l := range other.multiLine {
				found := false
				for _, poly := range g.multiPolygon {
					if polygonContainsLine(poly, l) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
			return true
		case KindMultiPolygon:
			for _, op := range other.multiPolygon {
				found := false
				for _, poly := range g.multiPolygon {
					if polygonContainsPolygon(poly, op) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}
			return true
		}
	}
	return false
}

// Intersects reports whether g and other share at least one point,
// with the same conjunctive collection rule as Contains.
func (g Geometry) Intersects(other Geometry) bool {
	if g.kind == KindCollection {
		for _, member := range g.collection {
			if !member.Intersects(other) {
				return false
			}
		}
		return true
	}
	if other.kind == KindCollection {
		for _, member := range other.collection {
			if !g.Intersects(member) {
				return false
			}
		}
		return true
	}
	return geometryIntersects(g, other)
}

func geometryIntersects(a, b Geometry) bool {
	switch a.kind {
	case KindPoint:
		switch b.kind {
		case KindPoint:
			return coordEqual(a.point, b.point)
		case KindLine:
			return lineContainsPoint(b.line, a.point)
		case KindPolygon:
			return polygonContainsPoint(b.polygon, a.point)
		case KindMultiPoint:
			for _, p := range b.multiPoint {
				if coordEqual(a.point, p) {
					return true
				}
			}
			return false
		case KindMultiLine:
			for _, l := range b.multiLine {
				if lineContainsPoint(l, a.point) {
					return true
				}
			}
			return false
		case KindMultiPolygon:
			for _, poly := range b.multiPolygon {
				if polygonContainsPoint(poly, a.point) {
					return true
				}
			}
			return false
		}
	case KindLine, KindMultiLine, KindPolygon, KindMultiPoint, KindMultiPolygon:
		if b.kind == KindPoint {
			return geometryIntersects(b, a)
		}
		return polyShapeIntersects(a, b)
	}
	return false
}

// polyShapeIntersects handles the remaining pairings among
// Line/Polygon/MultiPoint/MultiLine/MultiPolygon by reducing each
// operand to its constituent rings/segments/points.
func polyShapeIntersects(a, b Geometry) bool {
	aLines, aPolys, aPoints := shapeParts(a)
	bLines, bPolys, bPoints := shapeParts(b)

	for _, p := range aPoints {
		for _, poly := range bPolys {
			if polygonContainsPoint(poly, p) {
				return true
			}
		}
		for _, l := range bLines {
			if lineContainsPoint(l, p) {
				return true
			}
		}
		for _, q := range bPoints {
			if coordEqual(p, q) {
				return true
			}
		}
	}
	for _, p := range bPoints {
		for _, poly := range aPolys {
			if polygonContainsPoint(poly, p) {
				return true
			}
		}
		for _, l := range aLines {
			if lineContainsPoint(l, p) {
				return true
			}
		}
	}
	for _, la := range aLines {
		for _, lb := range bLines {
			if lineIntersectsLine(la, lb) {
				return true
			}
		}
		for _, poly := range bPolys {
			if polygonIntersectsLine(poly, la) {
				return true
			}
		}
	}
	for _, pa := range aPolys {
		for _, lb := range bLines {
			if polygonIntersectsLine(pa, lb) {
				return true
			}
		}
		for _, pb := range bPolys {
			if polygonIntersectsPolygon(pa, pb) {
				return true
			}
		}
	}
	return false
}

func shapeParts(g Geometry) (lines [][]Coord, polys [][][]Coord, points []Coord) {
	switch g.kind {
	case KindLine:
		lines = [][]Coord{g.line}
	case KindPolygon:
		polys = [][][]Coord{g.polygon}
	case KindMultiPoint:
		points = g.multiPoint
	case KindMultiLine:
		lines = g.multiLine
	case KindMultiPolygon:
		polys = g.multiPolygon
	}
	return
}
