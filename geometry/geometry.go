// Package geometry implements the query language's GeoJSON-shaped
// geometry algebra: a tagged union over Point, Line, Polygon, MultiPoint,
// MultiLine, MultiPolygon, and Collection, with a total order, a textual
// form, and planar containment/intersection predicates.
package geometry

// Kind discriminates the variant a Geometry currently holds.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindPolygon
	KindMultiPoint
	KindMultiLine
	KindMultiPolygon
	KindCollection
)

// Coord is a single planar coordinate pair.
type Coord struct {
	X, Y float64
}

// Geometry is a value of the geometry algebra; exactly the fields for
// its Kind are meaningful.
type Geometry struct {
	kind Kind

	point   Coord
	line    []Coord   // Line: a sequence of vertices
	polygon [][]Coord // Polygon: rings[0] is the exterior, the rest are holes

	multiPoint   []Coord
	multiLine    [][]Coord
	multiPolygon [][][]Coord

	collection []Geometry
}

func NewPoint(x, y float64) Geometry { return Geometry{kind: KindPoint, point: Coord{x, y}} }
func NewLine(points []Coord) Geometry { return Geometry{kind: KindLine, line: points} }
func NewPolygon(rings [][]Coord) Geometry { return Geometry{kind: KindPolygon, polygon: rings} }
func NewMultiPoint(points []Coord) Geometry {
	return Geometry{kind: KindMultiPoint, multiPoint: points}
}
func NewMultiLine(lines [][]Coord) Geometry { return Geometry{kind: KindMultiLine, multiLine: lines} }
func NewMultiPolygon(polys [][][]Coord) Geometry {
	return Geometry{kind: KindMultiPolygon, multiPolygon: polys}
}
func NewCollection(items []Geometry) Geometry {
	return Geometry{kind: KindCollection, collection: items}
}

func (g Geometry) Kind() Kind { return g.kind }

func (g Geometry) IsPoint() bool        { return g.kind == KindPoint }
func (g Geometry) IsLine() bool         { return g.kind == KindLine }
func (g Geometry) IsPolygon() bool      { return g.kind == KindPolygon }
func (g Geometry) IsMultiPoint() bool   { return g.kind == KindMultiPoint }
func (g Geometry) IsMultiLine() bool    { return g.kind == KindMultiLine }
func (g Geometry) IsMultiPolygon() bool { return g.kind == KindMultiPolygon }
func (g Geometry) IsCollection() bool   { return g.kind == KindCollection }

// IsGeometry reports whether g is anything other than a Collection.
func (g Geometry) IsGeometry() bool { return g.kind != KindCollection }

// AsType returns the GeoJSON type tag for g's kind.
func (g Geometry) AsType() string {
	switch g.kind {
	case KindPoint:
		return "Point"
	case KindLine:
		return "LineString"
	case KindPolygon:
		return "Polygon"
	case KindMultiPoint:
		return "MultiPoint"
	case KindMultiLine:
		return "MultiLineString"
	case KindMultiPolygon:
		return "MultiPolygon"
	default:
		return "GeometryCollection"
	}
}

func coordPair(c Coord) []float64 { return []float64{c.X, c.Y} }

func coordList(cs []Coord) [][]float64 {
	out := make([][]float64, len(cs))
	for i, c := range cs {
		out[i] = coordPair(c)
	}
	return out
}

func coordRings(rings [][]Coord) [][][]float64 {
	out := make([][][]float64, len(rings))
	for i, r := range rings {
		out[i] = coordList(r)
	}
	return out
}

// Coordinates returns the raw nested coordinate tree for g, matching the
// GeoJSON "coordinates" member shape without the wrapping object.
func (g Geometry) Coordinates() any {
	switch g.kind {
	case KindPoint:
		return coordPair(g.point)
	case KindLine:
		return coordList(g.line)
	case KindPolygon:
		return coordRings(g.polygon)
	case KindMultiPoint:
		return coordList(g.multiPoint)
	case KindMultiLine:
		return coordRings(g.multiLine)
	case KindMultiPolygon:
		out := make([][][][]float64, len(g.multiPolygon))
		for i, poly := range g.multiPolygon {
			out[i] = coordRings(poly)
		}
		return out
	default:
		out := make([]any, len(g.collection))
		for i, item := range g.collection {
			out[i] = item.Coordinates()
		}
		return out
	}
}
