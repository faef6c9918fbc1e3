package geometry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/driftdb/core/lexer"
	"github.com/driftdb/core/token"
)

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func writeCoord(b *strings.Builder, c Coord) {
	b.WriteString("[")
	b.WriteString(formatFloat(c.X))
	b.WriteString(", ")
	b.WriteString(formatFloat(c.Y))
	b.WriteString("]")
}

func writeCoordArray(b *strings.Builder, cs []Coord) {
	b.WriteString("[")
	for i, c := range cs {
		if i > 0 {
			b.WriteString(", ")
		}
		writeCoord(b, c)
	}
	b.WriteString("]")
}

func writeRings(b *strings.Builder, rings [][]Coord) {
	b.WriteString("[")
	for i, r := range rings {
		if i > 0 {
			b.WriteString(", ")
		}
		writeCoordArray(b, r)
	}
	b.WriteString("]")
}

// String renders g in GeoJSON-style textual form:
// { type: "<Type>", coordinates: <nested arrays> }, or
// { type: "GeometryCollection", geometries: [...] } for a Collection.
func (g Geometry) String() string {
	var b strings.Builder
	b.WriteString("{ type: \"")
	b.WriteString(g.AsType())
	b.WriteString("\", ")

	if g.kind == KindCollection {
		b.WriteString("geometries: [")
		for i, item := range g.collection {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item.String())
		}
		b.WriteString("] }")
		return b.String()
	}

	b.WriteString("coordinates: ")
	switch g.kind {
	case KindPoint:
		writeCoord(&b, g.point)
	case KindLine, KindMultiPoint:
		writeCoordArray(&b, g.coordSeq())
	case KindPolygon, KindMultiLine:
		writeRings(&b, g.ringSeq())
	case KindMultiPolygon:
		b.WriteString("[")
		for i, poly := range g.multiPolygon {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRings(&b, poly)
		}
		b.WriteString("]")
	}
	b.WriteString(" }")
	return b.String()
}

func (g Geometry) coordSeq() []Coord {
	if g.kind == KindLine {
		return g.line
	}
	return g.multiPoint
}

func (g Geometry) ringSeq() [][]Coord {
	if g.kind == KindPolygon {
		return g.polygon
	}
	return g.multiLine
}

// -----------------------------------------------------------------------
// Parsing
// -----------------------------------------------------------------------

// maxParseDepth bounds recursive descent into nested collections/arrays,
// matching the depth guard the parser package applies to object literals.
const maxParseDepth = 64

type textParser struct {
	l     *lexer.Lexer
	cur   token.Token
	peek  token.Token
	depth int
}

func newTextParser(src string) *textParser {
	p := &textParser{l: lexer.New(src)}
	p.next()
	p.next()
	return p
}

func (p *textParser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
	for p.peek.Type == token.COMMENT {
		p.peek = p.l.NextToken()
	}
}

func (p *textParser) expect(t token.Type) error {
	if p.peek.Type != t {
		return fmt.Errorf("geometry: expected %s, got %s", t, p.peek.Type)
	}
	p.next()
	return nil
}

// Parse parses a GeoJSON-style geometry literal's raw text into a
// Geometry value. Besides the `{ type: ..., coordinates: ... }` object
// form, it also accepts the `(x, y)` Point shorthand.
func Parse(src string) (Geometry, error) {
	p := newTextParser(src)
	if p.cur.Type == token.LPAREN {
		return p.parsePointShorthand()
	}
	if p.cur.Type != token.LBRACE {
		return Geometry{}, fmt.Errorf("geometry: expected object, got %s", p.cur.Type)
	}
	return p.parseObject()
}

// parsePointShorthand parses the `(x, y)` Point literal: curToken is on
// the opening '('.
func (p *textParser) parsePointShorthand() (Geometry, error) {
	p.next() // consume '('
	x, err := p.parseSignedFloat()
	if err != nil {
		return Geometry{}, err
	}
	if p.cur.Type != token.COMMA {
		return Geometry{}, fmt.Errorf("geometry: expected , got %s", p.cur.Type)
	}
	p.next() // consume ','
	y, err := p.parseSignedFloat()
	if err != nil {
		return Geometry{}, err
	}
	if p.cur.Type != token.RPAREN {
		return Geometry{}, fmt.Errorf("geometry: expected ), got %s", p.cur.Type)
	}
	return NewPoint(x, y), nil
}

func (p *textParser) parseSignedFloat() (float64, error) {
	neg := false
	if p.cur.Type == token.MINUS {
		neg = true
		p.next()
	}
	if p.cur.Type != token.INT && p.cur.Type != token.FLOAT {
		return 0, fmt.Errorf("geometry: expected a number, got %s", p.cur.Type)
	}
	f, err := strconv.ParseFloat(p.cur.Literal, 64)
	if err != nil {
		return 0, fmt.Errorf("geometry: invalid coordinate %q: %w", p.cur.Literal, err)
	}
	if neg {
		f = -f
	}
	p.next()
	return f, nil
}

func (p *textParser) parseObject() (Geometry, error) {
	p.depth++
	if p.depth > maxParseDepth {
		return Geometry{}, fmt.Errorf("geometry: literal nested too deeply")
	}
	defer func() { p.depth-- }()

	var typ string
	var coordTree numTree
	var haveCoords bool
	var geometries []Geometry

	p.next() // consume '{'
	for p.cur.Type != token.RBRACE && p.cur.Type != token.EOF {
		key := p.cur.Literal
		if err := p.expect(token.COLON); err != nil {
			return Geometry{}, err
		}
		p.next()

		switch strings.ToLower(key) {
		case "type":
			typ = p.cur.Literal
			p.next()
		case "coordinates":
			tree, err := p.parseNumTree()
			if err != nil {
				return Geometry{}, err
			}
			coordTree = tree
			haveCoords = true
		case "geometries":
			items, err := p.parseGeometryArray()
			if err != nil {
				return Geometry{}, err
			}
			geometries = items
		default:
			return Geometry{}, fmt.Errorf("geometry: unknown field %q", key)
		}

		if p.cur.Type == token.COMMA {
			p.next()
		}
	}
	if p.cur.Type != token.RBRACE {
		return Geometry{}, fmt.Errorf("geometry: unterminated object")
	}

	return buildGeometry(typ, coordTree, haveCoords, geometries)
}

func (p *textParser) parseGeometryArray() ([]Geometry, error) {
	if p.cur.Type != token.LBRACKET {
		return nil, fmt.Errorf("geometry: expected [, got %s", p.cur.Type)
	}
	p.next()
	var items []Geometry
	for p.cur.Type != token.RBRACKET && p.cur.Type != token.EOF {
		if p.cur.Type != token.LBRACE {
			return nil, fmt.Errorf("geometry: expected a nested geometry object, got %s", p.cur.Type)
		}
		g, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		items = append(items, g)
		p.next() // consume the nested object's '}'
		if p.cur.Type == token.COMMA {
			p.next()
		}
	}
	if p.cur.Type != token.RBRACKET {
		return nil, fmt.Errorf("geometry: unterminated geometries array")
	}
	p.next()
	return items, nil
}

// numTree is a generic nested-array shape used to hold a "coordinates"
// member before it is reinterpreted against the declared geometry type.
type numTree struct {
	leaf     bool
	val      float64
	children []numTree
}

func (p *textParser) parseNumTree() (numTree, error) {
	if p.cur.Type == token.LBRACKET {
		p.next()
		var children []numTree
		for p.cur.Type != token.RBRACKET && p.cur.Type != token.EOF {
			child, err := p.parseNumTree()
			if err != nil {
				return numTree{}, err
			}
			children = append(children, child)
			if p.cur.Type == token.COMMA {
				p.next()
			}
		}
		if p.cur.Type != token.RBRACKET {
			return numTree{}, fmt.Errorf("geometry: unterminated coordinate array")
		}
		p.next()
		return numTree{children: children}, nil
	}

	neg := false
	if p.cur.Type == token.MINUS {
		neg = true
		p.next()
	}
	if p.cur.Type != token.INT && p.cur.Type != token.FLOAT {
		return numTree{}, fmt.Errorf("geometry: expected a number, got %s", p.cur.Type)
	}
	f, err := strconv.ParseFloat(p.cur.Literal, 64)
	if err != nil {
		return numTree{}, fmt.Errorf("geometry: invalid coordinate %q: %w", p.cur.Literal, err)
	}
	if neg {
		f = -f
	}
	p.next()
	return numTree{leaf: true, val: f}, nil
}

func (t numTree) asCoord() (Coord, error) {
	if len(t.children) != 2 || !t.children[0].leaf || !t.children[1].leaf {
		return Coord{}, fmt.Errorf("geometry: expected a [x, y] coordinate pair")
	}
	return Coord{X: t.children[0].val, Y: t.children[1].val}, nil
}

func (t numTree) asCoordSeq() ([]Coord, error) {
	out := make([]Coord, len(t.children))
	for i, c := range t.children {
		coord, err := c.asCoord()
		if err != nil {
			return nil, err
		}
		out[i] = coord
	}
	return out, nil
}

func (t numTree) asRings() ([][]Coord, error) {
	out := make([][]Coord, len(t.children))
	for i, r := range t.children {
		seq, err := r.asCoordSeq()
		if err != nil {
			return nil, err
		}
		out[i] = seq
	}
	return out, nil
}

func (t numTree) asRingsSeq() ([][][]Coord, error) {
	out := make([][][]Coord, len(t.children))
	for i, p := range t.children {
		rings, err := p.asRings()
		if err != nil {
			return nil, err
		}
		out[i] = rings
	}
	return out, nil
}

func buildGeometry(typ string, coords numTree, haveCoords bool, geometries []Geometry) (Geometry, error) {
	switch typ {
	case "Point":
		c, err := coords.asCoord()
		if err != nil {
			return Geometry{}, err
		}
		return NewPoint(c.X, c.Y), nil
	case "LineString":
		seq, err := coords.asCoordSeq()
		if err != nil {
			return Geometry{}, err
		}
		return NewLine(seq), nil
	case "Polygon":
		rings, err := coords.asRings()
		if err != nil {
			return Geometry{}, err
		}
		return NewPolygon(rings), nil
	case "MultiPoint":
		seq, err := coords.asCoordSeq()
		if err != nil {
			return Geometry{}, err
		}
		return NewMultiPoint(seq), nil
	case "MultiLineString":
		rings, err := coords.asRings()
		if err != nil {
			return Geometry{}, err
		}
		return NewMultiLine(rings), nil
	case "MultiPolygon":
		polys, err := coords.asRingsSeq()
		if err != nil {
			return Geometry{}, err
		}
		return NewMultiPolygon(polys), nil
	case "GeometryCollection":
		return NewCollection(geometries), nil
	default:
		if !haveCoords && geometries == nil {
			return Geometry{}, fmt.Errorf("geometry: missing type")
		}
		return Geometry{}, fmt.Errorf("geometry: unknown type %q", typ)
	}
}
