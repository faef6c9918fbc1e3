package geometry

import (
	"hash/fnv"
	"math"
)

// Hash returns a structural hash of g: the variant's discriminator
// string hashed first (so a Point and a MultiPoint sharing the same
// coordinates never collide), followed by each coordinate's two f64
// bit patterns in the same order Cmp/Equal compare them in. Equal
// geometries always hash identically.
func (g Geometry) Hash() uint64 {
	h := fnv.New64a()
	writeString(h, g.AsType())

	switch g.kind {
	case KindPoint:
		writeCoordSeq(h, []Coord{g.point})
	case KindLine:
		writeCoordSeq(h, g.line)
	case KindPolygon:
		writeCoordSeq(h, ringsSeq(g.polygon))
	case KindMultiPoint:
		writeCoordSeq(h, g.multiPoint)
	case KindMultiLine:
		writeCoordSeq(h, flattenLines(g.multiLine))
	case KindMultiPolygon:
		for _, poly := range g.multiPolygon {
			writeCoordSeq(h, ringsSeq(poly))
		}
	default:
		for _, item := range g.collection {
			writeUint64(h, item.Hash())
		}
	}

	return h.Sum64()
}

func writeString(h interface{ Write([]byte) (int, error) }, s string) {
	_, _ = h.Write([]byte(s))
}

func writeUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	_, _ = h.Write(buf[:])
}

func writeFloat(h interface{ Write([]byte) (int, error) }, f float64) {
	if f == 0 {
		f = 0 // -0 and +0 compare equal under Cmp, so hash them alike
	}
	writeUint64(h, math.Float64bits(f))
}

func writeCoordSeq(h interface{ Write([]byte) (int, error) }, coords []Coord) {
	for _, c := range coords {
		writeFloat(h, c.X)
		writeFloat(h, c.Y)
	}
}
