package value

import (
	"hash/fnv"
	"math"
	"strconv"
)

// Hash returns a structural hash of n. Per-kind bit patterns are used
// directly: the Float's raw f64 bits, and the canonical string form of
// Int/Decimal. Two numerically-equal values of different kinds (an Int
// 2 and a Float 2.0) may hash differently — callers must not mix kinds
// when using Numbers as hash keys.
func (n Number) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{byte(n.kind)})

	switch n.kind {
	case KindFloat:
		writeNumUint64(h, math.Float64bits(n.f))
	case KindInt:
		_, _ = h.Write([]byte(strconv.FormatInt(n.i, 10)))
	default:
		_, _ = h.Write([]byte(n.d.String()))
	}

	return h.Sum64()
}

func writeNumUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	_, _ = h.Write(buf[:])
}
