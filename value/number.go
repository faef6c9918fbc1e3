// Package value implements the query language's numeric tower: a tagged
// union over machine integers, machine floats, and arbitrary-precision
// decimals with a single total order across all three.
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/govalues/decimal"

	"github.com/driftdb/core/dberr"
)

// Kind discriminates the variant a Number currently holds.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindDecimal
)

// Number is a value of the numeric tower: exactly one of its Kind-tagged
// fields is meaningful at a time.
type Number struct {
	kind Kind
	i    int64
	f    float64
	d    decimal.Decimal
}

// NAN is the canonical not-a-number value, represented as a float.
var NAN = Number{kind: KindFloat, f: math.NaN()}

// Int constructs an Int-kind Number.
func Int(v int64) Number { return Number{kind: KindInt, i: v} }

// Float constructs a Float-kind Number.
func Float(v float64) Number { return Number{kind: KindFloat, f: v} }

// FromDecimal constructs a Decimal-kind Number.
func FromDecimal(v decimal.Decimal) Number { return Number{kind: KindDecimal, d: v} }

// Kind reports which variant n currently holds.
func (n Number) Kind() Kind { return n.kind }

func (n Number) IsInt() bool     { return n.kind == KindInt }
func (n Number) IsFloat() bool   { return n.kind == KindFloat }
func (n Number) IsDecimal() bool { return n.kind == KindDecimal }

func (n Number) IsNaN() bool { return n.kind == KindFloat && math.IsNaN(n.f) }

// IsInteger reports whether n holds a value with no fractional part,
// regardless of kind.
func (n Number) IsInteger() bool {
	switch n.kind {
	case KindInt:
		return true
	case KindFloat:
		_, frac := math.Modf(n.f)
		return frac == 0
	default:
		return n.d.IsInt()
	}
}

func (n Number) IsZero() bool {
	switch n.kind {
	case KindInt:
		return n.i == 0
	case KindFloat:
		return n.f == 0
	default:
		return n.d.IsZero()
	}
}

func (n Number) IsPositive() bool {
	switch n.kind {
	case KindInt:
		return n.i > 0
	case KindFloat:
		return n.f > 0
	default:
		return n.d.IsPos()
	}
}

func (n Number) IsNegative() bool {
	switch n.kind {
	case KindInt:
		return n.i < 0
	case KindFloat:
		return n.f < 0
	default:
		return n.d.IsNeg()
	}
}

// IsTruthy reports whether n should be treated as true in a boolean
// context: any nonzero, non-NaN value.
func (n Number) IsTruthy() bool {
	if n.kind == KindFloat && math.IsNaN(n.f) {
		return false
	}
	return !n.IsZero()
}

// IsPositiveZero reports whether n is a zero with a positive sign bit.
// Only Float carries a distinguishable signed zero.
func (n Number) IsPositiveZero() bool {
	return n.kind == KindFloat && n.f == 0 && !math.Signbit(n.f)
}

// IsNegativeZero reports whether n is a zero with a negative sign bit.
func (n Number) IsNegativeZero() bool {
	return n.kind == KindFloat && n.f == 0 && math.Signbit(n.f)
}

// -----------------------------------------------------------------------
// Lossy conversions: saturate to the zero value rather than error.
// -----------------------------------------------------------------------

// AsInt converts n to int64, saturating to 0 on overflow or a non-finite
// float.
func (n Number) AsInt() int64 {
	v, err := n.ToInt()
	if err != nil {
		return 0
	}
	return v
}

// AsFloat converts n to float64. This conversion cannot fail.
func (n Number) AsFloat() float64 {
	switch n.kind {
	case KindInt:
		return float64(n.i)
	case KindFloat:
		return n.f
	default:
		f, _ := n.d.Float64()
		return f
	}
}

// AsUsize converts n to a non-negative int, saturating to 0 on overflow,
// non-finite input, or a negative value.
func (n Number) AsUsize() int {
	v := n.AsInt()
	if v < 0 {
		return 0
	}
	return int(v)
}

// AsDecimal converts n to decimal.Decimal, saturating to zero if the
// value cannot be represented exactly.
func (n Number) AsDecimal() decimal.Decimal {
	v, err := n.ToDecimal()
	if err != nil {
		return decimal.Decimal{}
	}
	return v
}

// -----------------------------------------------------------------------
// Lossless conversions: report an error instead of silently losing data.
// -----------------------------------------------------------------------

// ToInt converts n to int64, returning a *dberr.TryFrom error if n
// doesn't fit or isn't finite.
func (n Number) ToInt() (int64, error) {
	switch n.kind {
	case KindInt:
		return n.i, nil
	case KindFloat:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) || n.f < math.MinInt64 || n.f >= math.MaxInt64 {
			return 0, &dberr.TryFrom{From: n.String(), To: "int"}
		}
		return int64(n.f), nil
	default:
		whole, frac, ok := n.d.Int64(0)
		if !ok || frac != 0 {
			return 0, &dberr.TryFrom{From: n.String(), To: "int"}
		}
		return whole, nil
	}
}

// ToFloat converts n to float64. This conversion cannot fail.
func (n Number) ToFloat() (float64, error) {
	return n.AsFloat(), nil
}

// ToDecimal converts n to decimal.Decimal, returning a *dberr.TryFrom
// error if the float value is non-finite.
func (n Number) ToDecimal() (decimal.Decimal, error) {
	switch n.kind {
	case KindInt:
		return decimal.New(n.i, 0)
	case KindFloat:
		if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
			return decimal.Decimal{}, &dberr.TryFrom{From: n.String(), To: "decimal"}
		}
		return decimal.NewFromFloat64(n.f)
	default:
		return n.d, nil
	}
}

// -----------------------------------------------------------------------
// Formatting and parsing
// -----------------------------------------------------------------------

// String renders n in its canonical lexical form: a bare integer for
// Int, a trailing `f` suffix for finite Float (none for NaN/Inf), and a
// trailing `dec` suffix for Decimal.
func (n Number) String() string {
	switch n.kind {
	case KindInt:
		return strconv.FormatInt(n.i, 10)
	case KindFloat:
		if math.IsInf(n.f, 0) || math.IsNaN(n.f) {
			return strconv.FormatFloat(n.f, 'g', -1, 64)
		}
		return strconv.FormatFloat(n.f, 'g', -1, 64) + "f"
	default:
		return n.d.String() + "dec"
	}
}

// ParseNumber parses the lexical form produced by String: a bare
// integer, a float with an optional `f` suffix, a decimal with a `dec`
// suffix, or the literal `NaN`.
func ParseNumber(s string) (Number, error) {
	if s == "NaN" {
		return NAN, nil
	}

	if rest, ok := strings.CutSuffix(s, "dec"); ok {
		d, err := decimal.Parse(rest)
		if err != nil {
			return Number{}, fmt.Errorf("invalid decimal literal %q: %w", s, err)
		}
		return FromDecimal(d), nil
	}

	if rest, ok := strings.CutSuffix(s, "f"); ok {
		f, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return Number{}, fmt.Errorf("invalid float literal %q: %w", s, err)
		}
		return Float(f), nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f), nil
	}

	return Number{}, fmt.Errorf("invalid number literal %q", s)
}

// -----------------------------------------------------------------------
// Total order
// -----------------------------------------------------------------------

// totalCmpFloat orders f64 values totally, collapsing -0.0 and 0.0 to
// equal and otherwise falling back to IEEE 754 total_cmp (NaN sorts
// consistently, rather than comparing unordered with everything).
func totalCmpFloat(a, b float64) int {
	if a == 0 && b == 0 {
		return 0
	}
	return totalOrderFloat(a, b)
}

// totalOrderFloat implements IEEE 754's totalOrder predicate for binary64,
// matching Rust's f64::total_cmp: remap the bit pattern so unsigned
// comparison of the remapped keys matches the total order (negative
// values sort by ones-complement, positive values by setting the sign
// bit), which also gives NaNs a consistent, reproducible position.
func totalOrderFloat(a, b float64) int {
	ai, bi := totalOrderKey(a), totalOrderKey(b)
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}

func totalOrderKey(f float64) uint64 {
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | (1 << 63)
}

// Cmp totally orders n against other, promoting across kinds via float64
// (Int/Float and Float/Decimal mixes) or decimal.Decimal (Int/Decimal
// mixes).
func (n Number) Cmp(other Number) int {
	switch {
	case n.kind == KindInt && other.kind == KindInt:
		switch {
		case n.i < other.i:
			return -1
		case n.i > other.i:
			return 1
		default:
			return 0
		}
	case n.kind == KindFloat && other.kind == KindFloat:
		return totalCmpFloat(n.f, other.f)
	case n.kind == KindDecimal && other.kind == KindDecimal:
		return n.d.Cmp(other.d)
	case n.kind == KindInt && other.kind == KindFloat:
		return totalCmpFloat(float64(n.i), other.f)
	case n.kind == KindFloat && other.kind == KindInt:
		return totalCmpFloat(n.f, float64(other.i))
	case n.kind == KindInt && other.kind == KindDecimal:
		nd, _ := decimal.New(n.i, 0)
		return nd.Cmp(other.d)
	case n.kind == KindDecimal && other.kind == KindInt:
		od, _ := decimal.New(other.i, 0)
		return n.d.Cmp(od)
	case n.kind == KindFloat && other.kind == KindDecimal:
		of, _ := other.d.Float64()
		return totalCmpFloat(n.f, of)
	default: // KindDecimal, KindFloat
		nf, _ := n.d.Float64()
		return totalCmpFloat(nf, other.f)
	}
}

// Equal reports whether n and other compare equal under Cmp.
func (n Number) Equal(other Number) bool { return n.Cmp(other) == 0 }

// Sort orders a slice of Numbers in place using the total order and
// returns it, for ORDER BY over heterogeneous numeric columns.
func Sort(ns []Number) []Number {
	sort.Slice(ns, func(i, j int) bool { return ns[i].Cmp(ns[j]) < 0 })
	return ns
}

// -----------------------------------------------------------------------
// Arithmetic
// -----------------------------------------------------------------------

// Add returns n + other, promoting to float for Int/Float mixes and to
// Decimal when either operand is a Decimal.
func (n Number) Add(other Number) Number { return binOp(n, other, addInt, addFloat, addDecimal) }

// Sub returns n - other.
func (n Number) Sub(other Number) Number { return binOp(n, other, subInt, subFloat, subDecimal) }

// Mul returns n * other.
func (n Number) Mul(other Number) Number { return binOp(n, other, mulInt, mulFloat, mulDecimal) }

// Div returns n / other. Integer division truncates like Go's operator;
// promote to Float first if fractional results are required.
func (n Number) Div(other Number) Number { return binOp(n, other, divInt, divFloat, divDecimal) }

func addInt(a, b int64) int64       { return a + b }
func subInt(a, b int64) int64       { return a - b }
func mulInt(a, b int64) int64       { return a * b }
func divInt(a, b int64) int64       { return a / b }
func addFloat(a, b float64) float64 { return a + b }
func subFloat(a, b float64) float64 { return a - b }
func mulFloat(a, b float64) float64 { return a * b }
func divFloat(a, b float64) float64 { return a / b }

func addDecimal(a, b decimal.Decimal) decimal.Decimal { r, _ := a.Add(b); return r }
func subDecimal(a, b decimal.Decimal) decimal.Decimal { r, _ := a.Sub(b); return r }
func mulDecimal(a, b decimal.Decimal) decimal.Decimal { r, _ := a.Mul(b); return r }
func divDecimal(a, b decimal.Decimal) decimal.Decimal {
	r, err := a.Quo(b)
	if err != nil {
		panic(fmt.Sprintf("value: division by zero: %v / %v", a, b))
	}
	return r
}

// binOp implements the cross-kind promotion table shared by all four
// arithmetic operators: same-kind operands stay in that kind, an
// Int/Float mix promotes to Float, and any pairing touching Decimal
// promotes both operands to Decimal.
func binOp(
	a, b Number,
	onInt func(int64, int64) int64,
	onFloat func(float64, float64) float64,
	onDecimal func(decimal.Decimal, decimal.Decimal) decimal.Decimal,
) Number {
	switch {
	case a.kind == KindInt && b.kind == KindInt:
		return Int(onInt(a.i, b.i))
	case a.kind == KindFloat && b.kind == KindFloat:
		return Float(onFloat(a.f, b.f))
	case a.kind == KindInt && b.kind == KindFloat:
		return Float(onFloat(float64(a.i), b.f))
	case a.kind == KindFloat && b.kind == KindInt:
		return Float(onFloat(a.f, float64(b.i)))
	default:
		return FromDecimal(onDecimal(a.AsDecimal(), b.AsDecimal()))
	}
}

// Neg returns -n, preserving n's kind.
func (n Number) Neg() Number {
	switch n.kind {
	case KindInt:
		return Int(-n.i)
	case KindFloat:
		return Float(-n.f)
	default:
		return FromDecimal(n.d.Neg())
	}
}

// Abs returns the absolute value of n, preserving n's kind.
func (n Number) Abs() Number {
	switch n.kind {
	case KindInt:
		if n.i < 0 {
			return Int(-n.i)
		}
		return n
	case KindFloat:
		return Float(math.Abs(n.f))
	default:
		return FromDecimal(n.d.Abs())
	}
}

// Ceil rounds n up towards positive infinity, preserving n's kind.
func (n Number) Ceil() Number {
	switch n.kind {
	case KindInt:
		return n
	case KindFloat:
		return Float(math.Ceil(n.f))
	default:
		return FromDecimal(n.d.Ceil(0))
	}
}

// Floor rounds n down towards negative infinity, preserving n's kind.
func (n Number) Floor() Number {
	switch n.kind {
	case KindInt:
		return n
	case KindFloat:
		return Float(math.Floor(n.f))
	default:
		return FromDecimal(n.d.Floor(0))
	}
}

// Round rounds n to the nearest whole value, preserving n's kind.
func (n Number) Round() Number {
	switch n.kind {
	case KindInt:
		return n
	case KindFloat:
		return Float(math.Round(n.f))
	default:
		return FromDecimal(n.d.Round(0))
	}
}

// Fixed rounds n to precision decimal places, preserving n's kind (Int
// is unaffected, since it has no fractional part to round).
func (n Number) Fixed(precision int) Number {
	switch n.kind {
	case KindInt:
		return n
	case KindFloat:
		scale := math.Pow(10, float64(precision))
		return Float(math.Round(n.f*scale) / scale)
	default:
		return FromDecimal(n.d.Round(precision))
	}
}

// Sqrt returns the square root of n. Int and Decimal route through
// Decimal.Sqrt, falling back to Float on failure (e.g. a negative
// operand); Float uses math.Sqrt directly, yielding NaN for negatives.
func (n Number) Sqrt() Number {
	switch n.kind {
	case KindFloat:
		return Float(math.Sqrt(n.f))
	case KindDecimal:
		r, err := n.d.Sqrt()
		if err != nil {
			return Float(math.Sqrt(n.AsFloat()))
		}
		return FromDecimal(r)
	default:
		r, err := n.AsDecimal().Sqrt()
		if err != nil {
			return Float(math.Sqrt(n.AsFloat()))
		}
		return FromDecimal(r)
	}
}

// Acos returns the arc cosine of n in radians, always as a Float.
func (n Number) Acos() Number { return Float(math.Acos(n.AsFloat())) }

// Pow raises n to the power other. Int^Int stays Int (the exponent is
// coerced to a non-negative 32-bit power; a negative exponent routes
// through Float); Decimal^Int uses Decimal's integer power; every other
// pairing falls back to Float.
func (n Number) Pow(other Number) Number {
	if n.kind == KindInt && other.kind == KindInt {
		if other.i < 0 {
			return Float(math.Pow(float64(n.i), float64(other.i)))
		}
		return Int(intPow(n.i, uint32(other.i)))
	}
	if n.kind == KindDecimal && other.kind == KindInt {
		r, err := n.d.PowInt(int(other.i))
		if err != nil {
			return Float(math.Pow(n.AsFloat(), other.AsFloat()))
		}
		return FromDecimal(r)
	}
	return Float(math.Pow(n.AsFloat(), other.AsFloat()))
}

func intPow(base int64, exp uint32) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// Sum folds ns with Add, starting from Int(0).
func Sum(ns []Number) Number {
	total := Int(0)
	for _, n := range ns {
		total = total.Add(n)
	}
	return total
}

// Product folds ns with Mul, starting from Int(1).
func Product(ns []Number) Number {
	total := Int(1)
	for _, n := range ns {
		total = total.Mul(n)
	}
	return total
}
