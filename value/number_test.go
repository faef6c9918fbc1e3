package value

import (
	"math"
	"testing"

	"github.com/govalues/decimal"
)

func TestNumberStringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		n    Number
		want string
	}{
		{"int", Int(42), "42"},
		{"float", Float(1.5), "1.5f"},
		{"negative int", Int(-7), "-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.n.String()
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if back, err := ParseNumber(got); err != nil || !back.Equal(tt.n) {
				t.Errorf("ParseNumber(%q) = %v, %v; want %v", got, back, err, tt.n)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		wantKind Kind
	}{
		{"42", KindInt},
		{"1.5f", KindFloat},
		{"1.5dec", KindDecimal},
		{"NaN", KindFloat},
	}

	for _, tt := range tests {
		n, err := ParseNumber(tt.input)
		if err != nil {
			t.Fatalf("ParseNumber(%q) error: %v", tt.input, err)
		}
		if n.Kind() != tt.wantKind {
			t.Errorf("ParseNumber(%q).Kind() = %v, want %v", tt.input, n.Kind(), tt.wantKind)
		}
	}
}

func TestParseNumberInvalid(t *testing.T) {
	if _, err := ParseNumber("not-a-number"); err == nil {
		t.Fatal("expected an error for an unparsable literal")
	}
}

func TestCmpTotalOrderAcrossKinds(t *testing.T) {
	tests := []struct {
		a, b Number
		want int
	}{
		{Int(1), Int(2), -1},
		{Int(2), Int(1), 1},
		{Int(1), Float(1.0), 0},
		{Float(1.5), Int(1), 1},
		{Int(1), Int(1), 0},
	}

	for _, tt := range tests {
		if got := tt.a.Cmp(tt.b); got != tt.want {
			t.Errorf("%v.Cmp(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCmpSignedZeroCollapses(t *testing.T) {
	if Float(0.0).Cmp(Float(math.Copysign(0, -1))) != 0 {
		t.Error("expected -0.0 to compare equal to 0.0")
	}
}

func TestCmpNaNIsTotallyOrdered(t *testing.T) {
	// NaN must compare consistently (irreflexively unequal to itself under
	// IEEE ==, but totally ordered here) rather than panicking or
	// producing a non-transitive result.
	a := NAN
	b := Float(1.0)
	if a.Cmp(b) == 0 {
		t.Error("NaN must not compare equal to a normal float under total order")
	}
	if a.Cmp(a) != 0 {
		t.Error("NaN must compare equal to itself under total order")
	}
}

func TestSortMixedKinds(t *testing.T) {
	ns := []Number{Int(3), Float(1.5), Int(-2)}
	Sort(ns)
	if ns[0].AsFloat() != -2 || ns[2].AsFloat() != 3 {
		t.Errorf("unexpected sort order: %v", ns)
	}
}

func TestArithmeticPromotion(t *testing.T) {
	sum := Int(1).Add(Float(2.5))
	if !sum.IsFloat() {
		t.Fatalf("Int+Float should promote to Float, got %v", sum.Kind())
	}
	if sum.AsFloat() != 3.5 {
		t.Errorf("expected 3.5, got %v", sum.AsFloat())
	}
}

func TestAsIntSaturatesOnNonFinite(t *testing.T) {
	if got := NAN.AsInt(); got != 0 {
		t.Errorf("expected NaN.AsInt() to saturate to 0, got %d", got)
	}
}

func TestNegAndAbsPreserveKind(t *testing.T) {
	n := Int(5).Neg()
	if !n.IsInt() || n.AsInt() != -5 {
		t.Errorf("expected Int(-5), got %v (%v)", n, n.Kind())
	}
	if Int(-5).Abs().AsInt() != 5 {
		t.Error("expected Abs to return 5")
	}
}

func TestIntDivisionTruncates(t *testing.T) {
	if got := Int(3).Div(Int(2)); !got.IsInt() || got.AsInt() != 1 {
		t.Errorf("expected Int(3)/Int(2) == Int(1), got %v", got)
	}
}

func TestIntDivisionByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Int(1).Div(Int(0)) to panic")
		}
	}()
	Int(1).Div(Int(0))
}

func TestDecimalDivisionByZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Decimal division by zero to panic")
		}
	}()
	a := FromDecimal(decimal.MustNew(1, 0))
	b := FromDecimal(decimal.MustNew(0, 0))
	a.Div(b)
}

func TestIntPow(t *testing.T) {
	got := Int(3).Pow(Int(4))
	if !got.IsInt() || got.AsInt() != 81 {
		t.Errorf("expected 3^4 == 81, got %v", got)
	}
}

func TestSumAndProduct(t *testing.T) {
	ns := []Number{Int(1), Int(2), Int(3)}
	if got := Sum(ns); got.AsInt() != 6 {
		t.Errorf("expected sum 6, got %v", got)
	}
	if got := Product(ns); got.AsInt() != 6 {
		t.Errorf("expected product 6, got %v", got)
	}
}

func TestSignedZeroPredicates(t *testing.T) {
	if !Float(math.Copysign(0, -1)).IsNegativeZero() {
		t.Error("expected -0.0 to be a negative zero")
	}
	if !Float(0.0).IsPositiveZero() {
		t.Error("expected 0.0 to be a positive zero")
	}
}

func TestTruthy(t *testing.T) {
	if Int(0).IsTruthy() {
		t.Error("expected Int(0) to be falsy")
	}
	if !Int(1).IsTruthy() {
		t.Error("expected Int(1) to be truthy")
	}
	if NAN.IsTruthy() {
		t.Error("expected NaN to be falsy")
	}
}
