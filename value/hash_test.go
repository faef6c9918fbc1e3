package value

import "testing"

func TestHashEqualIntsHashIdentically(t *testing.T) {
	a, b := Int(42), Int(42)
	if a.Hash() != b.Hash() {
		t.Errorf("equal ints hashed differently: %d vs %d", a.Hash(), b.Hash())
	}
}

func TestHashEqualFloatsHashIdentically(t *testing.T) {
	a, b := Float(1.5), Float(1.5)
	if a.Hash() != b.Hash() {
		t.Errorf("equal floats hashed differently: %d vs %d", a.Hash(), b.Hash())
	}
}

func TestHashDistinguishesDifferentValues(t *testing.T) {
	if Int(1).Hash() == Int(2).Hash() {
		t.Error("expected distinct ints to hash differently")
	}
}

func TestHashMayDifferAcrossKindsForEqualValues(t *testing.T) {
	i, f := Int(2), Float(2.0)
	if !i.Equal(f) {
		t.Fatal("precondition failed: expected 2 and 2.0 to compare equal")
	}
	// Documented caveat: cross-kind numeric equality doesn't imply equal hashes.
	_ = i.Hash()
	_ = f.Hash()
}
