package ast

import (
	"math/big"
	"testing"
)

func TestPrimitiveKindBitWidth(t *testing.T) {
	tests := map[PrimitiveKind]int{
		I8: 8, U8: 8, I16: 16, U16: 16,
		I32: 32, U32: 32, F32: 32,
		I64: 64, U64: 64, F64: 64,
	}
	for k, want := range tests {
		if got := k.BitWidth(); got != want {
			t.Errorf("%v.BitWidth() = %d, want %d", k, got, want)
		}
	}
}

func TestPrimitiveKindIsSigned(t *testing.T) {
	for _, k := range []PrimitiveKind{I8, I16, I32, I64} {
		if !k.IsSigned() {
			t.Errorf("%v.IsSigned() = false, want true", k)
		}
	}
	for _, k := range []PrimitiveKind{U8, U16, U32, U64, F32, F64, Bool, String} {
		if k.IsSigned() {
			t.Errorf("%v.IsSigned() = true, want false", k)
		}
	}
}

func TestPrimitiveKindIsIntegerIsFloat(t *testing.T) {
	for _, k := range []PrimitiveKind{I8, U64, I32} {
		if !k.IsInteger() {
			t.Errorf("%v.IsInteger() = false, want true", k)
		}
		if k.IsFloat() {
			t.Errorf("%v.IsFloat() = true, want false", k)
		}
	}
	for _, k := range []PrimitiveKind{F32, F64} {
		if !k.IsFloat() {
			t.Errorf("%v.IsFloat() = false, want true", k)
		}
		if k.IsInteger() {
			t.Errorf("%v.IsInteger() = true, want false", k)
		}
	}
}

func TestPrimitiveKindRange(t *testing.T) {
	min, max := I8.Range()
	if min.Cmp(big.NewInt(-128)) != 0 || max.Cmp(big.NewInt(127)) != 0 {
		t.Errorf("I8.Range() = [%s, %s], want [-128, 127]", min, max)
	}

	min, max = U8.Range()
	if min.Cmp(big.NewInt(0)) != 0 || max.Cmp(big.NewInt(255)) != 0 {
		t.Errorf("U8.Range() = [%s, %s], want [0, 255]", min, max)
	}

	_, max = U64.Range()
	want := new(big.Int)
	want.SetString("18446744073709551615", 10)
	if max.Cmp(want) != 0 {
		t.Errorf("U64.Range() max = %s, want %s", max, want)
	}
}

func TestPrimitiveKindFits(t *testing.T) {
	if !I8.Fits(big.NewInt(127)) {
		t.Error("I8.Fits(127) = false, want true")
	}
	if I8.Fits(big.NewInt(128)) {
		t.Error("I8.Fits(128) = true, want false")
	}
	if I8.Fits(big.NewInt(-129)) {
		t.Error("I8.Fits(-129) = true, want false")
	}

	maxU64 := new(big.Int)
	maxU64.SetString("18446744073709551615", 10)
	if !U64.Fits(maxU64) {
		t.Error("U64.Fits(max u64) = false, want true")
	}
	if U64.Fits(big.NewInt(-1)) {
		t.Error("U64.Fits(-1) = true, want false")
	}
}

func TestLookupPrimitive(t *testing.T) {
	tests := []struct {
		text string
		want PrimitiveKind
		ok   bool
	}{
		{"i32", I32, true},
		{"u64", U64, true},
		{"byte", U8, true},
		{"bool", Bool, true},
		{"string", String, true},
		{"void", Void, true},
		{"notatype", Inferred, false},
	}
	for _, tt := range tests {
		got, ok := LookupPrimitive(tt.text)
		if ok != tt.ok || got != tt.want {
			t.Errorf("LookupPrimitive(%q) = (%v, %v), want (%v, %v)", tt.text, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSameType(t *testing.T) {
	a := &Primitive{Kind: I32}
	b := &Primitive{Kind: I32}
	c := &Primitive{Kind: I64}

	if !SameType(a, b) {
		t.Error("SameType(i32, i32) = false, want true")
	}
	if SameType(a, c) {
		t.Error("SameType(i32, i64) = true, want false")
	}
}

func TestPrimitiveString(t *testing.T) {
	if got := (&Primitive{Kind: U8}).String(); got != "u8" {
		t.Errorf("Primitive{U8}.String() = %q, want %q", got, "u8")
	}
}
