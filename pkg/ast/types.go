package ast

import "math/big"

// PrimitiveKind enumerates the concrete primitive types. Inferred is an
// internal placeholder, never a real storage type; it marks a `let` binding
// awaiting semantic inference and must never reach codegen.
type PrimitiveKind int

const (
	Inferred PrimitiveKind = iota
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Bool
	String
	Void
)

func (k PrimitiveKind) String() string {
	switch k {
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Void:
		return "void"
	case Inferred:
		return "<inferred>"
	}
	return "<unknown type>"
}

func (k PrimitiveKind) IsInteger() bool {
	return k >= I8 && k <= U64
}

func (k PrimitiveKind) IsFloat() bool {
	return k == F32 || k == F64
}

func (k PrimitiveKind) IsSigned() bool {
	return k >= I8 && k <= I64
}

// BitWidth returns the storage width in bits of an integer or float kind.
func (k PrimitiveKind) BitWidth() int {
	switch k {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64:
		return 64
	case F32:
		return 32
	case F64:
		return 64
	}
	return 0
}

// Range returns the inclusive [min, max] representable range of an integer
// kind, used for literal bounds checks.
func (k PrimitiveKind) Range() (min, max *big.Int) {
	width := uint(k.BitWidth())
	if k.IsSigned() {
		max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width-1), big.NewInt(1))
		min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), width-1))
		return min, max
	}
	max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width), big.NewInt(1))
	min = big.NewInt(0)
	return min, max
}

// Fits reports whether v lies within k's representable range. k must be an
// integer kind.
func (k PrimitiveKind) Fits(v *big.Int) bool {
	min, max := k.Range()
	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}

// Type is implemented by every concrete static type in the language.
type Type interface {
	String() string
	typeNode()
}

// Primitive is the sole Type implementation this core supports; structs,
// pointers, slices and sum types are future work.
type Primitive struct {
	Kind PrimitiveKind
}

func (p *Primitive) String() string { return p.Kind.String() }
func (p *Primitive) typeNode()      {}

// LookupPrimitive maps source type-identifier text (after normalizing the
// `byte` alias to `u8`) to a primitive kind. ok is false for unknown names.
func LookupPrimitive(text string) (PrimitiveKind, bool) {
	if text == "byte" {
		return U8, true
	}
	switch text {
	case "i8":
		return I8, true
	case "i16":
		return I16, true
	case "i32":
		return I32, true
	case "i64":
		return I64, true
	case "u8":
		return U8, true
	case "u16":
		return U16, true
	case "u32":
		return U32, true
	case "u64":
		return U64, true
	case "f32":
		return F32, true
	case "f64":
		return F64, true
	case "bool":
		return Bool, true
	case "string":
		return String, true
	case "void":
		return Void, true
	}
	return Inferred, false
}

// SameType reports structural equality between two resolved types.
func SameType(a, b Type) bool {
	pa, aok := a.(*Primitive)
	pb, bok := b.(*Primitive)
	if aok && bok {
		return pa.Kind == pb.Kind
	}
	return false
}
