package llvmgen

import (
	"github.com/lak-lang/lak/pkg/ast"
	"github.com/llir/llvm/ir/types"
)

// lowerType maps a resolved source type to its LLVM storage type. Signed
// and unsigned integers of the same width share a storage kind; signedness
// only ever affects which instruction or predicate an operation selects.
func lowerType(t ast.Type) types.Type {
	p, ok := t.(*ast.Primitive)
	if !ok {
		return nil
	}
	switch p.Kind {
	case ast.I8, ast.U8:
		return types.I8
	case ast.I16, ast.U16:
		return types.I16
	case ast.I32, ast.U32:
		return types.I32
	case ast.I64, ast.U64:
		return types.I64
	case ast.F32:
		return types.Float
	case ast.F64:
		return types.Double
	case ast.Bool:
		return types.I1
	case ast.String:
		return types.I8Ptr
	case ast.Void:
		return types.Void
	}
	return nil
}

func isUnsigned(t ast.Type) bool {
	p, ok := t.(*ast.Primitive)
	return ok && p.Kind.IsInteger() && !p.Kind.IsSigned()
}

func isFloatType(t ast.Type) bool {
	p, ok := t.(*ast.Primitive)
	return ok && p.Kind.IsFloat()
}

func isStringType(t ast.Type) bool {
	p, ok := t.(*ast.Primitive)
	return ok && p.Kind == ast.String
}

func isVoidType(t ast.Type) bool {
	p, ok := t.(*ast.Primitive)
	return ok && p.Kind == ast.Void
}

func bitWidth(t ast.Type) int {
	p, ok := t.(*ast.Primitive)
	if !ok {
		return 0
	}
	return p.Kind.BitWidth()
}
