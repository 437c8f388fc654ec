package llvmgen

import (
	"fmt"

	"github.com/lak-lang/lak/pkg/ast"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// checkedArith emits a call to the llvm.{s,u}{add,sub,mul}.with.overflow
// intrinsic matching kind/width/unsigned, branches to a panic on overflow,
// and returns the checked result in the continuation block.
func (e *emitter) checkedArith(kind string, left, right value.Value, width int, unsigned bool, opLabel string) value.Value {
	fn := e.overflowIntrinsic(kind, width, unsigned)

	result := e.block.NewCall(fn, left, right)
	val := e.block.NewExtractValue(result, 0)
	overflowed := e.block.NewExtractValue(result, 1)

	panicBlock := e.fn.NewBlock("")
	contBlock := e.fn.NewBlock("")
	e.block.NewCondBr(overflowed, panicBlock, contBlock)

	panicBlock.NewCall(e.rt.panic, e.internedString(fmt.Sprintf("integer overflow in %s", opLabel)))
	panicBlock.NewUnreachable()

	e.block = contBlock
	return val
}

func (e *emitter) overflowIntrinsic(kind string, width int, unsigned bool) *ir.Func {
	switch kind {
	case "add":
		if unsigned {
			return e.rt.overflowUAdd[width]
		}
		return e.rt.overflowAdd[width]
	case "sub":
		if unsigned {
			return e.rt.overflowUSub[width]
		}
		return e.rt.overflowSub[width]
	default: // "mul"
		if unsigned {
			return e.rt.overflowUMul[width]
		}
		return e.rt.overflowMul[width]
	}
}

// checkedDiv lowers integer `/`, trapping on a zero divisor and, for signed
// division, on the INT_MIN / -1 overflow case.
func (e *emitter) checkedDiv(left, right value.Value, t ast.Type) value.Value {
	it := asIntType(lowerType(t))
	e.guardZeroDivisor(right, it)

	if isUnsigned(t) {
		return e.block.NewUDiv(left, right)
	}

	e.guardSignedOverflowDivision(left, right, t, it)
	return e.block.NewSDiv(left, right)
}

// checkedMod lowers integer `%` with the same zero-divisor guard as
// division; INT_MIN % -1 is well-defined (0) and needs no extra guard.
func (e *emitter) checkedMod(left, right value.Value, t ast.Type) value.Value {
	it := asIntType(lowerType(t))
	e.guardZeroDivisor(right, it)

	if isUnsigned(t) {
		return e.block.NewURem(left, right)
	}
	return e.block.NewSRem(left, right)
}

func (e *emitter) guardZeroDivisor(divisor value.Value, it *types.IntType) {
	zero := constant.NewInt(it, 0)
	isZero := e.block.NewICmp(enum.IPredEQ, divisor, zero)

	panicBlock := e.fn.NewBlock("")
	contBlock := e.fn.NewBlock("")
	e.block.NewCondBr(isZero, panicBlock, contBlock)

	panicBlock.NewCall(e.rt.panic, e.internedString("division by zero"))
	panicBlock.NewUnreachable()

	e.block = contBlock
}

func (e *emitter) guardSignedOverflowDivision(left, right value.Value, t ast.Type, it *types.IntType) {
	min, _ := t.(*ast.Primitive).Kind.Range()
	minConst := constant.NewInt(it, min.Int64())
	negOneConst := constant.NewInt(it, -1)

	leftIsMin := e.block.NewICmp(enum.IPredEQ, left, minConst)
	rightIsNegOne := e.block.NewICmp(enum.IPredEQ, right, negOneConst)
	both := e.block.NewAnd(leftIsMin, rightIsNegOne)

	panicBlock := e.fn.NewBlock("")
	contBlock := e.fn.NewBlock("")
	e.block.NewCondBr(both, panicBlock, contBlock)

	panicBlock.NewCall(e.rt.panic, e.internedString("integer overflow in division"))
	panicBlock.NewUnreachable()

	e.block = contBlock
}
