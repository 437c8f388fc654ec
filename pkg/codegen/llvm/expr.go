package llvmgen

import (
	"fmt"
	"math/big"

	"github.com/lak-lang/lak/pkg/analyzer"
	"github.com/lak-lang/lak/pkg/ast"
	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/token"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

var boolType ast.Type = &ast.Primitive{Kind: ast.Bool}
var stringType ast.Type = &ast.Primitive{Kind: ast.String}
var voidType ast.Type = &ast.Primitive{Kind: ast.Void}

// intConst builds the LLVM constant for an arbitrary-precision literal
// already validated (by the analyzer) to fit width bits, reproducing its
// two's-complement bit pattern exactly even when the magnitude — an
// unsigned 64-bit literal near the top of its range — exceeds what
// *big.Int's own Int64 conversion defines.
func intConst(v *big.Int, it *types.IntType, width int) *constant.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	unsigned := new(big.Int).Mod(v, mod)
	if width == 64 && unsigned.Bit(63) == 1 {
		signed := new(big.Int).Sub(unsigned, mod)
		return constant.NewInt(it, signed.Int64())
	}
	return constant.NewInt(it, unsigned.Int64())
}

func asIntType(t types.Type) *types.IntType {
	it, _ := t.(*types.IntType)
	return it
}

func asFloatType(t types.Type) *types.FloatType {
	ft, _ := t.(*types.FloatType)
	return ft
}

// genExpr lowers e, using expected (when non-nil) to pick the concrete
// width/kind of a bare integer or float literal exactly as the analyzer
// did when it type-checked the same node.
func (e *emitter) genExpr(expr ast.Expression, expected ast.Type) (value.Value, *diagnostics.Error) {
	switch v := expr.(type) {
	case *ast.IntegerLiteral:
		kind := ast.I64
		if p, ok := expected.(*ast.Primitive); ok && p.Kind.IsInteger() {
			kind = p.Kind
		}
		primitive := &ast.Primitive{Kind: kind}
		it := asIntType(lowerType(primitive))
		return intConst(v.Value, it, bitWidth(primitive)), nil

	case *ast.FloatLiteral:
		kind := ast.F64
		if p, ok := expected.(*ast.Primitive); ok && p.Kind.IsFloat() {
			kind = p.Kind
		}
		ft := asFloatType(lowerType(&ast.Primitive{Kind: kind}))
		return constant.NewFloat(ft, v.Value), nil

	case *ast.BoolLiteral:
		if v.Value {
			return constant.True, nil
		}
		return constant.False, nil

	case *ast.StringLiteral:
		return e.internedString(v.Value), nil

	case *ast.Identifier:
		loc, ok := e.locals[v.Name]
		if !ok {
			return nil, errInternalAt("variable '"+v.Name+"' has no codegen binding", v.Sp)
		}
		lowered := lowerType(loc.typ)
		return e.block.NewLoad(lowered, loc.ptr), nil

	case *ast.UnaryExpr:
		return e.genUnary(v)

	case *ast.BinaryExpr:
		return e.genBinary(v, expected)

	case *ast.CallExpr:
		return e.genCall(v)

	case *ast.ModuleCallExpr:
		return e.genModuleCall(v)

	case *ast.IfExpr:
		return e.genIfExpr(v, expected)
	}

	return nil, errInternalAt("encountered an expression node of unknown static type", expr.Span())
}

// exprType re-derives the static type of an already-analyzed expression.
// codegen never type-checks; this exists only so binary/unary lowering can
// pick the right instruction family without threading the analyzer's
// result through every recursive call.
func (e *emitter) exprType(expr ast.Expression, expected ast.Type) ast.Type {
	switch v := expr.(type) {
	case *ast.IntegerLiteral:
		if p, ok := expected.(*ast.Primitive); ok && p.Kind.IsInteger() {
			return expected
		}
		return &ast.Primitive{Kind: ast.I64}
	case *ast.FloatLiteral:
		if p, ok := expected.(*ast.Primitive); ok && p.Kind.IsFloat() {
			return expected
		}
		return &ast.Primitive{Kind: ast.F64}
	case *ast.BoolLiteral:
		return boolType
	case *ast.StringLiteral:
		return stringType
	case *ast.Identifier:
		if loc, ok := e.locals[v.Name]; ok {
			return loc.typ
		}
		return nil
	case *ast.UnaryExpr:
		return e.exprType(v.Operand, nil)
	case *ast.BinaryExpr:
		switch v.Op {
		case token.AND_AND, token.OR_OR, token.LESS, token.GREATER, token.LESS_EQUAL,
			token.GREATER_EQUAL, token.EQUAL_EQUAL, token.BANG_EQUAL:
			return boolType
		default:
			if isBareLiteral(v.Left) {
				return e.exprType(v.Right, expected)
			}
			return e.exprType(v.Left, expected)
		}
	case *ast.CallExpr:
		if sig, ok := e.sigs[mangle(e.curPrefix, v.Callee)]; ok {
			return sig.ReturnType
		}
		return voidType
	case *ast.ModuleCallExpr:
		if targetPrefix, ok := e.curImportBindings[v.Module]; ok {
			if sig, ok := e.sigs[mangle(targetPrefix, v.Function)]; ok {
				return sig.ReturnType
			}
		}
		return voidType
	case *ast.IfExpr:
		return e.exprType(v.If.Then.TailExpr, expected)
	}
	return nil
}

func isBareLiteral(e ast.Expression) bool {
	switch e.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral:
		return true
	}
	return false
}

func (e *emitter) genUnary(v *ast.UnaryExpr) (value.Value, *diagnostics.Error) {
	operandType := e.exprType(v.Operand, nil)
	operand, err := e.genExpr(v.Operand, operandType)
	if err != nil {
		return nil, err
	}

	if v.Op == token.BANG {
		return e.block.NewXor(operand, constant.True), nil
	}

	// Unary minus.
	if isFloatType(operandType) {
		ft := asFloatType(lowerType(operandType))
		return e.block.NewFSub(constant.NewFloat(ft, 0), operand), nil
	}
	width := bitWidth(operandType)
	it := asIntType(lowerType(operandType))
	zero := constant.NewInt(it, 0)
	return e.checkedArith("sub", zero, operand, width, isUnsigned(operandType), "negation"), nil
}

func (e *emitter) genBinary(v *ast.BinaryExpr, expected ast.Type) (value.Value, *diagnostics.Error) {
	if v.Op == token.AND_AND || v.Op == token.OR_OR {
		return e.genShortCircuit(v)
	}

	// Mirrors analyzeBinary exactly: when exactly one side is a bare
	// literal, its width is driven by the other side's own type; when both
	// (or neither) are literals, the surrounding context's expected type
	// drives them instead of defaulting to i64/f64.
	var leftType, rightType ast.Type
	if isBareLiteral(v.Left) && !isBareLiteral(v.Right) {
		rightType = e.exprType(v.Right, nil)
		leftType = rightType
	} else if isBareLiteral(v.Right) && !isBareLiteral(v.Left) {
		leftType = e.exprType(v.Left, nil)
		rightType = leftType
	} else {
		leftType = e.exprType(v.Left, expected)
		rightType = leftType
	}

	left, err := e.genExpr(v.Left, leftType)
	if err != nil {
		return nil, err
	}
	right, err := e.genExpr(v.Right, rightType)
	if err != nil {
		return nil, err
	}

	operandType := leftType

	switch v.Op {
	case token.EQUAL_EQUAL, token.BANG_EQUAL:
		if isStringType(operandType) {
			result := e.block.NewCall(e.rt.streq, left, right)
			isEq := e.block.NewICmp(enum.IPredNE, result, constant.NewInt(types.I32, 0))
			if v.Op == token.BANG_EQUAL {
				return e.block.NewXor(isEq, constant.True), nil
			}
			return isEq, nil
		}
		if isFloatType(operandType) {
			pred := enum.FPredOEQ
			if v.Op == token.BANG_EQUAL {
				pred = enum.FPredONE
			}
			return e.block.NewFCmp(pred, left, right), nil
		}
		pred := enum.IPredEQ
		if v.Op == token.BANG_EQUAL {
			pred = enum.IPredNE
		}
		return e.block.NewICmp(pred, left, right), nil

	case token.LESS, token.GREATER, token.LESS_EQUAL, token.GREATER_EQUAL:
		if isStringType(operandType) {
			result := e.block.NewCall(e.rt.strcmp, left, right)
			zero := constant.NewInt(types.I32, 0)
			return e.block.NewICmp(intPredFor(v.Op, false), result, zero), nil
		}
		if isFloatType(operandType) {
			return e.block.NewFCmp(floatPredFor(v.Op), left, right), nil
		}
		return e.block.NewICmp(intPredFor(v.Op, isUnsigned(operandType)), left, right), nil

	case token.PLUS, token.MINUS, token.STAR:
		if isFloatType(operandType) {
			switch v.Op {
			case token.PLUS:
				return e.block.NewFAdd(left, right), nil
			case token.MINUS:
				return e.block.NewFSub(left, right), nil
			default:
				return e.block.NewFMul(left, right), nil
			}
		}
		width := bitWidth(operandType)
		unsigned := isUnsigned(operandType)
		switch v.Op {
		case token.PLUS:
			return e.checkedArith("add", left, right, width, unsigned, "addition"), nil
		case token.MINUS:
			return e.checkedArith("sub", left, right, width, unsigned, "subtraction"), nil
		default:
			return e.checkedArith("mul", left, right, width, unsigned, "multiplication"), nil
		}

	case token.SLASH:
		if isFloatType(operandType) {
			return e.block.NewFDiv(left, right), nil
		}
		return e.checkedDiv(left, right, operandType), nil

	case token.PERCENT:
		// Float % is unreachable: rejected during semantic analysis.
		return e.checkedMod(left, right, operandType), nil
	}

	return nil, errInternalAt("unrecognized binary operator in codegen", v.Sp)
}

func intPredFor(op token.Kind, unsigned bool) enum.IPred {
	switch op {
	case token.LESS:
		if unsigned {
			return enum.IPredULT
		}
		return enum.IPredSLT
	case token.GREATER:
		if unsigned {
			return enum.IPredUGT
		}
		return enum.IPredSGT
	case token.LESS_EQUAL:
		if unsigned {
			return enum.IPredULE
		}
		return enum.IPredSLE
	default: // token.GREATER_EQUAL
		if unsigned {
			return enum.IPredUGE
		}
		return enum.IPredSGE
	}
}

func floatPredFor(op token.Kind) enum.FPred {
	switch op {
	case token.LESS:
		return enum.FPredOLT
	case token.GREATER:
		return enum.FPredOGT
	case token.LESS_EQUAL:
		return enum.FPredOLE
	default: // token.GREATER_EQUAL
		return enum.FPredOGE
	}
}

// genShortCircuit lowers && and || with a merge block and a phi node, per
// the usual short-circuit control-flow pattern: the right operand is only
// evaluated when it could change the result.
func (e *emitter) genShortCircuit(v *ast.BinaryExpr) (value.Value, *diagnostics.Error) {
	left, err := e.genExpr(v.Left, boolType)
	if err != nil {
		return nil, err
	}
	leftBlock := e.block

	rightBlock := e.fn.NewBlock("")
	mergeBlock := e.fn.NewBlock("")

	if v.Op == token.AND_AND {
		e.block.NewCondBr(left, rightBlock, mergeBlock)
	} else {
		e.block.NewCondBr(left, mergeBlock, rightBlock)
	}

	e.block = rightBlock
	right, err := e.genExpr(v.Right, boolType)
	if err != nil {
		return nil, err
	}
	rightBlock = e.block
	rightBlock.NewBr(mergeBlock)

	e.block = mergeBlock
	phi := mergeBlock.NewPhi(
		ir.NewIncoming(left, leftBlock),
		ir.NewIncoming(right, rightBlock),
	)
	return phi, nil
}

// genIfExpr lowers an if used in value-producing position: identical block
// structure to the statement form, but both branches feed a phi at the
// merge block instead of falling through.
func (e *emitter) genIfExpr(v *ast.IfExpr, expected ast.Type) (value.Value, *diagnostics.Error) {
	merge := e.fn.NewBlock("")
	var incs []*ir.Incoming
	if err := e.genIfExprChain(v.If, merge, expected, &incs); err != nil {
		return nil, err
	}
	e.block = merge
	return merge.NewPhi(incs...), nil
}

func (e *emitter) genIfExprChain(v *ast.IfStatement, merge *ir.Block, expected ast.Type, incs *[]*ir.Incoming) *diagnostics.Error {
	cond, err := e.genExpr(v.Condition, boolType)
	if err != nil {
		return err
	}
	thenBlock := e.fn.NewBlock("")
	elseBlock := e.fn.NewBlock("")
	e.block.NewCondBr(cond, thenBlock, elseBlock)

	e.block = thenBlock
	thenVal, err := e.genValueBlock(v.Then, expected)
	if err != nil {
		return err
	}
	thenEnd := e.block
	thenEnd.NewBr(merge)
	*incs = append(*incs, ir.NewIncoming(thenVal, thenEnd))

	e.block = elseBlock
	if v.Else.If != nil {
		if err := e.genIfExprChain(v.Else.If, merge, expected, incs); err != nil {
			return err
		}
	} else {
		elseVal, err := e.genValueBlock(*v.Else.Block, expected)
		if err != nil {
			return err
		}
		elseEnd := e.block
		elseEnd.NewBr(merge)
		*incs = append(*incs, ir.NewIncoming(elseVal, elseEnd))
	}
	return nil
}

// genValueBlock lowers a block used in expression position: its statements
// run for effect, then its TailExpr supplies the block's value.
func (e *emitter) genValueBlock(b ast.Block, expected ast.Type) (value.Value, *diagnostics.Error) {
	if err := e.genStatements(b.Statements); err != nil {
		return nil, err
	}
	return e.genExpr(b.TailExpr, expected)
}

func (e *emitter) genCall(v *ast.CallExpr) (value.Value, *diagnostics.Error) {
	switch v.Callee {
	case "println":
		return e.genPrintln(v.Args[0])
	case "panic":
		msg, err := e.genExpr(v.Args[0], stringType)
		if err != nil {
			return nil, err
		}
		e.block.NewCall(e.rt.panic, msg)
		e.block.NewUnreachable()
		return constant.NewInt(types.I32, 0), nil
	}

	fn, sig, ok := e.lookupFunc(e.curPrefix, v.Callee)
	if !ok {
		return nil, errInternalAt("call to undeclared function '"+v.Callee+"'", v.Sp)
	}
	return e.genCallArgs(fn, sig, v.Args)
}

func (e *emitter) genModuleCall(v *ast.ModuleCallExpr) (value.Value, *diagnostics.Error) {
	targetPrefix, ok := e.curImportBindings[v.Module]
	if !ok {
		return nil, errInternalAt("call through unresolved module '"+v.Module+"'", v.Sp)
	}
	fn, sig, ok := e.lookupFunc(targetPrefix, v.Function)
	if !ok {
		return nil, errInternalAt("call to undeclared function '"+v.Function+"'", v.Sp)
	}
	return e.genCallArgs(fn, sig, v.Args)
}

func (e *emitter) genCallArgs(fn *ir.Func, sig *analyzer.FuncSig, args []ast.Expression) (value.Value, *diagnostics.Error) {
	vals := make([]value.Value, len(args))
	for i, a := range args {
		want := sig.Parameters[i].Type
		v, err := e.genExpr(a, want)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return e.block.NewCall(fn, vals...), nil
}

func (e *emitter) genPrintln(arg ast.Expression) (value.Value, *diagnostics.Error) {
	argType := e.exprType(arg, nil)
	val, err := e.genExpr(arg, argType)
	if err != nil {
		return nil, err
	}

	suffix := printlnSuffixFor(argType)
	fn, ok := e.rt.println[suffix]
	if !ok {
		return nil, errInternalAt(fmt.Sprintf("println has no runtime extern for type '%s'", argType.String()), arg.Span())
	}
	e.block.NewCall(fn, val)
	return nil, nil
}

func printlnSuffixFor(t ast.Type) string {
	p, ok := t.(*ast.Primitive)
	if !ok {
		return ""
	}
	switch p.Kind {
	case ast.Bool:
		return "_bool"
	case ast.String:
		return ""
	case ast.I8:
		return "_i8"
	case ast.I16:
		return "_i16"
	case ast.I32:
		return "_i32"
	case ast.I64:
		return "_i64"
	case ast.U8:
		return "_u8"
	case ast.U16:
		return "_u16"
	case ast.U32:
		return "_u32"
	case ast.U64:
		return "_u64"
	case ast.F32:
		return "_f32"
	case ast.F64:
		return "_f64"
	}
	return ""
}
