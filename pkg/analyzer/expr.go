package analyzer

import (
	"math"
	"math/big"

	"github.com/lak-lang/lak/pkg/ast"
	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/token"
)

func primitive(k ast.PrimitiveKind) *ast.Primitive { return &ast.Primitive{Kind: k} }

var boolType = primitive(ast.Bool)
var voidType = primitive(ast.Void)
var stringType = primitive(ast.String)

func isBareLiteral(e ast.Expression) bool {
	switch e.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral:
		return true
	}
	return false
}

// analyzeExpr type-checks e. expected, when non-nil, is the type the
// surrounding context requires — it drives integer/float literal
// contextual adaptation; it is not itself enforced here (callers compare
// the returned type against their own requirement and raise TypeMismatch).
func (f *funcCtx) analyzeExpr(e ast.Expression, expected ast.Type) (ast.Type, *diagnostics.Error) {
	switch v := e.(type) {
	case *ast.IntegerLiteral:
		return f.analyzeIntegerLiteral(v, expected)
	case *ast.FloatLiteral:
		return f.analyzeFloatLiteral(v, expected)
	case *ast.BoolLiteral:
		return boolType, nil
	case *ast.StringLiteral:
		return stringType, nil
	case *ast.Identifier:
		vi := f.lookup(v.Name)
		if vi == nil {
			return nil, errUndefinedVariable(v.Name, v.Sp)
		}
		return vi.Type, nil
	case *ast.ModuleAccess:
		return nil, errModuleAccessNotImplemented(v.Sp)
	case *ast.CallExpr:
		return f.analyzeCall(v)
	case *ast.ModuleCallExpr:
		return f.analyzeModuleCall(v)
	case *ast.BinaryExpr:
		return f.analyzeBinary(v, expected)
	case *ast.UnaryExpr:
		return f.analyzeUnary(v)
	case *ast.IfExpr:
		return f.analyzeIfExpr(v, expected)
	}
	return nil, errInternal("encountered an expression node of unknown static type", e.Span())
}

func (f *funcCtx) analyzeIntegerLiteral(v *ast.IntegerLiteral, expected ast.Type) (ast.Type, *diagnostics.Error) {
	kind := ast.I64
	if p, ok := expected.(*ast.Primitive); ok && p.Kind.IsInteger() {
		kind = p.Kind
	}
	if !kind.Fits(v.Value) {
		return nil, errIntegerOverflowSem(kind.String(), v.Value.String(), v.Sp)
	}
	return primitive(kind), nil
}

func (f *funcCtx) analyzeFloatLiteral(v *ast.FloatLiteral, expected ast.Type) (ast.Type, *diagnostics.Error) {
	kind := ast.F64
	if p, ok := expected.(*ast.Primitive); ok && p.Kind.IsFloat() {
		kind = p.Kind
	}
	if kind == ast.F32 && !representableAsF32(v.Value) {
		return nil, errFloatOverflowSem("f32", formatFloat(v.Value), v.Sp)
	}
	return primitive(kind), nil
}

func representableAsF32(v float64) bool {
	return math.Abs(v) <= math.MaxFloat32
}

func formatFloat(v float64) string {
	return big.NewFloat(v).Text('g', -1)
}

func (f *funcCtx) analyzeUnary(v *ast.UnaryExpr) (ast.Type, *diagnostics.Error) {
	operandType, err := f.analyzeExpr(v.Operand, nil)
	if err != nil {
		return nil, err
	}
	p, ok := operandType.(*ast.Primitive)
	if !ok {
		return nil, errTypeMismatch("numeric or bool", operandType.String(), v.Sp)
	}
	switch v.Op {
	case token.MINUS:
		if !p.Kind.IsInteger() && !p.Kind.IsFloat() {
			return nil, errTypeMismatch("a numeric type", operandType.String(), v.Sp)
		}
		return operandType, nil
	default: // token.BANG
		if p.Kind != ast.Bool {
			return nil, errTypeMismatch("bool", operandType.String(), v.Sp)
		}
		return boolType, nil
	}
}

func (f *funcCtx) analyzeIfExpr(v *ast.IfExpr, expected ast.Type) (ast.Type, *diagnostics.Error) {
	condType, err := f.analyzeExpr(v.If.Condition, boolType)
	if err != nil {
		return nil, err
	}
	if p, ok := condType.(*ast.Primitive); !ok || p.Kind != ast.Bool {
		return nil, errTypeMismatch("bool", condType.String(), v.If.Condition.Span())
	}

	thenType, err := f.analyzeIfBranchBlock(v.If.Then, expected)
	if err != nil {
		return nil, err
	}

	var elseType ast.Type
	if v.If.Else.If != nil {
		elseType, err = f.analyzeIfExpr(&ast.IfExpr{If: v.If.Else.If, Sp: v.If.Else.If.Sp}, expected)
	} else {
		elseType, err = f.analyzeIfBranchBlock(*v.If.Else.Block, expected)
	}
	if err != nil {
		return nil, err
	}

	if !ast.SameType(thenType, elseType) {
		return nil, errIfBranchTypeMismatch(thenType.String(), elseType.String(), v.Sp)
	}
	return thenType, nil
}

func (f *funcCtx) analyzeIfBranchBlock(b ast.Block, expected ast.Type) (ast.Type, *diagnostics.Error) {
	f.pushScope()
	defer f.popScope()

	for _, s := range b.Statements {
		if err := f.analyzeStatement(s); err != nil {
			return nil, err
		}
	}
	if b.TailExpr == nil {
		return nil, errInternal("if-expression branch has no yielded value", b.Sp)
	}
	return f.analyzeExpr(b.TailExpr, expected)
}

func (f *funcCtx) analyzeBinary(v *ast.BinaryExpr, expected ast.Type) (ast.Type, *diagnostics.Error) {
	leftIsLit := isBareLiteral(v.Left)
	rightIsLit := isBareLiteral(v.Right)

	var leftType, rightType ast.Type
	var err *diagnostics.Error

	switch {
	case leftIsLit && !rightIsLit:
		rightType, err = f.analyzeExpr(v.Right, nil)
		if err != nil {
			return nil, err
		}
		leftType, err = f.analyzeExpr(v.Left, rightType)
	case rightIsLit && !leftIsLit:
		leftType, err = f.analyzeExpr(v.Left, nil)
		if err != nil {
			return nil, err
		}
		rightType, err = f.analyzeExpr(v.Right, leftType)
	default:
		leftType, err = f.analyzeExpr(v.Left, expected)
		if err != nil {
			return nil, err
		}
		rightType, err = f.analyzeExpr(v.Right, expected)
	}
	if err != nil {
		return nil, err
	}

	return typeBinaryOp(v, leftType, rightType)
}
