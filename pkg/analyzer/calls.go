package analyzer

import (
	"github.com/lak-lang/lak/pkg/ast"
	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/token"
)

// typeBinaryOp computes the result type of a binary expression whose operand
// types have already been resolved (with literal adaptation applied).
// Arithmetic operators require identical numeric operand types and yield
// that type; comparisons require identical comparable operand types and
// yield bool; && and || require both operands to be bool.
func typeBinaryOp(v *ast.BinaryExpr, left, right ast.Type) (ast.Type, *diagnostics.Error) {
	switch v.Op {
	case token.AND_AND, token.OR_OR:
		if !isBool(left) {
			return nil, errTypeMismatch("bool", left.String(), v.Left.Span())
		}
		if !isBool(right) {
			return nil, errTypeMismatch("bool", right.String(), v.Right.Span())
		}
		return boolType, nil

	case token.EQUAL_EQUAL, token.BANG_EQUAL:
		if !ast.SameType(left, right) {
			return nil, errTypeMismatch(left.String(), right.String(), v.Sp)
		}
		return boolType, nil

	case token.LESS, token.GREATER, token.LESS_EQUAL, token.GREATER_EQUAL:
		lp, lok := left.(*ast.Primitive)
		_, rok := right.(*ast.Primitive)
		if !lok || !rok || !(lp.Kind.IsInteger() || lp.Kind.IsFloat() || lp.Kind == ast.String) {
			return nil, errTypeMismatch("a numeric or string type", left.String(), v.Left.Span())
		}
		if !ast.SameType(left, right) {
			return nil, errTypeMismatch(left.String(), right.String(), v.Sp)
		}
		return boolType, nil

	default: // + - * / %
		lp, lok := left.(*ast.Primitive)
		_, rok := right.(*ast.Primitive)
		if !lok || !rok || !(lp.Kind.IsInteger() || lp.Kind.IsFloat()) {
			return nil, errTypeMismatch("a numeric type", left.String(), v.Left.Span())
		}
		if !ast.SameType(left, right) {
			return nil, errTypeMismatch(left.String(), right.String(), v.Sp)
		}
		return left, nil
	}
}

func isBool(t ast.Type) bool {
	p, ok := t.(*ast.Primitive)
	return ok && p.Kind == ast.Bool
}

// analyzeCall resolves a local, unqualified call. The two builtins,
// println and panic, are handled specially since they have no FuncSig:
// println accepts any single argument and returns void; panic accepts a
// single string argument and returns void.
func (f *funcCtx) analyzeCall(v *ast.CallExpr) (ast.Type, *diagnostics.Error) {
	if v.Callee == "main" {
		return nil, errCallToMainForbidden(v.Sp)
	}

	switch v.Callee {
	case "println":
		if len(v.Args) != 1 {
			return nil, errInvalidArgumentCount("println", 1, len(v.Args), v.Sp)
		}
		if _, err := f.analyzeExpr(v.Args[0], nil); err != nil {
			return nil, err
		}
		return voidType, nil
	case "panic":
		if len(v.Args) != 1 {
			return nil, errInvalidArgumentCount("panic", 1, len(v.Args), v.Sp)
		}
		argType, err := f.analyzeExpr(v.Args[0], stringType)
		if err != nil {
			return nil, err
		}
		if !ast.SameType(argType, stringType) {
			return nil, errInvalidArgumentType(1, "string", argType.String(), v.Args[0].Span())
		}
		return voidType, nil
	}

	sig, ok := f.localFuncs[v.Callee]
	if !ok {
		return nil, errUndefinedFunction(v.Callee, v.CalleeSpan)
	}
	if err := f.checkArgs(sig, v.Args, v.Sp); err != nil {
		return nil, err
	}
	return sig.ReturnType, nil
}

// analyzeModuleCall resolves a module-qualified call `mod.fn(args)`.
// Imported modules run in library mode, which forbids them from issuing
// cross-module calls of their own; that restriction is checked here against
// the calling module's libraryMode flag, so a module-qualified call is only
// valid in a non-library-mode (entry) module's body.
func (f *funcCtx) analyzeModuleCall(v *ast.ModuleCallExpr) (ast.Type, *diagnostics.Error) {
	if f.libraryMode {
		return nil, errCrossModuleCallInImportedModule(v.Sp)
	}

	canonical, ok := f.importBindings[v.Module]
	if !ok {
		return nil, errModuleNotImported(v.Module, v.ModuleSpan)
	}

	targetFuncs := f.session.moduleFuncs[canonical]
	sig, ok := targetFuncs[v.Function]
	if !ok || sig.Visibility != ast.Public {
		return nil, errUndefinedModuleFunction(v.Module, v.Function, v.FunctionSpan)
	}

	if err := f.checkArgs(sig, v.Args, v.Sp); err != nil {
		return nil, err
	}
	return sig.ReturnType, nil
}

func (f *funcCtx) checkArgs(sig *FuncSig, args []ast.Expression, callSpan token.Span) *diagnostics.Error {
	if len(args) != len(sig.Parameters) {
		return errInvalidArgumentCount(sig.Name, len(sig.Parameters), len(args), callSpan)
	}
	for i, arg := range args {
		want := sig.Parameters[i].Type
		got, err := f.analyzeExpr(arg, want)
		if err != nil {
			return err
		}
		if !ast.SameType(got, want) {
			return errInvalidArgumentType(i+1, want.String(), got.String(), arg.Span())
		}
	}
	return nil
}
