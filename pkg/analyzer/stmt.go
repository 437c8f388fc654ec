package analyzer

import (
	"github.com/lak-lang/lak/pkg/ast"
	"github.com/lak-lang/lak/pkg/diagnostics"
)

// analyzeBlock validates a flat statement list: a function body, or the
// statement portion of an if/while block used purely for effect (not in
// value position, so no TailExpr is consulted here).
func (f *funcCtx) analyzeBlock(stmts []ast.Statement) *diagnostics.Error {
	f.pushScope()
	defer f.popScope()
	for _, s := range stmts {
		if err := f.analyzeStatement(s); err != nil {
			return err
		}
	}
	return nil
}

// analyzeNestedBlock validates an ast.Block used as an if/while body.
// TailExpr, when present, must only appear when the block sits in value
// position; a bare statement block that happens to end in a call
// expression never has TailExpr set by the parser, so no special casing
// is needed here beyond analyzing it as an expression when present.
func (f *funcCtx) analyzeNestedBlock(b ast.Block) *diagnostics.Error {
	f.pushScope()
	defer f.popScope()
	for _, s := range b.Statements {
		if err := f.analyzeStatement(s); err != nil {
			return err
		}
	}
	if b.TailExpr != nil {
		if _, err := f.analyzeExpr(b.TailExpr, nil); err != nil {
			return err
		}
	}
	return nil
}

func (f *funcCtx) analyzeStatement(s ast.Statement) *diagnostics.Error {
	switch v := s.(type) {
	case *ast.LetStatement:
		return f.analyzeLet(v)
	case *ast.AssignStatement:
		return f.analyzeAssign(v)
	case *ast.ReturnStatement:
		return f.analyzeReturn(v)
	case *ast.ExpressionStatement:
		return f.analyzeExpressionStatement(v)
	case *ast.IfStatement:
		return f.analyzeIfStatement(v)
	case *ast.WhileStatement:
		return f.analyzeWhile(v)
	case *ast.BreakStatement:
		if f.loopDepth == 0 {
			return errInvalidControlFlow("break", v.Sp)
		}
		return nil
	case *ast.ContinueStatement:
		if f.loopDepth == 0 {
			return errInvalidControlFlow("continue", v.Sp)
		}
		return nil
	}
	return errInternal("encountered a statement node of unknown static type", s.Span())
}

func (f *funcCtx) analyzeLet(v *ast.LetStatement) *diagnostics.Error {
	if containsIdentifier(v.Value, v.Name) {
		return errSelfReferentialInitializer(v.Name, v.Sp)
	}

	valueType, err := f.analyzeExpr(v.Value, v.DeclaredType)
	if err != nil {
		return err
	}
	if v.DeclaredType != nil && !ast.SameType(valueType, v.DeclaredType) {
		return errTypeMismatch(v.DeclaredType.String(), valueType.String(), v.Value.Span())
	}

	f.session.inferred[v.Sp] = valueType

	if v.Discard {
		return nil
	}
	return f.declare(&VariableInfo{
		Name:           v.Name,
		IsMutable:      v.Mutable,
		Type:           valueType,
		DefinitionSpan: v.NameSpan,
	})
}

// containsIdentifier reports whether e refers to name anywhere within
// itself, used to reject `let x = x + 1`-style self-reference before x
// exists in scope. It does not need to recurse into nested blocks — a
// let's initializer expression can only be a bare expression, never a
// block — but if/while bodies within expression position are walked too.
func containsIdentifier(e ast.Expression, name string) bool {
	switch v := e.(type) {
	case *ast.Identifier:
		return v.Name == name
	case *ast.CallExpr:
		for _, a := range v.Args {
			if containsIdentifier(a, name) {
				return true
			}
		}
		return false
	case *ast.ModuleCallExpr:
		for _, a := range v.Args {
			if containsIdentifier(a, name) {
				return true
			}
		}
		return false
	case *ast.BinaryExpr:
		return containsIdentifier(v.Left, name) || containsIdentifier(v.Right, name)
	case *ast.UnaryExpr:
		return containsIdentifier(v.Operand, name)
	case *ast.IfExpr:
		return ifStatementReferences(v.If, name)
	}
	return false
}

func ifStatementReferences(s *ast.IfStatement, name string) bool {
	if containsIdentifier(s.Condition, name) {
		return true
	}
	if blockReferences(s.Then, name) {
		return true
	}
	if s.Else == nil {
		return false
	}
	if s.Else.If != nil {
		return ifStatementReferences(s.Else.If, name)
	}
	return blockReferences(*s.Else.Block, name)
}

func blockReferences(b ast.Block, name string) bool {
	for _, s := range b.Statements {
		switch v := s.(type) {
		case *ast.LetStatement:
			if containsIdentifier(v.Value, name) {
				return true
			}
		case *ast.AssignStatement:
			if containsIdentifier(v.Value, name) {
				return true
			}
		case *ast.ReturnStatement:
			if v.Value != nil && containsIdentifier(v.Value, name) {
				return true
			}
		case *ast.ExpressionStatement:
			if containsIdentifier(v.Value, name) {
				return true
			}
		}
	}
	if b.TailExpr != nil {
		return containsIdentifier(b.TailExpr, name)
	}
	return false
}

func (f *funcCtx) analyzeAssign(v *ast.AssignStatement) *diagnostics.Error {
	vi := f.lookup(v.Name)
	if vi == nil {
		return errUndefinedVariable(v.Name, v.NameSpan)
	}
	if !vi.IsMutable {
		return errImmutableVariableReassignment(v.Name, v.NameSpan)
	}
	valueType, err := f.analyzeExpr(v.Value, vi.Type)
	if err != nil {
		return err
	}
	if !ast.SameType(valueType, vi.Type) {
		return errTypeMismatch(vi.Type.String(), valueType.String(), v.Value.Span())
	}
	return nil
}

func (f *funcCtx) analyzeReturn(v *ast.ReturnStatement) *diagnostics.Error {
	wantVoid := false
	if p, ok := f.fn.ReturnType.(*ast.Primitive); ok && p.Kind == ast.Void {
		wantVoid = true
	}

	if v.Value == nil {
		if !wantVoid {
			return errTypeMismatch(f.fn.ReturnType.String(), "void", v.Sp)
		}
		return nil
	}

	got, err := f.analyzeExpr(v.Value, f.fn.ReturnType)
	if err != nil {
		return err
	}
	if !ast.SameType(got, f.fn.ReturnType) {
		return errTypeMismatch(f.fn.ReturnType.String(), got.String(), v.Value.Span())
	}
	return nil
}

// analyzeExpressionStatement enforces that a bare expression used for
// effect is a call whose result, if non-void, is not silently discarded.
func (f *funcCtx) analyzeExpressionStatement(v *ast.ExpressionStatement) *diagnostics.Error {
	resultType, err := f.analyzeExpr(v.Value, nil)
	if err != nil {
		return err
	}
	if p, ok := resultType.(*ast.Primitive); ok && p.Kind == ast.Void {
		return nil
	}
	return errUnusedCallResult(calleeName(v.Value), v.Sp)
}

func calleeName(e ast.Expression) string {
	switch v := e.(type) {
	case *ast.CallExpr:
		return v.Callee
	case *ast.ModuleCallExpr:
		return v.Module + "." + v.Function
	}
	return "expression"
}

func (f *funcCtx) analyzeIfStatement(v *ast.IfStatement) *diagnostics.Error {
	condType, err := f.analyzeExpr(v.Condition, boolType)
	if err != nil {
		return err
	}
	if !isBool(condType) {
		return errTypeMismatch("bool", condType.String(), v.Condition.Span())
	}
	if err := f.analyzeNestedBlock(v.Then); err != nil {
		return err
	}
	if v.Else == nil {
		return nil
	}
	if v.Else.If != nil {
		return f.analyzeIfStatement(v.Else.If)
	}
	return f.analyzeNestedBlock(*v.Else.Block)
}

func (f *funcCtx) analyzeWhile(v *ast.WhileStatement) *diagnostics.Error {
	condType, err := f.analyzeExpr(v.Condition, boolType)
	if err != nil {
		return err
	}
	if !isBool(condType) {
		return errTypeMismatch("bool", condType.String(), v.Condition.Span())
	}
	f.loopDepth++
	err = f.analyzeNestedBlock(v.Body)
	f.loopDepth--
	return err
}
