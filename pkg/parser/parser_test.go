package parser

import (
	"testing"

	"github.com/lak-lang/lak/pkg/ast"
	"github.com/lak-lang/lak/pkg/lexer"
)

func parseSource(t *testing.T, src string) *ast.Module {
	t.Helper()
	toks, lerr := lexer.LexAll(src)
	if lerr != nil {
		t.Fatalf("LexAll(%q) returned error: %s", src, lerr.Title)
	}
	module, perr := Parse("test.lak", src, toks)
	if perr != nil {
		t.Fatalf("Parse(%q) returned error: %s: %s", src, perr.Title, perr.Label)
	}
	return module
}

func parseSourceErr(t *testing.T, src string) *ast.Module {
	t.Helper()
	toks, lerr := lexer.LexAll(src)
	if lerr != nil {
		t.Fatalf("LexAll(%q) returned error: %s", src, lerr.Title)
	}
	module, perr := Parse("test.lak", src, toks)
	if perr == nil {
		t.Fatalf("Parse(%q) = %+v, want error", src, module)
	}
	return nil
}

func TestParseEmptyFunction(t *testing.T) {
	m := parseSource(t, "fn main() -> void {\n}\n")
	if len(m.Functions) != 1 {
		t.Fatalf("len(m.Functions) = %d, want 1", len(m.Functions))
	}
	fn := m.Functions[0]
	if fn.Name != "main" {
		t.Errorf("fn.Name = %q, want %q", fn.Name, "main")
	}
	if fn.Visibility != ast.Private {
		t.Errorf("fn.Visibility = %v, want Private", fn.Visibility)
	}
	if len(fn.Parameters) != 0 {
		t.Errorf("len(fn.Parameters) = %d, want 0", len(fn.Parameters))
	}
	prim, ok := fn.ReturnType.(*ast.Primitive)
	if !ok || prim.Kind != ast.Void {
		t.Errorf("fn.ReturnType = %v, want void", fn.ReturnType)
	}
}

func TestParsePubFunctionWithParameters(t *testing.T) {
	m := parseSource(t, "pub fn add(a: i32, b: i32) -> i32 {\n  return a + b\n}\n")
	fn := m.Functions[0]
	if fn.Visibility != ast.Public {
		t.Errorf("fn.Visibility = %v, want Public", fn.Visibility)
	}
	if len(fn.Parameters) != 2 {
		t.Fatalf("len(fn.Parameters) = %d, want 2", len(fn.Parameters))
	}
	if fn.Parameters[0].Name != "a" || fn.Parameters[1].Name != "b" {
		t.Errorf("parameter names = %q, %q, want a, b", fn.Parameters[0].Name, fn.Parameters[1].Name)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("len(fn.Body) = %d, want 1", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("fn.Body[0] = %T, want *ast.ReturnStatement", fn.Body[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("ret.Value = %T, want *ast.BinaryExpr", ret.Value)
	}
	if _, ok := bin.Left.(*ast.Identifier); !ok {
		t.Errorf("bin.Left = %T, want *ast.Identifier", bin.Left)
	}
}

func TestParseImportWithAlias(t *testing.T) {
	m := parseSource(t, "import \"math\" as m\n\nfn main() -> void {\n}\n")
	if len(m.Imports) != 1 {
		t.Fatalf("len(m.Imports) = %d, want 1", len(m.Imports))
	}
	imp := m.Imports[0]
	if imp.PathText != "math" {
		t.Errorf("imp.PathText = %q, want %q", imp.PathText, "math")
	}
	if imp.Alias != "m" {
		t.Errorf("imp.Alias = %q, want %q", imp.Alias, "m")
	}
}

func TestParseLetStatements(t *testing.T) {
	m := parseSource(t, "fn main() -> void {\n  let x = 1\n  let mut y: i32 = 2\n  let _ = 3\n}\n")
	fn := m.Functions[0]
	if len(fn.Body) != 3 {
		t.Fatalf("len(fn.Body) = %d, want 3", len(fn.Body))
	}

	let0 := fn.Body[0].(*ast.LetStatement)
	if let0.Mutable || let0.Discard || let0.Name != "x" {
		t.Errorf("let0 = %+v, want immutable non-discard binding named x", let0)
	}

	let1 := fn.Body[1].(*ast.LetStatement)
	if !let1.Mutable || let1.Name != "y" {
		t.Errorf("let1 = %+v, want mutable binding named y", let1)
	}
	prim, ok := let1.DeclaredType.(*ast.Primitive)
	if !ok || prim.Kind != ast.I32 {
		t.Errorf("let1.DeclaredType = %v, want i32", let1.DeclaredType)
	}

	let2 := fn.Body[2].(*ast.LetStatement)
	if !let2.Discard {
		t.Errorf("let2.Discard = false, want true")
	}
}

func TestParseLetMutDiscardIsAnError(t *testing.T) {
	parseSourceErr(t, "fn main() -> void {\n  let mut _ = 1\n}\n")
}

func TestParseWhileAndControlFlow(t *testing.T) {
	m := parseSource(t, "fn main() -> void {\n  while true {\n    break\n    continue\n  }\n}\n")
	fn := m.Functions[0]
	wh, ok := fn.Body[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("fn.Body[0] = %T, want *ast.WhileStatement", fn.Body[0])
	}
	if len(wh.Body.Statements) != 2 {
		t.Fatalf("len(wh.Body.Statements) = %d, want 2", len(wh.Body.Statements))
	}
	if _, ok := wh.Body.Statements[0].(*ast.BreakStatement); !ok {
		t.Errorf("wh.Body.Statements[0] = %T, want *ast.BreakStatement", wh.Body.Statements[0])
	}
	if _, ok := wh.Body.Statements[1].(*ast.ContinueStatement); !ok {
		t.Errorf("wh.Body.Statements[1] = %T, want *ast.ContinueStatement", wh.Body.Statements[1])
	}
}

func TestParseIfStatementWithElseIf(t *testing.T) {
	m := parseSource(t, "fn main() -> void {\n  if true {\n  } else if false {\n  } else {\n  }\n}\n")
	fn := m.Functions[0]
	ifs, ok := fn.Body[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("fn.Body[0] = %T, want *ast.IfStatement", fn.Body[0])
	}
	if ifs.Else == nil || ifs.Else.If == nil {
		t.Fatal("expected an 'else if' branch")
	}
	if ifs.Else.If.Else == nil || ifs.Else.If.Else.Block == nil {
		t.Fatal("expected a terminal 'else' block")
	}
}

func TestParseIfExpressionRequiresElse(t *testing.T) {
	parseSourceErr(t, "fn main() -> i32 {\n  let x = if true { 1 } \n  return x\n}\n")
}

func TestParseIfExpressionTailValue(t *testing.T) {
	m := parseSource(t, "fn main() -> i32 {\n  let x = if true { 1 } else { 2 }\n  return x\n}\n")
	fn := m.Functions[0]
	let0 := fn.Body[0].(*ast.LetStatement)
	ifExpr, ok := let0.Value.(*ast.IfExpr)
	if !ok {
		t.Fatalf("let0.Value = %T, want *ast.IfExpr", let0.Value)
	}
	if ifExpr.If.Then.TailExpr == nil {
		t.Error("ifExpr.If.Then.TailExpr is nil, want the literal 1")
	}
}

func TestParseBinaryOperatorPrecedence(t *testing.T) {
	m := parseSource(t, "fn main() -> i32 {\n  return 1 + 2 * 3\n}\n")
	ret := m.Functions[0].Body[0].(*ast.ReturnStatement)
	top, ok := ret.Value.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("ret.Value = %T, want *ast.BinaryExpr", ret.Value)
	}
	// 1 + (2 * 3): PLUS must be the outermost operator.
	if top.Op.String() != "'+'" {
		t.Errorf("top.Op = %v, want '+'", top.Op)
	}
	right, ok := top.Right.(*ast.BinaryExpr)
	if !ok || right.Op.String() != "'*'" {
		t.Errorf("top.Right = %v, want a '*' expression", top.Right)
	}
}

func TestParseUnaryMinusFoldsIntoIntegerLiteral(t *testing.T) {
	m := parseSource(t, "fn main() -> i32 {\n  return -128\n}\n")
	ret := m.Functions[0].Body[0].(*ast.ReturnStatement)
	lit, ok := ret.Value.(*ast.IntegerLiteral)
	if !ok {
		t.Fatalf("ret.Value = %T, want *ast.IntegerLiteral", ret.Value)
	}
	if lit.Value.Int64() != -128 {
		t.Errorf("lit.Value = %s, want -128", lit.Value)
	}
}

func TestParseCallAndModuleCall(t *testing.T) {
	m := parseSource(t, "fn main() -> void {\n  helper(1, 2)\n  math.sqrt(4)\n}\n")
	fn := m.Functions[0]

	call := fn.Body[0].(*ast.ExpressionStatement).Value.(*ast.CallExpr)
	if call.Callee != "helper" || len(call.Args) != 2 {
		t.Errorf("call = %+v, want helper(1, 2)", call)
	}

	modCall := fn.Body[1].(*ast.ExpressionStatement).Value.(*ast.ModuleCallExpr)
	if modCall.Module != "math" || modCall.Function != "sqrt" || len(modCall.Args) != 1 {
		t.Errorf("modCall = %+v, want math.sqrt(4)", modCall)
	}
}

func TestParseBareIdentifierStatementIsAnError(t *testing.T) {
	parseSourceErr(t, "fn main() -> void {\n  x\n}\n")
}

func TestParseInvalidTopLevelStatement(t *testing.T) {
	parseSourceErr(t, "let x = 1\n")
}

func TestParseUnknownTypeIsAnError(t *testing.T) {
	parseSourceErr(t, "fn main() -> notatype {\n}\n")
}
