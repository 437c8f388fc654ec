package analyzer

import (
	"fmt"

	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/token"
)

// All semantic error construction lives here; analysis code never builds a
// diagnostics.Error by hand.

func errAt(kind, title, label string, sp token.Span) *diagnostics.Error {
	return &diagnostics.Error{Phase: diagnostics.PhaseSemantic, Kind: kind, Title: title, Label: label, Span: &sp}
}

func errNoSpan(kind, title, label, help string) *diagnostics.Error {
	return &diagnostics.Error{Phase: diagnostics.PhaseSemantic, Kind: kind, Title: title, Label: label, Help: help}
}

func errDuplicateFunction(name string, sp token.Span) *diagnostics.Error {
	return errAt("DuplicateFunction", "Duplicate function",
		fmt.Sprintf("a function named '%s' is already defined in this module", name), sp)
}

func errReservedBuiltinName(name string, sp token.Span) *diagnostics.Error {
	e := errAt("ReservedBuiltinName", "Reserved function name",
		fmt.Sprintf("'%s' is a prelude builtin and cannot be redefined", name), sp)
	e.Help = "choose a different name for this function"
	return e
}

func errMissingMainFunction() *diagnostics.Error {
	return errNoSpan("MissingMainFunction", "Missing 'main' function",
		"the entry module must define a function named 'main'",
		"add 'fn main() -> void { ... }' to this module")
}

func errInvalidMainSignature(sp token.Span) *diagnostics.Error {
	return errAt("InvalidMainSignature", "Invalid 'main' signature",
		"'main' must take no parameters and return 'void'", sp)
}

func errDuplicateVariable(name string, sp token.Span) *diagnostics.Error {
	return errAt("DuplicateVariable", "Duplicate variable",
		fmt.Sprintf("a variable named '%s' is already defined in this scope", name), sp)
}

func errUndefinedVariable(name string, sp token.Span) *diagnostics.Error {
	return errAt("UndefinedVariable", "Undefined variable",
		fmt.Sprintf("'%s' is not defined", name), sp)
}

func errUndefinedFunction(name string, sp token.Span) *diagnostics.Error {
	return errAt("UndefinedFunction", "Undefined function",
		fmt.Sprintf("'%s' is not defined", name), sp)
}

func errCallToMainForbidden(sp token.Span) *diagnostics.Error {
	return errAt("UndefinedFunction", "Cannot call 'main'",
		"'main' is the program entry point and cannot be called", sp)
}

func errModuleNotImported(name string, sp token.Span) *diagnostics.Error {
	e := errAt("ModuleNotImported", "Module not imported",
		fmt.Sprintf("'%s' does not refer to an imported module", name), sp)
	e.Help = "add an 'import' declaration for this module at the top of the file"
	return e
}

func errUndefinedModuleFunction(module, fn string, sp token.Span) *diagnostics.Error {
	return errAt("UndefinedModuleFunction", "Undefined module function",
		fmt.Sprintf("module '%s' has no public function named '%s'", module, fn), sp)
}

func errModuleAccessNotImplemented(sp token.Span) *diagnostics.Error {
	e := errAt("ModuleAccessNotImplemented", "Unsupported module access",
		"only calling a function through a module path is supported", sp)
	e.Help = "module member access is only valid as the target of a call, e.g. 'mod.fn()'"
	return e
}

func errCrossModuleCallInImportedModule(sp token.Span) *diagnostics.Error {
	return errAt("CrossModuleCallInImportedModule", "Cross-module call in imported module",
		"imported modules may not themselves call into other modules", sp)
}

func errImmutableVariableReassignment(name string, sp token.Span) *diagnostics.Error {
	e := errAt("ImmutableVariableReassignment", "Cannot assign to immutable variable",
		fmt.Sprintf("'%s' was declared without 'mut' and cannot be reassigned", name), sp)
	e.Help = "declare it as 'let mut' if it needs to change"
	return e
}

func errSelfReferentialInitializer(name string, sp token.Span) *diagnostics.Error {
	return errAt("SelfReferentialInitializer", "Self-referential initializer",
		fmt.Sprintf("the initializer for '%s' cannot refer to '%s' itself", name, name), sp)
}

func errTypeMismatch(expected, got string, sp token.Span) *diagnostics.Error {
	return errAt("TypeMismatch", "Type mismatch",
		fmt.Sprintf("expected '%s', found '%s'", expected, got), sp)
}

func errIfBranchTypeMismatch(thenType, elseType string, sp token.Span) *diagnostics.Error {
	return errAt("IfExpressionBranchTypeMismatch", "'if' branches have different types",
		fmt.Sprintf("then-branch has type '%s' but else-branch has type '%s'", thenType, elseType), sp)
}

func errInvalidControlFlow(what string, sp token.Span) *diagnostics.Error {
	return errAt("InvalidControlFlow", "Invalid control flow",
		fmt.Sprintf("'%s' is only valid inside a 'while' loop", what), sp)
}

func errInvalidArgumentCount(name string, want, got int, sp token.Span) *diagnostics.Error {
	return errAt("InvalidArgument", "Wrong number of arguments",
		fmt.Sprintf("'%s' expects %d argument(s), found %d", name, want, got), sp)
}

func errInvalidArgumentType(pos int, expected, got string, sp token.Span) *diagnostics.Error {
	return errAt("InvalidArgument", "Invalid argument type",
		fmt.Sprintf("argument %d: expected '%s', found '%s'", pos, expected, got), sp)
}

func errUnusedCallResult(name string, sp token.Span) *diagnostics.Error {
	e := errAt("UnusedCallResult", "Unused function result",
		fmt.Sprintf("the result of calling '%s' is never used", name), sp)
	e.Help = "bind it with 'let', discard it with 'let _ =', or use it in an expression"
	return e
}

func errMissingReturn(name string, sp token.Span) *diagnostics.Error {
	return errAt("MissingReturn", "Missing return",
		fmt.Sprintf("not all paths in '%s' return a value", name), sp)
}

func errIntegerOverflowSem(typeName, lexeme string, sp token.Span) *diagnostics.Error {
	return errAt("IntegerOverflow", "Integer literal out of range",
		fmt.Sprintf("%s does not fit in '%s'", lexeme, typeName), sp)
}

func errFloatOverflowSem(typeName, lexeme string, sp token.Span) *diagnostics.Error {
	return errAt("TypeMismatch", "Float literal out of range",
		fmt.Sprintf("%s is not representable as '%s'", lexeme, typeName), sp)
}

func errInternal(message string, sp token.Span) *diagnostics.Error {
	return errAt("InternalError", "Internal compiler error",
		fmt.Sprintf("%s. This is a compiler bug.", message), sp)
}
