package parser

import (
	"fmt"

	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/token"
)

func errAt(kind, title, label string, sp token.Span) *diagnostics.Error {
	return &diagnostics.Error{Phase: diagnostics.PhaseParse, Kind: kind, Title: title, Label: label, Span: &sp}
}

func errUnexpectedToken(expected string, got token.Token) *diagnostics.Error {
	return errAt("UnexpectedToken", "Unexpected token",
		fmt.Sprintf("expected %s, found %s", expected, got.Kind), got.Span)
}

func errInvalidTopLevel(got token.Token) *diagnostics.Error {
	e := errAt("InvalidTopLevel", "Invalid top-level statement",
		"only 'import' declarations and function definitions are allowed at the top level", got.Span)
	e.Help = "move this statement inside a function body"
	return e
}

func errLetMutDiscard(sp token.Span) *diagnostics.Error {
	return errAt("InvalidLetMutDiscard", "'mut' is not allowed before '_'",
		"a discarded binding 'let _' can never be reassigned, so 'mut' has no effect here", sp)
}

func errInvalidExpressionStatement(sp token.Span) *diagnostics.Error {
	e := errAt("InvalidExpressionStatement", "Invalid expression statement",
		"only function calls are allowed as statements", sp)
	e.Help = "did you mean to bind this with 'let', or call a function instead?"
	return e
}

func errUnknownType(text string, sp token.Span) *diagnostics.Error {
	return errAt("UnknownType", "Unknown type",
		fmt.Sprintf("'%s' is not a known type", text), sp)
}

func errMissingElseBranch(sp token.Span) *diagnostics.Error {
	return errAt("MissingElseBranch", "'if' used as a value requires an 'else' branch",
		"every branch of a value-producing 'if' must be covered", sp)
}

func errIdentifierNotCallable(sp token.Span) *diagnostics.Error {
	e := errAt("IdentifierNotCallable", "Expected a function call",
		"a bare identifier cannot be used as a statement", sp)
	e.Help = "wrap the call in parentheses if you meant to call it, e.g. 'f()'"
	return e
}
