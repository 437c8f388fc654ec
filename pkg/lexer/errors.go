package lexer

import (
	"fmt"

	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/token"
)

// All lexer error construction lives here; scanToken never builds a
// diagnostics.Error by hand.

func errAt(kind, title, label string, sp token.Span) *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.PhaseLex,
		Kind:  kind,
		Title: title,
		Label: label,
		Span:  &sp,
	}
}

func errUnexpectedCharacter(c byte, sp token.Span) *diagnostics.Error {
	return errAt("UnexpectedCharacter", "Unexpected character",
		fmt.Sprintf("unexpected character %q", c), sp)
}

func errInvalidWhitespace(c byte, sp token.Span) *diagnostics.Error {
	return errAt("InvalidWhitespace", "Invalid whitespace",
		fmt.Sprintf("unsupported whitespace byte %#x; only space, tab, carriage return and newline are allowed", c), sp)
}

func errNonASCIIIdentifier(sp token.Span) *diagnostics.Error {
	return errAt("UnexpectedCharacter", "Invalid identifier character",
		"identifiers must contain only ASCII letters, digits and underscores", sp)
}

func errUnterminatedString(sp token.Span) *diagnostics.Error {
	e := errAt("UnterminatedString", "Unterminated string literal",
		"this string literal is never closed with a matching '\"'", sp)
	e.Help = "strings must be closed on the same line they are opened"
	return e
}

func errUnknownEscape(c byte, sp token.Span) *diagnostics.Error {
	return errAt("UnknownEscape", "Unknown escape sequence",
		fmt.Sprintf("unknown escape sequence '\\%c'; supported escapes are \\n \\t \\r \\\\ \\\"", c), sp)
}

func errIntegerOverflow(lexeme string, sp token.Span) *diagnostics.Error {
	e := errAt("IntegerOverflow", "Integer literal overflow",
		fmt.Sprintf("'%s' does not fit in an unsigned 64-bit integer", lexeme), sp)
	return e
}

func errInvalidFloat(lexeme string, sp token.Span) *diagnostics.Error {
	return errAt("InvalidFloat", "Invalid float literal",
		fmt.Sprintf("'%s' is not a valid float literal", lexeme), sp)
}
