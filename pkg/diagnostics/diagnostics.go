// Package diagnostics renders structured compiler errors with source
// context. Every phase (lexer, parser, resolver, analyzer, codegen)
// constructs *Error values; nothing downstream of parsing ever formats an
// ad-hoc string.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/lak-lang/lak/pkg/token"
)

// Phase identifies which compiler stage raised an error.
type Phase string

const (
	PhaseLex      Phase = "lex"
	PhaseParse    Phase = "parse"
	PhaseResolve  Phase = "resolve"
	PhaseSemantic Phase = "semantic"
	PhaseCodegen  Phase = "codegen"
	PhaseLink     Phase = "link"
	PhaseInfra    Phase = "infrastructure"
)

// Error is the one structured error type every phase returns. A nil Span
// means the error is anchored to end-of-source (e.g. a missing `main`).
type Error struct {
	Phase Phase
	Kind  string
	Title string
	Label string
	Help  string
	Span  *token.Span

	// SourceFilename/SourceContent are set when an error originated in a
	// module other than the one the caller is currently rendering against
	// (e.g. a lex/parse error surfaced while resolving an import), so
	// rendering opens the correct file instead of the entry module's.
	SourceFilename string
	SourceContent  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Span != nil {
		return fmt.Sprintf("%s: %d:%d: %s", e.Title, e.Span.Line, e.Span.Column, e.Label)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Label)
}

// HasSourceContext reports whether the error carries its own file identity,
// distinct from whatever file the caller was otherwise rendering.
func (e *Error) HasSourceContext() bool {
	return e.SourceFilename != "" || e.SourceContent != ""
}

// EndOfSource returns the span anchoring a spanless error: an empty range
// at the end of src (0..0 for an empty file).
func EndOfSource(src string) token.Span {
	if len(src) == 0 {
		return token.Span{StartByte: 0, EndByte: 0, Line: 1, Column: 1}
	}
	line, col := lineColumnOf(src, len(src))
	return token.Span{StartByte: len(src), EndByte: len(src), Line: line, Column: col}
}

func lineColumnOf(src string, byteOffset int) (line, column int) {
	line = 1
	lineStart := 0
	for i := 0; i < byteOffset && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, byteOffset - lineStart + 1
}

// contextLines controls how many lines of source are shown around the
// offending line in a rendered report.
const contextLines = 1

// Render formats e against filename/source for display on stderr. color
// enables ANSI SGR styling; callers gate this on terminal detection. If the
// span cannot be located in source (malformed span), Render falls back to
// plain text instead of panicking.
func Render(e *Error, filename, source string, color bool) string {
	if e == nil {
		return ""
	}

	renderFilename, renderSource := filename, source
	if e.HasSourceContext() {
		renderFilename, renderSource = e.SourceFilename, e.SourceContent
	}

	var b strings.Builder
	title := e.Title
	if title == "" {
		title = "Error"
	}

	writeTitle(&b, title, color)

	span := e.Span
	if span == nil {
		s := EndOfSource(renderSource)
		span = &s
	}

	if !renderSpan(&b, renderFilename, renderSource, *span, e.Label, color) {
		// Fall back to plain text if the span doesn't fit inside the source.
		b.Reset()
		writeTitle(&b, title, color)
		if e.Label != "" {
			fmt.Fprintf(&b, "  %s\n", e.Label)
		}
	}

	if e.Help != "" {
		fmt.Fprintf(&b, "  help: %s\n", e.Help)
	}

	return b.String()
}

func writeTitle(b *strings.Builder, title string, color bool) {
	if color {
		fmt.Fprintf(b, "\x1b[1;31mError:\x1b[0m \x1b[1m%s\x1b[0m\n", title)
	} else {
		fmt.Fprintf(b, "Error: %s\n", title)
	}
}

func renderSpan(b *strings.Builder, filename, source string, span token.Span, label string, color bool) bool {
	if span.StartByte < 0 || span.EndByte > len(source) || span.StartByte > span.EndByte {
		return false
	}

	lines := strings.Split(source, "\n")
	lineIdx := span.Line - 1
	if lineIdx < 0 || lineIdx >= len(lines) {
		if len(lines) == 0 {
			return false
		}
		lineIdx = len(lines) - 1
	}

	fmt.Fprintf(b, "  --> %s:%d:%d\n", filename, span.Line, span.Column)

	lo := lineIdx - contextLines
	if lo < 0 {
		lo = 0
	}
	hi := lineIdx + contextLines
	if hi >= len(lines) {
		hi = len(lines) - 1
	}

	gutterWidth := len(fmt.Sprintf("%d", hi+1))

	for i := lo; i <= hi; i++ {
		fmt.Fprintf(b, "  %*d | %s\n", gutterWidth, i+1, lines[i])
		if i == lineIdx {
			caretCol := span.Column - 1
			if caretCol < 0 {
				caretCol = 0
			}
			caretLen := span.EndByte - span.StartByte
			if caretLen < 1 {
				caretLen = 1
			}
			pad := strings.Repeat(" ", caretCol)
			carets := strings.Repeat("^", caretLen)
			if color {
				fmt.Fprintf(b, "  %s | %s\x1b[1;31m%s\x1b[0m\n", strings.Repeat(" ", gutterWidth), pad, carets)
			} else {
				fmt.Fprintf(b, "  %s | %s%s\n", strings.Repeat(" ", gutterWidth), pad, carets)
			}
			if label != "" {
				fmt.Fprintf(b, "  %s | %s%s\n", strings.Repeat(" ", gutterWidth), pad, label)
			}
		}
	}

	return true
}
