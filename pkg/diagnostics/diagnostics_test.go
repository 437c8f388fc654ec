package diagnostics

import (
	"strings"
	"testing"

	"github.com/lak-lang/lak/pkg/token"
)

func TestErrorErrorWithSpan(t *testing.T) {
	sp := token.Span{Line: 3, Column: 7}
	e := &Error{Title: "Unexpected token", Label: "found '+'", Span: &sp}
	want := "Unexpected token: 3:7: found '+'"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorErrorWithoutSpan(t *testing.T) {
	e := &Error{Title: "Missing 'main' function", Label: "the entry module must define 'main'"}
	want := "Missing 'main' function: the entry module must define 'main'"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestHasSourceContext(t *testing.T) {
	e := &Error{}
	if e.HasSourceContext() {
		t.Error("HasSourceContext() = true, want false for a bare error")
	}
	e.SourceFilename = "other.lak"
	if !e.HasSourceContext() {
		t.Error("HasSourceContext() = false, want true once SourceFilename is set")
	}
}

func TestEndOfSourceEmpty(t *testing.T) {
	sp := EndOfSource("")
	want := token.Span{StartByte: 0, EndByte: 0, Line: 1, Column: 1}
	if sp != want {
		t.Errorf("EndOfSource(\"\") = %+v, want %+v", sp, want)
	}
}

func TestEndOfSourceMultiline(t *testing.T) {
	src := "abc\ndef\n"
	sp := EndOfSource(src)
	if sp.Line != 3 {
		t.Errorf("EndOfSource(%q).Line = %d, want 3", src, sp.Line)
	}
}

func TestRenderIncludesFilenameAndLabel(t *testing.T) {
	src := "fn main() -> void {\n  x\n}\n"
	sp := token.Span{StartByte: 23, EndByte: 24, Line: 2, Column: 3}
	e := &Error{Title: "Undefined variable", Label: "'x' is not defined", Span: &sp}

	out := Render(e, "main.lak", src, false)

	if !strings.Contains(out, "Error: Undefined variable") {
		t.Errorf("Render output missing title:\n%s", out)
	}
	if !strings.Contains(out, "main.lak:2:3") {
		t.Errorf("Render output missing location:\n%s", out)
	}
	if !strings.Contains(out, "'x' is not defined") {
		t.Errorf("Render output missing label:\n%s", out)
	}
}

func TestRenderUsesErrorsOwnSourceContextWhenPresent(t *testing.T) {
	callerSrc := "fn main() -> void {\n}\n"
	ownSrc := "pub fn helper(\n"
	sp := token.Span{StartByte: 14, EndByte: 15, Line: 1, Column: 15}
	e := &Error{
		Title:          "Unexpected token",
		Label:          "found end of input",
		Span:           &sp,
		SourceFilename: "helper.lak",
		SourceContent:  ownSrc,
	}

	out := Render(e, "main.lak", callerSrc, false)

	if !strings.Contains(out, "helper.lak:1:15") {
		t.Errorf("Render did not use the error's own source context:\n%s", out)
	}
	if strings.Contains(out, "main.lak") {
		t.Errorf("Render used the caller's filename instead of the error's own:\n%s", out)
	}
}

func TestRenderFallsBackToPlainTextOnMalformedSpan(t *testing.T) {
	sp := token.Span{StartByte: 100, EndByte: 200, Line: 1, Column: 1}
	e := &Error{Title: "Internal compiler error", Label: "span out of range", Span: &sp}

	out := Render(e, "main.lak", "fn main() -> void {\n}\n", false)

	if !strings.Contains(out, "Internal compiler error") {
		t.Errorf("Render output missing title:\n%s", out)
	}
	if !strings.Contains(out, "span out of range") {
		t.Errorf("Render output missing label in plain-text fallback:\n%s", out)
	}
	if strings.Contains(out, "-->") {
		t.Errorf("Render should not have emitted a source-location line for a malformed span:\n%s", out)
	}
}

func TestRenderIncludesHelp(t *testing.T) {
	e := &Error{Title: "Unterminated string literal", Label: "never closed", Help: "close it with a matching quote"}
	out := Render(e, "main.lak", "\"abc", false)
	if !strings.Contains(out, "help: close it with a matching quote") {
		t.Errorf("Render output missing help text:\n%s", out)
	}
}

func TestRenderColorAddsANSICodes(t *testing.T) {
	e := &Error{Title: "Unexpected token", Label: "oops"}
	plain := Render(e, "main.lak", "x\n", false)
	colored := Render(e, "main.lak", "x\n", true)
	if strings.Contains(plain, "\x1b[") {
		t.Error("plain-mode Render output contains an ANSI escape sequence")
	}
	if !strings.Contains(colored, "\x1b[") {
		t.Error("color-mode Render output is missing ANSI escape sequences")
	}
}

func TestRenderNilErrorIsEmpty(t *testing.T) {
	if got := Render(nil, "main.lak", "x\n", false); got != "" {
		t.Errorf("Render(nil, ...) = %q, want empty string", got)
	}
}
