package lexer

import (
	"testing"

	"github.com/lak-lang/lak/pkg/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func assertKinds(t *testing.T, src string, want ...token.Kind) {
	t.Helper()
	toks, err := LexAll(src)
	if err != nil {
		t.Fatalf("LexAll(%q) returned error: %s", src, err.Title)
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("LexAll(%q) = %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LexAll(%q)[%d] = %v, want %v", src, i, got[i], want[i])
		}
	}
}

func TestLexAllEmptySourceIsJustEOF(t *testing.T) {
	assertKinds(t, "", token.EOF)
}

func TestLexAllPunctuationAndOperators(t *testing.T) {
	assertKinds(t, "(){},.:->==!=<=>=&&||",
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.COLON, token.ARROW, token.EQUAL_EQUAL,
		token.BANG_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL, token.AND_AND,
		token.OR_OR, token.EOF)
}

func TestLexAllKeywordsVsIdentifiers(t *testing.T) {
	assertKinds(t, "fn letter let mut",
		token.FN, token.IDENTIFIER, token.LET, token.MUT, token.EOF)
}

func TestLexAllIntegerAndFloat(t *testing.T) {
	toks, err := LexAll("42 3.14")
	if err != nil {
		t.Fatalf("LexAll returned error: %s", err.Title)
	}
	if toks[0].Kind != token.INT || toks[0].Lexeme != "42" {
		t.Errorf("toks[0] = %+v, want INT 42", toks[0])
	}
	if toks[1].Kind != token.FLOAT || toks[1].Lexeme != "3.14" {
		t.Errorf("toks[1] = %+v, want FLOAT 3.14", toks[1])
	}
}

func TestLexAllIntegerOverflow(t *testing.T) {
	_, err := LexAll("99999999999999999999")
	if err == nil {
		t.Fatal("LexAll did not return an error for an overflowing integer literal")
	}
	if err.Kind != "IntegerOverflow" {
		t.Errorf("err.Kind = %q, want %q", err.Kind, "IntegerOverflow")
	}
}

func TestLexAllStringEscapes(t *testing.T) {
	toks, err := LexAll(`"a\nb\t\"c\""`)
	if err != nil {
		t.Fatalf("LexAll returned error: %s", err.Title)
	}
	if toks[0].Kind != token.STRING {
		t.Fatalf("toks[0].Kind = %v, want STRING", toks[0].Kind)
	}
	want := "a\nb\t\"c\""
	if toks[0].Lexeme != want {
		t.Errorf("toks[0].Lexeme = %q, want %q", toks[0].Lexeme, want)
	}
}

func TestLexAllUnterminatedString(t *testing.T) {
	_, err := LexAll(`"never closed`)
	if err == nil {
		t.Fatal("LexAll did not return an error for an unterminated string")
	}
	if err.Kind != "UnterminatedString" {
		t.Errorf("err.Kind = %q, want %q", err.Kind, "UnterminatedString")
	}
}

func TestLexAllUnknownEscape(t *testing.T) {
	_, err := LexAll(`"\q"`)
	if err == nil {
		t.Fatal("LexAll did not return an error for an unknown escape")
	}
	if err.Kind != "UnknownEscape" {
		t.Errorf("err.Kind = %q, want %q", err.Kind, "UnknownEscape")
	}
}

func TestLexAllUnexpectedCharacter(t *testing.T) {
	_, err := LexAll("@")
	if err == nil {
		t.Fatal("LexAll did not return an error for an unexpected character")
	}
	if err.Kind != "UnexpectedCharacter" {
		t.Errorf("err.Kind = %q, want %q", err.Kind, "UnexpectedCharacter")
	}
}

func TestLexAllComment(t *testing.T) {
	assertKinds(t, "let x // a comment\n", token.LET, token.IDENTIFIER, token.TERMINATOR, token.EOF)
}

// Automatic terminator insertion only fires after tokens that can legally
// end a statement, mirroring Go's own newline-insertion rule.
func TestLexAllTerminatorInsertion(t *testing.T) {
	assertKinds(t, "x\n+\n1", token.IDENTIFIER, token.TERMINATOR, token.PLUS, token.INT, token.EOF)
}

func TestLexAllNoDoubleTerminator(t *testing.T) {
	assertKinds(t, "x\n\n", token.IDENTIFIER, token.TERMINATOR, token.EOF)
}

func TestNextYieldsSameSequenceAsLexAll(t *testing.T) {
	src := "fn add(a: int, b: int) -> int {\n  return a + b\n}\n"

	all, err := LexAll(src)
	if err != nil {
		t.Fatalf("LexAll returned error: %s", err.Title)
	}

	l := New(src)
	var streamed []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next returned error: %s", err.Title)
		}
		streamed = append(streamed, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	if len(streamed) != len(all) {
		t.Fatalf("Next produced %d tokens, LexAll produced %d", len(streamed), len(all))
	}
	for i := range all {
		if streamed[i].Kind != all[i].Kind || streamed[i].Lexeme != all[i].Lexeme {
			t.Errorf("token %d: Next = %+v, LexAll = %+v", i, streamed[i], all[i])
		}
	}
}
