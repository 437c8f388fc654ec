// Command lakdump pretty-prints the token stream or AST of a .lak file.
// It exists purely for debugging the compiler itself, the way the teacher's
// playground command did before that tool's repr.Println calls were
// commented out.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/lexer"
	"github.com/lak-lang/lak/pkg/parser"
)

func fail(path, source string, err *diagnostics.Error) {
	fmt.Fprint(os.Stderr, diagnostics.Render(err, path, source, false))
	os.Exit(1)
}

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: lakdump <tokens|ast> <file.lak>")
		os.Exit(1)
	}
	mode, path := os.Args[1], os.Args[2]

	code, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read '%s': %s\n", path, err)
		os.Exit(1)
	}
	source := string(code)

	tokens, lerr := lexer.LexAll(source)
	if lerr != nil {
		fail(path, source, lerr)
	}

	switch mode {
	case "tokens":
		repr.Println(tokens)
	case "ast":
		module, perr := parser.Parse(path, source, tokens)
		if perr != nil {
			fail(path, source, perr)
		}
		repr.Println(module)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode '%s'; expected 'tokens' or 'ast'\n", mode)
		os.Exit(1)
	}
}
