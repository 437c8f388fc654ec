package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// TestMain registers lakc's entry point under testscript so scripts can
// invoke it as a subprocess-like command without actually forking a
// process. Scripts here are restricted to argument handling and the
// resolver/parser error paths, which never shell out to an external
// compiler or linker and so need no clang, cc, or runtime archive present.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"lakc": func() int { return runCLI(os.Args) },
	}))
}

func TestCLIScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
