package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/driver"
	"github.com/urfave/cli/v2"
)

// colorEnabled gates ANSI styling on a plain isatty check — no terminal
// library appears anywhere in the retrieved pack, so this stays stdlib-only.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func report(entry string, err *diagnostics.Error) {
	source, readErr := os.ReadFile(entry)
	if readErr != nil {
		source = nil
	}
	fmt.Fprint(os.Stderr, diagnostics.Render(err, entry, string(source), colorEnabled()))
}

func requireSingleArg(c *cli.Context, usage string) (string, error) {
	if c.Args().Len() > 1 {
		return "", errors.New("too many arguments.\n" + usage)
	}
	entry := c.Args().First()
	if entry == "" {
		return "", errors.New("source file not provided")
	}
	return entry, nil
}

// runCLI builds and runs the command tree, returning the process exit code
// instead of calling os.Exit directly so it can be driven from tests as
// well as from main.
func runCLI(args []string) int {
	var output string
	var verbose bool
	var emitLLVM bool
	exitCode := 0

	app := &cli.App{
		Name:  "lakc",
		Usage: "Compiler for the Lak programming language.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "Print timing information for each compiler phase.",
				Destination: &verbose,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Compile a source file to a native executable.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "output",
						Aliases:     []string{"o"},
						Usage:       "Name of the output executable.",
						Destination: &output,
					},
					&cli.BoolFlag{
						Name:        "emit-llvm",
						Usage:       "Emit textual LLVM IR instead of compiling and linking an executable.",
						Destination: &emitLLVM,
					},
				},
				Action: func(c *cli.Context) error {
					entry, argErr := requireSingleArg(c, "Usage: lakc build [-o <output>] [--emit-llvm] [-v] <entry.lak>")
					if argErr != nil {
						return argErr
					}
					if emitLLVM {
						ir, err := driver.EmitLLVMIR(entry)
						if err != nil {
							report(entry, err)
							exitCode = 1
							return nil
						}
						if output == "" {
							fmt.Print(ir)
							return nil
						}
						if writeErr := os.WriteFile(output, []byte(ir), 0o644); writeErr != nil {
							fmt.Fprintln(os.Stderr, writeErr)
							exitCode = 1
						}
						return nil
					}
					if err := driver.Build(entry, output, verbose); err != nil {
						report(entry, err)
						exitCode = 1
					}
					return nil
				},
			},
			{
				Name:  "run",
				Usage: "Compile and immediately run a source file.",
				Action: func(c *cli.Context) error {
					entry, argErr := requireSingleArg(c, "Usage: lakc run [-v] <entry.lak>")
					if argErr != nil {
						return argErr
					}
					runExit, err := driver.RunSource(entry, c.Args().Tail(), verbose)
					if err != nil {
						report(entry, err)
						exitCode = 1
						return nil
					}
					exitCode = runExit
					return nil
				},
			},
		},
	}

	if err := app.Run(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

func main() {
	os.Exit(runCLI(os.Args))
}
