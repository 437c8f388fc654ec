// Package driver orchestrates the compiler's phases — resolution, semantic
// analysis, code generation, object emission, and linking — into the
// build/run pipeline exposed by cmd/lakc. None of the phases it calls ever
// abort the process; this package is the only place that shells out to an
// external compiler or linker.
package driver

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/lak-lang/lak/pkg/analyzer"
	llvmgen "github.com/lak-lang/lak/pkg/codegen/llvm"
	"github.com/lak-lang/lak/pkg/diagnostics"
	"github.com/lak-lang/lak/pkg/resolver"
)

// ccEnvVar/ldEnvVar generalize the teacher's single MYC_CC override into
// separate compiler/linker overrides, per spec.md's external-interfaces
// section naming `LAK_CC`/`LAK_LD`.
const (
	ccEnvVar      = "LAK_CC"
	ldEnvVar      = "LAK_LD"
	runtimeEnvVar = "LAK_RUNTIME"

	defaultCC = "clang"
	defaultLD = "cc"
)

func ccTool() string {
	if cc := os.Getenv(ccEnvVar); cc != "" {
		return cc
	}
	return defaultCC
}

func ldTool() string {
	if ld := os.Getenv(ldEnvVar); ld != "" {
		return ld
	}
	return defaultLD
}

// logTiming prints one timing line in the teacher's own
// `fmt.Printf("  %dus for ...")` convention, gated by the `-v` flag rather
// than a hardcoded SHOW_TIME_INFO/DEBUG_MESSAGES constant.
func logTiming(verbose bool, format string, d time.Duration) {
	if verbose {
		fmt.Printf(format, d.Microseconds())
	}
}

// generateIR runs phases 1-4 (resolve, analyze, generate) and returns the
// textual LLVM IR module, printing per-phase timing lines when verbose.
func generateIR(entry string, verbose bool) (string, *diagnostics.Error) {
	start := time.Now()

	modules, err := resolver.Resolve(entry)
	if err != nil {
		return "", err
	}
	if len(modules) == 0 {
		return "", errEntryModuleNotFound(entry)
	}

	session := analyzer.NewSession()
	result, err := session.Analyze(modules)
	if err != nil {
		return "", err
	}

	lpaTime := time.Now()
	logTiming(verbose, "  %dus for resolving, parsing, and analysis\n", lpaTime.Sub(start))

	irModule, err := llvmgen.Emit(modules, result)
	if err != nil {
		return "", err
	}

	logTiming(verbose, "  %dus to generate LLVM IR\n", time.Since(lpaTime))

	return irModule.String(), nil
}

// EmitLLVMIR runs phases 1-4 on the module rooted at entry and returns its
// textual LLVM IR, without ever shelling out to a C compiler or linker —
// the backing implementation for the CLI's `--emit-llvm` flag.
func EmitLLVMIR(entry string) (string, *diagnostics.Error) {
	return generateIR(entry, false)
}

// CompileToObject runs phases 1-5 (resolve, analyze, generate, emit) on the
// module rooted at entry and writes a relocatable object file to objPath.
func CompileToObject(entry, objPath string, verbose bool) *diagnostics.Error {
	ir, err := generateIR(entry, verbose)
	if err != nil {
		return err
	}
	return emitObjectFile(ir, objPath, verbose)
}

// emitObjectFile shells out to the host C compiler, reading textual LLVM IR
// from stdin and writing a relocatable object file. llir/llvm is a pure IR
// builder with no target-machine backend of its own, so — exactly as the
// teacher's cmd/myc/main.go does for full executables — object emission is
// delegated to clang's `-x ir` front end instead of an in-process backend.
func emitObjectFile(ir, objPath string, verbose bool) *diagnostics.Error {
	start := time.Now()

	tool := ccTool()
	cmd := exec.Command(tool, "-x", "ir", "-c", "-o", objPath, "-")
	cmd.Stdin = strings.NewReader(ir)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errCompileObject(tool, err, stdout.String(), stderr.String())
	}

	if verbose {
		fmt.Printf("  %dms for %s to compile LLVM IR to an object file\n", time.Since(start).Milliseconds(), tool)
	}
	return nil
}
