package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/lak-lang/lak/pkg/diagnostics"
)

// exeSuffix mirrors Rust's std::env::consts::EXE_SUFFIX: empty on Unix,
// ".exe" on Windows.
func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// defaultOutputName derives the executable name from entry's filename stem,
// the same rule the teacher's `build` command and the original Rust driver
// both use when `-o` is omitted.
func defaultOutputName(entry string) string {
	stem := filepath.Base(entry)
	stem = stem[:len(stem)-len(filepath.Ext(stem))]
	return stem + exeSuffix()
}

// compileToExecutable runs the shared phases 1-6 pipeline (resolve through
// link) that both Build and RunSource need, writing an object file and the
// linked executable inside tmpDir.
func compileToExecutable(entry, tmpDir, outPath string, verbose bool) *diagnostics.Error {
	objPath := filepath.Join(tmpDir, "program.o")
	if err := CompileToObject(entry, objPath, verbose); err != nil {
		return err
	}

	runtimeArchive, err := ResolveRuntimeArchive()
	if err != nil {
		return err
	}

	start := time.Now()
	if err := Link(objPath, runtimeArchive, outPath); err != nil {
		return err
	}
	if verbose {
		fmt.Printf("  %dms for %s to link the executable\n", time.Since(start).Milliseconds(), ldTool())
	}
	return nil
}

// Build compiles entry to a native executable at outputPath (or, when
// outputPath is empty, a name derived from entry's filename).
func Build(entry, outputPath string, verbose bool) *diagnostics.Error {
	if outputPath == "" {
		outputPath = defaultOutputName(entry)
	}

	tmpDir, err := os.MkdirTemp("", "lakc-*")
	if err != nil {
		return errTempDir(err)
	}
	defer os.RemoveAll(tmpDir)

	tmpExe := filepath.Join(tmpDir, "program"+exeSuffix())
	if err := compileToExecutable(entry, tmpDir, tmpExe, verbose); err != nil {
		return err
	}

	return copyFile(tmpExe, outputPath)
}

// RunSource compiles entry to a temporary executable and runs it
// immediately, returning its exit code.
func RunSource(entry string, args []string, verbose bool) (int, *diagnostics.Error) {
	tmpDir, err := os.MkdirTemp("", "lakc-*")
	if err != nil {
		return 0, errTempDir(err)
	}
	defer os.RemoveAll(tmpDir)

	tmpExe := filepath.Join(tmpDir, "program"+exeSuffix())
	if err := compileToExecutable(entry, tmpDir, tmpExe, verbose); err != nil {
		return 0, err
	}

	return Run(tmpExe, args)
}

func copyFile(srcPath, dstPath string) *diagnostics.Error {
	in, err := os.Open(srcPath)
	if err != nil {
		return errFileRead(srcPath, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return errFileIO(dstPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errFileIO(dstPath, err)
	}
	return nil
}
