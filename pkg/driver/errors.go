package driver

import (
	"fmt"

	"github.com/lak-lang/lak/pkg/diagnostics"
)

func errEntryModuleNotFound(path string) *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.PhaseInfra,
		Kind:  "EntryModuleNotFound",
		Title: "Entry module not found",
		Label: fmt.Sprintf("entry module '%s' was not found after resolution. This is a compiler bug.", path),
	}
}

func errTempDir(cause error) *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.PhaseInfra,
		Kind:  "TempDirCreationError",
		Title: "Failed to create temporary directory",
		Label: cause.Error(),
	}
}

func errCompileObject(tool string, cause error, stdout, stderr string) *diagnostics.Error {
	label := fmt.Sprintf("'%s' failed while compiling LLVM IR to an object file: %s", tool, cause.Error())
	if stderr != "" {
		label += "\n" + stderr
	}
	return &diagnostics.Error{
		Phase: diagnostics.PhaseCodegen,
		Kind:  "ObjectEmissionFailed",
		Title: "Failed to emit object file",
		Label: label,
	}
}

func errRuntimeLibraryNotFound(path string) *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.PhaseLink,
		Kind:  "RuntimeLibraryNotFound",
		Title: "Lak runtime library not found",
		Label: fmt.Sprintf("no runtime library at '%s'. Place 'liblak_runtime.a' next to the 'lakc' executable, or set LAK_RUNTIME.", path),
	}
}

func errLinkExecutionFailed(tool string, cause error) *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.PhaseLink,
		Kind:  "LinkExecutionFailed",
		Title: "Failed to run linker",
		Label: fmt.Sprintf("could not execute '%s': %s", tool, cause.Error()),
	}
}

func errLinkFailed(exitCode int, stdout, stderr string) *diagnostics.Error {
	label := fmt.Sprintf("linker exited with status %d", exitCode)
	if stdout != "" {
		label += "\n[stdout]\n" + stdout
	}
	if stderr != "" {
		label += "\n[stderr]\n" + stderr
	}
	return &diagnostics.Error{
		Phase: diagnostics.PhaseLink,
		Kind:  "LinkFailed",
		Title: "Linking failed",
		Label: label,
	}
}

func errFileRead(path string, cause error) *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.PhaseInfra,
		Kind:  "FileReadError",
		Title: "Failed to read source file",
		Label: fmt.Sprintf("could not read '%s': %s", path, cause.Error()),
	}
}

func errFileIO(path string, cause error) *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.PhaseInfra,
		Kind:  "FileIOError",
		Title: "Failed to write output file",
		Label: fmt.Sprintf("could not write '%s': %s", path, cause.Error()),
	}
}

func errExecutableRun(path string, cause error) *diagnostics.Error {
	return &diagnostics.Error{
		Phase: diagnostics.PhaseInfra,
		Kind:  "ExecutableRunError",
		Title: "Failed to run compiled executable",
		Label: fmt.Sprintf("could not run '%s': %s", path, cause.Error()),
	}
}
