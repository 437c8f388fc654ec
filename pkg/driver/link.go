package driver

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/lak-lang/lak/pkg/diagnostics"
)

const defaultRuntimeArchiveName = "liblak_runtime.a"

// ResolveRuntimeArchive locates the runtime static archive a linked
// executable needs, generalizing the original Rust driver's
// resolve_runtime_library_path_from_current_exe: it uses LAK_RUNTIME when
// set, and otherwise looks next to the running lakc binary.
func ResolveRuntimeArchive() (string, *diagnostics.Error) {
	if path := os.Getenv(runtimeEnvVar); path != "" {
		return path, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", &diagnostics.Error{
			Phase: diagnostics.PhaseLink,
			Kind:  "CurrentExecutablePathResolutionFailed",
			Title: "Failed to resolve current executable path",
			Label: err.Error(),
		}
	}

	path := filepath.Join(filepath.Dir(exe), defaultRuntimeArchiveName)
	info, statErr := os.Stat(path)
	if statErr != nil || info.IsDir() {
		return "", errRuntimeLibraryNotFound(path)
	}
	return path, nil
}

// Link invokes the host linker to combine objPath and runtimeArchive into
// the executable at outPath.
func Link(objPath, runtimeArchive, outPath string) *diagnostics.Error {
	tool := ldTool()
	cmd := exec.Command(tool, objPath, runtimeArchive, "-o", outPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return errLinkExecutionFailed(tool, err)
	}
	return errLinkFailed(exitErr.ExitCode(), stdout.String(), stderr.String())
}
