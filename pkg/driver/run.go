package driver

import (
	"os"
	"os/exec"

	"github.com/lak-lang/lak/pkg/diagnostics"
)

// Run spawns the executable at exePath with args, inheriting the calling
// process's standard streams, and returns its exit code. A non-zero
// *diagnostics.Error return means the executable could not be started at
// all; a normal or signal-terminated exit is reported only through
// exitCode, per spec.md's "no phase aborts the process" rule.
func Run(exePath string, args []string) (int, *diagnostics.Error) {
	cmd := exec.Command(exePath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return 0, errExecutableRun(exePath, err)
	}

	return exitCodeFor(exitErr), nil
}
