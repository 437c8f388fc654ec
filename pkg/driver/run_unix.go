//go:build unix

package driver

import (
	"os/exec"
	"syscall"
)

// exitCodeFor maps a terminated child's status to a shell-convention exit
// code: a normal exit keeps its own code, a signal-terminated process
// yields 128+signal, per spec.md §6.
func exitCodeFor(exitErr *exec.ExitError) int {
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok {
		return exitErr.ExitCode()
	}
	if status.Signaled() {
		return 128 + int(status.Signal())
	}
	return status.ExitStatus()
}
