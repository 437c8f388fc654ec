//go:build !unix

package driver

import "os/exec"

func exitCodeFor(exitErr *exec.ExitError) int {
	return exitErr.ExitCode()
}
