//go:build windows

package process

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// taskkill exits with 128 when no process matches the PID.
const taskkillNotFound = 128

// KillTree force-kills pid and its child tree with taskkill. A process that
// has already exited is not an error.
func KillTree(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	// #nosec G204 -- fixed binary, numeric argument
	err := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
	var exitErr *exec.ExitError
	if err == nil || (errors.As(err, &exitErr) && exitErr.ExitCode() == taskkillNotFound) {
		return nil
	}
	return fmt.Errorf("killing process tree %d: %w", pid, err)
}
