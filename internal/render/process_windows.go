//go:build windows

package render

import (
	"os"
	"os/exec"
)

// setProcessGroup is a no-op on Windows; CommandContext kills the process
// directly.
func setProcessGroup(_ *exec.Cmd) {}

// killProcessGroup kills the process by PID. Windows has no process groups
// in the POSIX sense; child cleanup is handled by the OS job object.
func killProcessGroup(pid int) {
	if p, err := os.FindProcess(pid); err == nil {
		_ = p.Kill()
	}
}
