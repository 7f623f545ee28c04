//go:build !windows

package render

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts the subprocess in its own process group so the
// whole tree can be killed on timeout.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func killProcessGroup(pid int) {
	// Best-effort cleanup; CommandContext's default kill is the fallback.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
