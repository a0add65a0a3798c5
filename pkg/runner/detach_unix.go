//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// Detach from the parent's process group so the child survives parent exit.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
