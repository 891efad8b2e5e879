//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// setProcAttr starts the child in its own session so it outlives the
// launcher and its controlling terminal.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
