//go:build windows

package launcher

import (
	"os/exec"
	"syscall"
)

// setProcAttr detaches the child from the launcher's process group.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
