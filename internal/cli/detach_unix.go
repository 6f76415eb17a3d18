//go:build unix

package cli

import (
	"os/exec"
	"syscall"
)

// detach starts cmd in a new session so it survives the calling terminal.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
