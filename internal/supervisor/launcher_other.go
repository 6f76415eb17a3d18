//go:build !unix

package supervisor

import (
	"os"
	"os/exec"
)

func configureSysProcAttr(cmd *exec.Cmd) {}

func signalProcess(p *os.Process, sig os.Signal) error {
	return p.Signal(sig)
}
