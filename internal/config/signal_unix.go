//go:build unix

package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// stopSignals are the signals whose default action ends the process. Stop
// clears the slot after delivering the signal, so anything that can leave
// the backend alive (SIGCHLD, SIGCONT, SIGSTOP, ...) is refused.
var stopSignals = map[unix.Signal]bool{
	unix.SIGTERM: true,
	unix.SIGKILL: true,
	unix.SIGINT:  true,
	unix.SIGHUP:  true,
	unix.SIGQUIT: true,
	unix.SIGUSR1: true,
	unix.SIGUSR2: true,
}

// ParseSignal converts a signal name such as "SIGTERM" or "term" to an
// os.Signal usable as a stop signal.
func ParseSignal(name string) (os.Signal, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(n, "SIG") {
		n = "SIG" + n
	}
	sig := unix.SignalNum(n)
	if sig == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStopSignal, name)
	}
	if !stopSignals[sig] {
		return nil, fmt.Errorf("%w: %q does not terminate the backend", ErrInvalidStopSignal, name)
	}
	return sig, nil
}
