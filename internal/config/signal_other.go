//go:build !unix

package config

import (
	"fmt"
	"os"
	"strings"
)

// ParseSignal converts a signal name to an os.Signal. Only kill and
// interrupt can be delivered on this platform.
func ParseSignal(name string) (os.Signal, error) {
	switch strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), "SIG") {
	case "KILL":
		return os.Kill, nil
	case "INT":
		return os.Interrupt, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidStopSignal, name)
}
