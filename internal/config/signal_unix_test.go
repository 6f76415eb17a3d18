//go:build unix

package config

import "testing"

func TestParseSignal_TerminatingSignals(t *testing.T) {
	for _, name := range []string{"SIGTERM", "term", "SIGHUP", "quit", "SIGUSR1", "usr2"} {
		if _, err := ParseSignal(name); err != nil {
			t.Errorf("ParseSignal(%q) error = %v", name, err)
		}
	}
}
