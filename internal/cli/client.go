package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"

	"github.com/tessro/botshell/internal/daemon"
)

// ErrHostNotRunning indicates no botshell host is listening.
var ErrHostNotRunning = errors.New("botshell host is not running")

// socketPath is the path to the host socket (can be overridden for testing).
var socketPath string

// SetSocketPath overrides the default socket path.
// This is primarily useful for testing.
func SetSocketPath(path string) {
	socketPath = path
}

// getSocketPath returns the socket path to use.
func getSocketPath() string {
	if socketPath != "" {
		return socketPath
	}
	return daemon.DefaultSocketPath()
}

// NewClient creates a new host client with the configured socket path.
func NewClient() *daemon.Client {
	return daemon.NewClient(getSocketPath())
}

// ConnectClient creates and connects a host client.
// Returns ErrHostNotRunning if nothing is listening on the socket.
func ConnectClient() (*daemon.Client, error) {
	client := NewClient()
	if err := client.Connect(); err != nil {
		if isNotListening(err) {
			return nil, ErrHostNotRunning
		}
		return nil, fmt.Errorf("connect to host: %w", err)
	}
	return client, nil
}

// isNotListening reports whether err means the socket is missing or stale.
func isNotListening(err error) bool {
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	return os.IsNotExist(opErr.Err) ||
		errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
		errors.Is(opErr.Err, syscall.ENOENT)
}

// MustConnect creates and connects a host client, exiting on failure.
// This is a convenience function for CLI commands that require a host.
func MustConnect() *daemon.Client {
	client, err := ConnectClient()
	if err != nil {
		if errors.Is(err, ErrHostNotRunning) {
			fmt.Fprintln(os.Stderr, "botshell host is not running")
			fmt.Fprintln(os.Stderr, "   Start it with: botshell server start")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error connecting to host: %v\n", err)
		os.Exit(1)
	}
	return client
}

// IsHostRunning checks if a host is listening without keeping a connection.
func IsHostRunning() bool {
	client := NewClient()
	if err := client.Connect(); err != nil {
		return false
	}
	client.Close()
	return true
}
