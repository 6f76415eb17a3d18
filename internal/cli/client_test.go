package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tessro/botshell/internal/daemon"
)

// shortTempDir creates a temp directory with a short path for socket tests.
func shortTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("/tmp", "botshell-cli-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func startStubHost(t *testing.T) string {
	t.Helper()
	sockPath := filepath.Join(shortTempDir(t), "test.sock")

	handler := daemon.HandlerFunc(func(ctx context.Context, req *daemon.Request) *daemon.Response {
		return &daemon.Response{Success: true}
	})

	srv := daemon.NewServer(sockPath, handler)
	if err := srv.Start(); err != nil {
		t.Fatalf("server start: %v", err)
	}
	t.Cleanup(func() { _ = srv.Stop() })
	return sockPath
}

func TestNewClient(t *testing.T) {
	// Reset socket path after test
	defer SetSocketPath("")

	t.Run("uses default path", func(t *testing.T) {
		SetSocketPath("")
		client := NewClient()
		if client.SocketPath() != daemon.DefaultSocketPath() {
			t.Errorf("expected default socket path, got %s", client.SocketPath())
		}
	})

	t.Run("uses custom path", func(t *testing.T) {
		SetSocketPath("/custom/path.sock")
		client := NewClient()
		if client.SocketPath() != "/custom/path.sock" {
			t.Errorf("expected /custom/path.sock, got %s", client.SocketPath())
		}
	})
}

func TestConnectClient(t *testing.T) {
	defer SetSocketPath("")

	t.Run("returns error when host not running", func(t *testing.T) {
		SetSocketPath("/nonexistent/path/test.sock")
		_, err := ConnectClient()
		if !errors.Is(err, ErrHostNotRunning) {
			t.Errorf("expected ErrHostNotRunning, got %v", err)
		}
	})

	t.Run("stale socket file counts as not running", func(t *testing.T) {
		sockPath := filepath.Join(shortTempDir(t), "stale.sock")
		srv := daemon.NewServer(sockPath, daemon.HandlerFunc(func(ctx context.Context, req *daemon.Request) *daemon.Response {
			return &daemon.Response{Success: true}
		}))
		if err := srv.Start(); err != nil {
			t.Fatalf("server start: %v", err)
		}
		_ = srv.Stop()

		SetSocketPath(sockPath)
		if _, err := ConnectClient(); !errors.Is(err, ErrHostNotRunning) {
			t.Errorf("expected ErrHostNotRunning, got %v", err)
		}
	})

	t.Run("connects to running host", func(t *testing.T) {
		SetSocketPath(startStubHost(t))
		client, err := ConnectClient()
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		defer func() { _ = client.Close() }()

		if !client.IsConnected() {
			t.Error("client should be connected")
		}
	})
}

func TestIsHostRunning(t *testing.T) {
	defer SetSocketPath("")

	t.Run("returns false when host not running", func(t *testing.T) {
		SetSocketPath("/nonexistent/path/test.sock")
		if IsHostRunning() {
			t.Error("expected false when host not running")
		}
	})

	t.Run("returns true when host running", func(t *testing.T) {
		SetSocketPath(startStubHost(t))
		if !IsHostRunning() {
			t.Error("expected true when host running")
		}
	})
}
