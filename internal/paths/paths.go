// Package paths provides a single source of truth for botshell file paths.
// All path helpers honor environment variable overrides for isolated testing.
//
// Path resolution precedence:
//  1. Specific env vars (BOTSHELL_SOCKET_PATH, BOTSHELL_PID_PATH) take highest priority
//  2. BOTSHELL_DIR sets the base directory (derives socket/pid/lock/log/config)
//  3. Default behavior (~/.botshell, ~/.config/botshell) when no env vars are set
package paths

import (
	"os"
	"path/filepath"
)

// Environment variable names for path overrides.
const (
	// EnvDir is the base directory override (e.g., /tmp/botshell-e2e).
	EnvDir = "BOTSHELL_DIR"

	// EnvSocketPath overrides the host socket path directly.
	EnvSocketPath = "BOTSHELL_SOCKET_PATH"

	// EnvPIDPath overrides the PID file path directly.
	EnvPIDPath = "BOTSHELL_PID_PATH"
)

// BaseDir returns the botshell base directory (~/.botshell by default).
func BaseDir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".botshell"), nil
}

// ConfigDir returns the config directory (~/.config/botshell by default).
// When BOTSHELL_DIR is set, returns BOTSHELL_DIR/config instead.
func ConfigDir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return filepath.Join(dir, "config"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "botshell"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// SocketPath returns the host socket path.
// Precedence: BOTSHELL_SOCKET_PATH > BOTSHELL_DIR/botshell.sock > ~/.botshell/botshell.sock
func SocketPath() string {
	if path := os.Getenv(EnvSocketPath); path != "" {
		return path
	}
	return inBase("botshell.sock")
}

// PIDPath returns the host PID file path.
// Precedence: BOTSHELL_PID_PATH > BOTSHELL_DIR/botshell.pid > ~/.botshell/botshell.pid
func PIDPath() string {
	if path := os.Getenv(EnvPIDPath); path != "" {
		return path
	}
	return inBase("botshell.pid")
}

// LockPath returns the host instance lock file path.
func LockPath() string {
	return inBase("botshell.lock")
}

// LogPath returns the log file path.
func LogPath() string {
	return inBase("botshell.log")
}

// inBase joins name onto BaseDir, falling back to the temp dir when the
// home directory cannot be determined.
func inBase(name string) string {
	base, err := BaseDir()
	if err != nil {
		return filepath.Join(os.TempDir(), name)
	}
	return filepath.Join(base, name)
}
