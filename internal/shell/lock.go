package shell

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyHosted is returned by AcquireLock when another host holds the
// instance lock.
var ErrAlreadyHosted = errors.New("another botshell host is already running")

// InstanceLock guarantees a single host, and so a single backend, per base
// directory.
type InstanceLock struct {
	fl *flock.Flock
}

// AcquireLock takes the instance lock at path without waiting.
func AcquireLock(path string) (*InstanceLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring instance lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock %s)", ErrAlreadyHosted, path)
	}
	return &InstanceLock{fl: fl}, nil
}

// Path returns the lock file path.
func (l *InstanceLock) Path() string {
	return l.fl.Path()
}

// Release releases the lock and closes its file descriptor. The lock file
// is left on disk so a concurrent acquirer never locks an unlinked inode.
func (l *InstanceLock) Release(logger *slog.Logger) {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Close(); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Debug("failed to release instance lock", "path", l.fl.Path(), "err", err)
	}
}
