package supervisor

import "errors"

// Failure classes. Errors returned by Supervisor operations wrap exactly one
// of these, so callers can branch with errors.Is.
var (
	// ErrLockPoisoned means a previous operation panicked while holding the
	// lock. The supervisor refuses further work.
	ErrLockPoisoned = errors.New("supervisor lock poisoned")

	// ErrSpawn means the OS failed to create the backend process.
	// The slot stays absent.
	ErrSpawn = errors.New("failed to start backend server")

	// ErrKill means the termination signal could not be delivered.
	// The handle is kept so the caller can retry.
	ErrKill = errors.New("failed to kill backend server")

	// ErrPoll means the exit status could not be read.
	// The handle is left untouched.
	ErrPoll = errors.New("failed to check backend server")
)

// OpError is returned by Start, Stop and Check.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return e.Op + " backend: " + e.Err.Error()
}

func (e *OpError) Unwrap() error {
	return e.Err
}
