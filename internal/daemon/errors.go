package daemon

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned by Client calls made before Connect or
	// after the host hung up.
	ErrNotConnected = errors.New("host: not connected")

	// ErrRequestTimeout is returned when the host does not answer within
	// RequestTimeout.
	ErrRequestTimeout = errors.New("host: request timeout")

	// ErrServerStarted is returned by Server.Start on a running server.
	ErrServerStarted = errors.New("host: server already started")

	// ErrSocketInUse means another process is accepting connections on the
	// socket path, so it must not be replaced.
	ErrSocketInUse = errors.New("host: socket in use")
)

// ServerError is a failure reported by the host for one request. Message is
// the host's error text, e.g. the supervisor's spawn failure.
type ServerError struct {
	Operation string
	Message   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// NewServerError creates a ServerError for operation.
func NewServerError(operation, message string) *ServerError {
	return &ServerError{Operation: operation, Message: message}
}
