package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tessro/botshell/internal/logging"
)

// Validation errors.
var (
	ErrInvalidLogLevel   = errors.New("log_level must be 'debug', 'info', 'warn', or 'error'")
	ErrInvalidStopSignal = errors.New("unknown stop signal")
	ErrInvalidEnvEntry   = errors.New("env entries must be KEY=VALUE")
)

// ValidationError wraps a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks every field and returns all problems joined.
// A nil config is valid.
func (c *GlobalConfig) Validate() error {
	if c == nil {
		return nil
	}

	var errs []error

	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Value:   c.LogLevel,
			Message: ErrInvalidLogLevel.Error(),
			Err:     ErrInvalidLogLevel,
		})
	}

	if c.Backend.StopSignal != "" {
		if _, err := ParseSignal(c.Backend.StopSignal); err != nil {
			errs = append(errs, &ValidationError{
				Field:   "backend.stop_signal",
				Value:   c.Backend.StopSignal,
				Message: ErrInvalidStopSignal.Error(),
				Err:     ErrInvalidStopSignal,
			})
		}
	}

	for i, entry := range c.Backend.Env {
		key, _, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			errs = append(errs, &ValidationError{
				Field:   fmt.Sprintf("backend.env[%d]", i),
				Value:   entry,
				Message: ErrInvalidEnvEntry.Error(),
				Err:     ErrInvalidEnvEntry,
			})
		}
	}

	return errors.Join(errs...)
}
