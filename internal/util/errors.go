package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for the pingpool CLI
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrPoolClosed indicates work was submitted after the pool stopped accepting it
	ErrPoolClosed = errors.New("pool closed")

	// ErrTerminationTimeout indicates the pool did not drain within the grace period
	ErrTerminationTimeout = errors.New("pool did not terminate")

	// ErrInterrupted indicates a blocking wait was interrupted by the caller
	ErrInterrupted = errors.New("wait interrupted")

	// ErrCancelled indicates a task was abandoned before it started
	ErrCancelled = errors.New("task cancelled")

	// ErrNothingPending indicates there is no submitted result left to take
	ErrNothingPending = errors.New("no pending results")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidTarget indicates a target identifier could not be probed
	ErrInvalidTarget = errors.New("invalid target")
)

// TargetError wraps an error with target context
type TargetError struct {
	Target string
	Err    error
}

// Error implements the error interface
func (e *TargetError) Error() string {
	return fmt.Sprintf("target %q: %v", e.Target, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *TargetError) Unwrap() error {
	return e.Err
}

// WrapTargetError wraps an error with target context
func WrapTargetError(target string, err error) error {
	if err == nil {
		return nil
	}
	return &TargetError{
		Target: target,
		Err:    err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 {
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewMultiError creates a new MultiError from a slice of errors
// It filters out nil errors
func NewMultiError(errs []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errs)),
	}
	for _, err := range errs {
		if err != nil {
			m.Errors = append(m.Errors, err)
		}
	}
	return m
}

// ValidationError represents a validation failure.
// It unwraps to ErrInvalidConfig so callers can match the whole class.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	if v.Value != nil {
		return fmt.Sprintf("validation failed for field %q (value: %v): %s", v.Field, v.Value, v.Message)
	}
	return fmt.Sprintf("validation failed for field %q: %s", v.Field, v.Message)
}

// Unwrap returns ErrInvalidConfig
func (v *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsPoolClosed checks if an error is a rejected submission
func IsPoolClosed(err error) bool {
	return errors.Is(err, ErrPoolClosed)
}

// IsInterrupted checks if an error is an interrupted wait
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrTerminationTimeout)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsInterrupted(err):
		return "Run was interrupted. Results received so far were reported."
	case errors.Is(err, ErrTerminationTimeout):
		return "Worker pool did not terminate. Increase the wait with --grace-period."
	case IsTimeout(err):
		return "Operation timed out. Please try again or increase the timeout value with --timeout flag."
	case IsPoolClosed(err):
		return "Worker pool is shutting down and no longer accepts targets."
	case IsCancelled(err):
		return "Operation was cancelled."
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file and command-line flags: " + err.Error()
	case errors.Is(err, ErrInvalidTarget):
		return "Invalid target. Targets must be http(s)://, kube:// or sim:// identifiers."
	default:
		return err.Error()
	}
}

// CombineErrors combines multiple errors into a single error
// Returns nil if all errors are nil
func CombineErrors(errs ...error) error {
	m := NewMultiError(errs)
	return m.ErrorOrNil()
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
