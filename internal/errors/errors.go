package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess             = 0   // Indicates successful execution.
	ExitErrorGeneric        = 1   // Indicates a generic error.
	ExitErrorTimeout        = 2   // Indicates the operation timed out.
	ExitErrorMismatch       = 3   // Indicates a result mismatch between strategies.
	ExitErrorConfig         = 4   // Indicates a configuration error.
	ExitErrorNonConvergence = 5   // Indicates the refinement loop hit its iteration bound.
	ExitErrorWorker         = 6   // Indicates a worker failed while evaluating the integrand.
	ExitErrorCanceled       = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents an invalid configuration: bad flags, an empty or
// reversed interval, a non-positive tolerance, a zero worker count.
// It is always reported before any worker is spawned.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError encapsulates an integration failure while preserving the
// original cause.
type CalculationError struct {
	// Cause is the underlying error that triggered this calculation error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e CalculationError) Error() string { return e.Cause.Error() }

// Unwrap returns the original wrapped error.
func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError represents an integration that exceeded its time limit.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// NonConvergenceError is returned by the refinement loop when successive
// estimates never got closer than the tolerance within the iteration bound.
type NonConvergenceError struct {
	// Iterations is the number of estimates computed before giving up.
	Iterations int
	// LastN is the sample count of the last estimate.
	LastN int
	// LastDelta is the absolute difference between the last two estimates.
	LastDelta float64
	// Tolerance is the threshold that was never reached.
	Tolerance float64
}

// Error returns a formatted message describing the non-convergence.
func (e NonConvergenceError) Error() string {
	return fmt.Sprintf("no convergence after %d iterations (n=%d, last delta %.3e, tolerance %.3e)",
		e.Iterations, e.LastN, e.LastDelta, e.Tolerance)
}

// WorkerError reports a failure inside a single worker: a non-finite
// function value, a recovered panic or a cancellation observed mid-range.
// Worker is -1 when the failure happened while evaluating the interval
// boundaries during reduction.
type WorkerError struct {
	// Worker is the index of the failing worker.
	Worker int
	// Index is the sample index being evaluated, or -1 if unknown.
	Index int
	// X is the abscissa being evaluated.
	X float64
	// Cause is the underlying failure.
	Cause error
}

// Error returns a formatted message describing the worker failure.
func (e WorkerError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("worker %d failed: %v", e.Worker, e.Cause)
	}
	return fmt.Sprintf("worker %d failed at sample %d (x=%g): %v", e.Worker, e.Index, e.X, e.Cause)
}

// Unwrap returns the underlying failure.
func (e WorkerError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit status.
//
// Parameters:
//   - err: The error returned by a run, possibly nil.
//
// Returns:
//   - int: One of the Exit* constants.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		configErr     ConfigError
		validationErr ValidationError
		nonConvErr    NonConvergenceError
		workerErr     WorkerError
		timeoutErr    TimeoutError
	)
	switch {
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &nonConvErr):
		return ExitErrorNonConvergence
	case errors.As(err, &workerErr):
		return ExitErrorWorker
	default:
		return ExitErrorGeneric
	}
}
