package apperrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config literal", ConfigError{Message: "interval is empty"}, "interval is empty"},
		{"config formatted", NewConfigError("workers must be >= 1, got %d", 0), "workers must be >= 1, got 0"},
		{"calculation", CalculationError{Cause: errors.New("integrand returned NaN")}, "integrand returned NaN"},
		{"timeout", TimeoutError{Operation: "converge", Limit: 2 * time.Second}, `operation "converge" timed out after 2s`},
		{"validation", ValidationError{Field: "tol", Message: "must be positive"}, `validation error for "tol": must be positive`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorTypesSurviveWrapping(t *testing.T) {
	t.Parallel()
	base := []error{
		NewConfigError("bad"),
		TimeoutError{Operation: "run", Limit: time.Second},
		ValidationError{Field: "a", Message: "nan"},
		NonConvergenceError{Iterations: 2},
		WorkerError{Worker: 1, Index: -1, Cause: errors.New("panic")},
	}
	for _, err := range base {
		wrapped := fmt.Errorf("outer: %w", WrapError(err, "inner %d", 1))
		if !errors.Is(wrapped, err) {
			t.Errorf("%T lost through two wraps", err)
		}
		if !strings.HasPrefix(wrapped.Error(), "outer: inner 1: ") {
			t.Errorf("wrapped message = %q", wrapped.Error())
		}
	}
}

func TestCalculationErrorUnwrap(t *testing.T) {
	t.Parallel()
	err := CalculationError{Cause: context.Canceled}
	if !errors.Is(err, context.Canceled) {
		t.Error("errors.Is should reach the cause")
	}
	if errors.Unwrap(err) != context.Canceled {
		t.Error("Unwrap should return the cause")
	}
}

func TestWrapErrorNil(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "context %s", "ignored") != nil {
		t.Error("WrapError(nil) must return nil")
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, true},
		{context.DeadlineExceeded, true},
		{WrapError(context.DeadlineExceeded, "run"), true},
		{WorkerError{Cause: context.Canceled}, true},
		{errors.New("boom"), false},
		{NonConvergenceError{}, false},
	}
	for _, tt := range tests {
		if got := IsContextError(tt.err); got != tt.want {
			t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	t.Parallel()
	codes := []int{
		ExitSuccess, ExitErrorGeneric, ExitErrorTimeout, ExitErrorMismatch,
		ExitErrorConfig, ExitErrorNonConvergence, ExitErrorWorker, ExitErrorCanceled,
	}
	seen := make(map[int]bool)
	for _, c := range codes {
		if seen[c] {
			t.Errorf("exit code %d used twice", c)
		}
		seen[c] = true
	}
	if ExitSuccess != 0 || ExitErrorCanceled != 130 {
		t.Errorf("success = %d, canceled = %d; want 0 and 130", ExitSuccess, ExitErrorCanceled)
	}
}

func TestNonConvergenceError(t *testing.T) {
	t.Parallel()
	err := NonConvergenceError{Iterations: 3, LastN: 101, LastDelta: 0.5, Tolerance: 1e-9}
	want := "no convergence after 3 iterations (n=101, last delta 5.000e-01, tolerance 1.000e-09)"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	wrapped := WrapError(err, "converge")
	var target NonConvergenceError
	if !errors.As(wrapped, &target) {
		t.Fatal("errors.As should find NonConvergenceError through WrapError")
	}
	if target.Iterations != 3 {
		t.Errorf("expected Iterations 3, got %d", target.Iterations)
	}
}

func TestWorkerError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      WorkerError
		expected string
	}{
		{
			name:     "with sample index",
			err:      WorkerError{Worker: 1, Index: 42, X: 2.5, Cause: errors.New("non-finite value")},
			expected: "worker 1 failed at sample 42 (x=2.5): non-finite value",
		},
		{
			name:     "without sample index",
			err:      WorkerError{Worker: -1, Index: -1, Cause: errors.New("boom")},
			expected: "worker -1 failed: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}

	t.Run("unwraps context cancellation", func(t *testing.T) {
		t.Parallel()
		err := WorkerError{Worker: 0, Index: -1, Cause: context.Canceled}
		if !errors.Is(err, context.Canceled) {
			t.Error("errors.Is should find context.Canceled through WorkerError")
		}
	})
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"validation", ValidationError{Field: "a", Message: "x"}, ExitErrorConfig},
		{"timeout type", TimeoutError{Operation: "x", Limit: time.Second}, ExitErrorTimeout},
		{"deadline", WrapError(context.DeadlineExceeded, "run"), ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"canceled worker", WorkerError{Cause: context.Canceled}, ExitErrorCanceled},
		{"non-convergence", NonConvergenceError{}, ExitErrorNonConvergence},
		{"worker", CalculationError{Cause: WorkerError{Cause: errors.New("nan")}}, ExitErrorWorker},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandleCalculationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantText string
	}{
		{"nil", nil, ExitSuccess, ""},
		{"timeout", context.DeadlineExceeded, ExitErrorTimeout, "timed out after 1.5s"},
		{"canceled", context.Canceled, ExitErrorCanceled, "canceled"},
		{"config", NewConfigError("workers must be >= 1"), ExitErrorConfig, "Configuration error: workers must be >= 1"},
		{"non-convergence", NonConvergenceError{Iterations: 9}, ExitErrorNonConvergence, "did not stabilize"},
		{"worker", WorkerError{Worker: 3, Index: -1, Cause: errors.New("panic")}, ExitErrorWorker, "worker 3 failed"},
		{"generic", errors.New("boom"), ExitErrorGeneric, "Error after 1.5s: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf strings.Builder
			code := HandleCalculationError(tt.err, 1500*time.Millisecond, &buf, nil)
			if code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, code)
			}
			if tt.wantText == "" {
				if buf.Len() != 0 {
					t.Errorf("expected no output, got %q", buf.String())
				}
				return
			}
			if !strings.Contains(buf.String(), tt.wantText) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.wantText)
			}
		})
	}
}
