package apperrors

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when printing errors.
// A nil provider prints plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type plainColors struct{}

func (plainColors) Red() string    { return "" }
func (plainColors) Yellow() string { return "" }
func (plainColors) Reset() string  { return "" }

// HandleCalculationError prints a user-facing description of err to out and
// returns the matching exit code. A nil error prints nothing and returns
// ExitSuccess.
//
// Parameters:
//   - err: The error returned by the integration.
//   - duration: Elapsed time before the failure, printed when non-zero.
//   - out: Destination writer.
//   - colors: Color provider, may be nil.
//
// Returns:
//   - int: The exit code computed by ExitCodeFor.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = plainColors{}
	}
	code := ExitCodeFor(err)

	var elapsed string
	if duration > 0 {
		elapsed = fmt.Sprintf(" after %s", duration.Round(time.Microsecond))
	}

	var (
		nonConv   NonConvergenceError
		workerErr WorkerError
	)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sIntegration timed out%s.%s\n", colors.Yellow(), elapsed, colors.Reset())
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sIntegration canceled%s.%s\n", colors.Yellow(), elapsed, colors.Reset())
	case ExitErrorConfig:
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", colors.Red(), err, colors.Reset())
	case ExitErrorNonConvergence:
		errors.As(err, &nonConv)
		fmt.Fprintf(out, "%sEstimate did not stabilize%s: %v%s\n", colors.Yellow(), elapsed, nonConv, colors.Reset())
	case ExitErrorWorker:
		errors.As(err, &workerErr)
		fmt.Fprintf(out, "%sWorker failure%s: %v%s\n", colors.Red(), elapsed, workerErr, colors.Reset())
	default:
		fmt.Fprintf(out, "%sError%s: %v%s\n", colors.Red(), elapsed, err, colors.Reset())
	}
	return code
}
