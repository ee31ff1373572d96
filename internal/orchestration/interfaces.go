package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/quadcalc/internal/quadrature"
)

// RunResult is the outcome of one strategy's run. On failure only
// Strategy, Duration and Err are meaningful.
type RunResult struct {
	// Strategy is the registry name of the strategy.
	Strategy string
	// Estimate is the final integral approximation.
	Estimate float64
	// N is the sample count of the final estimate.
	N int
	// Iterations is the number of refinement steps, 1 for a fixed n.
	Iterations int
	// Delta is the last difference between successive estimates, NaN for
	// a fixed n.
	Delta float64
	// Duration is the wall time of the whole run.
	Duration time.Duration
	// Err is the failure, if any.
	Err error
}

// ProgressUpdate is emitted after every refinement step of every run.
type ProgressUpdate struct {
	// RunIndex identifies the run within the current batch.
	RunIndex int
	// Strategy is the name of the run's strategy.
	Strategy string
	// Iteration is the completed step.
	Iteration quadrature.Iteration
	// Value is the convergence progress in [0, 1].
	Value float64
}

// PresentationOptions configures how results are presented.
type PresentationOptions struct {
	Function string
	Interval quadrature.Interval
	// Exact is the analytic value of the integral; HasExact reports
	// whether one is known.
	Exact    float64
	HasExact bool
	Verbose  bool
	Details  bool
}

// ProgressReporter consumes progress updates until the channel is closed,
// then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numRuns int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numRuns int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numRuns int, out io.Writer) {
	f(wg, progressChan, numRuns, out)
}

// NullProgressReporter drains the channel without output. It is used in
// quiet mode and by the HTTP server.
type NullProgressReporter struct{}

// DisplayProgress drains progressChan.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders results.
type ResultPresenter interface {
	// PresentComparisonTable displays one row per run.
	PresentComparisonTable(results []RunResult, out io.Writer)
	// PresentResult displays the selected final result.
	PresentResult(result RunResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler prints a failure and returns the exit code for it.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
