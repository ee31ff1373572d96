package orchestration

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/metrics"
	"github.com/agbru/quadcalc/internal/quadrature"
)

// ProgressBufferMultiplier sizes the progress channel per run so that runs
// rarely wait on a slow reporter.
const ProgressBufferMultiplier = 16

// RunSpec describes what every run of a batch integrates.
type RunSpec struct {
	Function    integrand.Function
	Interval    quadrature.Interval
	Options     quadrature.Options
	Convergence quadrature.ConvergenceOptions
	// N > 0 replaces the refinement loop with a single integration.
	N int
	// Collector receives convergence outcomes. Nil disables recording.
	Collector metrics.Collector
}

// ExecuteRuns runs every strategy concurrently on the same problem and
// returns one result per strategy, in input order. A failing run does not
// cancel the others.
//
// Parameters:
//   - ctx: Cancels every run.
//   - strategies: The strategies to run.
//   - spec: The shared problem and settings.
//   - progressReporter: Consumer of the refinement steps (NullProgressReporter for quiet mode).
//   - out: Destination handed to the reporter.
//
// Returns:
//   - []RunResult: The results, index-aligned with strategies.
func ExecuteRuns(ctx context.Context, strategies []quadrature.Strategy, spec RunSpec, progressReporter ProgressReporter, out io.Writer) []RunResult {
	results := make([]RunResult, len(strategies))
	progressChan := make(chan ProgressUpdate, max(1, len(strategies))*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(strategies), out)

	var g errgroup.Group
	for i, s := range strategies {
		g.Go(func() error {
			results[i] = runOne(ctx, i, s, spec, progressChan)
			return nil
		})
	}
	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

func runOne(ctx context.Context, index int, s quadrature.Strategy, spec RunSpec, progressChan chan<- ProgressUpdate) RunResult {
	obs := newProgressObserver(ctx, progressChan, index, s.Name(), spec.Convergence.Tolerance)
	start := time.Now()

	if spec.N > 0 {
		est, err := s.Integrate(ctx, quadrature.Problem{F: spec.Function, Interval: spec.Interval, N: spec.N}, spec.Options)
		elapsed := time.Since(start)
		if err != nil {
			return RunResult{Strategy: s.Name(), Duration: elapsed, Err: err}
		}
		obs.finish(quadrature.Iteration{Index: 1, N: est.N, Estimate: est.Value, Delta: math.NaN(), Elapsed: elapsed})
		return RunResult{
			Strategy:   s.Name(),
			Estimate:   est.Value,
			N:          est.N,
			Iterations: 1,
			Delta:      math.NaN(),
			Duration:   elapsed,
		}
	}

	res, err := quadrature.Converge(ctx, s, spec.Function, spec.Interval, spec.Options, spec.Convergence, obs)
	if spec.Collector != nil {
		spec.Collector.ObserveConvergence(s.Name(), res, err)
	}
	if err != nil {
		return RunResult{Strategy: s.Name(), Duration: time.Since(start), Err: err}
	}
	return RunResult{
		Strategy:   s.Name(),
		Estimate:   res.Estimate,
		N:          res.N,
		Iterations: res.Iterations,
		Delta:      res.Delta,
		Duration:   res.Duration,
	}
}

// EstimatesAgree reports whether x and y match within tol, relative to the
// larger magnitude (absolute below 1).
func EstimatesAgree(x, y, tol float64) bool {
	return math.Abs(x-y) <= tol*math.Max(1, math.Max(math.Abs(x), math.Abs(y)))
}

// FindBestResult returns the fastest successful result, or nil.
func FindBestResult(results []RunResult) *RunResult {
	var best *RunResult
	for i := range results {
		if results[i].Err == nil && (best == nil || results[i].Duration < best.Duration) {
			best = &results[i]
		}
	}
	return best
}

// AnalyzeComparisonResults sorts the results (successes first, then by
// duration), prints the comparison table and checks that every successful
// estimate agrees with the fastest one within compareTol.
//
// Returns:
//   - int: ExitSuccess, ExitErrorMismatch, or the exit code of the first
//     failure when no run succeeded.
func AnalyzeComparisonResults(results []RunResult, opts PresentationOptions, compareTol float64, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *RunResult
	var firstError error
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
		} else if firstValid == nil {
			firstValid = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy could complete the integration.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && !EstimatesAgree(res.Estimate, firstValid.Estimate, compareTol) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s returned %.15g but %s returned %.15g.\n",
				res.Strategy, res.Estimate, firstValid.Strategy, firstValid.Estimate)
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid estimates agree.\n")
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}
