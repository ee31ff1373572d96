package cli

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/orchestration"
)

// CLIProgressReporter implements orchestration.ProgressReporter. With Trace
// set it prints one line per refinement step; otherwise it shows a spinner
// with an aggregated progress bar.
type CLIProgressReporter struct {
	Trace bool
}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress dispatches to DisplayTrace or DisplaySpinner.
func (r CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numRuns int, out io.Writer) {
	if r.Trace {
		DisplayTrace(wg, progressChan, numRuns, out)
		return
	}
	DisplaySpinner(wg, progressChan, numRuns, out)
}

// FormatTraceLine renders one refinement step. The strategy name is
// prefixed when several runs share the output.
func FormatTraceLine(u orchestration.ProgressUpdate, withStrategy bool) string {
	line := fmt.Sprintf("n = %-6d  estimate = %.12f", u.Iteration.N, u.Iteration.Estimate)
	if !math.IsNaN(u.Iteration.Delta) {
		line += fmt.Sprintf("  delta = %.3e", u.Iteration.Delta)
	}
	if withStrategy {
		line = fmt.Sprintf("[%-10s] %s", u.Strategy, line)
	}
	return line
}

// DisplayTrace prints every update until the channel is closed.
func DisplayTrace(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numRuns int, out io.Writer) {
	defer wg.Done()
	for u := range progressChan {
		fmt.Fprintln(out, FormatTraceLine(u, numRuns > 1))
	}
}

// DisplaySpinner shows a spinner whose suffix carries the averaged
// convergence progress, the ETA and the latest sample count. It returns
// once the channel is closed.
func DisplaySpinner(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numRuns int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numRuns)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(out)
	s.Start()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	var latest orchestration.ProgressUpdate
	for {
		select {
		case u, ok := <-progressChan:
			if !ok {
				s.Stop()
				fmt.Fprintln(out, FormatProgressSuffix(agg.CalculateAverage(), 0, latest))
				return
			}
			agg.Update(u)
			latest = u
		case <-ticker.C:
			s.UpdateSuffix(" " + FormatProgressSuffix(agg.CalculateAverage(), agg.GetETA(), latest))
		}
	}
}

// FormatProgressSuffix renders the progress bar followed by the latest
// sample count and estimate.
func FormatProgressSuffix(progress float64, eta time.Duration, latest orchestration.ProgressUpdate) string {
	bar := format.FormatProgressBarWithETA(progress, eta, ProgressBarWidth)
	if latest.Iteration.N == 0 {
		return bar
	}
	return fmt.Sprintf("%s  n=%s  estimate=%.9g", bar, format.FormatInt(latest.Iteration.N), latest.Iteration.Estimate)
}
