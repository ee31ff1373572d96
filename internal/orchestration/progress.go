package orchestration

import (
	"context"
	"math"
	"time"

	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/quadrature"
)

// ProgressAggregator averages the convergence progress of several runs and
// derives an ETA. Both the CLI and the TUI consume updates through it.
type ProgressAggregator struct {
	state   *format.ProgressWithETA
	numRuns int
}

// NewProgressAggregator returns nil when numRuns <= 0.
func NewProgressAggregator(numRuns int) *ProgressAggregator {
	if numRuns <= 0 {
		return nil
	}
	return &ProgressAggregator{state: format.NewProgressWithETA(numRuns), numRuns: numRuns}
}

// AggregatedProgress is the result of folding in one update.
type AggregatedProgress struct {
	RunIndex        int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update folds in one progress update.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.RunIndex, update.Value)
	return AggregatedProgress{
		RunIndex:        update.RunIndex,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average without updating.
func (a *ProgressAggregator) CalculateAverage() float64 { return a.state.CalculateAverage() }

// GetETA returns the current ETA without updating.
func (a *ProgressAggregator) GetETA() time.Duration { return a.state.GetETA() }

// NumRuns returns the number of tracked runs.
func (a *ProgressAggregator) NumRuns() int { return a.numRuns }

// IsMultiRun reports whether more than one run is tracked.
func (a *ProgressAggregator) IsMultiRun() bool { return a.numRuns > 1 }

// DrainChannel discards updates until the channel is closed.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}

// progressObserver forwards refinement steps of one run to the progress
// channel. Sends block so the verbose trace is never lossy; they give up
// when ctx is done so a stalled reader cannot hold a cancelled run.
type progressObserver struct {
	ctx        context.Context
	ch         chan<- ProgressUpdate
	index      int
	strategy   string
	tolerance  float64
	firstDelta float64
}

func newProgressObserver(ctx context.Context, ch chan<- ProgressUpdate, index int, strategy string, tolerance float64) *progressObserver {
	return &progressObserver{ctx: ctx, ch: ch, index: index, strategy: strategy, tolerance: tolerance, firstDelta: math.NaN()}
}

// OnIteration implements quadrature.Observer.
func (o *progressObserver) OnIteration(it quadrature.Iteration) {
	if math.IsNaN(o.firstDelta) && !math.IsNaN(it.Delta) && it.Delta > 0 {
		o.firstDelta = it.Delta
	}
	update := ProgressUpdate{
		RunIndex:  o.index,
		Strategy:  o.strategy,
		Iteration: it,
		Value:     format.ConvergenceProgress(o.firstDelta, it.Delta, o.tolerance),
	}
	select {
	case o.ch <- update:
	case <-o.ctx.Done():
	}
}

// finish reports the final step of a run as complete.
func (o *progressObserver) finish(it quadrature.Iteration) {
	select {
	case o.ch <- ProgressUpdate{RunIndex: o.index, Strategy: o.strategy, Iteration: it, Value: 1}:
	case <-o.ctx.Done():
	}
}
