package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/orchestration"
)

// sender delivers messages to the running program.
type sender interface {
	Send(msg tea.Msg)
}

// programRef is a shared reference to the tea.Program. bubbletea copies
// the model on every Update, so the bridge needs a pointer that survives.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference.
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program, if one is set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter forwards refinement steps as ProgressMsg.
type TUIProgressReporter struct {
	out sender
}

var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains progressChan into the program.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numRuns int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numRuns)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	for update := range progressChan {
		t.out.Send(progressMsgFor(update, agg.Update(update)))
	}
	t.out.Send(ProgressDoneMsg{})
}

func progressMsgFor(update orchestration.ProgressUpdate, ap orchestration.AggregatedProgress) ProgressMsg {
	return ProgressMsg{
		RunIndex:        update.RunIndex,
		Strategy:        update.Strategy,
		N:               update.Iteration.N,
		Estimate:        update.Iteration.Estimate,
		Delta:           update.Iteration.Delta,
		Value:           ap.Value,
		AverageProgress: ap.AverageProgress,
		ETA:             ap.ETA,
	}
}

// TUIResultPresenter sends results to the program instead of writing them.
type TUIResultPresenter struct {
	out sender
}

var (
	_ orchestration.ResultPresenter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler    = (*TUIResultPresenter)(nil)
)

// PresentComparisonTable sends the batch results.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.RunResult, _ io.Writer) {
	t.out.Send(ComparisonResultsMsg{Results: results})
}

// PresentResult sends the selected result.
func (t *TUIResultPresenter) PresentResult(result orchestration.RunResult, opts orchestration.PresentationOptions, _ io.Writer) {
	t.out.Send(FinalResultMsg{Result: result, Options: opts})
}

// FormatDuration formats d like the CLI.
func (t *TUIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError sends an ErrorMsg and returns the exit code for err.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}
	t.out.Send(ErrorMsg{Err: err, Duration: duration})
	return apperrors.HandleCalculationError(err, duration, io.Discard, nil)
}
