package orchestration

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/quadrature"
)

type mockPresenter struct {
	table    []RunResult
	selected *RunResult
}

func (m *mockPresenter) PresentComparisonTable(results []RunResult, _ io.Writer) {
	m.table = append([]RunResult(nil), results...)
}

func (m *mockPresenter) PresentResult(result RunResult, _ PresentationOptions, _ io.Writer) {
	m.selected = &result
}

type codeHandler struct{}

func (codeHandler) HandleError(err error, _ time.Duration, _ io.Writer) int {
	return apperrors.ExitCodeFor(err)
}

// recordingReporter keeps every update it receives.
type recordingReporter struct {
	mu      sync.Mutex
	updates []ProgressUpdate
}

func (r *recordingReporter) DisplayProgress(wg *sync.WaitGroup, ch <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for u := range ch {
		r.mu.Lock()
		r.updates = append(r.updates, u)
		r.mu.Unlock()
	}
}

func quadraticSpec(t *testing.T) RunSpec {
	t.Helper()
	reg := integrand.NewDefaultRegistry()
	entry := reg.MustGet("quadratic")
	return RunSpec{
		Function:    entry.Function,
		Interval:    quadrature.Interval{A: 2, B: 20},
		Options:     quadrature.Options{Workers: 4},
		Convergence: quadrature.ConvergenceOptions{Tolerance: 1e-3, Increment: 50, InitialN: 1},
	}
}

func TestExecuteRunsConverges(t *testing.T) {
	t.Parallel()
	factory := quadrature.NewDefaultFactory(2)
	defer factory.Close()

	strategies := GetStrategiesToRun("all", factory)
	rec := &recordingReporter{}
	results := ExecuteRuns(context.Background(), strategies, quadraticSpec(t), rec, io.Discard)

	require.Len(t, results, len(strategies))
	for i, r := range results {
		require.NoError(t, r.Err, r.Strategy)
		assert.Equal(t, strategies[i].Name(), r.Strategy, "results keep input order")
		assert.InDelta(t, 5931, r.Estimate, 0.1)
		assert.Greater(t, r.Iterations, 1)
	}

	perRun := map[int]int{}
	for _, u := range rec.updates {
		perRun[u.RunIndex]++
		assert.GreaterOrEqual(t, u.Value, 0.0)
		assert.LessOrEqual(t, u.Value, 1.0)
	}
	for i, r := range results {
		assert.Equal(t, r.Iterations, perRun[i], "one update per refinement step for %s", r.Strategy)
	}
}

func TestExecuteRunsFixedN(t *testing.T) {
	t.Parallel()
	spec := quadraticSpec(t)
	spec.N = 1_000_000
	rec := &recordingReporter{}

	results := ExecuteRuns(context.Background(), []quadrature.Strategy{quadrature.ForkJoin{}}, spec, rec, io.Discard)

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.InDelta(t, 5931, results[0].Estimate, 1e-6)
	assert.Equal(t, 1, results[0].Iterations)
	assert.True(t, math.IsNaN(results[0].Delta))
	require.Len(t, rec.updates, 1)
	assert.Equal(t, 1.0, rec.updates[0].Value)
}

func TestExecuteRunsFailureIsolated(t *testing.T) {
	t.Parallel()
	strategies := []quadrature.Strategy{
		&behaviorStrategy{name: "ok", behavior: "instant"},
		&behaviorStrategy{name: "broken", behavior: "error"},
	}
	results := ExecuteRuns(context.Background(), strategies, deadlockSpec(), NullProgressReporter{}, io.Discard)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
}

func TestAnalyzeComparisonResults(t *testing.T) {
	t.Parallel()
	workerErr := apperrors.WorkerError{Worker: 1, Index: 3, Cause: quadrature.ErrNonFinite}
	tests := []struct {
		name         string
		results      []RunResult
		expected     int
		wantSelected string
	}{
		{
			name: "All success",
			results: []RunResult{
				{Strategy: "pool", Estimate: 5931, Duration: 2 * time.Millisecond},
				{Strategy: "forkjoin", Estimate: 5931 + 1e-10, Duration: time.Millisecond},
			},
			expected:     apperrors.ExitSuccess,
			wantSelected: "forkjoin",
		},
		{
			name: "Mismatch",
			results: []RunResult{
				{Strategy: "forkjoin", Estimate: 5931, Duration: time.Millisecond},
				{Strategy: "locked", Estimate: 5932, Duration: time.Millisecond},
			},
			expected: apperrors.ExitErrorMismatch,
		},
		{
			name: "All failure",
			results: []RunResult{
				{Strategy: "forkjoin", Err: workerErr},
				{Strategy: "pool", Err: errors.New("fail")},
			},
			expected: apperrors.ExitErrorWorker,
		},
		{
			name: "Mixed success and failure",
			results: []RunResult{
				{Strategy: "broken", Err: errors.New("fail"), Duration: time.Microsecond},
				{Strategy: "forkjoin", Estimate: 5931, Duration: time.Second},
			},
			expected:     apperrors.ExitSuccess,
			wantSelected: "forkjoin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &mockPresenter{}
			var out strings.Builder
			status := AnalyzeComparisonResults(tt.results, PresentationOptions{}, 1e-9, p, codeHandler{}, &out)
			assert.Equal(t, tt.expected, status, out.String())
			assert.Len(t, p.table, len(tt.results))
			if tt.wantSelected != "" {
				require.NotNil(t, p.selected)
				assert.Equal(t, tt.wantSelected, p.selected.Strategy)
				assert.Contains(t, out.String(), "Success")
			} else {
				assert.Nil(t, p.selected)
			}
		})
	}
}

func TestAnalyzeComparisonResultsOrdering(t *testing.T) {
	t.Parallel()
	results := []RunResult{
		{Strategy: "failed", Err: errors.New("x")},
		{Strategy: "slow", Estimate: 1, Duration: 3 * time.Millisecond},
		{Strategy: "fast", Estimate: 1, Duration: time.Millisecond},
	}
	p := &mockPresenter{}
	AnalyzeComparisonResults(results, PresentationOptions{}, 1e-9, p, codeHandler{}, io.Discard)
	names := []string{p.table[0].Strategy, p.table[1].Strategy, p.table[2].Strategy}
	assert.Equal(t, []string{"fast", "slow", "failed"}, names)
}

func TestEstimatesAgree(t *testing.T) {
	t.Parallel()
	assert.True(t, EstimatesAgree(5931, 5931*(1+1e-12), 1e-9))
	assert.False(t, EstimatesAgree(5931, 5931.01, 1e-9))
	assert.True(t, EstimatesAgree(0, 1e-10, 1e-9), "absolute tolerance near zero")
	assert.False(t, EstimatesAgree(0, 1e-8, 1e-9))
}

func TestFindBestResult(t *testing.T) {
	t.Parallel()
	assert.Nil(t, FindBestResult(nil))
	assert.Nil(t, FindBestResult([]RunResult{{Err: errors.New("x")}}))
	best := FindBestResult([]RunResult{
		{Strategy: "a", Duration: 2 * time.Second},
		{Strategy: "b", Duration: time.Second},
		{Strategy: "c", Duration: time.Millisecond, Err: errors.New("x")},
	})
	require.NotNil(t, best)
	assert.Equal(t, "b", best.Strategy)
}
