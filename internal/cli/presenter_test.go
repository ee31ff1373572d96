package cli

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/metrics"
	"github.com/agbru/quadcalc/internal/orchestration"
	"github.com/agbru/quadcalc/internal/quadrature"
	"github.com/agbru/quadcalc/internal/ui"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(prev) })
}

var referenceOpts = orchestration.PresentationOptions{
	Function: "quadratic",
	Interval: quadrature.Interval{A: 2, B: 20},
	Exact:    5931,
	HasExact: true,
}

func TestPresentComparisonTable(t *testing.T) {
	noColor(t)
	results := []orchestration.RunResult{
		{Strategy: "forkjoin", Estimate: 5931.0000012, N: 601, Iterations: 13, Duration: 3 * time.Millisecond},
		{Strategy: "locked", Err: errors.New("boom")},
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &buf)
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title, header and 2 rows, got:\n%s", out)
	}
	for _, want := range []string{"Strategy", "Estimate", "5931.000001200000", "601", "13", "3ms", "✅ Success", "❌ Failure (boom)", "< 1µs"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(lines[2], "601") != strings.Index(lines[1], "n") {
		t.Errorf("columns not aligned:\n%s\n%s", lines[1], lines[2])
	}
}

func TestDisplayResult(t *testing.T) {
	noColor(t)
	res := orchestration.RunResult{Strategy: "pool", Estimate: 5931.0000054, N: 551, Iterations: 12, Delta: 8e-10, Duration: time.Millisecond}

	tests := []struct {
		name     string
		opts     orchestration.PresentationOptions
		contains []string
		excludes []string
	}{
		{"with exact", referenceOpts, []string{"Estimate:  5931.000005400000", "Exact:     5931\n", "Abs error: 5.400e-06", "n = 551 after 12 refinement steps"}, []string{"Details"}},
		{"no exact", orchestration.PresentationOptions{Function: "gaussian"}, []string{"Estimate"}, []string{"Exact", "Abs error"}},
		{"details", func() orchestration.PresentationOptions { o := referenceOpts; o.Details = true; return o }(),
			[]string{"--- Details ---", "Strategy:       pool", "quadratic on [2, 20]", "Last delta:     8.000e-10", "Step width h"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			DisplayResult(res, tt.opts, &buf)
			for _, s := range tt.contains {
				if !strings.Contains(buf.String(), s) {
					t.Errorf("missing %q:\n%s", s, buf.String())
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(buf.String(), s) {
					t.Errorf("unexpected %q:\n%s", s, buf.String())
				}
			}
		})
	}
}

func TestDisplayResultFixedN(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	DisplayResult(orchestration.RunResult{Estimate: 1, N: 10, Iterations: 1, Delta: math.NaN()}, orchestration.PresentationOptions{Details: true}, &buf)
	if strings.Contains(buf.String(), "refinement steps") || strings.Contains(buf.String(), "Last delta") {
		t.Errorf("fixed-n result should not mention refinement:\n%s", buf.String())
	}
}

func TestHandleError(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	code := CLIResultPresenter{}.HandleError(apperrors.NonConvergenceError{Iterations: 3, LastN: 101, LastDelta: 1, Tolerance: 1e-9}, time.Second, &buf)
	if code != apperrors.ExitErrorNonConvergence {
		t.Errorf("code = %d", code)
	}
	if !strings.Contains(buf.String(), "did not stabilize") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestCLIColorProvider(t *testing.T) {
	defer ui.SetCurrentTheme(ui.GetCurrentTheme())
	ui.SetCurrentTheme(ui.DarkTheme)
	c := CLIColorProvider{}
	if c.Red() != ui.DarkTheme.Error || c.Yellow() != ui.DarkTheme.Warning || c.Reset() != ui.DarkTheme.Reset {
		t.Error("color provider does not follow the active theme")
	}
}

func TestDisplayMemoryStats(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayMemoryStats(metrics.MemorySnapshot{HeapAlloc: 2048, TotalAlloc: 3 << 20, NumGC: 4, PauseTotalNs: 1_500_000, Goroutines: 9}, &buf)
	for _, want := range []string{"2.0 KiB", "3.0 MiB", "GC cycles:       4", "1.50ms", "Goroutines:      9"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q:\n%s", want, buf.String())
		}
	}
}
