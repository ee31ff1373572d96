package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/metrics"
	"github.com/agbru/quadcalc/internal/orchestration"
	"github.com/agbru/quadcalc/internal/ui"
)

// CLIColorProvider feeds the active ui theme to apperrors.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

// Red returns the error color.
func (CLIColorProvider) Red() string { return ui.ColorRed() }

// Yellow returns the warning color.
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }

// Reset returns the reset sequence.
func (CLIColorProvider) Reset() string { return ui.ColorReset() }

// CLIResultPresenter implements orchestration.ResultPresenter and
// orchestration.ErrorHandler for terminal output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter = CLIResultPresenter{}
	_ orchestration.ErrorHandler    = CLIResultPresenter{}
)

// PresentComparisonTable prints one row per run. Padding is computed on the
// plain text so ANSI sequences do not break alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.RunResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	headers := []string{"Strategy", "Estimate", "n", "Steps", "Duration"}
	rows := make([][]string, len(results))
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for i, res := range results {
		row := []string{res.Strategy, "-", "-", "-", FormatDuration(res.Duration)}
		if res.Err == nil {
			row[1] = fmt.Sprintf("%.12f", res.Estimate)
			row[2] = format.FormatInt(res.N)
			row[3] = fmt.Sprintf("%d", res.Iterations)
		}
		for j, cell := range row {
			widths[j] = max(widths[j], len([]rune(cell)))
		}
		rows[i] = row
	}

	var header strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&header, "%s%s%s%s   ", ui.ColorUnderline(), h, ui.ColorReset(), padRight("", widths[i]-len(h)))
	}
	fmt.Fprintf(out, "%sStatus%s\n", header.String(), ui.ColorReset())

	colors := []func() string{ui.ColorBlue, ui.ColorReset, ui.ColorReset, ui.ColorReset, ui.ColorYellow}
	for i, res := range results {
		var line strings.Builder
		for j, cell := range rows[i] {
			fmt.Fprintf(&line, "%s%s%s%s   ", colors[j](), cell, ui.ColorReset(), padRight("", widths[j]-len([]rune(cell))))
		}
		if res.Err != nil {
			fmt.Fprintf(&line, "%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			fmt.Fprintf(&line, "%s✅ Success%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintln(out, line.String())
	}
}

// PresentResult prints the final result.
func (CLIResultPresenter) PresentResult(result orchestration.RunResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result, opts, out)
}

// HandleError prints err with the CLI colors and returns its exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

// FormatDuration formats run durations, showing "< 1µs" for zero.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}

// DisplayResult prints the estimate, the analytic value and the absolute
// error when known, and with Details the run statistics.
func DisplayResult(result orchestration.RunResult, opts orchestration.PresentationOptions, out io.Writer) {
	fmt.Fprintf(out, "\n--- Result ---\n")
	fmt.Fprintf(out, "Estimate:  %s%.12f%s\n", ui.ColorGreen(), result.Estimate, ui.ColorReset())
	if opts.HasExact {
		absErr := math.Abs(result.Estimate - opts.Exact)
		fmt.Fprintf(out, "Exact:     %.12g\n", opts.Exact)
		fmt.Fprintf(out, "Abs error: %s%.3e%s\n", ui.ColorYellow(), absErr, ui.ColorReset())
	}
	fmt.Fprintf(out, "Samples:   n = %s", format.FormatInt(result.N))
	if result.Iterations > 1 {
		fmt.Fprintf(out, " after %d refinement steps", result.Iterations)
	}
	fmt.Fprintln(out)

	if !opts.Details {
		return
	}
	fmt.Fprintf(out, "\n--- Details ---\n")
	fmt.Fprintf(out, "Strategy:       %s\n", result.Strategy)
	fmt.Fprintf(out, "Function:       %s on [%g, %g]\n", opts.Function, opts.Interval.A, opts.Interval.B)
	fmt.Fprintf(out, "Step width h:   %.6e\n", opts.Interval.Step(result.N))
	if !math.IsNaN(result.Delta) {
		fmt.Fprintf(out, "Last delta:     %.3e\n", result.Delta)
	}
	fmt.Fprintf(out, "Run time:       %s\n", FormatDuration(result.Duration))
}

// DisplayMemoryStats prints allocator statistics gathered around a run.
func DisplayMemoryStats(snap metrics.MemorySnapshot, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(snap.HeapAlloc))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(snap.TotalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", snap.NumGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(snap.PauseTotalNs)/1e6)
	fmt.Fprintf(out, "  Goroutines:      %d\n", snap.Goroutines)
}
