package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/orchestration"
	"github.com/agbru/quadcalc/internal/ui"
)

// SweepPrinter prints a sweep table row by row, showing a spinner while
// the next point is being computed.
type SweepPrinter struct {
	out     io.Writer
	quiet   bool
	spinner Spinner
	mu      sync.Mutex
}

// NewSweepPrinter prints the table header unless quiet is set.
func NewSweepPrinter(out io.Writer, quiet bool) *SweepPrinter {
	p := &SweepPrinter{out: out, quiet: quiet}
	if quiet {
		return p
	}
	fmt.Fprintf(out, "\n--- Sweep ---\n")
	fmt.Fprintf(out, "%s%-12s %-12s %-22s %-12s %s%s\n", ui.ColorUnderline(), "Strategy", "n", "Estimate", "Elapsed", "Speedup", ui.ColorReset())
	p.spinner = newSpinner(out)
	p.spinner.UpdateSuffix(" integrating...")
	p.spinner.Start()
	return p
}

// OnPoint is passed to orchestration.ExecuteSweep.
func (p *SweepPrinter) OnPoint(pt orchestration.SweepPoint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spinner != nil {
		p.spinner.Stop()
		defer p.spinner.Start()
	}
	fmt.Fprintln(p.out, FormatSweepRow(pt, p.quiet))
}

// Close stops the spinner.
func (p *SweepPrinter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}

// FormatSweepRow renders one sweep point. Quiet rows are tab-separated.
func FormatSweepRow(pt orchestration.SweepPoint, quiet bool) string {
	if quiet {
		if pt.Err != nil {
			return fmt.Sprintf("%s\t%d\terror\t%v", pt.Strategy, pt.N, pt.Err)
		}
		return fmt.Sprintf("%s\t%d\t%.15g\t%d\t%.3f", pt.Strategy, pt.N, pt.Estimate, pt.Duration.Nanoseconds(), pt.Speedup)
	}
	if pt.Err != nil {
		return fmt.Sprintf("%-12s %-12s %s%v%s", pt.Strategy, format.FormatInt(pt.N), ui.ColorRed(), pt.Err, ui.ColorReset())
	}
	return fmt.Sprintf("%-12s %-12s %-22.12f %s%-12s%s %s", pt.Strategy, format.FormatInt(pt.N), pt.Estimate,
		ui.ColorYellow(), FormatDuration(pt.Duration), ui.ColorReset(), formatSpeedup(pt.Speedup))
}

// formatSpeedup renders a speedup as "x1.23", or "-" when there is no
// baseline to compare against.
func formatSpeedup(v float64) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf("x%.2f", v)
}
