package calibration

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/agbru/quadcalc/internal/cli"
	"github.com/agbru/quadcalc/internal/ui"
)

// speedup is base/d, or 0 when either timing is missing.
func speedup(base, d calibrationResult) float64 {
	if base.Err != nil || d.Err != nil || base.Duration <= 0 || d.Duration <= 0 {
		return 0
	}
	return float64(base.Duration) / float64(d.Duration)
}

// printCalibrationResults writes one row per candidate with its best time
// and its speedup over the first candidate. The fastest row is flagged.
func printCalibrationResults(out io.Writer, results []calibrationResult, bestWorkers int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	if len(results) == 0 {
		return
	}
	base := results[0]

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %sWorkers%s\t%sBest time%s\t%sSpeedup%s\t\n",
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())
	for _, res := range results {
		workers := fmt.Sprint(res.Workers)
		if res.Workers == 1 {
			workers += " (sequential)"
		}

		timing, gain := ui.ColorRed()+"failed"+ui.ColorReset(), "-"
		if res.Err == nil {
			timing = cli.FormatDuration(res.Duration)
			if s := speedup(base, res); s > 0 {
				gain = fmt.Sprintf("x%.2f", s)
			}
		}

		var mark string
		if res.Err == nil && res.Workers == bestWorkers {
			mark = ui.ColorGreen() + "(Optimal)" + ui.ColorReset()
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", workers, timing, gain, mark)
	}
	tw.Flush()
}

func printCalibrationOutput(out io.Writer, workers int, path string) {
	fmt.Fprintf(out, "\n%sCalibration%s: optimal worker count %s%d%s, saved to %s\n",
		ui.ColorGreen(), ui.ColorReset(), ui.ColorYellow(), workers, ui.ColorReset(), path)
}
