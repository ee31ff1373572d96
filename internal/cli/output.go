package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/quadcalc/internal/orchestration"
	"github.com/agbru/quadcalc/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the result (empty for no file output).
	OutputFile string
	// Quiet prints only the estimate.
	Quiet bool
}

// WriteResultToFile writes a commented header followed by the estimate.
//
// Parameters:
//   - result: The run to record.
//   - opts: The problem description.
//   - cfg: Output configuration; nothing is written when OutputFile is empty.
//
// Returns:
//   - error: An error if the file cannot be written.
func WriteResultToFile(result orchestration.RunResult, opts orchestration.PresentationOptions, cfg OutputConfig) error {
	if cfg.OutputFile == "" {
		return nil
	}

	if dir := filepath.Dir(cfg.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	fmt.Fprintf(file, "# Trapezoidal Integration Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Function: %s\n", opts.Function)
	fmt.Fprintf(file, "# Interval: [%g, %g]\n", opts.Interval.A, opts.Interval.B)
	fmt.Fprintf(file, "# Strategy: %s\n", result.Strategy)
	fmt.Fprintf(file, "# Duration: %s\n", result.Duration)
	fmt.Fprintf(file, "# N: %d\n", result.N)
	fmt.Fprintf(file, "# Iterations: %d\n", result.Iterations)
	if opts.HasExact {
		fmt.Fprintf(file, "# Exact: %.15g\n", opts.Exact)
		fmt.Fprintf(file, "# AbsError: %.3e\n", math.Abs(result.Estimate-opts.Exact))
	}
	fmt.Fprintf(file, "\n%s\n", FormatQuietResult(result))

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// FormatQuietResult renders the estimate alone, for scripting.
func FormatQuietResult(result orchestration.RunResult) string {
	return fmt.Sprintf("%.15g", result.Estimate)
}

// DisplayQuietResult prints the estimate alone.
func DisplayQuietResult(out io.Writer, result orchestration.RunResult) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// DisplayResultWithConfig prints the result in the configured mode and
// writes the result file if requested.
func DisplayResultWithConfig(out io.Writer, result orchestration.RunResult, opts orchestration.PresentationOptions, cfg OutputConfig) error {
	if cfg.Quiet {
		DisplayQuietResult(out, result)
	} else {
		DisplayResult(result, opts, out)
	}
	if cfg.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(result, opts, cfg); err != nil {
		return err
	}
	if !cfg.Quiet {
		DisplaySavedTo(out, cfg.OutputFile)
	}
	return nil
}

// DisplaySavedTo confirms a written result file.
func DisplaySavedTo(out io.Writer, path string) {
	fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), path, ui.ColorReset())
}
