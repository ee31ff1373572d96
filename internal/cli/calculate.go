package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"

	"github.com/agbru/quadcalc/internal/config"
	"github.com/agbru/quadcalc/internal/format"
	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/quadrature"
	"github.com/agbru/quadcalc/internal/sysmon"
	"github.com/agbru/quadcalc/internal/ui"
)

// PrintExecutionConfig displays the problem, the decomposition settings and
// the host environment before a run.
//
// Parameters:
//   - cfg: The resolved configuration (workers already set).
//   - entry: The selected integrand.
//   - out: The writer for standard output.
func PrintExecutionConfig(cfg config.AppConfig, entry integrand.Entry, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Integrating %sf(x) = %s%s over %s[%g, %g]%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), entry.Formula, ui.ColorReset(),
		ui.ColorMagenta(), cfg.A, cfg.B, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors%s, Go %s%s%s, CPU features: %s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), formatHostMemory(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset(), FormatCPUFeatures())

	strict := ""
	if cfg.Strict {
		strict = ", strict"
	}
	fmt.Fprintf(out, "Decomposition: %s%d%s workers, %s partition%s.\n",
		ui.ColorCyan(), cfg.Workers, ui.ColorReset(), cfg.Partition, strict)

	if cfg.N > 0 {
		fmt.Fprintf(out, "Sample count: %sn = %d%s (single integration).\n", ui.ColorCyan(), cfg.N, ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "Refinement: n = %d, %d, ... until |delta| < %s%g%s (at most %d steps).\n",
		cfg.InitialN, cfg.InitialN+cfg.Increment, ui.ColorCyan(), cfg.Tolerance, ui.ColorReset(), cfg.MaxIterations)
}

func formatHostMemory() string {
	if total := sysmon.Sample().MemTotal; total > 0 {
		return fmt.Sprintf(", %s%s%s memory", ui.ColorCyan(), format.FormatBytes(total), ui.ColorReset())
	}
	return ""
}

// FormatCPUFeatures lists the SIMD extensions relevant to floating-point
// throughput that the CPU reports.
func FormatCPUFeatures() string {
	var features []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasSSE41 {
			features = append(features, "SSE4.1")
		}
		if cpu.X86.HasAVX2 {
			features = append(features, "AVX2")
		}
		if cpu.X86.HasFMA {
			features = append(features, "FMA")
		}
		if cpu.X86.HasAVX512F {
			features = append(features, "AVX-512F")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			features = append(features, "ASIMD")
		}
		if cpu.ARM64.HasSVE {
			features = append(features, "SVE")
		}
	}
	if len(features) == 0 {
		return "none detected"
	}
	return strings.Join(features, " ")
}

// PrintExecutionMode displays whether one strategy runs or several are
// compared.
func PrintExecutionMode(strategies []quadrature.Strategy, out io.Writer) {
	var modeDesc string
	switch len(strategies) {
	case 0:
		modeDesc = "No strategy selected"
	case 1:
		modeDesc = fmt.Sprintf("Single run with the %s%s%s strategy",
			ui.ColorGreen(), strategies[0].Name(), ui.ColorReset())
	default:
		names := make([]string, len(strategies))
		for i, s := range strategies {
			names[i] = s.Name()
		}
		modeDesc = fmt.Sprintf("Parallel comparison of %s", strings.Join(names, ", "))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
