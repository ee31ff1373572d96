package tui

import (
	"context"
	"io"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/quadcalc/internal/config"
	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/metrics"
	"github.com/agbru/quadcalc/internal/orchestration"
	"github.com/agbru/quadcalc/internal/quadrature"
	"github.com/agbru/quadcalc/internal/sysmon"
)

func runSpec(entry integrand.Entry, cfg config.AppConfig) orchestration.RunSpec {
	return orchestration.RunSpec{
		Function:    entry.Function,
		Interval:    cfg.Interval(),
		Options:     cfg.QuadratureOptions(),
		Convergence: cfg.ConvergenceOptions(),
		N:           cfg.N,
		Collector:   metrics.NewNop(),
	}
}

func presentationOptions(entry integrand.Entry, cfg config.AppConfig) orchestration.PresentationOptions {
	exact, known := entry.Exact(cfg.A, cfg.B)
	return orchestration.PresentationOptions{
		Function: entry.Name,
		Interval: cfg.Interval(),
		Exact:    exact,
		HasExact: known,
		Verbose:  cfg.Verbose,
		Details:  cfg.Details,
	}
}

// startCalculationCmd runs the whole batch off the event loop. Progress and
// results reach the program through out; the returned message only closes
// generation gen.
func startCalculationCmd(ctx context.Context, out sender, strategies []quadrature.Strategy, entry integrand.Entry, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		presenter := &TUIResultPresenter{out: out}
		results := orchestration.ExecuteRuns(ctx, strategies, runSpec(entry, cfg), &TUIProgressReporter{out: out}, io.Discard)
		code := orchestration.AnalyzeComparisonResults(results, presentationOptions(entry, cfg),
			cfg.CompareTolerance, presenter, presenter, io.Discard)
		return CalculationCompleteMsg{ExitCode: code, Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// sampleCmd reads the Go runtime and the host in parallel.
func sampleCmd() tea.Cmd {
	return tea.Batch(readMemStats, readSysStats)
}

func readMemStats() tea.Msg {
	var rt runtime.MemStats
	runtime.ReadMemStats(&rt)
	return MemStatsMsg{
		Alloc:        rt.Alloc,
		HeapInuse:    rt.HeapInuse,
		HeapSys:      rt.HeapSys,
		NumGC:        rt.NumGC,
		PauseTotalNs: rt.PauseTotalNs,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

func readSysStats() tea.Msg {
	host := sysmon.Sample()
	return SysStatsMsg{CPUPercent: host.CPUPercent, MemPercent: host.MemPercent}
}

// watchContextCmd reports when ctx ends, tagged with the batch it belonged to.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
