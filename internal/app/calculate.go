package app

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"

	"github.com/agbru/quadcalc/internal/cli"
	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/metrics"
	"github.com/agbru/quadcalc/internal/orchestration"
	"github.com/agbru/quadcalc/internal/quadrature"
)

const tracerName = "github.com/agbru/quadcalc"

// strategies resolves the selected strategies and wraps them with the
// application logger and the global tracer.
func (a *Application) strategies() []quadrature.Strategy {
	selected := orchestration.GetStrategiesToRun(a.Config.Strategy, a.Factory)
	return orchestration.Instrumented(selected,
		quadrature.WithLogger(a.logger),
		quadrature.WithTracer(otel.Tracer(tracerName)),
	)
}

func (a *Application) runSpec(entry integrand.Entry) orchestration.RunSpec {
	return orchestration.RunSpec{
		Function:    entry.Function,
		Interval:    a.Config.Interval(),
		Options:     a.Config.QuadratureOptions(),
		Convergence: a.Config.ConvergenceOptions(),
		N:           a.Config.N,
		Collector:   metrics.NewNop(),
	}
}

func (a *Application) presentationOptions(entry integrand.Entry) orchestration.PresentationOptions {
	exact, ok := entry.Exact(a.Config.A, a.Config.B)
	return orchestration.PresentationOptions{
		Function: entry.Name,
		Interval: a.Config.Interval(),
		Exact:    exact,
		HasExact: ok,
		Verbose:  a.Config.Verbose,
		Details:  a.Config.Details,
	}
}

// runCalculate orchestrates the execution of the CLI integration command.
func (a *Application) runCalculate(ctx context.Context, entry integrand.Entry, out io.Writer) int {
	ctx, cancel := a.withLifecycle(ctx)
	defer cancel()

	strategies := a.strategies()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, entry, out)
		cli.PrintExecutionMode(strategies, out)
	}

	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{Trace: a.Config.Verbose}
	}

	memCollector := metrics.NewMemoryCollector()
	before := memCollector.Snapshot()
	results := orchestration.ExecuteRuns(ctx, strategies, a.runSpec(entry), progressReporter, progressOut)
	usage := memCollector.Snapshot().Since(before)

	a.logger.Debug().Int("runs", len(results)).Msg("integration finished")

	code := a.analyzeResultsWithOutput(results, a.presentationOptions(entry), out)
	if a.Config.Details && !a.Config.Quiet {
		cli.DisplayMemoryStats(usage, out)
	}
	return code
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.RunResult, opts orchestration.PresentationOptions, out io.Writer) int {
	outputCfg := cli.OutputConfig{OutputFile: a.Config.OutputFile, Quiet: a.Config.Quiet}
	best := orchestration.FindBestResult(results)

	if a.Config.Quiet {
		if best == nil {
			return apperrors.HandleCalculationError(firstError(results), 0, a.ErrWriter, cli.CLIColorProvider{})
		}
		if err := cli.DisplayResultWithConfig(out, *best, opts, outputCfg); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, opts, a.Config.CompareTolerance,
		cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)

	if best != nil && exitCode == apperrors.ExitSuccess && outputCfg.OutputFile != "" {
		// AnalyzeComparisonResults reorders results; look the fastest run up again.
		best = orchestration.FindBestResult(results)
		if err := cli.WriteResultToFile(*best, opts, outputCfg); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		cli.DisplaySavedTo(out, outputCfg.OutputFile)
	}
	return exitCode
}

// runSweep times every selected strategy at n = 10, 100, ... and prints one
// row per point.
func (a *Application) runSweep(ctx context.Context, entry integrand.Entry, out io.Writer) int {
	ctx, cancel := a.withLifecycle(ctx)
	defer cancel()

	strategies := a.strategies()
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, entry, out)
		cli.PrintExecutionMode(strategies, out)
	}

	printer := cli.NewSweepPrinter(out, a.Config.Quiet)
	points, err := orchestration.ExecuteSweep(ctx, strategies, a.runSpec(entry), a.Config.SweepMax, printer.OnPoint)
	printer.Close()
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	for _, p := range points {
		if p.Err != nil {
			return apperrors.ExitCodeFor(p.Err)
		}
	}
	return apperrors.ExitSuccess
}

func firstError(results []orchestration.RunResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
