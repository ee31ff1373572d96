// Package app wires configuration, strategies and the output modes of the
// quadcalc command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/quadcalc/internal/calibration"
	"github.com/agbru/quadcalc/internal/cli"
	"github.com/agbru/quadcalc/internal/config"
	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/logging"
	"github.com/agbru/quadcalc/internal/orchestration"
	"github.com/agbru/quadcalc/internal/quadrature"
	"github.com/agbru/quadcalc/internal/server"
	"github.com/agbru/quadcalc/internal/tui"
	"github.com/agbru/quadcalc/internal/ui"
)

// Application represents the quadcalc application instance.
type Application struct {
	Config    config.AppConfig
	Registry  *integrand.Registry
	Factory   *quadrature.Factory
	ErrWriter io.Writer

	logger zerolog.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry sets the integrand registry used to resolve -fn.
func WithRegistry(r *integrand.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithFactory sets a custom strategy factory.
func WithFactory(f *quadrature.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = integrand.NewDefaultRegistry()
	}

	// Strategy names do not depend on the pool size, so validation can run
	// against a throwaway factory when none was injected.
	names := quadrature.NewDefaultFactory(0).List()
	if app.Factory != nil {
		names = app.Factory.List()
	}

	programName := "quadcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Registry.List(), names)
	if err != nil {
		return nil, err
	}

	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	}
	cfg = config.ApplyAdaptiveWorkers(cfg)

	if app.Factory == nil {
		app.Factory = quadrature.NewDefaultFactory(cfg.Workers)
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	defer a.Factory.Close()

	ui.InitTheme(a.Config.NoColor)
	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: invalid log level %q\n", a.Config.LogLevel)
		return apperrors.ExitErrorConfig
	}
	a.logger = logging.NewConsole(a.ErrWriter, level, a.Config.NoColor)

	entry, err := a.Registry.Get(a.Config.Function)
	if err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	switch {
	case a.Config.Calibrate:
		return a.runCalibration(ctx, entry, out)
	case a.Config.ServeAddr != "":
		return a.runServer(ctx)
	case a.Config.TUI:
		return a.runTUI(ctx, entry)
	case a.Config.Sweep:
		return a.runSweep(ctx, entry, out)
	default:
		return a.runCalculate(ctx, entry, out)
	}
}

// withLifecycle applies the configured timeout and cancels on SIGINT or
// SIGTERM.
func (a *Application) withLifecycle(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

// runCalibration runs the full calibration mode.
func (a *Application) runCalibration(ctx context.Context, entry integrand.Entry, out io.Writer) int {
	ctx, cancel := a.withLifecycle(ctx)
	defer cancel()

	return calibration.RunCalibration(ctx, out, calibration.Options{
		Entry:       entry,
		Interval:    a.Config.Interval(),
		ProfilePath: a.Config.CalibrationProfile,
		Logger:      logging.NewZerologAdapter(a.logger),
	})
}

// runServer serves the HTTP API until a signal arrives. The timeout does
// not apply; each request carries its own deadline.
func (a *Application) runServer(ctx context.Context) int {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.Config.ServeAddr, a.Registry, a.Factory,
		server.WithLogger(logging.NewZerologAdapter(a.logger)),
		server.WithDefaultWorkers(a.Config.Workers),
	)
	if err := srv.Start(ctx); err != nil {
		a.logger.Error().Err(err).Str("addr", a.Config.ServeAddr).Msg("server stopped")
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive TUI dashboard.
func (a *Application) runTUI(ctx context.Context, entry integrand.Entry) int {
	ctx, cancel := a.withLifecycle(ctx)
	defer cancel()

	strategies := orchestration.GetStrategiesToRun(a.Config.Strategy, a.Factory)
	return tui.Run(ctx, strategies, entry, a.Config, Version)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ExitCode maps an error returned by New to the process exit status. Every
// parse failure, including an unknown flag, is a configuration error.
func ExitCode(err error) int {
	if IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	return apperrors.ExitErrorConfig
}
