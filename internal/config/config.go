// Package config parses and validates the quadcalc configuration.
//
// Values are resolved in this order, highest priority first: command-line
// flags, QUADCALC_* environment variables, the YAML file named by -config,
// a cached calibration profile (worker count only), hardware estimates and
// finally the static defaults below.
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/logging"
	"github.com/agbru/quadcalc/internal/quadrature"
)

// EnvPrefix prefixes every environment variable read by this package.
const EnvPrefix = "QUADCALC_"

// StrategyAll runs every registered strategy and cross-checks the results.
const StrategyAll = "all"

// Defaults.
const (
	DefaultFunction         = "quadratic"
	DefaultA                = 2.0
	DefaultB                = 20.0
	DefaultStrategy         = quadrature.NameForkJoin
	DefaultTimeout          = 5 * time.Minute
	DefaultSweepMax         = 1_000_000
	DefaultCompareTolerance = 1e-9
)

// AppConfig is the fully resolved configuration of one invocation.
type AppConfig struct {
	// Integrand and domain.
	Function string
	A, B     float64

	// Parallel decomposition. Workers == 0 means "pick automatically".
	Workers        int
	Strategy       string
	Partition      string
	Strict         bool
	TasksPerWorker int

	// Refinement loop. N > 0 replaces the loop with one integration.
	Tolerance     float64
	Increment     int
	InitialN      int
	MaxIterations int
	N             int

	// Modes.
	Sweep              bool
	SweepMax           int
	Calibrate          bool
	CalibrationProfile string
	TUI                bool
	ServeAddr          string

	// Output.
	Quiet            bool
	Verbose          bool
	Details          bool
	OutputFile       string
	NoColor          bool
	LogLevel         string
	CompareTolerance float64

	Timeout    time.Duration
	ConfigFile string
}

// Default returns the configuration used when nothing is overridden.
func Default() AppConfig {
	return AppConfig{
		Function:         DefaultFunction,
		A:                DefaultA,
		B:                DefaultB,
		Strategy:         DefaultStrategy,
		Partition:        quadrature.PolicyLastAbsorbs.String(),
		Tolerance:        quadrature.DefaultTolerance,
		Increment:        quadrature.DefaultIncrement,
		InitialN:         quadrature.DefaultInitialN,
		MaxIterations:    quadrature.DefaultMaxIterations,
		SweepMax:         DefaultSweepMax,
		LogLevel:         "warn",
		CompareTolerance: DefaultCompareTolerance,
		Timeout:          DefaultTimeout,
	}
}

// QuadratureOptions converts the decomposition settings. Call it after the
// worker count has been resolved.
func (c AppConfig) QuadratureOptions() quadrature.Options {
	policy, _ := quadrature.ParsePolicy(c.Partition)
	return quadrature.Options{
		Workers:        c.Workers,
		Policy:         policy,
		Strict:         c.Strict,
		TasksPerWorker: c.TasksPerWorker,
	}
}

// ConvergenceOptions converts the refinement loop settings.
func (c AppConfig) ConvergenceOptions() quadrature.ConvergenceOptions {
	return quadrature.ConvergenceOptions{
		Tolerance:     c.Tolerance,
		Increment:     c.Increment,
		InitialN:      c.InitialN,
		MaxIterations: c.MaxIterations,
	}
}

// Interval returns the integration domain.
func (c AppConfig) Interval() quadrature.Interval {
	return quadrature.Interval{A: c.A, B: c.B}
}

// Validate checks the configuration against the available integrands and
// strategies. Empty lists skip the corresponding membership check.
func (c AppConfig) Validate(functions, strategies []string) error {
	if len(functions) > 0 && !slices.Contains(functions, c.Function) {
		return apperrors.NewConfigError("unknown function %q (available: %s)", c.Function, strings.Join(functions, ", "))
	}
	if len(strategies) > 0 && c.Strategy != StrategyAll && !slices.Contains(strategies, c.Strategy) {
		return apperrors.NewConfigError("unknown strategy %q (available: %s, %s)", c.Strategy, strings.Join(strategies, ", "), StrategyAll)
	}
	if err := c.Interval().Validate(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("--workers must be at least 1 (or 0 for automatic), got %d", c.Workers)
	}
	if _, err := quadrature.ParsePolicy(c.Partition); err != nil {
		return err
	}
	if c.TasksPerWorker < 0 {
		return apperrors.NewConfigError("--tasks-per-worker must not be negative, got %d", c.TasksPerWorker)
	}
	if c.N < 0 {
		return apperrors.NewConfigError("-n must be positive (or 0 to run the refinement loop), got %d", c.N)
	}
	if c.N == 0 {
		if err := c.ConvergenceOptions().Validate(); err != nil {
			return err
		}
	}
	if c.Sweep && c.SweepMax < 10 {
		return apperrors.NewConfigError("--sweep-max must be at least 10, got %d", c.SweepMax)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if !(c.CompareTolerance > 0) || math.IsInf(c.CompareTolerance, 0) {
		return apperrors.NewConfigError("--compare-tol must be a positive finite number, got %g", c.CompareTolerance)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("invalid --log-level %q", c.LogLevel)
	}
	if c.Quiet && c.TUI {
		return apperrors.NewConfigError("--quiet and --tui cannot be combined")
	}
	return nil
}

// ParseConfig parses args into an AppConfig, applies the environment and the
// optional YAML file, and validates the result. Parse and validation errors
// are printed to errWriter. A -h/--help request returns flag.ErrHelp.
func ParseConfig(programName string, args []string, errWriter io.Writer, functions, strategies []string) (AppConfig, error) {
	cfg := Default()
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintf(errWriter, "Integrates a function with the parallel composite trapezoidal rule,\n")
		fmt.Fprintf(errWriter, "refining the grid until successive estimates stabilize.\n\n")
		fmt.Fprintf(errWriter, "Functions:  %s\n", strings.Join(functions, ", "))
		fmt.Fprintf(errWriter, "Strategies: %s, %s\n\nOptions:\n", strings.Join(strategies, ", "), StrategyAll)
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.Function, "fn", cfg.Function, "Function to integrate.")
	fs.Float64Var(&cfg.A, "a", cfg.A, "Lower bound of the interval.")
	fs.Float64Var(&cfg.B, "b", cfg.B, "Upper bound of the interval.")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of workers (0 = calibration profile or CPU count).")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "Shorthand for --workers.")
	fs.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Parallel strategy, or 'all' to compare them.")
	fs.StringVar(&cfg.Strategy, "s", cfg.Strategy, "Shorthand for --strategy.")
	fs.StringVar(&cfg.Partition, "partition", cfg.Partition, "Remainder policy: 'last' or 'balanced'.")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Reject grids with fewer interior samples than workers.")
	fs.IntVar(&cfg.TasksPerWorker, "tasks-per-worker", cfg.TasksPerWorker, "Tasks per worker for the pool strategy (0 = 4).")
	fs.Float64Var(&cfg.Tolerance, "tol", cfg.Tolerance, "Convergence tolerance between successive estimates.")
	fs.IntVar(&cfg.Increment, "increment", cfg.Increment, "Sample count increment per refinement step.")
	fs.IntVar(&cfg.InitialN, "initial-n", cfg.InitialN, "Sample count of the first refinement step.")
	fs.IntVar(&cfg.MaxIterations, "max-iter", cfg.MaxIterations, "Maximum number of refinement steps.")
	fs.IntVar(&cfg.N, "n", cfg.N, "Integrate once with this sample count instead of refining.")
	fs.BoolVar(&cfg.Sweep, "sweep", cfg.Sweep, "Time n = 10, 100, ... up to --sweep-max.")
	fs.IntVar(&cfg.SweepMax, "sweep-max", cfg.SweepMax, "Largest sample count of a sweep.")
	fs.BoolVar(&cfg.Calibrate, "calibrate", cfg.Calibrate, "Measure the best worker count and save it.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", cfg.CalibrationProfile, "Path of the calibration profile.")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "Run the interactive dashboard.")
	fs.StringVar(&cfg.ServeAddr, "serve", cfg.ServeAddr, "Serve the HTTP API on this address (e.g. :8080).")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Print only the final estimate.")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "Shorthand for --quiet.")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Print every refinement step.")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.Details, "details", cfg.Details, "Print timing and memory details.")
	fs.BoolVar(&cfg.Details, "d", cfg.Details, "Shorthand for --details.")
	fs.StringVar(&cfg.OutputFile, "output", cfg.OutputFile, "Write the result to this file.")
	fs.StringVar(&cfg.OutputFile, "o", cfg.OutputFile, "Shorthand for --output.")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored output.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error.")
	fs.Float64Var(&cfg.CompareTolerance, "compare-tol", cfg.CompareTolerance, "Relative tolerance when comparing strategies.")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Maximum run time.")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML configuration file.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		err := apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
		fmt.Fprintf(errWriter, "%v\n", err)
		return AppConfig{}, err
	}

	if !isFlagSet(fs, "config") {
		cfg.ConfigFile = getEnvString("CONFIG", cfg.ConfigFile)
	}
	if cfg.ConfigFile != "" {
		if err := applyFile(&cfg, fs, cfg.ConfigFile); err != nil {
			fmt.Fprintf(errWriter, "%v\n", err)
			return AppConfig{}, err
		}
	}
	if err := applyEnvOverrides(&cfg, fs); err != nil {
		fmt.Fprintf(errWriter, "%v\n", err)
		return AppConfig{}, err
	}

	if err := cfg.Validate(functions, strategies); err != nil {
		fmt.Fprintf(errWriter, "Configuration error: %v\n", err)
		return AppConfig{}, err
	}
	return cfg, nil
}
