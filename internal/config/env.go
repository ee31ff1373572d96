// This file contains environment variable utilities for configuration override.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/quadcalc/internal/errors"
)

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// Aliased flags (-q/--quiet) are listed together.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps an environment key (without the QUADCALC_ prefix) to the
// flag names it shadows and a setter for its value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) error
}

func intSetter(field func(*AppConfig) *int) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = parsed
		return nil
	}
}

func floatSetter(field func(*AppConfig) *float64) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = parsed
		return nil
	}
}

func boolSetter(field func(*AppConfig) *bool) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		parsed, ok := parseBoolEnv(v)
		if !ok {
			return strconv.ErrSyntax
		}
		*field(c) = parsed
		return nil
	}
}

func stringSetter(field func(*AppConfig) *string) func(*AppConfig, string) error {
	return func(c *AppConfig, v string) error {
		*field(c) = v
		return nil
	}
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	// Numeric overrides
	{"A", []string{"a"}, floatSetter(func(c *AppConfig) *float64 { return &c.A })},
	{"B", []string{"b"}, floatSetter(func(c *AppConfig) *float64 { return &c.B })},
	{"WORKERS", []string{"workers", "w"}, intSetter(func(c *AppConfig) *int { return &c.Workers })},
	{"TASKS_PER_WORKER", []string{"tasks-per-worker"}, intSetter(func(c *AppConfig) *int { return &c.TasksPerWorker })},
	{"TOL", []string{"tol"}, floatSetter(func(c *AppConfig) *float64 { return &c.Tolerance })},
	{"INCREMENT", []string{"increment"}, intSetter(func(c *AppConfig) *int { return &c.Increment })},
	{"INITIAL_N", []string{"initial-n"}, intSetter(func(c *AppConfig) *int { return &c.InitialN })},
	{"MAX_ITER", []string{"max-iter"}, intSetter(func(c *AppConfig) *int { return &c.MaxIterations })},
	{"N", []string{"n"}, intSetter(func(c *AppConfig) *int { return &c.N })},
	{"SWEEP_MAX", []string{"sweep-max"}, intSetter(func(c *AppConfig) *int { return &c.SweepMax })},
	{"COMPARE_TOL", []string{"compare-tol"}, floatSetter(func(c *AppConfig) *float64 { return &c.CompareTolerance })},

	// Duration overrides
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) error {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Timeout = parsed
		return nil
	}},

	// String overrides
	{"FN", []string{"fn"}, stringSetter(func(c *AppConfig) *string { return &c.Function })},
	{"STRATEGY", []string{"strategy", "s"}, stringSetter(func(c *AppConfig) *string { return &c.Strategy })},
	{"PARTITION", []string{"partition"}, stringSetter(func(c *AppConfig) *string { return &c.Partition })},
	{"OUTPUT", []string{"output", "o"}, stringSetter(func(c *AppConfig) *string { return &c.OutputFile })},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, stringSetter(func(c *AppConfig) *string { return &c.CalibrationProfile })},
	{"SERVE", []string{"serve"}, stringSetter(func(c *AppConfig) *string { return &c.ServeAddr })},
	{"LOG_LEVEL", []string{"log-level"}, stringSetter(func(c *AppConfig) *string { return &c.LogLevel })},

	// Boolean overrides
	{"STRICT", []string{"strict"}, boolSetter(func(c *AppConfig) *bool { return &c.Strict })},
	{"SWEEP", []string{"sweep"}, boolSetter(func(c *AppConfig) *bool { return &c.Sweep })},
	{"CALIBRATE", []string{"calibrate"}, boolSetter(func(c *AppConfig) *bool { return &c.Calibrate })},
	{"TUI", []string{"tui"}, boolSetter(func(c *AppConfig) *bool { return &c.TUI })},
	{"QUIET", []string{"quiet", "q"}, boolSetter(func(c *AppConfig) *bool { return &c.Quiet })},
	{"VERBOSE", []string{"verbose", "v"}, boolSetter(func(c *AppConfig) *bool { return &c.Verbose })},
	{"DETAILS", []string{"details", "d"}, boolSetter(func(c *AppConfig) *bool { return &c.Details })},
	{"NO_COLOR", []string{"no-color"}, boolSetter(func(c *AppConfig) *bool { return &c.NoColor })},
}

// parseBoolEnv accepts "true", "1", "yes" and "false", "0", "no"
// (case-insensitive).
func parseBoolEnv(val string) (bool, bool) {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true, true
	case "false", "0", "no":
		return false, true
	}
	return false, false
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > File > Defaults.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		val := os.Getenv(EnvPrefix + o.envKey)
		if val == "" {
			continue
		}
		if err := o.apply(config, val); err != nil {
			return apperrors.NewConfigError("invalid value %q for %s%s", val, EnvPrefix, o.envKey)
		}
	}
	return nil
}
