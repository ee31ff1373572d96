package config

import (
	"bytes"
	"flag"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/quadcalc/internal/errors"
)

// FileConfig is the YAML layout accepted by -config. Absent keys leave the
// corresponding setting untouched.
type FileConfig struct {
	Function         *string        `yaml:"fn"`
	A                *float64       `yaml:"a"`
	B                *float64       `yaml:"b"`
	Workers          *int           `yaml:"workers"`
	Strategy         *string        `yaml:"strategy"`
	Partition        *string        `yaml:"partition"`
	Strict           *bool          `yaml:"strict"`
	TasksPerWorker   *int           `yaml:"tasks_per_worker"`
	Tolerance        *float64       `yaml:"tol"`
	Increment        *int           `yaml:"increment"`
	InitialN         *int           `yaml:"initial_n"`
	MaxIterations    *int           `yaml:"max_iter"`
	N                *int           `yaml:"n"`
	SweepMax         *int           `yaml:"sweep_max"`
	Timeout          *time.Duration `yaml:"timeout"`
	LogLevel         *string        `yaml:"log_level"`
	CompareTolerance *float64       `yaml:"compare_tol"`
	Serve            *string        `yaml:"serve"`
	Output           *string        `yaml:"output"`
}

// LoadFile decodes a YAML configuration file. Unknown keys are rejected.
func LoadFile(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, apperrors.NewConfigError("reading config file: %v", err)
	}
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return FileConfig{}, apperrors.NewConfigError("parsing config file %s: %v", path, err)
	}
	return fc, nil
}

// applyFile copies every value present in the file onto cfg unless the
// matching flag was given on the command line.
func applyFile(cfg *AppConfig, fs *flag.FlagSet, path string) error {
	fc, err := LoadFile(path)
	if err != nil {
		return err
	}
	setIfUnset(fs, fc.Function, &cfg.Function, "fn")
	setIfUnset(fs, fc.A, &cfg.A, "a")
	setIfUnset(fs, fc.B, &cfg.B, "b")
	setIfUnset(fs, fc.Workers, &cfg.Workers, "workers", "w")
	setIfUnset(fs, fc.Strategy, &cfg.Strategy, "strategy", "s")
	setIfUnset(fs, fc.Partition, &cfg.Partition, "partition")
	setIfUnset(fs, fc.Strict, &cfg.Strict, "strict")
	setIfUnset(fs, fc.TasksPerWorker, &cfg.TasksPerWorker, "tasks-per-worker")
	setIfUnset(fs, fc.Tolerance, &cfg.Tolerance, "tol")
	setIfUnset(fs, fc.Increment, &cfg.Increment, "increment")
	setIfUnset(fs, fc.InitialN, &cfg.InitialN, "initial-n")
	setIfUnset(fs, fc.MaxIterations, &cfg.MaxIterations, "max-iter")
	setIfUnset(fs, fc.N, &cfg.N, "n")
	setIfUnset(fs, fc.SweepMax, &cfg.SweepMax, "sweep-max")
	setIfUnset(fs, fc.Timeout, &cfg.Timeout, "timeout")
	setIfUnset(fs, fc.LogLevel, &cfg.LogLevel, "log-level")
	setIfUnset(fs, fc.CompareTolerance, &cfg.CompareTolerance, "compare-tol")
	setIfUnset(fs, fc.Serve, &cfg.ServeAddr, "serve")
	setIfUnset(fs, fc.Output, &cfg.OutputFile, "output", "o")
	return nil
}

func setIfUnset[T any](fs *flag.FlagSet, v *T, dst *T, flags ...string) {
	if v != nil && !isFlagSetAny(fs, flags...) {
		*dst = *v
	}
}
