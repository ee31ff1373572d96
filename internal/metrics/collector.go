// Package metrics records integration statistics. The Prometheus collector
// feeds the server's /metrics endpoint; MemoryCollector backs the CLI
// details view and the TUI.
package metrics

import (
	"time"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/quadrature"
)

// Collector receives integration and convergence outcomes.
type Collector interface {
	quadrature.Recorder
	ObserveConvergence(strategy string, res quadrature.ConvergenceResult, err error)
}

// Nop is a Collector that records nothing.
type Nop struct {
	quadrature.NopRecorder
}

// NewNop returns a no-op collector.
func NewNop() *Nop { return &Nop{} }

// ObserveConvergence does nothing.
func (*Nop) ObserveConvergence(string, quadrature.ConvergenceResult, error) {}

var (
	_ Collector = (*Nop)(nil)
	_ Collector = (*Prometheus)(nil)
)

// Result labels.
const (
	ResultOK             = "ok"
	ResultConfig         = "config_error"
	ResultWorker         = "worker_error"
	ResultNonConvergence = "non_convergence"
	ResultCanceled       = "canceled"
	ResultTimeout        = "timeout"
	ResultError          = "error"
)

// ResultLabel classifies err for the "result" label.
func ResultLabel(err error) string {
	if err == nil {
		return ResultOK
	}
	switch apperrors.ExitCodeFor(err) {
	case apperrors.ExitErrorConfig:
		return ResultConfig
	case apperrors.ExitErrorWorker:
		return ResultWorker
	case apperrors.ExitErrorNonConvergence:
		return ResultNonConvergence
	case apperrors.ExitErrorCanceled:
		return ResultCanceled
	case apperrors.ExitErrorTimeout:
		return ResultTimeout
	default:
		return ResultError
	}
}

// seconds converts a duration for histogram observation.
func seconds(d time.Duration) float64 { return d.Seconds() }
