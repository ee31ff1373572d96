package quadrature

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
)

// Defaults for ConvergenceOptions.
const (
	DefaultTolerance     = 1e-9
	DefaultIncrement     = 50
	DefaultInitialN      = 1
	DefaultMaxIterations = 100_000
)

// ConvergenceOptions controls the refinement loop.
type ConvergenceOptions struct {
	// Tolerance is the absolute difference between two successive
	// estimates below which the loop stops.
	Tolerance float64
	// Increment is added to n after every unconverged iteration.
	Increment int
	// InitialN is the sample count of the first iteration.
	InitialN int
	// MaxIterations bounds the loop. Zero means DefaultMaxIterations.
	MaxIterations int
}

// DefaultConvergenceOptions returns tolerance 1e-9, increment 50, n starting
// at 1 and the default iteration bound.
func DefaultConvergenceOptions() ConvergenceOptions {
	return ConvergenceOptions{
		Tolerance:     DefaultTolerance,
		Increment:     DefaultIncrement,
		InitialN:      DefaultInitialN,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate rejects unusable loop settings.
func (o ConvergenceOptions) Validate() error {
	if !(o.Tolerance > 0) || math.IsInf(o.Tolerance, 0) {
		return apperrors.NewConfigError("tolerance must be a positive finite number, got %g", o.Tolerance)
	}
	if o.Increment < 1 {
		return apperrors.NewConfigError("increment must be at least 1, got %d", o.Increment)
	}
	if o.InitialN < 1 {
		return apperrors.NewConfigError("initial sample count must be at least 1, got %d", o.InitialN)
	}
	if o.MaxIterations < 0 {
		return apperrors.NewConfigError("max iterations must not be negative, got %d", o.MaxIterations)
	}
	return nil
}

func (o ConvergenceOptions) maxIterations() int {
	if o.MaxIterations == 0 {
		return DefaultMaxIterations
	}
	return o.MaxIterations
}

// State is the refinement loop state.
type State int

const (
	// Running means another iteration will be computed.
	Running State = iota
	// Converged means the last two estimates were within tolerance.
	Converged
)

// String returns the lower-case state name.
func (s State) String() string {
	if s == Converged {
		return "converged"
	}
	return "running"
}

// Iteration describes one completed step of the loop.
type Iteration struct {
	// Index counts iterations from 1.
	Index int
	// N is the sample count used.
	N int
	// Estimate is the integral approximation at N.
	Estimate float64
	// Delta is |Estimate - previous|, NaN on the first iteration.
	Delta float64
	// Elapsed is the time spent on this iteration's integration.
	Elapsed time.Duration
}

// Observer is notified after every iteration, on the loop's goroutine.
type Observer interface {
	OnIteration(it Iteration)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(it Iteration)

// OnIteration calls f(it).
func (f ObserverFunc) OnIteration(it Iteration) { f(it) }

// ConvergenceResult is what a successful loop returns.
type ConvergenceResult struct {
	Estimate   float64
	N          int
	Iterations int
	Delta      float64
	State      State
	Duration   time.Duration
}

// ConvergenceLoop repeatedly integrates with a growing n. It is not safe
// for concurrent use; create one loop per run.
type ConvergenceLoop struct {
	strategy  Strategy
	f         integrand.Function
	interval  Interval
	opts      Options
	conv      ConvergenceOptions
	observers []Observer
	logger    zerolog.Logger

	state    State
	previous float64
	current  float64
	n        int
}

// NewConvergenceLoop validates every setting up front so that no worker is
// started for an invalid configuration.
func NewConvergenceLoop(s Strategy, f integrand.Function, iv Interval, opts Options, conv ConvergenceOptions) (*ConvergenceLoop, error) {
	if s == nil {
		return nil, apperrors.NewConfigError("no integration strategy")
	}
	if f == nil {
		return nil, apperrors.NewConfigError("no function to integrate")
	}
	if err := iv.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := conv.Validate(); err != nil {
		return nil, err
	}
	return &ConvergenceLoop{
		strategy: s,
		f:        f,
		interval: iv,
		opts:     opts,
		conv:     conv,
		logger:   zerolog.Nop(),
		n:        conv.InitialN,
	}, nil
}

// Observe registers an observer.
func (l *ConvergenceLoop) Observe(o Observer) { l.observers = append(l.observers, o) }

// SetLogger sets the logger for per-iteration debug entries.
func (l *ConvergenceLoop) SetLogger(logger zerolog.Logger) { l.logger = logger }

// State returns the current loop state.
func (l *ConvergenceLoop) State() State { return l.state }

// Run iterates until convergence, cancellation, a worker failure or the
// iteration bound. Only a converged loop returns a result.
func (l *ConvergenceLoop) Run(ctx context.Context) (ConvergenceResult, error) {
	start := time.Now()
	limit := l.conv.maxIterations()
	lastDelta := math.NaN()

	for iter := 1; iter <= limit; iter++ {
		if err := ctx.Err(); err != nil {
			return ConvergenceResult{}, err
		}

		itStart := time.Now()
		est, err := l.strategy.Integrate(ctx, Problem{F: l.f, Interval: l.interval, N: l.n}, l.opts)
		if err != nil {
			return ConvergenceResult{}, err
		}
		l.current = est.Value

		delta := math.NaN()
		if iter > 1 {
			delta = math.Abs(l.current - l.previous)
			lastDelta = delta
		}
		it := Iteration{Index: iter, N: l.n, Estimate: l.current, Delta: delta, Elapsed: time.Since(itStart)}
		for _, o := range l.observers {
			o.OnIteration(it)
		}
		l.logger.Debug().Int("iteration", iter).Int("n", l.n).Float64("estimate", l.current).Float64("delta", delta).Msg("refinement step")

		if iter > 1 && delta < l.conv.Tolerance {
			l.state = Converged
			return ConvergenceResult{
				Estimate:   l.current,
				N:          l.n,
				Iterations: iter,
				Delta:      delta,
				State:      Converged,
				Duration:   time.Since(start),
			}, nil
		}
		l.previous = l.current
		if iter < limit {
			l.n += l.conv.Increment
		}
	}

	return ConvergenceResult{}, apperrors.NonConvergenceError{
		Iterations: limit,
		LastN:      l.n,
		LastDelta:  lastDelta,
		Tolerance:  l.conv.Tolerance,
	}
}

// Converge builds a ConvergenceLoop and runs it.
func Converge(ctx context.Context, s Strategy, f integrand.Function, iv Interval, opts Options, conv ConvergenceOptions, observers ...Observer) (ConvergenceResult, error) {
	loop, err := NewConvergenceLoop(s, f, iv, opts, conv)
	if err != nil {
		return ConvergenceResult{}, err
	}
	for _, o := range observers {
		loop.Observe(o)
	}
	return loop.Run(ctx)
}
