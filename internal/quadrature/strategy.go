package quadrature

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/agbru/quadcalc/internal/errors"
)

// Options tunes how an integration is spread across workers.
type Options struct {
	// Workers is the number of ranges the interior is split into.
	Workers int
	// Policy chooses where the remainder indices go.
	Policy Policy
	// Strict rejects grids with fewer interior samples than workers instead
	// of leaving some workers idle.
	Strict bool
	// TasksPerWorker is only used by the pool strategy: the interior is cut
	// into Workers*TasksPerWorker tasks. Zero means DefaultTasksPerWorker.
	TasksPerWorker int
}

// DefaultTasksPerWorker is the pool strategy's default oversubscription.
const DefaultTasksPerWorker = 4

// Validate rejects unusable option values.
func (o Options) Validate() error {
	if o.Workers < 1 {
		return apperrors.NewConfigError("worker count must be at least 1, got %d", o.Workers)
	}
	if o.TasksPerWorker < 0 {
		return apperrors.NewConfigError("tasks per worker must not be negative, got %d", o.TasksPerWorker)
	}
	if o.Policy != PolicyLastAbsorbs && o.Policy != PolicyBalanced {
		return apperrors.NewConfigError("unknown partition policy %d", int(o.Policy))
	}
	return nil
}

//go:generate mockgen -destination=mocks/mock_quadrature.go -package=mocks github.com/agbru/quadcalc/internal/quadrature Observer,Strategy

// Strategy computes a single trapezoidal estimate for a fixed n.
type Strategy interface {
	// Name returns the registry key of the strategy.
	Name() string
	// Integrate returns the estimate for p. Configuration errors are
	// reported before any goroutine starts; worker failures are reported
	// after every worker has returned.
	Integrate(ctx context.Context, p Problem, opts Options) (Estimate, error)
}

// prepare validates a request and plans the partition over the given
// number of ranges.
func prepare(p Problem, opts Options, ranges int) (float64, Partition, error) {
	if err := p.Validate(); err != nil {
		return 0, nil, err
	}
	if err := opts.Validate(); err != nil {
		return 0, nil, err
	}
	if opts.Strict && p.N-1 < opts.Workers {
		return 0, nil, apperrors.NewConfigError(
			"%d interior samples cannot feed %d workers (strict partitioning)", p.N-1, opts.Workers)
	}
	part, err := Plan(p.N, ranges, opts.Policy)
	if err != nil {
		return 0, nil, err
	}
	return p.Step(p.N), part, nil
}

// finish reduces the joined workers into an Estimate.
func finish(p Problem, h float64, workers []Worker) (Estimate, error) {
	partials := make([]float64, len(workers))
	evals := 2
	for i := range workers {
		partials[i] = workers[i].PartialSum()
		evals += workers[i].Evaluations()
	}
	value, err := Combine(p.F, p.A, p.B, h, partials)
	if err != nil {
		return Estimate{}, err
	}
	return Estimate{Value: value, N: p.N, Step: h, Workers: len(workers), Evaluations: evals}, nil
}

// Strategy names accepted by Factory.Get.
const (
	NameForkJoin   = "forkjoin"
	NameLocked     = "locked"
	NamePool       = "pool"
	NameSequential = "sequential"
)

// Factory hands out strategies by name. Strategies that own goroutines are
// released by Close.
type Factory struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{strategies: make(map[string]Strategy)}
}

// NewDefaultFactory registers the four built-in strategies. The pool
// strategy starts poolWorkers goroutines lazily on first use.
func NewDefaultFactory(poolWorkers int) *Factory {
	f := NewFactory()
	f.Register(ForkJoin{})
	f.Register(Locked{})
	f.Register(NewPooled(poolWorkers))
	f.Register(Sequential{})
	return f
}

// Register adds s under s.Name().
func (f *Factory) Register(s Strategy) {
	f.mu.Lock()
	f.strategies[s.Name()] = s
	f.mu.Unlock()
}

// Get returns the strategy registered under name.
func (f *Factory) Get(name string) (Strategy, error) {
	f.mu.RLock()
	s, ok := f.strategies[name]
	f.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewConfigError("unknown strategy %q (available: %v)", name, f.List())
	}
	return s, nil
}

// MustGet is like Get but panics on unknown names.
func (f *Factory) MustGet(name string) Strategy {
	s, err := f.Get(name)
	if err != nil {
		panic(err)
	}
	return s
}

// List returns the registered names in sorted order.
func (f *Factory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.strategies))
	for name := range f.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases strategies that implement io.Closer-like Close().
func (f *Factory) Close() {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, s := range f.strategies {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
