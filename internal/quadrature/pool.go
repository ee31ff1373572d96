package quadrature

import (
	"context"
	"sync"

	"github.com/agbru/quadcalc/internal/parallel"
)

// Pooled runs workers as jobs on a persistent parallel.Pool. The pool is
// started on first use and reused by every later call, which is what makes
// this strategy cheap inside the refinement loop. The interior is cut into
// Workers*TasksPerWorker tasks; partial sums land in task-indexed slots so
// the reduction order is fixed.
type Pooled struct {
	size int

	mu   sync.Mutex
	pool *parallel.Pool
}

// NewPooled returns a strategy backed by a pool of size goroutines. A
// non-positive size means "use opts.Workers of the first call".
func NewPooled(size int) *Pooled {
	return &Pooled{size: size}
}

// Name returns "pool".
func (*Pooled) Name() string { return NamePool }

func (s *Pooled) acquire(workers int) *parallel.Pool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool == nil {
		size := s.size
		if size < 1 {
			size = workers
		}
		s.pool = parallel.NewPool(size)
	}
	return s.pool
}

// Close stops the pool goroutines. The strategy can be used again
// afterwards; a new pool is started.
func (s *Pooled) Close() {
	s.mu.Lock()
	p := s.pool
	s.pool = nil
	s.mu.Unlock()
	if p != nil {
		p.Close()
	}
}

// Integrate implements Strategy.
func (s *Pooled) Integrate(ctx context.Context, p Problem, opts Options) (Estimate, error) {
	tasks := opts.TasksPerWorker
	if tasks == 0 {
		tasks = DefaultTasksPerWorker
	}
	h, part, err := prepare(p, opts, opts.Workers*tasks)
	if err != nil {
		return Estimate{}, err
	}
	if err := ctx.Err(); err != nil {
		return Estimate{}, err
	}
	pool := s.acquire(opts.Workers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := make([]Worker, len(part))
	var (
		wg   sync.WaitGroup
		errs parallel.ErrorCollector
	)
	for i, r := range part {
		workers[i] = NewWorker(i, p.F, p.A, h, r)
		if r.Empty() {
			continue
		}
		w := &workers[i]
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			if err := w.Run(ctx); err != nil {
				errs.SetError(err)
				cancel()
			}
		})
		if err != nil {
			wg.Done()
			errs.SetError(err)
			cancel()
			break
		}
	}
	wg.Wait()
	if err := errs.Err(); err != nil {
		return Estimate{}, err
	}
	return finish(p, h, workers)
}
