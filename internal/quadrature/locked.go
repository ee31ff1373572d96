package quadrature

import (
	"context"
	"sync"

	"github.com/agbru/quadcalc/internal/parallel"
)

// Locked is the shared-accumulator variant: workers add their partial sum
// to a single mutex-protected total as they finish. The order of those
// additions depends on scheduling, so results may differ in the last bits
// between calls.
type Locked struct{}

// Name returns "locked".
func (Locked) Name() string { return NameLocked }

// Integrate implements Strategy.
func (Locked) Integrate(ctx context.Context, p Problem, opts Options) (Estimate, error) {
	h, part, err := prepare(p, opts, opts.Workers)
	if err != nil {
		return Estimate{}, err
	}
	if err := ctx.Err(); err != nil {
		return Estimate{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu    sync.Mutex
		total float64
		evals int
		errs  parallel.ErrorCollector
		wg    sync.WaitGroup
	)
	for i, r := range part {
		if r.Empty() {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := NewWorker(i, p.F, p.A, h, r)
			if err := w.Run(ctx); err != nil {
				errs.SetError(err)
				cancel()
				return
			}
			mu.Lock()
			total += w.PartialSum()
			evals += w.Evaluations()
			mu.Unlock()
		}()
	}
	wg.Wait()
	if err := errs.Err(); err != nil {
		return Estimate{}, err
	}

	value, err := Combine(p.F, p.A, p.B, h, []float64{total})
	if err != nil {
		return Estimate{}, err
	}
	return Estimate{Value: value, N: p.N, Step: h, Workers: len(part), Evaluations: evals + 2}, nil
}
