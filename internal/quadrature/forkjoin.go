package quadrature

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForkJoin starts one goroutine per worker for every call and joins them
// before reducing. Each worker accumulates into its own slot, so no
// synchronization is needed until the join.
type ForkJoin struct{}

// Name returns "forkjoin".
func (ForkJoin) Name() string { return NameForkJoin }

// Integrate implements Strategy. The first worker failure cancels the
// others; its error is returned once every worker has exited.
func (ForkJoin) Integrate(ctx context.Context, p Problem, opts Options) (Estimate, error) {
	h, part, err := prepare(p, opts, opts.Workers)
	if err != nil {
		return Estimate{}, err
	}
	if err := ctx.Err(); err != nil {
		return Estimate{}, err
	}

	workers := make([]Worker, len(part))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range part {
		workers[i] = NewWorker(i, p.F, p.A, h, r)
		w := &workers[i]
		if r.Empty() {
			continue
		}
		g.Go(func() error { return w.Run(gctx) })
	}
	if err := g.Wait(); err != nil {
		return Estimate{}, err
	}
	return finish(p, h, workers)
}
