package quadrature

import "context"

// Sequential evaluates the whole interior on the calling goroutine. It is
// the reference the parallel strategies are checked against. The Workers
// option is validated but otherwise ignored.
type Sequential struct{}

// Name returns "sequential".
func (Sequential) Name() string { return NameSequential }

// Integrate implements Strategy.
func (Sequential) Integrate(ctx context.Context, p Problem, opts Options) (Estimate, error) {
	h, _, err := prepare(p, opts, 1)
	if err != nil {
		return Estimate{}, err
	}
	workers := []Worker{NewWorker(0, p.F, p.A, h, Range{Start: 1, End: p.N - 1})}
	if err := workers[0].Run(ctx); err != nil {
		return Estimate{}, err
	}
	return finish(p, h, workers)
}
