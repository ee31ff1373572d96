package quadrature

import (
	"context"
	"errors"
	"fmt"
	"math"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
)

// CancelCheckInterval is the number of evaluations between two context
// checks inside a worker.
const CancelCheckInterval = 4096

// ErrNonFinite is the cause reported when the integrand returns NaN or an
// infinity.
var ErrNonFinite = errors.New("integrand returned a non-finite value")

// Worker sums the integrand over one Range of interior indices. The partial
// sum is owned by the worker until Run returns; read it only after the
// worker has been joined.
type Worker struct {
	id    int
	f     integrand.Function
	a     float64
	h     float64
	r     Range
	sum   float64
	evals int
}

// NewWorker prepares a worker; nothing is evaluated until Run.
func NewWorker(id int, f integrand.Function, a, h float64, r Range) Worker {
	return Worker{id: id, f: f, a: a, h: h, r: r}
}

// ID returns the worker index.
func (w *Worker) ID() int { return w.id }

// Range returns the indices assigned to the worker.
func (w *Worker) Range() Range { return w.r }

// Run evaluates f(a + i*h) for every i in the range and accumulates the
// result. An empty range does nothing. Failures are returned as
// apperrors.WorkerError and leave PartialSum at zero.
func (w *Worker) Run(ctx context.Context) (err error) {
	i := w.r.Start
	defer func() {
		if rec := recover(); rec != nil {
			w.sum = 0
			err = apperrors.WorkerError{
				Worker: w.id, Index: i, X: w.a + float64(i)*w.h,
				Cause: fmt.Errorf("integrand panicked: %v", rec),
			}
		}
	}()

	var sum float64
	evals := 0
	for ; i <= w.r.End; i++ {
		if evals%CancelCheckInterval == 0 {
			if cerr := ctx.Err(); cerr != nil {
				return apperrors.WorkerError{Worker: w.id, Index: i, X: w.a + float64(i)*w.h, Cause: cerr}
			}
		}
		x := w.a + float64(i)*w.h
		v := w.f.Evaluate(x)
		evals++
		if math.IsNaN(v) || math.IsInf(v, 0) {
			w.evals = evals
			return apperrors.WorkerError{Worker: w.id, Index: i, X: x, Cause: ErrNonFinite}
		}
		sum += v
	}
	w.sum = sum
	w.evals = evals
	return nil
}

// PartialSum returns the accumulated sum. It is zero before Run and after a
// failed Run.
func (w *Worker) PartialSum() float64 { return w.sum }

// Evaluations returns how many times Run called the integrand.
func (w *Worker) Evaluations() int { return w.evals }
