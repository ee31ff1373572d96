package quadrature

import (
	"fmt"
	"math"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
)

// Combine applies the trapezoidal weights to the boundary values and the
// interior partial sums. Partials are added in slice order, which makes the
// result deterministic for a fixed partition.
func Combine(f integrand.Function, a, b, h float64, partials []float64) (float64, error) {
	fa, err := evalBoundary(f, a, 0)
	if err != nil {
		return 0, err
	}
	fb, err := evalBoundary(f, b, int(math.Round((b-a)/h)))
	if err != nil {
		return 0, err
	}
	var interior float64
	for _, p := range partials {
		interior += p
	}
	return h / 2 * (fa + fb + 2*interior), nil
}

// evalBoundary evaluates f at an interval end. Panics and non-finite values
// are reported against worker -1.
func evalBoundary(f integrand.Function, x float64, index int) (v float64, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v, err = 0, apperrors.WorkerError{Worker: -1, Index: index, X: x, Cause: fmt.Errorf("integrand panicked: %v", rec)}
		}
	}()
	v = f.Evaluate(x)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.WorkerError{Worker: -1, Index: index, X: x, Cause: ErrNonFinite}
	}
	return v, nil
}
