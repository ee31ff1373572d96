package quadrature

import (
	"math"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
)

// Interval is the integration domain [A, B].
type Interval struct {
	A, B float64
}

// Validate rejects non-finite bounds and empty or reversed intervals.
func (iv Interval) Validate() error {
	if math.IsNaN(iv.A) || math.IsInf(iv.A, 0) || math.IsNaN(iv.B) || math.IsInf(iv.B, 0) {
		return apperrors.NewConfigError("interval bounds must be finite, got [%g, %g]", iv.A, iv.B)
	}
	if iv.A >= iv.B {
		return apperrors.NewConfigError("interval lower bound must be below upper bound, got [%g, %g]", iv.A, iv.B)
	}
	return nil
}

// Step returns the sub-interval width for n sub-intervals.
func (iv Interval) Step(n int) float64 {
	return (iv.B - iv.A) / float64(n)
}

// Problem is a single integration request: f over Interval with N
// sub-intervals.
type Problem struct {
	F integrand.Function
	Interval
	N int
}

// Validate checks every field of p.
func (p Problem) Validate() error {
	if p.F == nil {
		return apperrors.NewConfigError("no function to integrate")
	}
	if err := p.Interval.Validate(); err != nil {
		return err
	}
	if p.N < 1 {
		return apperrors.NewConfigError("sample count must be at least 1, got %d", p.N)
	}
	return nil
}

// Estimate is the immutable outcome of one integration.
type Estimate struct {
	// Value is the trapezoidal approximation of the integral.
	Value float64
	// N is the number of sub-intervals used.
	N int
	// Step is the sub-interval width h.
	Step float64
	// Workers is the number of ranges the interior was split into.
	Workers int
	// Evaluations counts calls to the integrand, boundaries included.
	Evaluations int
}
