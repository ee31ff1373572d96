// Package integrand defines the scalar functions that can be integrated and
// a registry of named built-ins, some of which carry an analytic
// antiderivative used as a reference value.
package integrand

// Function is a pure real-valued function of one variable. Implementations
// must be safe for concurrent use: workers call Evaluate from several
// goroutines at once.
type Function interface {
	Evaluate(x float64) float64
}

// Func adapts an ordinary function to the Function interface.
type Func func(x float64) float64

// Evaluate calls f(x).
func (f Func) Evaluate(x float64) float64 { return f(x) }

// Polynomial evaluates sum(Coeffs[i] * x^i) with Horner's scheme.
type Polynomial struct {
	Coeffs []float64
}

// Evaluate returns the polynomial value at x.
func (p Polynomial) Evaluate(x float64) float64 {
	var acc float64
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		acc = acc*x + p.Coeffs[i]
	}
	return acc
}

// Integral returns the definite integral of p over [a, b]. Each term is
// scaled before the division by its degree, so integer coefficients and
// bounds give an exact result where F(b)-F(a) would round.
func (p Polynomial) Integral(a, b float64) float64 {
	var sum float64
	pa, pb := a, b
	for i, c := range p.Coeffs {
		k := float64(i + 1)
		sum += c * (pb - pa) / k
		pa *= a
		pb *= b
	}
	return sum
}

// Antiderivative returns the primitive of p with zero constant term.
func (p Polynomial) Antiderivative() Polynomial {
	out := make([]float64, len(p.Coeffs)+1)
	for i, c := range p.Coeffs {
		out[i+1] = c / float64(i+1)
	}
	return Polynomial{Coeffs: out}
}
