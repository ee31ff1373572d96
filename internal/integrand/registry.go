package integrand

import (
	"fmt"
	"math"
	"sort"
	"sync"

	apperrors "github.com/agbru/quadcalc/internal/errors"
)

// Entry is a named integrand.
type Entry struct {
	// Name is the registry key used on the command line and in the API.
	Name string
	// Formula is a short human-readable rendering, e.g. "2x^2 + 3x + 0.5".
	Formula string
	// Function is the integrand itself.
	Function Function
	// Primitive is an antiderivative of Function, or nil when no closed
	// form is registered.
	Primitive func(x float64) float64
	// Definite, when set, computes the integral over [a, b] directly and
	// takes precedence over Primitive.
	Definite func(a, b float64) float64
	// Min and Max bound the domain on which Function is finite. Both zero
	// means the whole real line.
	Min, Max float64
}

// Exact returns the analytic value of the integral over [a, b] when a
// primitive is known.
func (e Entry) Exact(a, b float64) (float64, bool) {
	switch {
	case e.Definite != nil:
		return e.Definite(a, b), true
	case e.Primitive != nil:
		return e.Primitive(b) - e.Primitive(a), true
	}
	return 0, false
}

// Supports reports whether [a, b] lies inside the entry's domain.
func (e Entry) Supports(a, b float64) bool {
	if e.Min == 0 && e.Max == 0 {
		return true
	}
	return a >= e.Min && b <= e.Max
}

// Registry maps names to integrands. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds e, replacing any entry with the same name.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" {
		return apperrors.NewConfigError("integrand name must not be empty")
	}
	if e.Function == nil {
		return apperrors.NewConfigError("integrand %q has no function", e.Name)
	}
	r.mu.Lock()
	r.entries[e.Name] = e
	r.mu.Unlock()
	return nil
}

// Get looks up name. Unknown names yield a ConfigError listing the choices.
func (r *Registry) Get(name string) (Entry, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return Entry{}, apperrors.NewConfigError("unknown function %q (available: %v)", name, r.List())
	}
	return e, nil
}

// MustGet is like Get but panics on unknown names.
func (r *Registry) MustGet(name string) Entry {
	e, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return e
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultName is the integrand used when none is selected.
const DefaultName = "quadratic"

// NewDefaultRegistry returns a registry holding the built-in integrands.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, e := range builtins() {
		if err := r.Register(e); err != nil {
			panic(fmt.Sprintf("integrand: invalid builtin: %v", err))
		}
	}
	return r
}

func builtins() []Entry {
	quadratic := Polynomial{Coeffs: []float64{0.5, 3, 2}}
	cubic := Polynomial{Coeffs: []float64{-1, 0, -2, 1}}
	return []Entry{
		{
			Name:      "quadratic",
			Formula:   "2x^2 + 3x + 0.5",
			Function:  quadratic,
			Primitive: quadratic.Antiderivative().Evaluate,
			Definite:  quadratic.Integral,
		},
		{
			Name:      "cubic",
			Formula:   "x^3 - 2x^2 - 1",
			Function:  cubic,
			Primitive: cubic.Antiderivative().Evaluate,
			Definite:  cubic.Integral,
		},
		{Name: "sin", Formula: "sin(x)", Function: Func(math.Sin), Primitive: func(x float64) float64 { return -math.Cos(x) }},
		{Name: "cos", Formula: "cos(x)", Function: Func(math.Cos), Primitive: math.Sin},
		{Name: "exp", Formula: "e^x", Function: Func(math.Exp), Primitive: math.Exp},
		{
			Name:      "gaussian",
			Formula:   "e^(-x^2)",
			Function:  Func(func(x float64) float64 { return math.Exp(-x * x) }),
			Primitive: func(x float64) float64 { return math.Sqrt(math.Pi) / 2 * math.Erf(x) },
		},
		{
			Name:      "pi",
			Formula:   "4 / (1 + x^2)",
			Function:  Func(func(x float64) float64 { return 4 / (1 + x*x) }),
			Primitive: func(x float64) float64 { return 4 * math.Atan(x) },
		},
		{
			Name:      "sqrt",
			Formula:   "sqrt(x)",
			Function:  Func(math.Sqrt),
			Primitive: func(x float64) float64 { return 2.0 / 3.0 * x * math.Sqrt(x) },
			Min:       0,
			Max:       math.MaxFloat64,
		},
		{
			Name:      "log",
			Formula:   "ln(x)",
			Function:  Func(math.Log),
			Primitive: func(x float64) float64 { return x*math.Log(x) - x },
			Min:       math.SmallestNonzeroFloat64,
			Max:       math.MaxFloat64,
		},
		{
			Name:      "reciprocal",
			Formula:   "1 / x",
			Function:  Func(func(x float64) float64 { return 1 / x }),
			Primitive: func(x float64) float64 { return math.Log(x) },
			Min:       math.SmallestNonzeroFloat64,
			Max:       math.MaxFloat64,
		},
	}
}
