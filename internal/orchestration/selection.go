package orchestration

import (
	"github.com/agbru/quadcalc/internal/config"
	"github.com/agbru/quadcalc/internal/quadrature"
)

// GetStrategiesToRun resolves a strategy name against the factory. "all"
// selects every registered strategy in sorted order; an unknown name
// yields nil.
func GetStrategiesToRun(name string, factory *quadrature.Factory) []quadrature.Strategy {
	if name == config.StrategyAll {
		keys := factory.List()
		strategies := make([]quadrature.Strategy, 0, len(keys))
		for _, k := range keys {
			if s, err := factory.Get(k); err == nil {
				strategies = append(strategies, s)
			}
		}
		return strategies
	}
	if s, err := factory.Get(name); err == nil {
		return []quadrature.Strategy{s}
	}
	return nil
}

// Instrumented wraps every strategy with the given instrumentation options.
func Instrumented(strategies []quadrature.Strategy, opts ...quadrature.InstrumentOption) []quadrature.Strategy {
	wrapped := make([]quadrature.Strategy, len(strategies))
	for i, s := range strategies {
		wrapped[i] = quadrature.Instrument(s, opts...)
	}
	return wrapped
}
