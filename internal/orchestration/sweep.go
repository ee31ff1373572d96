package orchestration

import (
	"context"
	"time"

	"github.com/agbru/quadcalc/internal/quadrature"
)

// SweepPoint is one timed integration of a sweep.
type SweepPoint struct {
	Strategy string
	N        int
	Estimate float64
	Duration time.Duration
	// Speedup is the sequential baseline's duration at the same n divided by
	// Duration; zero when either run failed.
	Speedup float64
	Err     error
}

// SweepSizes returns 10, 100, ... up to and including max when max is a
// power of ten.
func SweepSizes(max int) []int {
	var sizes []int
	for n := 10; n > 0 && n <= max; n *= 10 {
		sizes = append(sizes, n)
	}
	return sizes
}

// ExecuteSweep times every strategy at every sweep size. Runs are
// sequential so that timings do not compete for cores. At each size a
// sequential baseline runs first; if strategies includes the sequential
// strategy that run is reported as its point, otherwise it is timed only to
// fill Speedup. onPoint, if not nil, is called after each point. A failing
// point is recorded and the sweep continues; cancellation stops it and
// returns the context error.
func ExecuteSweep(ctx context.Context, strategies []quadrature.Strategy, spec RunSpec, maxN int, onPoint func(SweepPoint)) ([]SweepPoint, error) {
	baseline, rest := splitBaseline(strategies)
	sizes := SweepSizes(maxN)
	points := make([]SweepPoint, 0, len(sizes)*len(strategies))
	emit := func(p SweepPoint) {
		points = append(points, p)
		if onPoint != nil {
			onPoint(p)
		}
	}
	for _, n := range sizes {
		if err := ctx.Err(); err != nil {
			return points, err
		}
		base := timePoint(ctx, baseline.strategy, spec, n)
		if base.Err == nil {
			base.Speedup = 1
		}
		if baseline.reported {
			emit(base)
		}
		for _, s := range rest {
			if err := ctx.Err(); err != nil {
				return points, err
			}
			p := timePoint(ctx, s, spec, n)
			p.Speedup = speedup(base, p)
			emit(p)
		}
	}
	return points, ctx.Err()
}

type sweepBaseline struct {
	strategy quadrature.Strategy
	reported bool
}

// splitBaseline pulls the sequential strategy out of strategies, keeping the
// order of the others.
func splitBaseline(strategies []quadrature.Strategy) (sweepBaseline, []quadrature.Strategy) {
	rest := make([]quadrature.Strategy, 0, len(strategies))
	base := sweepBaseline{strategy: quadrature.Sequential{}}
	for _, s := range strategies {
		if !base.reported && s.Name() == base.strategy.Name() {
			base = sweepBaseline{strategy: s, reported: true}
			continue
		}
		rest = append(rest, s)
	}
	return base, rest
}

func timePoint(ctx context.Context, s quadrature.Strategy, spec RunSpec, n int) SweepPoint {
	start := time.Now()
	est, err := s.Integrate(ctx, quadrature.Problem{F: spec.Function, Interval: spec.Interval, N: n}, spec.Options)
	return SweepPoint{Strategy: s.Name(), N: n, Estimate: est.Value, Duration: time.Since(start), Err: err}
}

func speedup(base, p SweepPoint) float64 {
	if base.Err != nil || p.Err != nil || p.Duration <= 0 {
		return 0
	}
	return float64(base.Duration) / float64(p.Duration)
}
