package orchestration

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/agbru/quadcalc/internal/quadrature"
)

func TestSweepSizes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		max  int
		want []int
	}{
		{9, nil},
		{10, []int{10}},
		{999, []int{10, 100}},
		{1_000_000, []int{10, 100, 1000, 10_000, 100_000, 1_000_000}},
	}
	for _, tt := range tests {
		if got := SweepSizes(tt.max); !slices.Equal(got, tt.want) {
			t.Errorf("SweepSizes(%d) = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestExecuteSweep(t *testing.T) {
	t.Parallel()
	spec := quadraticSpec(t)
	strategies := []quadrature.Strategy{quadrature.ForkJoin{}, quadrature.Sequential{}}

	var seen int
	points, err := ExecuteSweep(context.Background(), strategies, spec, 10_000, func(SweepPoint) { seen++ })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 8 || seen != 8 {
		t.Fatalf("got %d points (%d callbacks), want 8", len(points), seen)
	}
	// The sequential baseline leads each size.
	if first, last := points[0], points[len(points)-1]; first.Strategy != "sequential" || last.N != 10_000 || last.Strategy != "forkjoin" {
		t.Errorf("first point = %+v, last point = %+v", first, last)
	}
	for _, p := range points {
		if p.Err != nil {
			t.Errorf("%s n=%d: %v", p.Strategy, p.N, p.Err)
		}
		if p.Speedup <= 0 {
			t.Errorf("%s n=%d: speedup %g, want > 0", p.Strategy, p.N, p.Speedup)
		}
		if p.Strategy == "sequential" && p.Speedup != 1 {
			t.Errorf("sequential n=%d: speedup %g, want 1", p.N, p.Speedup)
		}
	}
	// The trapezoid error for a quadratic shrinks as 1/n^2.
	if d10, d1k := points[0].Estimate-5931, points[4].Estimate-5931; d1k*d1k >= d10*d10 {
		t.Errorf("error did not shrink: n=10 %g, n=1000 %g", d10, d1k)
	}
}

func TestExecuteSweepCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	points, err := ExecuteSweep(ctx, []quadrature.Strategy{quadrature.Sequential{}}, quadraticSpec(t), 1000, nil)
	if !errors.Is(err, context.Canceled) || len(points) != 0 {
		t.Errorf("got %d points, err %v", len(points), err)
	}
}

func TestExecuteSweepSpeedup(t *testing.T) {
	t.Parallel()
	slow := &behaviorStrategy{name: "slow", behavior: "slow", delay: 20 * time.Millisecond}
	failing := &behaviorStrategy{name: "failing", behavior: "error"}

	// No sequential strategy selected: the baseline is timed but not reported.
	points, err := ExecuteSweep(context.Background(), []quadrature.Strategy{slow, failing}, quadraticSpec(t), 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 4 {
		t.Fatalf("got %d points, want 4", len(points))
	}
	for _, p := range points {
		switch p.Strategy {
		case "slow":
			if p.Speedup <= 0 || p.Speedup >= 1 {
				t.Errorf("slow n=%d: speedup %g, want in (0, 1)", p.N, p.Speedup)
			}
		case "failing":
			if p.Err == nil || p.Speedup != 0 {
				t.Errorf("failing n=%d: err %v, speedup %g", p.N, p.Err, p.Speedup)
			}
		default:
			t.Errorf("unexpected point %+v", p)
		}
	}
}
