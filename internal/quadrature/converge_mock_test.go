package quadrature_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/quadrature"
	"github.com/agbru/quadcalc/internal/quadrature/mocks"
)

func TestConvergeDrivesStrategyAndObserver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	strategy := mocks.NewMockStrategy(ctrl)
	observer := mocks.NewMockObserver(ctrl)
	f := integrand.Func(func(x float64) float64 { return x })
	iv := quadrature.Interval{A: 0, B: 1}
	opts := quadrature.Options{Workers: 2}

	values := map[int]float64{1: 0.4, 4: 0.49, 7: 0.4905}
	strategy.EXPECT().
		Integrate(gomock.Any(), gomock.Any(), opts).
		DoAndReturn(func(_ context.Context, p quadrature.Problem, _ quadrature.Options) (quadrature.Estimate, error) {
			v, ok := values[p.N]
			if !ok {
				t.Errorf("unexpected sample count %d", p.N)
			}
			if p.Interval != iv {
				t.Errorf("unexpected interval %+v", p.Interval)
			}
			return quadrature.Estimate{Value: v, N: p.N}, nil
		}).
		Times(3)
	gomock.InOrder(
		observer.EXPECT().OnIteration(gomock.Any()).Do(func(it quadrature.Iteration) {
			if it.Index != 1 || it.N != 1 {
				t.Errorf("unexpected first iteration %+v", it)
			}
		}),
		observer.EXPECT().OnIteration(gomock.Any()),
		observer.EXPECT().OnIteration(gomock.Any()).Do(func(it quadrature.Iteration) {
			if it.Index != 3 || it.N != 7 || it.Estimate != 0.4905 {
				t.Errorf("unexpected last iteration %+v", it)
			}
		}),
	)

	res, err := quadrature.Converge(context.Background(), strategy, f, iv, opts,
		quadrature.ConvergenceOptions{Tolerance: 0.001, Increment: 3, InitialN: 1}, observer)
	if err != nil {
		t.Fatal(err)
	}
	if res.N != 7 || res.Iterations != 3 || res.Estimate != 0.4905 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestConvergeStopsOnWorkerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	strategy := mocks.NewMockStrategy(ctrl)
	failure := apperrors.WorkerError{Worker: 1, Index: 5, Cause: quadrature.ErrNonFinite}
	gomock.InOrder(
		strategy.EXPECT().Integrate(gomock.Any(), gomock.Any(), gomock.Any()).Return(quadrature.Estimate{Value: 1}, nil),
		strategy.EXPECT().Integrate(gomock.Any(), gomock.Any(), gomock.Any()).Return(quadrature.Estimate{}, failure),
	)

	_, err := quadrature.Converge(context.Background(), strategy, integrand.Func(func(float64) float64 { return 1 }),
		quadrature.Interval{A: 0, B: 1}, quadrature.Options{Workers: 1}, quadrature.DefaultConvergenceOptions())
	if !errors.Is(err, quadrature.ErrNonFinite) {
		t.Fatalf("expected worker failure, got %v", err)
	}
}
