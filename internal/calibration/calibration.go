package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/logging"
	"github.com/agbru/quadcalc/internal/quadrature"
	"github.com/agbru/quadcalc/internal/ui"
)

// DefaultCalibrationN is large enough for goroutine start-up to be
// amortized on every candidate.
const DefaultCalibrationN = 2_000_000

// DefaultRounds is the number of timed repetitions per candidate; the
// fastest is kept.
const DefaultRounds = 3

// Options configures a calibration run.
type Options struct {
	Strategy    quadrature.Strategy
	Entry       integrand.Entry
	Interval    quadrature.Interval
	N           int
	Rounds      int
	Candidates  []int
	ProfilePath string
	Logger      logging.Logger
}

func (o *Options) setDefaults() {
	if o.Strategy == nil {
		o.Strategy = quadrature.ForkJoin{}
	}
	if o.N <= 0 {
		o.N = DefaultCalibrationN
	}
	if o.Rounds <= 0 {
		o.Rounds = DefaultRounds
	}
	if len(o.Candidates) == 0 {
		o.Candidates = GenerateWorkerCandidates()
	}
	if o.ProfilePath == "" {
		o.ProfilePath = GetDefaultProfilePath()
	}
	if o.Logger == nil {
		o.Logger = logging.NewZerologAdapter(zerolog.Nop())
	}
}

type calibrationResult struct {
	Workers  int
	Duration time.Duration
	Err      error
}

// Calibrate times every candidate worker count and returns the results and
// the fastest count. The context error is returned if the run is
// interrupted.
func Calibrate(ctx context.Context, opts Options) ([]calibrationResult, int, error) {
	opts.setDefaults()
	problem := quadrature.Problem{F: opts.Entry.Function, Interval: opts.Interval, N: opts.N}

	results := make([]calibrationResult, 0, len(opts.Candidates))
	best, bestDuration := 0, time.Duration(0)
	for _, workers := range opts.Candidates {
		res := calibrationResult{Workers: workers}
		for round := 0; round < opts.Rounds; round++ {
			if err := ctx.Err(); err != nil {
				return results, best, err
			}
			start := time.Now()
			_, err := opts.Strategy.Integrate(ctx, problem, quadrature.Options{Workers: workers})
			elapsed := time.Since(start)
			if err != nil {
				res.Err = err
				break
			}
			if res.Duration == 0 || elapsed < res.Duration {
				res.Duration = elapsed
			}
		}
		opts.Logger.Debug("calibration candidate",
			logging.Int("workers", workers), logging.Duration("best", res.Duration))
		results = append(results, res)
		if res.Err == nil && (best == 0 || res.Duration < bestDuration) {
			best, bestDuration = workers, res.Duration
		}
	}
	return results, best, nil
}

// RunCalibration runs Calibrate, prints the summary table and saves the
// profile. It returns a process exit code.
func RunCalibration(ctx context.Context, out io.Writer, opts Options) int {
	opts.setDefaults()
	fmt.Fprintf(out, "--- Calibration ---\n")
	fmt.Fprintf(out, "Timing %s on f(x) = %s, n = %d, %d rounds per worker count.\n",
		opts.Strategy.Name(), opts.Entry.Formula, opts.N, opts.Rounds)

	start := time.Now()
	results, best, err := Calibrate(ctx, opts)
	if err != nil {
		fmt.Fprintf(out, "%sCalibration interrupted: %v%s\n", ui.ColorYellow(), err, ui.ColorReset())
		return apperrors.ExitCodeFor(err)
	}

	printCalibrationResults(out, results, best)
	if best == 0 {
		fmt.Fprintf(out, "\n%sNo worker count completed the integration.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	profile := NewProfile()
	profile.OptimalWorkers = best
	profile.Function = opts.Entry.Name
	profile.CalibrationN = opts.N
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	if err := profile.SaveProfile(opts.ProfilePath); err != nil {
		opts.Logger.Error("saving calibration profile", err, logging.String("path", opts.ProfilePath))
		fmt.Fprintf(out, "%sCould not save the profile: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	opts.Logger.Info("calibration profile saved", logging.String("path", opts.ProfilePath), logging.Int("workers", best))
	printCalibrationOutput(out, best, opts.ProfilePath)
	return apperrors.ExitSuccess
}
