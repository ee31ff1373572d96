package quadrature

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Recorder receives one observation per integration. internal/metrics
// provides a Prometheus implementation.
type Recorder interface {
	ObserveIntegration(strategy string, est Estimate, elapsed time.Duration, err error)
}

// NopRecorder discards observations.
type NopRecorder struct{}

// ObserveIntegration does nothing.
func (NopRecorder) ObserveIntegration(string, Estimate, time.Duration, error) {}

const tracerName = "github.com/agbru/quadcalc/internal/quadrature"

// Instrumented wraps a Strategy with tracing, metrics and debug logging.
type Instrumented struct {
	inner    Strategy
	recorder Recorder
	tracer   trace.Tracer
	logger   zerolog.Logger
}

// InstrumentOption configures an Instrumented strategy.
type InstrumentOption func(*Instrumented)

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) InstrumentOption {
	return func(i *Instrumented) {
		if r != nil {
			i.recorder = r
		}
	}
}

// WithLogger sets the logger used for per-integration debug entries.
func WithLogger(l zerolog.Logger) InstrumentOption {
	return func(i *Instrumented) { i.logger = l }
}

// WithTracer overrides the tracer obtained from the global provider.
func WithTracer(t trace.Tracer) InstrumentOption {
	return func(i *Instrumented) {
		if t != nil {
			i.tracer = t
		}
	}
}

// Instrument decorates s. Without options it records nothing, logs nothing
// and traces through the global otel provider, which is a no-op unless the
// process installed one.
func Instrument(s Strategy, opts ...InstrumentOption) *Instrumented {
	i := &Instrumented{
		inner:    s,
		recorder: NopRecorder{},
		tracer:   otel.Tracer(tracerName),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Name returns the wrapped strategy's name.
func (i *Instrumented) Name() string { return i.inner.Name() }

// Unwrap returns the decorated strategy.
func (i *Instrumented) Unwrap() Strategy { return i.inner }

// Integrate implements Strategy.
func (i *Instrumented) Integrate(ctx context.Context, p Problem, opts Options) (Estimate, error) {
	ctx, span := i.tracer.Start(ctx, "quadrature.Integrate", trace.WithAttributes(
		attribute.String("quadcalc.strategy", i.inner.Name()),
		attribute.Int("quadcalc.n", p.N),
		attribute.Int("quadcalc.workers", opts.Workers),
		attribute.Float64("quadcalc.a", p.A),
		attribute.Float64("quadcalc.b", p.B),
	))
	defer span.End()

	start := time.Now()
	est, err := i.inner.Integrate(ctx, p, opts)
	elapsed := time.Since(start)

	i.recorder.ObserveIntegration(i.inner.Name(), est, elapsed, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		i.logger.Debug().Err(err).Str("strategy", i.inner.Name()).Int("n", p.N).Msg("integration failed")
		return est, err
	}
	span.SetAttributes(attribute.Float64("quadcalc.estimate", est.Value))
	i.logger.Debug().
		Str("strategy", i.inner.Name()).
		Int("n", p.N).
		Float64("estimate", est.Value).
		Dur("elapsed", elapsed).
		Msg("integration done")
	return est, nil
}
