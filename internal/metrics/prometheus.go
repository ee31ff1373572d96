package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/quadcalc/internal/quadrature"
)

// Prometheus is a Collector backed by Prometheus vectors. Metrics are
// registered lazily on first use.
type Prometheus struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	integrations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	evaluations  *prometheus.CounterVec
	samples      prometheus.Histogram

	convergences    *prometheus.CounterVec
	iterations      prometheus.Histogram
	convergedN      prometheus.Gauge
	convergeSeconds prometheus.Histogram
}

// NewPrometheus creates a Prometheus-backed collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: metrics namespace (defaults to "quadcalc" if empty)
//
// Returns:
//   - *Prometheus: A Collector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "quadcalc"
	}
	return &Prometheus{reg: reg, namespace: namespace}
}

func (p *Prometheus) ensureRegistered() {
	p.once.Do(func() {
		p.integrations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "integration",
			Name:      "total",
			Help:      "Integrations performed, by strategy and result.",
		}, []string{"strategy", "result"})

		p.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "integration",
			Name:      "duration_seconds",
			Help:      "Wall time of a single integration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12), // 1µs .. ~4s
		}, []string{"strategy"})

		p.evaluations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "integration",
			Name:      "evaluations_total",
			Help:      "Integrand evaluations performed, by strategy.",
		}, []string{"strategy"})

		p.samples = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "integration",
			Name:      "sample_count",
			Help:      "Number of sub-intervals per successful integration.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 8),
		})

		p.convergences = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "convergence",
			Name:      "runs_total",
			Help:      "Refinement loop runs, by strategy and result.",
		}, []string{"strategy", "result"})

		p.iterations = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "convergence",
			Name:      "iterations",
			Help:      "Iterations needed by converged runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		})

		p.convergedN = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "convergence",
			Name:      "last_n",
			Help:      "Sample count of the most recent converged run.",
		})

		p.convergeSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "convergence",
			Name:      "duration_seconds",
			Help:      "Wall time of converged runs in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 10),
		})

		p.reg.MustRegister(p.integrations)
		p.reg.MustRegister(p.duration)
		p.reg.MustRegister(p.evaluations)
		p.reg.MustRegister(p.samples)
		p.reg.MustRegister(p.convergences)
		p.reg.MustRegister(p.iterations)
		p.reg.MustRegister(p.convergedN)
		p.reg.MustRegister(p.convergeSeconds)
	})
}

// ObserveIntegration records one integration.
func (p *Prometheus) ObserveIntegration(strategy string, est quadrature.Estimate, elapsed time.Duration, err error) {
	p.ensureRegistered()
	p.integrations.WithLabelValues(strategy, ResultLabel(err)).Inc()
	p.duration.WithLabelValues(strategy).Observe(seconds(elapsed))
	if err != nil {
		return
	}
	p.evaluations.WithLabelValues(strategy).Add(float64(est.Evaluations))
	p.samples.Observe(float64(est.N))
}

// ObserveConvergence records the outcome of a refinement loop.
func (p *Prometheus) ObserveConvergence(strategy string, res quadrature.ConvergenceResult, err error) {
	p.ensureRegistered()
	p.convergences.WithLabelValues(strategy, ResultLabel(err)).Inc()
	if err != nil {
		return
	}
	p.iterations.Observe(float64(res.Iterations))
	p.convergedN.Set(float64(res.N))
	p.convergeSeconds.Observe(seconds(res.Duration))
}
