package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/quadcalc/internal/metrics"
)

// Metrics holds the server's Prometheus registry. Each instance owns its
// registry so several servers (or tests) can coexist in one process.
type Metrics struct {
	registry        *prometheus.Registry
	activeRequests  prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	collector       *metrics.Prometheus
	handler         http.Handler
}

// NewMetrics creates a registry with the Go runtime and process collectors,
// the request metrics and the integration collector.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quadcalc",
			Name:      "active_requests",
			Help:      "Requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quadcalc",
			Name:      "requests_total",
			Help:      "Requests served, by route and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quadcalc",
			Name:      "request_duration_seconds",
			Help:      "Request latency, by route.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"route"}),
		collector: metrics.NewPrometheus(reg, "quadcalc"),
	}
	reg.MustRegister(m.activeRequests, m.requestsTotal, m.requestDuration)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// Collector returns the integration collector registered on this registry.
func (m *Metrics) Collector() *metrics.Prometheus { return m.collector }

// IncrementActiveRequests marks a request as started.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks a request as finished.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest records a finished request on route.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// WritePrometheus serves the exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
