package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics served on /metrics. It implements
// calculator.Recorder.
type Metrics struct {
	// Registry owns these metrics. A private registry lets tests build more
	// than one server.
	Registry *prometheus.Registry

	calculationDuration *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	rejected            prometheus.Counter
	requestsTotal       *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		calculationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mortgage_calculation_duration_seconds",
				Help:    "Duration of schedule calculations by payment frequency.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"frequency"},
		),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "mortgage_schedule_cache_hits_total",
			Help: "Total schedule cache hits.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "mortgage_schedule_cache_misses_total",
			Help: "Total schedule cache misses.",
		}),
		rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "mortgage_rejected_calculations_total",
			Help: "Total calculations rejected for invalid parameters.",
		}),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mortgage_http_requests_total",
				Help: "Total HTTP requests by route and status.",
			},
			[]string{"route", "status"},
		),
	}
}

// ObserveCalculation records the duration of a calculation.
func (m *Metrics) ObserveCalculation(frequency string, d time.Duration) {
	m.calculationDuration.WithLabelValues(frequency).Observe(d.Seconds())
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit() {
	m.cacheHits.Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss() {
	m.cacheMisses.Inc()
}

// IncrRejected increments the rejected calculation counter.
func (m *Metrics) IncrRejected() {
	m.rejected.Inc()
}

// IncrRequest counts a served request.
func (m *Metrics) IncrRequest(route string, status int) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
