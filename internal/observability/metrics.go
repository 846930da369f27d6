package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache operation labels.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"
	CacheOpFlush  = "flush"

	CacheResultHit   = "hit"
	CacheResultMiss  = "miss"
	CacheResultOK    = "ok"
	CacheResultError = "error"
)

// Metrics owns a private Prometheus registry so multiple instances (tests)
// never collide on the default one.
type Metrics struct {
	registry             *prometheus.Registry
	requests             *prometheus.CounterVec
	latency              *prometheus.HistogramVec
	errors               *prometheus.CounterVec
	cacheOps             *prometheus.CounterVec
	invalidationFailures prometheus.Counter
}

// NewMetrics registers the service collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "HTTP errors by error code.",
		}, []string{"method", "route", "code"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache store operations by outcome.",
		}, []string{"op", "result"}),
		invalidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_invalidation_failures_total",
			Help: "Cache keys that could not be invalidated after a write.",
		}),
	}
	reg.MustRegister(
		m.requests, m.latency, m.errors, m.cacheOps, m.invalidationFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	method, route = utils.CopyString(method), utils.CopyString(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordError increments error counters. Label values are copied since
// callers pass strings backed by request buffers.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(utils.CopyString(method), utils.CopyString(route), code).Inc()
}

// RecordCacheOp counts a cache store call.
func (m *Metrics) RecordCacheOp(op, result string) {
	if m == nil {
		return
	}
	m.cacheOps.WithLabelValues(op, result).Inc()
}

// RecordInvalidationFailure counts a key left behind after a write.
func (m *Metrics) RecordInvalidationFailure() {
	if m == nil {
		return
	}
	m.invalidationFailures.Inc()
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
