// Package metrics provides Prometheus metrics export for the orchestration
// core.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter exports orchestration metrics in Prometheus format.
type PrometheusExporter struct {
	registry *prometheus.Registry

	// Request metrics
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec

	// Branch metrics
	branchLatency *prometheus.HistogramVec
	branchErrors  *prometheus.CounterVec
	degraded      *prometheus.CounterVec

	// Session metrics
	activeSessions prometheus.Gauge

	// Cache metrics
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec

	// LLM token metrics
	llmTokens  *prometheus.CounterVec
	llmLatency *prometheus.HistogramVec
}

// Config configures the Prometheus exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns default Prometheus configuration.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter.
func NewPrometheusExporter(cfg Config) *PrometheusExporter {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &PrometheusExporter{registry: registry}

	e.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellspring",
			Subsystem: "router",
			Name:      "requests_total",
			Help:      "Total number of routed requests",
		},
		[]string{"kind", "status"},
	)

	e.requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wellspring",
			Subsystem: "router",
			Name:      "request_latency_seconds",
			Help:      "End-to-end routed request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"kind"},
	)

	e.branchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wellspring",
			Subsystem: "router",
			Name:      "branch_latency_seconds",
			Help:      "Per-branch invocation latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"target"},
	)

	e.branchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellspring",
			Subsystem: "router",
			Name:      "branch_errors_total",
			Help:      "Total number of failed branches",
		},
		[]string{"target", "error_kind"},
	)

	e.degraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellspring",
			Subsystem: "router",
			Name:      "degraded_responses_total",
			Help:      "Total number of degraded responses",
		},
		[]string{"kind"},
	)

	e.activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "wellspring",
			Subsystem: "therapy",
			Name:      "active_sessions",
			Help:      "Number of active therapy sessions",
		},
	)

	e.cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellspring",
			Subsystem: "router",
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	e.cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellspring",
			Subsystem: "router",
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	e.llmTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wellspring",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"model", "token_type"},
	)

	e.llmLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wellspring",
			Subsystem: "llm",
			Name:      "latency_seconds",
			Help:      "LLM request latency in seconds",
			Buckets:   cfg.LatencyBuckets,
		},
		[]string{"model", "provider"},
	)

	registry.MustRegister(
		e.requests,
		e.requestLatency,
		e.branchLatency,
		e.branchErrors,
		e.degraded,
		e.activeSessions,
		e.cacheHits,
		e.cacheMisses,
		e.llmTokens,
		e.llmLatency,
	)

	return e
}

// RecordRequest records a routed request outcome.
func (e *PrometheusExporter) RecordRequest(kind string, latency time.Duration, degraded bool) {
	status := "ok"
	if degraded {
		status = "degraded"
		e.degraded.WithLabelValues(kind).Inc()
	}
	e.requests.WithLabelValues(kind, status).Inc()
	e.requestLatency.WithLabelValues(kind).Observe(latency.Seconds())
}

// RecordBranch records a single branch invocation.
func (e *PrometheusExporter) RecordBranch(target string, latency time.Duration, errorKind string) {
	e.branchLatency.WithLabelValues(target).Observe(latency.Seconds())
	if errorKind != "" {
		e.branchErrors.WithLabelValues(target, errorKind).Inc()
	}
}

// SetActiveSessions sets the number of active therapy sessions.
func (e *PrometheusExporter) SetActiveSessions(count int) {
	e.activeSessions.Set(float64(count))
}

// RecordCacheHit records a cache hit.
func (e *PrometheusExporter) RecordCacheHit(cacheType string) {
	e.cacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss.
func (e *PrometheusExporter) RecordCacheMiss(cacheType string) {
	e.cacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordLLMTokens records LLM token usage.
func (e *PrometheusExporter) RecordLLMTokens(model, tokenType string, count int) {
	e.llmTokens.WithLabelValues(model, tokenType).Add(float64(count))
}

// RecordLLMLatency records LLM request latency.
func (e *PrometheusExporter) RecordLLMLatency(model, provider string, latency time.Duration) {
	e.llmLatency.WithLabelValues(model, provider).Observe(latency.Seconds())
}

// Handler returns the HTTP handler for the metrics endpoint.
func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry.
func (e *PrometheusExporter) Registry() *prometheus.Registry {
	return e.registry
}
