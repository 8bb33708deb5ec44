// Package metrics provides Prometheus metrics for the Campaign Watch API client.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the client counters. A disabled or nil *Metrics is a no-op.
type Metrics struct {
	enabled  bool
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter

	retriesTotal      prometheus.Counter
	unauthorizedTotal prometheus.Counter
}

// New creates metrics on a private registry.
// If enabled is false, returns a no-op Metrics instance.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}
	if !enabled {
		return m
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(m.registry)

	m.requestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_watch_api_requests_total",
		Help: "Total API attempts by method and outcome",
	}, []string{"method", "outcome"})

	m.requestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campaign_watch_api_request_duration_seconds",
		Help:    "API attempt duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	m.cacheHitsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "campaign_watch_cache_hits_total",
		Help: "GET requests answered from the response cache",
	})

	m.cacheMissesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "campaign_watch_cache_misses_total",
		Help: "Cacheable GET requests that went to the network",
	})

	m.retriesTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "campaign_watch_api_retries_total",
		Help: "Retries after transient transport failures",
	})

	m.unauthorizedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "campaign_watch_unauthorized_total",
		Help: "Responses that ended the session",
	})

	return m
}

func (m *Metrics) on() bool {
	return m != nil && m.enabled
}

// ObserveRequest records one network attempt. Outcome is the HTTP status
// code, or a failure class such as "timeout" or "network".
func (m *Metrics) ObserveRequest(method, outcome string, d time.Duration) {
	if !m.on() {
		return
	}
	m.requestsTotal.WithLabelValues(method, outcome).Inc()
	m.requestDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) CacheHit() {
	if m.on() {
		m.cacheHitsTotal.Inc()
	}
}

func (m *Metrics) CacheMiss() {
	if m.on() {
		m.cacheMissesTotal.Inc()
	}
}

func (m *Metrics) Retry() {
	if m.on() {
		m.retriesTotal.Inc()
	}
}

func (m *Metrics) Unauthorized() {
	if m.on() {
		m.unauthorizedTotal.Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if !m.on() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
