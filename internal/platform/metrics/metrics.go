// Package metrics defines the Prometheus metrics of the service.
//
// All observation methods are safe on a nil *Metrics so that components can
// be constructed without instrumentation in tests and CLIs.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mining_analytics"

// Metrics holds the collectors registered for the service.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec   // labels: source, outcome
	UpstreamDuration *prometheus.HistogramVec // labels: source
	CacheLookups     *prometheus.CounterVec   // labels: backend, result
	HTTPDuration     *prometheus.HistogramVec // labels: method, route, status
	IngestedPoints   *prometheus.CounterVec   // labels: asset

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them on reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream market data requests by source and outcome",
		}, []string{"source", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream request latency including retries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Price cache lookups by backend and result",
		}, []string{"backend", "result"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		IngestedPoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingested_points_total",
			Help:      "Price points written by ingest runs",
		}, []string{"asset"}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CacheLookups,
		m.HTTPDuration,
		m.IngestedPoints,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(source, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(source, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(source).Observe(d.Seconds())
}

// CacheHit records a cache hit.
func (m *Metrics) CacheHit(backend string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(backend, "hit").Inc()
}

// CacheMiss records a cache miss.
func (m *Metrics) CacheMiss(backend string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(backend, "miss").Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// AddIngested counts points written for an asset.
func (m *Metrics) AddIngested(asset string, n int) {
	if m == nil {
		return
	}
	m.IngestedPoints.WithLabelValues(asset).Add(float64(n))
}
