package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining_analytics/internal/platform/metrics"
)

func TestMetrics_Observe(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())

	m.ObserveUpstream("coingecko", "ok", 120*time.Millisecond)
	m.ObserveUpstream("coingecko", "ok", 80*time.Millisecond)
	m.CacheHit("redis")
	m.CacheMiss("redis")
	m.CacheMiss("redis")
	m.AddIngested("BTC", 30)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("coingecko", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("redis", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("redis", "miss")))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.IngestedPoints.WithLabelValues("BTC")))
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpstream("twelvedata", "error", time.Second)
		m.CacheHit("memory")
		m.CacheMiss("memory")
		m.ObserveHTTP("GET", "/healthz", 200, time.Millisecond)
		m.AddIngested("SPX", 1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	m.ObserveHTTP(http.MethodGet, "/api/assets", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mining_analytics_http_request_duration_seconds")
}
