package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining_analytics/internal/platform/metrics"
	"mining_analytics/internal/shared/market"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	t.Run("generated", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		id := w.Header().Get(HeaderRequestID)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
		assert.Equal(t, "abc-123", w.Body.String())
	})
}

func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	m := metrics.New(prometheus.NewRegistry())
	r := gin.New()
	r.Use(RequestID(), AccessLog(), Metrics(m))
	r.GET("/api/prices/:asset", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/prices/A%d", i), nil))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPDuration, "mining_analytics_http_request_duration_seconds"))
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", fmt.Errorf("rsi: %w", market.ErrInvalidInput), http.StatusBadRequest},
		{"alignment", fmt.Errorf("corr: %w", market.ErrAlignment), http.StatusUnprocessableEntity},
		{"unknown asset", fmt.Errorf("x: %w", market.ErrUnknownAsset), http.StatusNotFound},
		{"data unavailable", fmt.Errorf("cg: %w", market.ErrDataUnavailable), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		WriteError(c, fmt.Errorf("days: %w", market.ErrInvalidInput))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"days: invalid input"}`, w.Body.String())
}
