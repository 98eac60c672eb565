package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGinMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewHTTPMetricsWith(reg)

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/api/videos/:category", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/videos/rings", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	require.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/videos/:category", "200")))
}

func TestNewHTTPMetricsWithReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewHTTPMetricsWith(reg)
	second := NewHTTPMetricsWith(reg)
	require.Same(t, first.requests, second.requests)
}
