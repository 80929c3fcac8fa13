package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordStrategy("spotify", "embed", OutcomeError)
		m.RecordResolution("track", "spotify", OutcomeSuccess)
		m.RecordLinkIndexLookup(OutcomeCacheHit)
	})
	assert.Nil(t, m.Registry())

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.RecordStrategy("spotify", "link_index", OutcomeError)
	m.RecordStrategy("spotify", "embed", OutcomeSuccess)
	m.RecordStrategy("spotify", "embed", OutcomeSuccess)
	m.RecordResolution("track", "spotify", OutcomeSuccess)
	m.RecordLinkIndexLookup(OutcomeError)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StrategyAttempts.WithLabelValues("spotify", "link_index", OutcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StrategyAttempts.WithLabelValues("spotify", "embed", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("track", "spotify", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LinkIndexLookups.WithLabelValues(OutcomeError)))
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/oembed", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing url"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/oembed", nil))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/oembed", "400")))

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "musicshare_http_requests_total")
}
