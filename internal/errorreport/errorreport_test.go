package errorreport

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eventRecorder collects events instead of sending them
type eventRecorder struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (r *eventRecorder) beforeSend(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) Events() []*sentry.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*sentry.Event(nil), r.events...)
}

func bindRecorder(t *testing.T) *eventRecorder {
	t.Helper()

	recorder := &eventRecorder{}
	client, err := sentry.NewClient(sentry.ClientOptions{BeforeSend: recorder.beforeSend})
	require.NoError(t, err)

	previous := sentry.CurrentHub().Client()
	sentry.CurrentHub().BindClient(client)
	t.Cleanup(func() { sentry.CurrentHub().BindClient(previous) })

	return recorder
}

func TestInit_DisabledWithoutDSN(t *testing.T) {
	enabled, err := Init("", "v1", "test")
	assert.NoError(t, err)
	assert.False(t, enabled)
}

func TestInit_InvalidDSN(t *testing.T) {
	enabled, err := Init("not a dsn", "v1", "test")
	assert.Error(t, err)
	assert.False(t, enabled)
}

func TestCapture(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := bindRecorder(t)

	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/oembed", func(c *gin.Context) {
		Capture(c, errors.New("could not retrieve track information"))
		Capture(c, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve track information"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/oembed?url=https://tidal.com/browse/track/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	events := recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "/api/oembed", events[0].Tags["route"])
	require.NotEmpty(t, events[0].Exception)
	assert.Equal(t, "could not retrieve track information", events[0].Exception[0].Value)
}

func TestMiddleware_ReportsAndRepanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := bindRecorder(t)

	router := gin.New()
	router.Use(gin.Recovery(), Middleware())
	router.GET("/boom", func(c *gin.Context) {
		panic("unexpected upstream shape")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, recorder.Events(), 1)
}
