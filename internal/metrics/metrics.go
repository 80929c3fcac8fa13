package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the resolution counters
const (
	OutcomeSuccess  = "success"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomePanic    = "panic"
	OutcomeCacheHit = "cache_hit"
)

// Metrics holds the Prometheus collectors for the resolution engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	StrategyAttempts *prometheus.CounterVec
	Resolutions      *prometheus.CounterVec
	LinkIndexLookups *prometheus.CounterVec
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// New creates a Metrics instance backed by its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StrategyAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musicshare_strategy_attempts_total",
				Help: "Total number of resolver strategy attempts",
			},
			[]string{"platform", "strategy", "outcome"},
		),
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musicshare_resolutions_total",
				Help: "Total number of track and playlist resolutions",
			},
			[]string{"kind", "platform", "outcome"},
		),
		LinkIndexLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musicshare_link_index_lookups_total",
				Help: "Total number of cross-platform link index lookups",
			},
			[]string{"outcome"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "musicshare_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "musicshare_http_request_duration_seconds",
				Help:    "Time spent serving HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.StrategyAttempts,
		m.Resolutions,
		m.LinkIndexLookups,
		m.RequestsTotal,
		m.RequestDuration,
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordStrategy counts one strategy attempt
func (m *Metrics) RecordStrategy(platform, strategy, outcome string) {
	if m == nil {
		return
	}
	m.StrategyAttempts.WithLabelValues(platform, strategy, outcome).Inc()
}

// RecordResolution counts a finished track or playlist resolution
func (m *Metrics) RecordResolution(kind, platform, outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(kind, platform, outcome).Inc()
}

// RecordLinkIndexLookup counts a link index lookup
func (m *Metrics) RecordLinkIndexLookup(outcome string) {
	if m == nil {
		return
	}
	m.LinkIndexLookups.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
