package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"musicshare/internal/errorreport"
	"musicshare/internal/metrics"
)

// RouterConfig holds the handlers and middleware wired into the router
type RouterConfig struct {
	Tracks        *TrackHandler
	Links         *LinkHandler
	Playlists     *PlaylistHandler
	GIFs          *GIFHandler
	Metrics       *metrics.Metrics
	SentryEnabled bool
}

// NewRouter builds the HTTP API
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	if cfg.SentryEnabled {
		router.Use(errorreport.Middleware())
	}
	router.Use(cfg.Metrics.Middleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/oembed", cfg.Tracks.OEmbed)
		api.GET("/platforms", cfg.Links.Platforms)
		api.GET("/deeplink", cfg.Links.DeepLink)
		api.GET("/playlist", cfg.Playlists.Playlist)
		api.GET("/gifs", cfg.GIFs.Search)
	}

	return router
}

// requestLogger logs one line per request
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.FullPath() == "/healthz" {
			return
		}
		slog.Info("Request handled",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}
