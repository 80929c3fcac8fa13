package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"musicshare/internal/errorreport"
	"musicshare/internal/handlers"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	setupLogger(true)
	gin.SetMode(cfg.GinMode)

	sentryEnabled, err := errorreport.Init(cfg.SentryDSN, cfg.Release, cfg.GinMode)
	if err != nil {
		slog.Error("Failed to initialize Sentry, continuing without it", "error", err)
	}
	defer errorreport.Flush(2 * time.Second)

	e, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	router := handlers.NewRouter(handlers.RouterConfig{
		Tracks:        handlers.NewTrackHandler(e.tracks),
		Links:         handlers.NewLinkHandler(e.links),
		Playlists:     handlers.NewPlaylistHandler(e.playlists),
		GIFs:          handlers.NewGIFHandler(e.gifs),
		Metrics:       e.metrics,
		SentryEnabled: sentryEnabled,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server",
			"port", cfg.Port,
			"cache_enabled", e.cache != nil,
			"gif_search_enabled", cfg.GIFSearchEnabled(),
			"spotify_client_credentials", cfg.Spotify().HasClientCredentials())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
