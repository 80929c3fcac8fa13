package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"musicshare/internal/errorreport"
	"musicshare/internal/services"
)

// TrackResolver resolves a track URL into normalized metadata
type TrackResolver interface {
	Resolve(ctx context.Context, url string) (*services.ResolvedTrack, error)
}

// TrackHandler handles single-track metadata requests
type TrackHandler struct {
	resolver TrackResolver
}

// NewTrackHandler creates a new track handler
func NewTrackHandler(resolver TrackResolver) *TrackHandler {
	return &TrackHandler{resolver: resolver}
}

// OEmbed handles GET /api/oembed?url=
func (h *TrackHandler) OEmbed(c *gin.Context) {
	url := c.Query("url")

	track, err := h.resolver.Resolve(c.Request.Context(), url)
	switch {
	case errors.Is(err, services.ErrMissingURL):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "url parameter is required",
		})
		return
	case errors.Is(err, services.ErrUnsupportedPlatform):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unsupported platform",
		})
		return
	case errors.Is(err, services.ErrMetadataUnavailable):
		errorreport.Capture(c, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Could not retrieve track information",
		})
		return
	case err != nil:
		slog.Error("Track resolution failed", "url", url, "error", err)
		errorreport.Capture(c, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Could not retrieve song information",
		})
		return
	}

	c.JSON(http.StatusOK, track)
}
