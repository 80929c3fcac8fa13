package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"musicshare/internal/errorreport"
	"musicshare/internal/services"
)

// PlaylistResolver expands a playlist URL into its tracks
type PlaylistResolver interface {
	Resolve(ctx context.Context, url string) (*services.PlaylistResponse, error)
}

// PlaylistHandler handles playlist expansion requests
type PlaylistHandler struct {
	resolver PlaylistResolver
}

// NewPlaylistHandler creates a new playlist handler
func NewPlaylistHandler(resolver PlaylistResolver) *PlaylistHandler {
	return &PlaylistHandler{resolver: resolver}
}

// Playlist handles GET /api/playlist?url=
func (h *PlaylistHandler) Playlist(c *gin.Context) {
	playlist, err := h.resolver.Resolve(c.Request.Context(), c.Query("url"))
	if errors.Is(err, services.ErrMissingURL) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "url parameter is required",
		})
		return
	}
	if err != nil {
		errorreport.Capture(c, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Could not retrieve playlist",
		})
		return
	}

	c.JSON(http.StatusOK, playlist)
}
