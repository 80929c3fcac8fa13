package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"musicshare/internal/deeplink"
	"musicshare/internal/services"
)

// LinkAggregator builds cross-platform links for a song
type LinkAggregator interface {
	Links(ctx context.Context, url, title, artist string) []services.PlatformLink
}

// LinkHandler handles cross-platform link requests
type LinkHandler struct {
	aggregator LinkAggregator
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(aggregator LinkAggregator) *LinkHandler {
	return &LinkHandler{aggregator: aggregator}
}

// Platforms handles GET /api/platforms?url=&title=&artist=. It always answers 200.
func (h *LinkHandler) Platforms(c *gin.Context) {
	links := h.aggregator.Links(c.Request.Context(), c.Query("url"), c.Query("title"), c.Query("artist"))
	if links == nil {
		links = []services.PlatformLink{}
	}

	c.JSON(http.StatusOK, gin.H{
		"links": links,
	})
}

// DeepLink handles GET /api/deeplink?url=&platform=. The platform is guessed
// from the URL when omitted.
func (h *LinkHandler) DeepLink(c *gin.Context) {
	webURL := c.Query("url")
	if webURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "url parameter is required",
		})
		return
	}

	platform := c.Query("platform")
	if platform == "" {
		guessed, ok := deeplink.PlatformFromURL(webURL)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unsupported platform",
			})
			return
		}
		platform = guessed
	}

	appURL, ok := deeplink.For(platform, webURL)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "No app link for this URL",
			"platform": platform,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"platform": platform,
		"appUrl":   appURL,
	})
}
