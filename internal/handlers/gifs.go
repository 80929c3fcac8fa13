package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"musicshare/internal/services"
)

// GIFSearcher searches GIFs by free text
type GIFSearcher interface {
	Search(ctx context.Context, query string, limit int) *services.GIFSearchResponse
}

// GIFHandler proxies GIF search requests
type GIFHandler struct {
	searcher GIFSearcher
}

// NewGIFHandler creates a new GIF handler
func NewGIFHandler(searcher GIFSearcher) *GIFHandler {
	return &GIFHandler{searcher: searcher}
}

// Search handles GET /api/gifs?q=&limit=. Failures are reported in the body
// with a 200 status.
func (h *GIFHandler) Search(c *gin.Context) {
	// Unparseable limits fall back to the default
	limit, _ := strconv.Atoi(c.Query("limit"))

	c.JSON(http.StatusOK, h.searcher.Search(c.Request.Context(), c.Query("q"), services.NormalizeGIFLimit(limit)))
}
