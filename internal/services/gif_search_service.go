package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"musicshare/internal/cache"
)

// GIF search limits
const (
	DefaultGIFLimit = 12
	MaxGIFLimit     = 20
)

// User-facing GIF search errors
const (
	GIFSearchNotConfigured = "GIF search is not configured. Set TENOR_API_KEY."
	GIFSearchUnavailable   = "GIF search is temporarily unavailable."
)

// GIFResult is one GIF search hit
type GIFResult struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Preview string `json:"preview"`
	Title   string `json:"title"`
}

// GIFSearchResponse is always returned with a 200 status
type GIFSearchResponse struct {
	Results []GIFResult `json:"results"`
	Error   string      `json:"error,omitempty"`
}

// GIFSearchConfig configures the Tenor proxy
type GIFSearchConfig struct {
	APIKey    string
	ClientKey string
	Endpoint  string
	CacheTTL  time.Duration
}

type tenorMedia struct {
	URL string `json:"url"`
}

type tenorSearchResponse struct {
	Results []struct {
		ID                 string                `json:"id"`
		ContentDescription string                `json:"content_description"`
		MediaFormats       map[string]tenorMedia `json:"media_formats"`
	} `json:"results"`
}

// GIFSearchService proxies search queries to Tenor
type GIFSearchService struct {
	client *resty.Client
	config GIFSearchConfig
	cache  cache.Cache
}

// NewGIFSearchService creates a GIF search proxy; c may be nil
func NewGIFSearchService(client *resty.Client, cfg GIFSearchConfig, c cache.Cache) *GIFSearchService {
	return &GIFSearchService{
		client: client,
		config: cfg,
		cache:  c,
	}
}

// NormalizeGIFLimit applies the default and the upper bound
func NormalizeGIFLimit(limit int) int {
	if limit <= 0 {
		return DefaultGIFLimit
	}
	if limit > MaxGIFLimit {
		return MaxGIFLimit
	}
	return limit
}

// Search returns GIFs matching query. Problems are reported in the Error field.
func (s *GIFSearchService) Search(ctx context.Context, query string, limit int) *GIFSearchResponse {
	if s.config.APIKey == "" {
		return &GIFSearchResponse{Results: []GIFResult{}, Error: GIFSearchNotConfigured}
	}

	// The request and the cache key share the lowercased query
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return &GIFSearchResponse{Results: []GIFResult{}}
	}
	limit = NormalizeGIFLimit(limit)

	key := "gifs:" + strconv.Itoa(limit) + ":" + query
	if cached := s.cached(ctx, key); cached != nil {
		return cached
	}

	var resp tenorSearchResponse
	err := getJSON(ctx, s.client, jsonRequest{
		Platform:  "tenor",
		Operation: "search",
		URL:       s.config.Endpoint,
		Query: map[string]string{
			"key":           s.config.APIKey,
			"q":             query,
			"limit":         strconv.Itoa(limit),
			"client_key":    s.config.ClientKey,
			"contentfilter": "low",
		},
	}, &resp)
	if err != nil {
		slog.Error("GIF search failed", "query", query, "error", err)
		return &GIFSearchResponse{Results: []GIFResult{}, Error: GIFSearchUnavailable}
	}

	results := make([]GIFResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		media := firstMediaURL(r.MediaFormats, "gif", "mediumgif", "tinygif")
		preview := r.MediaFormats["tinygif"].URL
		if preview == "" {
			preview = media
		}
		if media == "" {
			media = preview
		}
		if media == "" {
			continue
		}
		results = append(results, GIFResult{
			ID:      r.ID,
			URL:     media,
			Preview: preview,
			Title:   r.ContentDescription,
		})
	}

	out := &GIFSearchResponse{Results: results}
	s.store(ctx, key, out)
	return out
}

func firstMediaURL(formats map[string]tenorMedia, names ...string) string {
	for _, name := range names {
		if media, ok := formats[name]; ok {
			return media.URL
		}
	}
	return ""
}

func (s *GIFSearchService) cached(ctx context.Context, key string) *GIFSearchResponse {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil
	}
	var resp GIFSearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *GIFSearchService) store(ctx context.Context, key string, resp *GIFSearchResponse) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
		slog.Warn("GIF search cache write failed", "error", err)
	}
}
