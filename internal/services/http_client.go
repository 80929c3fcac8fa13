package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultHTTPTimeout bounds every outbound call
const DefaultHTTPTimeout = 10 * time.Second

// User agents sent to upstreams that reject anonymous clients
const (
	browserUserAgent = "Mozilla/5.0"
	desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/122.0 Safari/537.36"
	appUserAgent     = "MusicShare/1.0"
)

// Endpoints holds the upstream base URLs. Tests point them at httptest servers.
type Endpoints struct {
	SongLink         string
	SpotifyOEmbed    string
	SpotifyEmbed     string
	SpotifyAPI       string
	YouTubeOEmbed    string
	AppleMusicOEmbed string
	SoundCloudOEmbed string
	DeezerAPI        string
	DeezerOEmbed     string
	BandcampOEmbed   string
	TenorSearch      string
}

// DefaultEndpoints returns the production upstreams
func DefaultEndpoints() Endpoints {
	return Endpoints{
		SongLink:         "https://api.song.link/v1-alpha.1",
		SpotifyOEmbed:    "https://open.spotify.com/oembed",
		SpotifyEmbed:     "https://open.spotify.com/embed",
		SpotifyAPI:       "https://api.spotify.com/v1/",
		YouTubeOEmbed:    "https://www.youtube.com/oembed",
		AppleMusicOEmbed: "https://music.apple.com/oembed",
		SoundCloudOEmbed: "https://soundcloud.com/oembed",
		DeezerAPI:        "https://api.deezer.com",
		DeezerOEmbed:     "https://deezer.com/oembed",
		BandcampOEmbed:   "https://bandcamp.com/oembed",
		TenorSearch:      "https://tenor.googleapis.com/v2/search",
	}
}

// NewHTTPClient creates the shared outbound client. Retries are disabled:
// each strategy is attempted exactly once.
func NewHTTPClient(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
}

// jsonRequest describes a GET whose body is decoded as JSON
type jsonRequest struct {
	Platform  string
	Operation string
	URL       string
	Query     map[string]string
	Headers   map[string]string
}

// getJSON performs req and decodes a 2xx body into target. Upstreams often
// answer with text/html or javascript content types, so the body is decoded
// directly instead of through resty's result binding.
func getJSON(ctx context.Context, client *resty.Client, req jsonRequest, target interface{}) error {
	body, err := getBody(ctx, client, req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		return &PlatformError{
			Platform:  req.Platform,
			Operation: req.Operation,
			Message:   "malformed response",
			URL:       req.URL,
			Err:       err,
		}
	}
	return nil
}

// getBody performs req and returns the raw body of a 2xx response
func getBody(ctx context.Context, client *resty.Client, req jsonRequest) ([]byte, error) {
	r := client.R().SetContext(ctx)
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}

	resp, err := r.Get(req.URL)
	if err != nil {
		return nil, &PlatformError{
			Platform:  req.Platform,
			Operation: req.Operation,
			Message:   "request failed",
			URL:       req.URL,
			Err:       err,
		}
	}

	if !resp.IsSuccess() {
		return nil, &PlatformError{
			Platform:  req.Platform,
			Operation: req.Operation,
			Message:   fmt.Sprintf("upstream returned status %d", resp.StatusCode()),
			URL:       req.URL,
		}
	}

	return resp.Body(), nil
}
