package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Default upstream endpoints for the Spotify token sources
const (
	DefaultSpotifyTokenURL          = "https://accounts.spotify.com/api/token"
	DefaultSpotifyWebPlayerTokenURL = "https://open.spotify.com/get_access_token?reason=transport&productType=web_player"
)

// SpotifyConfig carries the operator-supplied Spotify credentials and token endpoints.
// It is passed explicitly to the playlist resolver so token acquisition never
// reads ambient state.
type SpotifyConfig struct {
	ClientID              string
	ClientSecret          string
	TokenURL              string
	WebPlayerTokenURL     string
	AnonymousTokenEnabled bool
}

// HasClientCredentials reports whether both halves of the OAuth client credentials are set
func (s SpotifyConfig) HasClientCredentials() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// CacheConfig controls the optional response cache
type CacheConfig struct {
	Enabled   bool
	Size      int
	ValkeyURL string
	LinksTTL  time.Duration
	GIFTTL    time.Duration
}

// Config holds all configuration for the application
type Config struct {
	// Application settings
	Port        string        `envconfig:"PORT" default:"8080"`
	GinMode     string        `envconfig:"GIN_MODE" default:"release"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	Release     string        `envconfig:"RELEASE"`

	// Spotify credentials (optional; enable the client-credentials token path)
	SpotifyClientID          string `envconfig:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret      string `envconfig:"SPOTIFY_CLIENT_SECRET"`
	SpotifyTokenURL          string `envconfig:"SPOTIFY_TOKEN_URL"`
	SpotifyWebPlayerTokenURL string `envconfig:"SPOTIFY_WEB_PLAYER_TOKEN_URL"`
	SpotifyAnonymousToken    bool   `envconfig:"SPOTIFY_ANONYMOUS_TOKEN" default:"true"`

	// Cross-platform link index
	SongLinkAPIURL      string `envconfig:"SONGLINK_API_URL" default:"https://api.song.link/v1-alpha.1"`
	SongLinkUserCountry string `envconfig:"SONGLINK_USER_COUNTRY" default:"TR"`

	// GIF search
	TenorAPIKey    string `envconfig:"TENOR_API_KEY"`
	TenorClientKey string `envconfig:"TENOR_CLIENT_KEY" default:"musicshare"`

	// Response cache
	CacheEnabled  bool          `envconfig:"CACHE_ENABLED" default:"false"`
	CacheSize     int           `envconfig:"CACHE_SIZE" default:"1000"`
	ValkeyURL     string        `envconfig:"VALKEY_URL"`
	LinksCacheTTL time.Duration `envconfig:"LINKS_CACHE_TTL" default:"24h"`
	GIFCacheTTL   time.Duration `envconfig:"GIF_CACHE_TTL" default:"60s"`

	// Error reporting
	SentryDSN string `envconfig:"SENTRY_DSN"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for inconsistent values
func (c *Config) Validate() error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}

	if (c.SpotifyClientID == "") != (c.SpotifyClientSecret == "") {
		return fmt.Errorf("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set together")
	}

	if c.CacheEnabled && c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive when the cache is enabled")
	}

	if c.SongLinkAPIURL == "" {
		return fmt.Errorf("SONGLINK_API_URL cannot be empty")
	}

	switch c.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}

	return nil
}

// Spotify returns the Spotify token configuration with defaults applied
func (c *Config) Spotify() SpotifyConfig {
	spotify := SpotifyConfig{
		ClientID:              c.SpotifyClientID,
		ClientSecret:          c.SpotifyClientSecret,
		TokenURL:              c.SpotifyTokenURL,
		WebPlayerTokenURL:     c.SpotifyWebPlayerTokenURL,
		AnonymousTokenEnabled: c.SpotifyAnonymousToken,
	}
	if spotify.TokenURL == "" {
		spotify.TokenURL = DefaultSpotifyTokenURL
	}
	if spotify.WebPlayerTokenURL == "" {
		spotify.WebPlayerTokenURL = DefaultSpotifyWebPlayerTokenURL
	}
	return spotify
}

// Cache returns the response cache configuration
func (c *Config) Cache() CacheConfig {
	return CacheConfig{
		Enabled:   c.CacheEnabled,
		Size:      c.CacheSize,
		ValkeyURL: c.ValkeyURL,
		LinksTTL:  c.LinksCacheTTL,
		GIFTTL:    c.GIFCacheTTL,
	}
}

// GIFSearchEnabled reports whether a Tenor API key is configured
func (c *Config) GIFSearchEnabled() bool {
	return c.TenorAPIKey != ""
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
