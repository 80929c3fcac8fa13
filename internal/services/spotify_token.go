package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"musicshare/internal/config"
)

// ErrNoSpotifyToken is returned when no token source produced a token
var ErrNoSpotifyToken = errors.New("no spotify access token available")

// SpotifyAccessToken is a request-scoped Spotify bearer token
type SpotifyAccessToken struct {
	Token string
}

// SpotifyTokenSource obtains a Spotify access token
type SpotifyTokenSource interface {
	Name() string
	Token(ctx context.Context) (*SpotifyAccessToken, error)
}

// ClientCredentialsTokenSource exchanges operator credentials for an app token
type ClientCredentialsTokenSource struct {
	config *clientcredentials.Config
	client *resty.Client
}

// NewClientCredentialsTokenSource creates a client-credentials token source
func NewClientCredentialsTokenSource(cfg config.SpotifyConfig, client *resty.Client) *ClientCredentialsTokenSource {
	return &ClientCredentialsTokenSource{
		config: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		},
		client: client,
	}
}

func (s *ClientCredentialsTokenSource) Name() string {
	return "client_credentials"
}

// Token performs the OAuth client-credentials exchange. No token is cached.
func (s *ClientCredentialsTokenSource) Token(ctx context.Context) (*SpotifyAccessToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client.GetClient())

	token, err := s.config.Token(ctx)
	if err != nil {
		return nil, &PlatformError{
			Platform:  "spotify",
			Operation: "client_credentials",
			Message:   "token exchange failed",
			Err:       err,
		}
	}
	if token.AccessToken == "" {
		return nil, &PlatformError{
			Platform:  "spotify",
			Operation: "client_credentials",
			Message:   "empty access token",
		}
	}

	return &SpotifyAccessToken{Token: token.AccessToken}, nil
}

// WebPlayerTokenSource reads the anonymous token the Spotify web player uses.
// The endpoint is undocumented and may stop working at any time.
type WebPlayerTokenSource struct {
	url    string
	client *resty.Client
}

// NewWebPlayerTokenSource creates an anonymous token source
func NewWebPlayerTokenSource(url string, client *resty.Client) *WebPlayerTokenSource {
	return &WebPlayerTokenSource{url: url, client: client}
}

func (s *WebPlayerTokenSource) Name() string {
	return "web_player"
}

// Token fetches an anonymous access token
func (s *WebPlayerTokenSource) Token(ctx context.Context) (*SpotifyAccessToken, error) {
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	err := getJSON(ctx, s.client, jsonRequest{
		Platform:  "spotify",
		Operation: "web_player_token",
		URL:       s.url,
		Headers: map[string]string{
			"User-Agent": desktopUserAgent,
			"Accept":     "application/json",
		},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &PlatformError{
			Platform:  "spotify",
			Operation: "web_player_token",
			Message:   "empty access token",
			URL:       s.url,
		}
	}

	return &SpotifyAccessToken{Token: resp.AccessToken}, nil
}

// ChainTokenSource tries each source in order and returns the first token
type ChainTokenSource struct {
	sources []SpotifyTokenSource
}

// NewChainTokenSource creates a chain over sources
func NewChainTokenSource(sources ...SpotifyTokenSource) *ChainTokenSource {
	return &ChainTokenSource{sources: sources}
}

func (c *ChainTokenSource) Name() string {
	return "chain"
}

// Token returns the first token any source produces
func (c *ChainTokenSource) Token(ctx context.Context) (*SpotifyAccessToken, error) {
	var errs []error
	for _, source := range c.sources {
		token, err := source.Token(ctx)
		if err == nil {
			return token, nil
		}
		slog.Debug("Spotify token source failed",
			"source", source.Name(),
			"error", err)
		errs = append(errs, fmt.Errorf("%s: %w", source.Name(), err))
	}
	return nil, errors.Join(append([]error{ErrNoSpotifyToken}, errs...)...)
}

// NewSpotifyTokenSource builds the token chain from cfg: client credentials
// when configured, then the anonymous web player token when enabled
func NewSpotifyTokenSource(cfg config.SpotifyConfig, client *resty.Client) SpotifyTokenSource {
	var sources []SpotifyTokenSource
	if cfg.HasClientCredentials() {
		sources = append(sources, NewClientCredentialsTokenSource(cfg, client))
	}
	if cfg.AnonymousTokenEnabled {
		sources = append(sources, NewWebPlayerTokenSource(cfg.WebPlayerTokenURL, client))
	}
	return NewChainTokenSource(sources...)
}
