package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"musicshare/internal/config"
	"musicshare/internal/testutil"
)

// MockSpotifyTokenSource is a mock implementation of SpotifyTokenSource
type MockSpotifyTokenSource struct {
	mock.Mock
	name string
}

func (m *MockSpotifyTokenSource) Name() string {
	return m.name
}

func (m *MockSpotifyTokenSource) Token(ctx context.Context) (*SpotifyAccessToken, error) {
	args := m.Called(ctx)
	token, _ := args.Get(0).(*SpotifyAccessToken)
	return token, args.Error(1)
}

func testSpotifyConfig(server *testutil.MockHTTPServer) config.SpotifyConfig {
	return config.SpotifyConfig{
		ClientID:              "client-id",
		ClientSecret:          "client-secret",
		TokenURL:              server.URL() + spotifyTokenPath,
		WebPlayerTokenURL:     server.URL() + webPlayerTokenPath,
		AnonymousTokenEnabled: true,
	}
}

func TestClientCredentialsTokenSource(t *testing.T) {
	t.Run("Exchanges credentials", func(t *testing.T) {
		deps, server := newTestDeps(t)
		server.On(spotifyTokenPath, testutil.JSONHandler(http.StatusOK, testutil.SpotifyTokenResponse()))

		source := NewClientCredentialsTokenSource(testSpotifyConfig(server), deps.HTTP)
		token, err := source.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "mock-access-token", token.Token)
		assert.Equal(t, "client_credentials", source.Name())

		req := server.LastRequest(spotifyTokenPath)
		require.NotNil(t, req)
		assert.Equal(t, http.MethodPost, req.Method)
		user, pass, ok := req.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
	})

	t.Run("Rejected credentials", func(t *testing.T) {
		deps, server := newTestDeps(t)
		server.On(spotifyTokenPath, testutil.JSONHandler(http.StatusBadRequest, map[string]string{
			"error":             "invalid_client",
			"error_description": "Invalid client",
		}))

		token, err := NewClientCredentialsTokenSource(testSpotifyConfig(server), deps.HTTP).Token(context.Background())
		assert.Nil(t, token)

		var platformErr *PlatformError
		require.ErrorAs(t, err, &platformErr)
		assert.Equal(t, "client_credentials", platformErr.Operation)
	})
}

func TestWebPlayerTokenSource(t *testing.T) {
	t.Run("Anonymous token", func(t *testing.T) {
		deps, server := newTestDeps(t)
		server.On(webPlayerTokenPath, testutil.JSONHandler(http.StatusOK, testutil.SpotifyWebPlayerTokenResponse("anon-token")))

		token, err := NewWebPlayerTokenSource(server.URL()+webPlayerTokenPath, deps.HTTP).Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "anon-token", token.Token)

		req := server.LastRequest(webPlayerTokenPath)
		require.NotNil(t, req)
		assert.Contains(t, req.Header.Get("User-Agent"), "Chrome/")
		assert.Equal(t, "application/json", req.Header.Get("Accept"))
	})

	t.Run("Empty token", func(t *testing.T) {
		deps, server := newTestDeps(t)
		server.On(webPlayerTokenPath, testutil.JSONHandler(http.StatusOK, testutil.SpotifyWebPlayerTokenResponse("")))

		token, err := NewWebPlayerTokenSource(server.URL()+webPlayerTokenPath, deps.HTTP).Token(context.Background())
		assert.Error(t, err)
		assert.Nil(t, token)
	})

	t.Run("Blocked", func(t *testing.T) {
		deps, server := newTestDeps(t)
		server.On(webPlayerTokenPath, testutil.StatusHandler(http.StatusUnauthorized))

		_, err := NewWebPlayerTokenSource(server.URL()+webPlayerTokenPath, deps.HTTP).Token(context.Background())
		assert.Error(t, err)
	})
}

func TestChainTokenSource(t *testing.T) {
	t.Run("First success wins", func(t *testing.T) {
		first := &MockSpotifyTokenSource{name: "first"}
		second := &MockSpotifyTokenSource{name: "second"}
		first.On("Token", mock.Anything).Return(nil, errors.New("rejected"))
		second.On("Token", mock.Anything).Return(&SpotifyAccessToken{Token: "second-token"}, nil)

		token, err := NewChainTokenSource(first, second).Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "second-token", token.Token)

		first.AssertExpectations(t)
		second.AssertExpectations(t)
	})

	t.Run("Stops at first token", func(t *testing.T) {
		first := &MockSpotifyTokenSource{name: "first"}
		second := &MockSpotifyTokenSource{name: "second"}
		first.On("Token", mock.Anything).Return(&SpotifyAccessToken{Token: "first-token"}, nil)

		token, err := NewChainTokenSource(first, second).Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "first-token", token.Token)
		second.AssertNotCalled(t, "Token", mock.Anything)
	})

	t.Run("All fail", func(t *testing.T) {
		first := &MockSpotifyTokenSource{name: "first"}
		first.On("Token", mock.Anything).Return(nil, errors.New("rejected"))

		token, err := NewChainTokenSource(first).Token(context.Background())
		assert.Nil(t, token)
		assert.ErrorIs(t, err, ErrNoSpotifyToken)
		assert.Contains(t, err.Error(), "first: rejected")
	})

	t.Run("Empty chain", func(t *testing.T) {
		_, err := NewChainTokenSource().Token(context.Background())
		assert.ErrorIs(t, err, ErrNoSpotifyToken)
	})
}

func TestNewSpotifyTokenSource(t *testing.T) {
	t.Run("Falls through to web player", func(t *testing.T) {
		deps, server := newTestDeps(t)
		server.On(spotifyTokenPath, testutil.StatusHandler(http.StatusUnauthorized))
		server.On(webPlayerTokenPath, testutil.JSONHandler(http.StatusOK, testutil.SpotifyWebPlayerTokenResponse("anon-token")))

		token, err := NewSpotifyTokenSource(testSpotifyConfig(server), deps.HTTP).Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "anon-token", token.Token)
		assert.NotZero(t, server.Hits(spotifyTokenPath))
	})

	t.Run("Without credentials", func(t *testing.T) {
		deps, server := newTestDeps(t)
		server.On(webPlayerTokenPath, testutil.JSONHandler(http.StatusOK, testutil.SpotifyWebPlayerTokenResponse("anon-token")))

		cfg := testSpotifyConfig(server)
		cfg.ClientID, cfg.ClientSecret = "", ""

		token, err := NewSpotifyTokenSource(cfg, deps.HTTP).Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "anon-token", token.Token)
		assert.Zero(t, server.Hits(spotifyTokenPath))
	})

	t.Run("Anonymous token disabled", func(t *testing.T) {
		deps, server := newTestDeps(t)

		cfg := testSpotifyConfig(server)
		cfg.ClientID, cfg.ClientSecret = "", ""
		cfg.AnonymousTokenEnabled = false

		_, err := NewSpotifyTokenSource(cfg, deps.HTTP).Token(context.Background())
		assert.ErrorIs(t, err, ErrNoSpotifyToken)
		assert.Zero(t, server.Hits(webPlayerTokenPath))
	})
}
