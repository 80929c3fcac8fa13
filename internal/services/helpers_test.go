package services

import (
	"testing"
	"time"

	"musicshare/internal/metrics"
	"musicshare/internal/testutil"
)

// Upstream paths served by the mock server
const (
	songLinkPath       = "/songlink/links"
	spotifyOEmbedPath  = "/spotify/oembed"
	spotifyEmbedPath   = "/spotify/embed/track/ABC123"
	youTubeOEmbedPath  = "/youtube/oembed"
	appleOEmbedPath    = "/apple/oembed"
	soundCloudPath     = "/soundcloud/oembed"
	deezerTrackPath    = "/deezer/api/track/3135556"
	deezerPlaylistPath = "/deezer/api/playlist/908622995"
	deezerOEmbedPath   = "/deezer/oembed"
	bandcampOEmbedPath = "/bandcamp/oembed"
	spotifyTokenPath   = "/spotify/token"
	webPlayerTokenPath = "/spotify/get_access_token"
	spotifyPlaylistAPI = "/spotify/api/playlists/37i9dQZF1DXcBWIGoYBM5M"
	tenorSearchPath    = "/tenor/search"
)

// testEndpoints points every upstream at server
func testEndpoints(server *testutil.MockHTTPServer) Endpoints {
	base := server.URL()
	return Endpoints{
		SongLink:         base + "/songlink",
		SpotifyOEmbed:    base + spotifyOEmbedPath,
		SpotifyEmbed:     base + "/spotify/embed",
		SpotifyAPI:       base + "/spotify/api/",
		YouTubeOEmbed:    base + youTubeOEmbedPath,
		AppleMusicOEmbed: base + appleOEmbedPath,
		SoundCloudOEmbed: base + soundCloudPath,
		DeezerAPI:        base + "/deezer/api",
		DeezerOEmbed:     base + deezerOEmbedPath,
		BandcampOEmbed:   base + bandcampOEmbedPath,
		TenorSearch:      base + tenorSearchPath,
	}
}

// newTestDeps creates resolver dependencies backed by a fresh mock server
func newTestDeps(t *testing.T) (ResolverDeps, *testutil.MockHTTPServer) {
	t.Helper()

	server := testutil.NewMockHTTPServer()
	t.Cleanup(server.Close)

	client := NewHTTPClient(2 * time.Second)
	endpoints := testEndpoints(server)

	return ResolverDeps{
		HTTP:      client,
		SongLink:  NewSongLinkClient(client, endpoints.SongLink),
		Endpoints: endpoints,
		Metrics:   metrics.New(),
	}, server
}
