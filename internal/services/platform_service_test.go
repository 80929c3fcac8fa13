package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackDetector(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected Platform
	}{
		{name: "Spotify track", url: "https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh", expected: PlatformSpotify},
		{name: "Spotify locale track", url: "https://open.spotify.com/intl-de/track/ABC123", expected: PlatformSpotify},
		{name: "Apple Music", url: "https://music.apple.com/us/album/x/1440806041?i=1440806053", expected: PlatformAppleMusic},
		{name: "YouTube watch", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", expected: PlatformYouTube},
		{name: "YouTube short", url: "https://youtu.be/dQw4w9WgXcQ", expected: PlatformYouTube},
		{name: "YouTube Music", url: "https://music.youtube.com/watch?v=dQw4w9WgXcQ", expected: PlatformYouTube},
		{name: "SoundCloud", url: "https://soundcloud.com/artist/song", expected: PlatformSoundCloud},
		{name: "Deezer", url: "https://www.deezer.com/tr/track/3135556", expected: PlatformDeezer},
		{name: "Bandcamp", url: "https://artist.bandcamp.com/track/song", expected: PlatformBandcamp},
		{name: "Tidal", url: "https://tidal.com/browse/track/77646168", expected: PlatformTidal},
		{name: "Uppercase host", url: "https://OPEN.SPOTIFY.COM/track/abc", expected: PlatformSpotify},
		{name: "YouTube without path separator", url: "https://youtube.com", expected: PlatformUnknown},
		{name: "Unrelated site", url: "https://example.com/track/1", expected: PlatformUnknown},
		{name: "Not a URL", url: "not-a-url", expected: PlatformUnknown},
		{name: "Empty", url: "", expected: PlatformUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, TrackDetector.Detect(tc.url))
		})
	}
}

func TestPlaylistDetector(t *testing.T) {
	testCases := []struct {
		url      string
		expected Platform
	}{
		{url: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", expected: PlatformSpotify},
		{url: "https://music.apple.com/us/playlist/hits/pl.123", expected: PlatformAppleMusic},
		{url: "https://www.deezer.com/en/playlist/908622995", expected: PlatformDeezer},
		{url: "https://soundcloud.com/artist/sets/mix", expected: PlatformSoundCloud},
		{url: "https://tidal.com/browse/playlist/abc", expected: PlatformTidal},
		{url: "https://www.youtube.com/playlist?list=PL123", expected: PlatformUnknown},
		{url: "https://artist.bandcamp.com/album/x", expected: PlatformUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			assert.Equal(t, tc.expected, PlaylistDetector.Detect(tc.url))
		})
	}
}

func TestDetector_FirstMatchWins(t *testing.T) {
	// A Spotify URL that mentions deezer.com in its query string
	url := "https://open.spotify.com/track/abc?ref=deezer.com"
	assert.Equal(t, PlatformSpotify, TrackDetector.Detect(url))

	custom := NewDetector(DomainRule{"deezer.com", PlatformDeezer}, DomainRule{"spotify.com", PlatformSpotify})
	assert.Equal(t, PlatformDeezer, custom.Detect(url))
}

func TestTagVocabularies(t *testing.T) {
	trackTags := map[Platform]string{
		PlatformSpotify:    "spotify",
		PlatformYouTube:    "youtube",
		PlatformAppleMusic: "apple",
		PlatformSoundCloud: "soundcloud",
		PlatformDeezer:     "deezer",
		PlatformBandcamp:   "bandcamp",
		PlatformTidal:      "tidal",
		PlatformUnknown:    "unknown",
	}
	for platform, tag := range trackTags {
		assert.Equal(t, tag, TrackProviderTag(platform), "track tag for %s", platform)
	}

	playlistTags := map[Platform]string{
		PlatformSpotify:    "spotify",
		PlatformAppleMusic: "appleMusic",
		PlatformDeezer:     "deezer",
		PlatformSoundCloud: "soundcloud",
		PlatformTidal:      "tidal",
		PlatformYouTube:    "unknown",
		PlatformBandcamp:   "unknown",
		PlatformUnknown:    "unknown",
	}
	for platform, tag := range playlistTags {
		assert.Equal(t, tag, PlaylistPlatformTag(platform), "playlist tag for %s", platform)
	}
}

func TestExtractSpotifyTrackID(t *testing.T) {
	testCases := []struct {
		name       string
		url        string
		expectedID string
		ok         bool
	}{
		{name: "Default form", url: "https://open.spotify.com/track/ABC123", expectedID: "ABC123", ok: true},
		{name: "Locale prefix", url: "https://open.spotify.com/intl-de/track/ABC123", expectedID: "ABC123", ok: true},
		{name: "Query string", url: "https://open.spotify.com/track/ABC123?si=xyz", expectedID: "ABC123", ok: true},
		{name: "Without scheme", url: "spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh", expectedID: "4iV5W9uYEdYUVa79Axb7Rh", ok: true},
		{name: "Upper-case host", url: "https://OPEN.SPOTIFY.COM/Track/4iV5W9uYEdYUVa79Axb7Rh", expectedID: "4iV5W9uYEdYUVa79Axb7Rh", ok: true},
		{name: "Album", url: "https://open.spotify.com/album/ABC123"},
		{name: "Missing ID", url: "https://open.spotify.com/track/"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := ExtractSpotifyTrackID(tc.url)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expectedID, id)
		})
	}
}

func TestExtractSpotifyTrackID_LocaleInvariant(t *testing.T) {
	ids := []string{"ABC123", "4iV5W9uYEdYUVa79Axb7Rh", "0VjIjW4GlUZAMYd2vXMi3b"}
	locales := []string{"de", "tr", "fr", "ja"}

	for _, id := range ids {
		plain := "https://open.spotify.com/track/" + id
		plainID, ok := ExtractSpotifyTrackID(plain)
		assert.True(t, ok)

		for _, locale := range locales {
			prefixed := "https://open.spotify.com/intl-" + locale + "/track/" + id
			prefixedID, ok := ExtractSpotifyTrackID(prefixed)
			assert.True(t, ok)
			assert.Equal(t, plainID, prefixedID)
			assert.Equal(t, TrackDetector.Detect(plain), TrackDetector.Detect(prefixed))
		}
	}
}

func TestNormalizeSpotifyURL(t *testing.T) {
	assert.Equal(t, "https://open.spotify.com/track/ABC123", NormalizeSpotifyURL("https://open.spotify.com/intl-de/track/ABC123"))
	assert.Equal(t, "https://open.spotify.com/track/ABC123", NormalizeSpotifyURL("https://open.spotify.com/track/ABC123"))
}

func TestExtractDeezerIDs(t *testing.T) {
	id, ok := ExtractDeezerTrackID("https://www.deezer.com/tr/track/3135556")
	assert.True(t, ok)
	assert.Equal(t, "3135556", id)

	id, ok = ExtractDeezerTrackID("https://deezer.com/track/3135556")
	assert.True(t, ok)
	assert.Equal(t, "3135556", id)

	id, ok = ExtractDeezerTrackID("https://WWW.DEEZER.COM/TR/TRACK/3135556")
	assert.True(t, ok)
	assert.Equal(t, "3135556", id)

	_, ok = ExtractDeezerTrackID("https://deezer.page.link/abc")
	assert.False(t, ok)

	id, ok = ExtractDeezerPlaylistID("https://www.deezer.com/en/playlist/908622995")
	assert.True(t, ok)
	assert.Equal(t, "908622995", id)

	id, ok = ExtractSpotifyPlaylistID("https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=1")
	assert.True(t, ok)
	assert.Equal(t, "37i9dQZF1DXcBWIGoYBM5M", id)
}

func TestTrackInfo_Usable(t *testing.T) {
	empty := ""
	cover := "https://img"

	assert.False(t, (*TrackInfo)(nil).Usable())
	assert.False(t, (&TrackInfo{}).Usable())
	assert.False(t, (&TrackInfo{Cover: &empty}).Usable())
	assert.True(t, (&TrackInfo{Title: "Song"}).Usable())
	assert.True(t, (&TrackInfo{Artist: "Artist"}).Usable())
	assert.True(t, (&TrackInfo{Cover: &cover}).Usable())
}

func TestNewTrackInfo(t *testing.T) {
	info := newTrackInfo("  Song ", " Artist", "")
	assert.Equal(t, "Song", info.Title)
	assert.Equal(t, "Artist", info.Artist)
	assert.Nil(t, info.Cover)
	assert.Equal(t, "", info.CoverURL())

	info = newTrackInfo("", "", "https://img")
	assert.Equal(t, "https://img", info.CoverURL())
}

func TestPlatformError(t *testing.T) {
	err := &PlatformError{
		Platform:  "spotify",
		Operation: "embed_page",
		Message:   "unreadable embed page",
		URL:       "https://invalid.url",
		Err:       assert.AnError,
	}

	expectedMessage := "spotify embed_page failed: unreadable embed page (URL: https://invalid.url) - assert.AnError general error for testing"
	assert.Equal(t, expectedMessage, err.Error())
	assert.Equal(t, assert.AnError, err.Unwrap())
}

func TestPlatformError_MinimalFields(t *testing.T) {
	err := &PlatformError{
		Platform:  "deezer",
		Operation: "get_track",
	}

	assert.Equal(t, "deezer get_track failed", err.Error())
	assert.Nil(t, err.Unwrap())
}

func BenchmarkTrackDetector(b *testing.B) {
	url := "https://www.deezer.com/tr/track/3135556"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = TrackDetector.Detect(url)
	}
}
