package services

import (
	"context"
	"regexp"
	"strings"
)

// Platform is the canonical internal platform identifier
type Platform string

const (
	PlatformSpotify    Platform = "spotify"
	PlatformYouTube    Platform = "youtube"
	PlatformAppleMusic Platform = "appleMusic"
	PlatformSoundCloud Platform = "soundcloud"
	PlatformDeezer     Platform = "deezer"
	PlatformBandcamp   Platform = "bandcamp"
	PlatformTidal      Platform = "tidal"
	PlatformUnknown    Platform = "unknown"
)

// DomainRule maps a URL fragment onto a platform
type DomainRule struct {
	Fragment string
	Platform Platform
}

// Detector classifies URLs by an ordered list of domain fragments.
// The first matching fragment wins.
type Detector struct {
	rules []DomainRule
}

// NewDetector creates a detector from rules in priority order
func NewDetector(rules ...DomainRule) *Detector {
	return &Detector{rules: rules}
}

// Detect returns the platform for rawURL, or PlatformUnknown
func (d *Detector) Detect(rawURL string) Platform {
	if rawURL == "" {
		return PlatformUnknown
	}
	lowered := strings.ToLower(rawURL)
	for _, rule := range d.rules {
		if strings.Contains(lowered, rule.Fragment) {
			return rule.Platform
		}
	}
	return PlatformUnknown
}

// TrackDetector classifies URLs submitted for single-track resolution
var TrackDetector = NewDetector(
	DomainRule{"spotify.com", PlatformSpotify},
	DomainRule{"music.apple.com", PlatformAppleMusic},
	DomainRule{"youtube.com/", PlatformYouTube},
	DomainRule{"youtu.be/", PlatformYouTube},
	DomainRule{"music.youtube.com/", PlatformYouTube},
	DomainRule{"soundcloud.com", PlatformSoundCloud},
	DomainRule{"deezer.com", PlatformDeezer},
	DomainRule{"bandcamp.com", PlatformBandcamp},
	DomainRule{"tidal.com", PlatformTidal},
)

// PlaylistDetector classifies URLs submitted for playlist expansion
var PlaylistDetector = NewDetector(
	DomainRule{"spotify.com", PlatformSpotify},
	DomainRule{"music.apple.com", PlatformAppleMusic},
	DomainRule{"deezer.com", PlatformDeezer},
	DomainRule{"soundcloud.com", PlatformSoundCloud},
	DomainRule{"tidal.com", PlatformTidal},
)

// trackProviderTags is the tag vocabulary of the track endpoint
var trackProviderTags = map[Platform]string{
	PlatformSpotify:    "spotify",
	PlatformYouTube:    "youtube",
	PlatformAppleMusic: "apple",
	PlatformSoundCloud: "soundcloud",
	PlatformDeezer:     "deezer",
	PlatformBandcamp:   "bandcamp",
	PlatformTidal:      "tidal",
}

// playlistPlatformTags is the tag vocabulary of the playlist endpoint
var playlistPlatformTags = map[Platform]string{
	PlatformSpotify:    "spotify",
	PlatformAppleMusic: "appleMusic",
	PlatformDeezer:     "deezer",
	PlatformSoundCloud: "soundcloud",
	PlatformTidal:      "tidal",
}

// TrackProviderTag maps a platform onto the track endpoint's provider tag
func TrackProviderTag(p Platform) string {
	if tag, ok := trackProviderTags[p]; ok {
		return tag
	}
	return string(PlatformUnknown)
}

// PlaylistPlatformTag maps a platform onto the playlist endpoint's platform tag
func PlaylistPlatformTag(p Platform) string {
	if tag, ok := playlistPlatformTags[p]; ok {
		return tag
	}
	return string(PlatformUnknown)
}

// TrackInfo is the normalized metadata of a single track
type TrackInfo struct {
	Title  string  `json:"title"`
	Artist string  `json:"artist"`
	Cover  *string `json:"cover"`
}

// Usable reports whether at least one field carries data
func (t *TrackInfo) Usable() bool {
	if t == nil {
		return false
	}
	return t.Title != "" || t.Artist != "" || (t.Cover != nil && *t.Cover != "")
}

// CoverURL returns the cover or an empty string
func (t *TrackInfo) CoverURL() string {
	if t == nil || t.Cover == nil {
		return ""
	}
	return *t.Cover
}

// newTrackInfo trims every field and drops an empty cover
func newTrackInfo(title, artist, cover string) *TrackInfo {
	return &TrackInfo{
		Title:  strings.TrimSpace(title),
		Artist: strings.TrimSpace(artist),
		Cover:  optionalString(strings.TrimSpace(cover)),
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// TrackResolver resolves a track URL on one platform.
// A nil result means no strategy produced usable metadata.
type TrackResolver interface {
	Platform() Platform
	Resolve(ctx context.Context, url string) *TrackInfo
}

var (
	spotifyTrackIDPattern    = regexp.MustCompile(`(?i:spotify\.com/(?:intl-[a-z]{2}/)?track/)([a-zA-Z0-9]+)`)
	spotifyLocalePattern     = regexp.MustCompile(`(?i)/intl-[a-z]{2}/`)
	spotifyPlaylistIDPattern = regexp.MustCompile(`(?i:playlist/)([A-Za-z0-9]+)`)
	deezerTrackIDPattern     = regexp.MustCompile(`(?i)deezer\.com/(?:[a-z]{2}/)?track/(\d+)`)
	deezerPlaylistIDPattern  = regexp.MustCompile(`(?i)deezer\.com/(?:[a-z]{2}/)?playlist/(\d+)`)
)

func firstSubmatch(pattern *regexp.Regexp, s string) (string, bool) {
	matches := pattern.FindStringSubmatch(s)
	if len(matches) < 2 || matches[1] == "" {
		return "", false
	}
	return matches[1], true
}

// ExtractSpotifyTrackID returns the track ID of a Spotify track URL,
// accepting both /track/<id> and /intl-xx/track/<id>
func ExtractSpotifyTrackID(rawURL string) (string, bool) {
	return firstSubmatch(spotifyTrackIDPattern, rawURL)
}

// NormalizeSpotifyURL removes the /intl-xx/ locale segment
func NormalizeSpotifyURL(rawURL string) string {
	return spotifyLocalePattern.ReplaceAllString(rawURL, "/")
}

// ExtractSpotifyPlaylistID returns the ID of a Spotify playlist URL
func ExtractSpotifyPlaylistID(rawURL string) (string, bool) {
	return firstSubmatch(spotifyPlaylistIDPattern, rawURL)
}

// ExtractDeezerTrackID returns the numeric ID of a Deezer track URL
func ExtractDeezerTrackID(rawURL string) (string, bool) {
	return firstSubmatch(deezerTrackIDPattern, rawURL)
}

// ExtractDeezerPlaylistID returns the numeric ID of a Deezer playlist URL
func ExtractDeezerPlaylistID(rawURL string) (string, bool) {
	return firstSubmatch(deezerPlaylistIDPattern, rawURL)
}

// PlatformError represents an error from a platform service
type PlatformError struct {
	Platform  string
	Operation string
	Message   string
	URL       string
	Err       error
}

func (e *PlatformError) Error() string {
	msg := e.Platform + " " + e.Operation + " failed"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.URL != "" {
		msg += " (URL: " + e.URL + ")"
	}
	if e.Err != nil {
		msg += " - " + e.Err.Error()
	}
	return msg
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}
