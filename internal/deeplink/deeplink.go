// Package deeplink converts platform web URLs into native app URLs.
package deeplink

import (
	"regexp"
	"strings"
)

var (
	spotifyPattern    = regexp.MustCompile(`open\.spotify\.com/(?:intl-[a-z]{2}/)?(track|album|playlist|artist)/([a-zA-Z0-9]+)`)
	appleMusicPattern = regexp.MustCompile(`music\.apple\.com/[^/]+/(album|song|playlist|artist)[^/]*/[^/]+/([a-zA-Z0-9.]+)`)
	youTubePattern    = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]+)`)
	deezerPattern     = regexp.MustCompile(`deezer\.com/(?:[a-z]{2}/)?(track|album|playlist)/(\d+)`)
)

// For returns the app URL for webURL on platform. Platforms without an app
// scheme, and URLs that do not match, report false.
func For(platform, webURL string) (string, bool) {
	webURL = strings.TrimSpace(webURL)
	if webURL == "" {
		return "", false
	}

	switch strings.ToLower(platform) {
	case "spotify":
		if m := spotifyPattern.FindStringSubmatch(webURL); m != nil {
			return "spotify:" + m[1] + ":" + m[2], true
		}
	case "applemusic", "apple music", "apple":
		if m := appleMusicPattern.FindStringSubmatch(webURL); m != nil {
			return "music://music.apple.com/" + m[1] + "/" + m[2], true
		}
	case "youtube", "youtubemusic":
		if m := youTubePattern.FindStringSubmatch(webURL); m != nil {
			return "vnd.youtube://watch?v=" + m[1], true
		}
	case "deezer":
		if m := deezerPattern.FindStringSubmatch(webURL); m != nil {
			return "deezer://www.deezer.com/" + m[1] + "/" + m[2], true
		}
	}
	return "", false
}

// PlatformFromURL guesses the platform name of a web URL
func PlatformFromURL(webURL string) (string, bool) {
	u := strings.ToLower(webURL)
	switch {
	case u == "":
		return "", false
	case strings.Contains(u, "spotify.com"):
		return "spotify", true
	case strings.Contains(u, "music.apple.com"):
		return "appleMusic", true
	case strings.Contains(u, "youtube.com"), strings.Contains(u, "youtu.be"):
		return "youtube", true
	case strings.Contains(u, "deezer.com"):
		return "deezer", true
	case strings.Contains(u, "soundcloud.com"):
		return "soundcloud", true
	}
	return "", false
}
