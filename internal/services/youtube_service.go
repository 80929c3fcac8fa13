package services

import (
	"regexp"
	"strings"
)

// NewYouTubeResolver creates the YouTube track resolver (oEmbed only)
func NewYouTubeResolver(deps ResolverDeps) TrackResolver {
	return NewStrategyChain(PlatformYouTube, deps.Metrics,
		Strategy{Name: "oembed", Run: oembedStrategy(deps.HTTP, oembedRequest{
			Platform:   PlatformYouTube,
			Endpoint:   deps.Endpoints.YouTubeOEmbed,
			JSONFormat: true,
		}, youTubeOEmbedInfo)},
	)
}

// Decorations stripped from video titles, applied in order, first occurrence only
var youTubeTitleNoise = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*\(Official\s*(Music\s*)?Video\)`),
	regexp.MustCompile(`(?i)\s*\[Official\s*(Music\s*)?Video\]`),
	regexp.MustCompile(`(?i)\s*\(Official\s*Audio\)`),
	regexp.MustCompile(`(?i)\s*\[Official\s*Audio\]`),
	regexp.MustCompile(`(?i)\s*\(Lyric\s*Video\)`),
	regexp.MustCompile(`(?i)\s*\[Lyric\s*Video\]`),
	regexp.MustCompile(`(?i)\s*\(Lyrics?\)`),
	regexp.MustCompile(`(?i)\s*\[Lyrics?\]`),
	regexp.MustCompile(`(?i)\s*\(Visualizer\)`),
	regexp.MustCompile(`(?i)\s*\(Audio\)`),
	regexp.MustCompile(`(?i)\s*\[Audio\]`),
	regexp.MustCompile(`\s*\|.*$`),
}

var youTubeSeparator = regexp.MustCompile(`^(.+?)\s*[-–—]\s+(.+)$`)

// CleanYouTubeTitle strips decorative suffixes from a video title and splits
// "Artist - Title". Without a separator the artist is empty.
func CleanYouTubeTitle(raw string) (title, artist string) {
	cleaned := raw
	for _, noise := range youTubeTitleNoise {
		if loc := noise.FindStringIndex(cleaned); loc != nil {
			cleaned = cleaned[:loc[0]] + cleaned[loc[1]:]
		}
	}
	cleaned = strings.TrimSpace(cleaned)

	if m := youTubeSeparator.FindStringSubmatch(cleaned); m != nil {
		return strings.TrimSpace(m[2]), strings.TrimSpace(m[1])
	}
	return cleaned, ""
}

func youTubeOEmbedInfo(resp *OEmbedResponse) *TrackInfo {
	title, artist := CleanYouTubeTitle(resp.Title)
	if artist == "" {
		artist = resp.AuthorName
	}
	return newTrackInfo(title, artist, resp.ThumbnailURL)
}
