package services

import (
	"regexp"
	"strings"
)

// Apple Music oEmbed titles read "Song - Artist"
var appleMusicTitleSeparator = regexp.MustCompile(`^(.+?)\s*[-–]\s*(.+)$`)

// NewAppleMusicResolver creates the Apple Music track resolver
func NewAppleMusicResolver(deps ResolverDeps) TrackResolver {
	return NewStrategyChain(PlatformAppleMusic, deps.Metrics,
		Strategy{Name: "oembed", Run: oembedStrategy(deps.HTTP, oembedRequest{
			Platform: PlatformAppleMusic,
			Endpoint: deps.Endpoints.AppleMusicOEmbed,
		}, appleMusicOEmbedInfo)},
		Strategy{Name: "link_index", Run: linkIndexStrategy(deps.SongLink, false, nil)},
	)
}

func appleMusicOEmbedInfo(resp *OEmbedResponse) *TrackInfo {
	title, artist := resp.Title, ""
	if m := appleMusicTitleSeparator.FindStringSubmatch(resp.Title); m != nil {
		title, artist = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return newTrackInfo(title, artist, resp.ThumbnailURL)
}
