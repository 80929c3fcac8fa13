package services

import (
	"regexp"
	"strings"
)

var soundCloudByline = regexp.MustCompile(`(?i)^(.+?)\s+by\s+(.+)$`)

// NewSoundCloudResolver creates the SoundCloud track resolver (oEmbed only)
func NewSoundCloudResolver(deps ResolverDeps) TrackResolver {
	return NewStrategyChain(PlatformSoundCloud, deps.Metrics,
		Strategy{Name: "oembed", Run: oembedStrategy(deps.HTTP, oembedRequest{
			Platform:   PlatformSoundCloud,
			Endpoint:   deps.Endpoints.SoundCloudOEmbed,
			JSONFormat: true,
		}, soundCloudOEmbedInfo)},
	)
}

// soundCloudOEmbedInfo parses "<song> by <artist>", else uses the raw title and author
func soundCloudOEmbedInfo(resp *OEmbedResponse) *TrackInfo {
	if m := soundCloudByline.FindStringSubmatch(resp.Title); m != nil {
		return newTrackInfo(strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), resp.ThumbnailURL)
	}
	return plainOEmbed(resp)
}
