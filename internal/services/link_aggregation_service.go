package services

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"musicshare/internal/deeplink"
)

// MaxLinks caps the aggregator result
const MaxLinks = 4

// LinkPriority is the order in which links are emitted, as link index platform keys
var LinkPriority = []Platform{PlatformSpotify, PlatformYouTube, PlatformAppleMusic, PlatformDeezer}

// PlatformLink is one cross-platform link for a song
type PlatformLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	AppURL   string `json:"appUrl,omitempty"`
}

// searchURLTemplates hold one search URL prefix per priority platform
var searchURLTemplates = map[Platform]string{
	PlatformSpotify:    "https://open.spotify.com/search/",
	PlatformYouTube:    "https://www.youtube.com/results?search_query=",
	PlatformAppleMusic: "https://music.apple.com/search?term=",
	PlatformDeezer:     "https://www.deezer.com/search/",
}

// SearchURL builds the platform search URL for query. It returns "" for
// platforms without a search template.
func SearchURL(platform Platform, query string) string {
	prefix, ok := searchURLTemplates[platform]
	if !ok {
		return ""
	}
	return prefix + encodeURIComponent(query)
}

// encodeURIComponent percent-encodes like JavaScript's function of the same name
func encodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	for _, keep := range []string{"!", "'", "(", ")", "*"} {
		escaped = strings.ReplaceAll(escaped, url.QueryEscape(keep), keep)
	}
	return escaped
}

// SearchQuery joins the non-empty artist and title with a space
func SearchQuery(title, artist string) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{artist, title} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// LinkAggregationService builds cross-platform links for a song
type LinkAggregationService struct {
	songLink    *SongLinkClient
	userCountry string
}

// NewLinkAggregationService creates an aggregator querying songLink
func NewLinkAggregationService(songLink *SongLinkClient, userCountry string) *LinkAggregationService {
	return &LinkAggregationService{
		songLink:    songLink,
		userCountry: userCountry,
	}
}

// Links returns at most MaxLinks links in LinkPriority order. Platforms the
// link index does not list are filled with search URLs when title or artist
// is known. It never fails; an empty slice is a valid answer.
func (s *LinkAggregationService) Links(ctx context.Context, contentURL, title, artist string) []PlatformLink {
	links := make([]PlatformLink, 0, MaxLinks)
	contentURL = strings.TrimSpace(contentURL)
	if contentURL == "" {
		return links
	}

	found := make(map[Platform]string, len(LinkPriority))
	resp, err := s.songLink.Lookup(context.WithoutCancel(ctx), contentURL, s.userCountry)
	if err != nil {
		slog.Debug("Link index unavailable, using search fallback",
			"url", contentURL,
			"error", err)
	} else {
		for _, platform := range LinkPriority {
			if link := resp.LinkFor(string(platform)); link != "" {
				found[platform] = link
			}
		}
	}

	query := SearchQuery(title, artist)
	for _, platform := range LinkPriority {
		link, ok := found[platform]
		if !ok && query != "" {
			link = SearchURL(platform, query)
		}
		if link == "" {
			continue
		}
		links = append(links, newPlatformLink(platform, link))
	}

	if len(links) > MaxLinks {
		links = links[:MaxLinks]
	}
	return links
}

func newPlatformLink(platform Platform, link string) PlatformLink {
	appURL, _ := deeplink.For(string(platform), link)
	return PlatformLink{
		Platform: string(platform),
		URL:      link,
		AppURL:   appURL,
	}
}
