package services

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"
)

// deezerAPIError is the error object Deezer returns with a 200 status
type deezerAPIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type deezerTrack struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Cover       string `json:"cover"`
		CoverMedium string `json:"cover_medium"`
	} `json:"album"`
	Error *deezerAPIError `json:"error"`
}

// deezerResolver resolves Deezer tracks through the public API, then oEmbed
type deezerResolver struct {
	*StrategyChain
	client  *resty.Client
	apiBase string
}

// NewDeezerResolver creates the Deezer track resolver
func NewDeezerResolver(deps ResolverDeps) TrackResolver {
	r := &deezerResolver{
		client:  deps.HTTP,
		apiBase: strings.TrimRight(deps.Endpoints.DeezerAPI, "/"),
	}
	r.StrategyChain = NewStrategyChain(PlatformDeezer, deps.Metrics,
		Strategy{Name: "api", Run: r.fromAPI},
		Strategy{Name: "oembed", Run: oembedStrategy(deps.HTTP, oembedRequest{
			Platform:   PlatformDeezer,
			Endpoint:   deps.Endpoints.DeezerOEmbed,
			JSONFormat: true,
		}, plainOEmbed)},
	)
	return r
}

func (r *deezerResolver) fromAPI(ctx context.Context, url string) (*TrackInfo, error) {
	trackID, ok := ExtractDeezerTrackID(url)
	if !ok {
		return nil, &PlatformError{
			Platform:  "deezer",
			Operation: "get_track",
			Message:   "no track ID in URL",
			URL:       url,
		}
	}

	var track deezerTrack
	err := getJSON(ctx, r.client, jsonRequest{
		Platform:  "deezer",
		Operation: "get_track",
		URL:       r.apiBase + "/track/" + trackID,
	}, &track)
	if err != nil {
		return nil, err
	}

	if track.Error != nil {
		return nil, &PlatformError{
			Platform:  "deezer",
			Operation: "get_track",
			Message:   track.Error.Message,
			URL:       url,
		}
	}

	cover := track.Album.CoverMedium
	if cover == "" {
		cover = track.Album.Cover
	}
	return newTrackInfo(track.Title, track.Artist.Name, cover), nil
}
