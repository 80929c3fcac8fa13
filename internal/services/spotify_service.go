package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// spotifyResolver resolves Spotify track URLs through the link index,
// the embed page and finally oEmbed
type spotifyResolver struct {
	*StrategyChain
	client    *resty.Client
	embedBase string
}

// NewSpotifyResolver creates the Spotify track resolver
func NewSpotifyResolver(deps ResolverDeps) TrackResolver {
	r := &spotifyResolver{
		client:    deps.HTTP,
		embedBase: strings.TrimRight(deps.Endpoints.SpotifyEmbed, "/"),
	}
	r.StrategyChain = NewStrategyChain(PlatformSpotify, deps.Metrics,
		Strategy{Name: "link_index", Run: linkIndexStrategy(deps.SongLink, true, NormalizeSpotifyURL)},
		Strategy{Name: "embed_page", Run: r.fromEmbedPage},
		Strategy{Name: "oembed", Run: oembedStrategy(deps.HTTP, oembedRequest{
			Platform: PlatformSpotify,
			Endpoint: deps.Endpoints.SpotifyOEmbed,
		}, spotifyOEmbedInfo)},
	)
	return r
}

var (
	errNoNextData    = errors.New("no __NEXT_DATA__ script")
	errNoEmbedEntity = errors.New("no track entity in __NEXT_DATA__")
)

// spotifyEmbedEntity is the track entity inside the embed page's __NEXT_DATA__
type spotifyEmbedEntity struct {
	Title   string `json:"title"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	CoverArt struct {
		Sources []struct {
			URL string `json:"url"`
		} `json:"sources"`
	} `json:"coverArt"`
}

type spotifyNextData struct {
	Props struct {
		PageProps struct {
			State struct {
				Data struct {
					Entity *spotifyEmbedEntity `json:"entity"`
				} `json:"data"`
			} `json:"state"`
		} `json:"pageProps"`
	} `json:"props"`
}

func (r *spotifyResolver) fromEmbedPage(ctx context.Context, url string) (*TrackInfo, error) {
	trackID, ok := ExtractSpotifyTrackID(url)
	if !ok {
		return nil, &PlatformError{
			Platform:  "spotify",
			Operation: "embed_page",
			Message:   "no track ID in URL",
			URL:       url,
		}
	}

	embedURL := r.embedBase + "/track/" + trackID
	body, err := getBody(ctx, r.client, jsonRequest{
		Platform:  "spotify",
		Operation: "embed_page",
		URL:       embedURL,
		Headers: map[string]string{
			"User-Agent": browserUserAgent,
			"Accept":     "text/html",
		},
	})
	if err != nil {
		return nil, err
	}

	entity, err := parseSpotifyEmbedPage(body)
	if err != nil {
		return nil, &PlatformError{
			Platform:  "spotify",
			Operation: "embed_page",
			Message:   "unreadable embed page",
			URL:       embedURL,
			Err:       err,
		}
	}

	title := entity.Title
	if title == "" {
		title = entity.Name
	}

	artists := make([]string, 0, len(entity.Artists))
	for _, artist := range entity.Artists {
		artists = append(artists, artist.Name)
	}

	cover := ""
	if len(entity.CoverArt.Sources) > 0 {
		cover = entity.CoverArt.Sources[0].URL
	}

	return newTrackInfo(title, strings.Join(artists, ", "), cover), nil
}

// parseSpotifyEmbedPage extracts the track entity from the embed page HTML
func parseSpotifyEmbedPage(html []byte) (*spotifyEmbedEntity, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	script := doc.Find("script#__NEXT_DATA__").First()
	if script.Length() == 0 {
		return nil, errNoNextData
	}

	var data spotifyNextData
	if err := json.Unmarshal([]byte(script.Text()), &data); err != nil {
		return nil, err
	}

	entity := data.Props.PageProps.State.Data.Entity
	if entity == nil {
		return nil, errNoEmbedEntity
	}
	return entity, nil
}

// spotifyOEmbedInfo keeps title and thumbnail; Spotify's oEmbed has no artist
func spotifyOEmbedInfo(resp *OEmbedResponse) *TrackInfo {
	return newTrackInfo(resp.Title, "", resp.ThumbnailURL)
}
