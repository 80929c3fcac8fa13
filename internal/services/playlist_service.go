package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"musicshare/internal/metrics"
)

// MaxPlaylistTracks caps the number of tracks returned for a playlist
const MaxPlaylistTracks = 50

// spotifyPlaylistFields restricts the playlists API response
const spotifyPlaylistFields = "name,images,tracks.items(track(id,name,artists(name),album(images)))"

// PlaylistTrack is one track of an expanded playlist
type PlaylistTrack struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Cover  string `json:"cover,omitempty"`
	URL    string `json:"url,omitempty"`
}

// PlaylistResult is the normalized playlist metadata
type PlaylistResult struct {
	Title  string          `json:"title"`
	Cover  string          `json:"cover"`
	Tracks []PlaylistTrack `json:"tracks"`
}

// PlaylistResponse is a PlaylistResult tagged with its platform and source URL
type PlaylistResponse struct {
	PlaylistResult
	Platform  string `json:"platform"`
	SourceURL string `json:"sourceUrl"`
}

// PlaylistService expands playlist URLs into track lists
type PlaylistService struct {
	client    *resty.Client
	endpoints Endpoints
	tokens    SpotifyTokenSource
	metrics   *metrics.Metrics
}

// NewPlaylistService creates a playlist resolver. tokens may be nil, in which
// case Spotify playlists only get oEmbed metadata.
func NewPlaylistService(client *resty.Client, endpoints Endpoints, tokens SpotifyTokenSource, m *metrics.Metrics) *PlaylistService {
	return &PlaylistService{
		client:    client,
		endpoints: endpoints,
		tokens:    tokens,
		metrics:   m,
	}
}

// Resolve expands a playlist URL. Apart from a missing URL it never fails:
// unsupported platforms and upstream failures yield an empty payload.
func (s *PlaylistService) Resolve(ctx context.Context, url string) (*PlaylistResponse, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrMissingURL
	}

	platform := PlaylistDetector.Detect(url)
	result := s.resolve(context.WithoutCancel(ctx), platform, url)

	outcome := metrics.OutcomeSuccess
	if result == nil {
		outcome = metrics.OutcomeEmpty
		result = &PlaylistResult{}
	}
	if result.Tracks == nil {
		result.Tracks = []PlaylistTrack{}
	}
	s.metrics.RecordResolution("playlist", string(platform), outcome)

	return &PlaylistResponse{
		PlaylistResult: *result,
		Platform:       PlaylistPlatformTag(platform),
		SourceURL:      url,
	}, nil
}

func (s *PlaylistService) resolve(ctx context.Context, platform Platform, url string) (result *PlaylistResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Playlist resolution panicked",
				"platform", platform,
				"url", url,
				"panic", r)
			result = nil
		}
	}()

	var err error
	switch platform {
	case PlatformDeezer:
		result, err = s.resolveDeezer(ctx, url)
	case PlatformSpotify:
		result, err = s.resolveSpotify(ctx, url)
	case PlatformAppleMusic:
		result, err = s.resolveAppleMusic(ctx, url)
	default:
		return nil
	}

	if err != nil {
		slog.Warn("Playlist resolution failed",
			"platform", platform,
			"url", url,
			"error", err)
		return nil
	}
	return result
}

type deezerPlaylist struct {
	Title         string `json:"title"`
	PictureMedium string `json:"picture_medium"`
	Tracks        struct {
		Data []deezerTrack `json:"data"`
	} `json:"tracks"`
	Error *deezerAPIError `json:"error"`
}

func (s *PlaylistService) resolveDeezer(ctx context.Context, url string) (*PlaylistResult, error) {
	playlistID, ok := ExtractDeezerPlaylistID(url)
	if !ok {
		return nil, &PlatformError{
			Platform:  "deezer",
			Operation: "get_playlist",
			Message:   "no playlist ID in URL",
			URL:       url,
		}
	}

	var playlist deezerPlaylist
	err := getJSON(ctx, s.client, jsonRequest{
		Platform:  "deezer",
		Operation: "get_playlist",
		URL:       strings.TrimRight(s.endpoints.DeezerAPI, "/") + "/playlist/" + playlistID,
	}, &playlist)
	if err != nil {
		return nil, err
	}
	if playlist.Error != nil {
		return nil, &PlatformError{
			Platform:  "deezer",
			Operation: "get_playlist",
			Message:   playlist.Error.Message,
			URL:       url,
		}
	}

	data := playlist.Tracks.Data
	if len(data) > MaxPlaylistTracks {
		data = data[:MaxPlaylistTracks]
	}

	tracks := make([]PlaylistTrack, 0, len(data))
	for _, track := range data {
		tracks = append(tracks, PlaylistTrack{
			Title:  track.Title,
			Artist: track.Artist.Name,
			Cover:  track.Album.CoverMedium,
			URL:    fmt.Sprintf("https://www.deezer.com/track/%d", track.ID),
		})
	}

	return &PlaylistResult{
		Title:  playlist.Title,
		Cover:  playlist.PictureMedium,
		Tracks: tracks,
	}, nil
}

// resolveSpotify reads oEmbed metadata first, then enriches it through the
// playlists API. Enrichment failures keep the oEmbed result.
func (s *PlaylistService) resolveSpotify(ctx context.Context, url string) (*PlaylistResult, error) {
	playlistID, ok := ExtractSpotifyPlaylistID(url)
	if !ok {
		return nil, &PlatformError{
			Platform:  "spotify",
			Operation: "get_playlist",
			Message:   "no playlist ID in URL",
			URL:       url,
		}
	}

	result := &PlaylistResult{Tracks: []PlaylistTrack{}}

	oembed, err := fetchOEmbed(ctx, s.client, oembedRequest{
		Platform:   PlatformSpotify,
		Endpoint:   s.endpoints.SpotifyOEmbed,
		ContentURL: url,
	})
	if err != nil {
		slog.Debug("Spotify playlist oEmbed failed", "url", url, "error", err)
	} else {
		result.Title = oembed.Title
		result.Cover = oembed.ThumbnailURL
	}

	if s.tokens == nil {
		return result, nil
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		slog.Info("No Spotify token, returning playlist without tracks", "url", url, "error", err)
		return result, nil
	}

	playlist, err := s.spotifyClient(token).GetPlaylist(ctx, spotify.ID(playlistID), spotify.Fields(spotifyPlaylistFields))
	if err != nil {
		slog.Warn("Spotify playlists API failed", "playlist_id", playlistID, "error", err)
		return result, nil
	}

	if playlist.Name != "" {
		result.Title = playlist.Name
	}
	if len(playlist.Images) > 0 && playlist.Images[0].URL != "" {
		result.Cover = playlist.Images[0].URL
	}

	for _, item := range playlist.Tracks.Tracks {
		if len(result.Tracks) == MaxPlaylistTracks {
			break
		}
		track := item.Track
		if track.Name == "" {
			continue
		}

		artists := make([]string, 0, len(track.Artists))
		for _, artist := range track.Artists {
			artists = append(artists, artist.Name)
		}

		entry := PlaylistTrack{
			Title:  track.Name,
			Artist: strings.Join(artists, ", "),
			Cover:  spotifyTrackCover(track.Album.Images),
		}
		// Local files have no ID
		if track.ID != "" {
			entry.URL = "https://open.spotify.com/track/" + string(track.ID)
		}
		result.Tracks = append(result.Tracks, entry)
	}

	return result, nil
}

// spotifyTrackCover prefers the medium image, which the API lists second
func spotifyTrackCover(images []spotify.Image) string {
	if len(images) > 1 && images[1].URL != "" {
		return images[1].URL
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return ""
}

func (s *PlaylistService) spotifyClient(token *SpotifyAccessToken) *spotify.Client {
	httpClient := &http.Client{
		Timeout: s.client.GetClient().Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: token.Token,
				TokenType:   "Bearer",
			}),
		},
	}
	return spotify.New(httpClient, spotify.WithBaseURL(s.endpoints.SpotifyAPI))
}

func (s *PlaylistService) resolveAppleMusic(ctx context.Context, url string) (*PlaylistResult, error) {
	oembed, err := fetchOEmbed(ctx, s.client, oembedRequest{
		Platform:   PlatformAppleMusic,
		Endpoint:   s.endpoints.AppleMusicOEmbed,
		ContentURL: url,
		UserAgent:  appUserAgent,
	})
	if err != nil {
		return nil, err
	}

	return &PlaylistResult{
		Title:  oembed.Title,
		Cover:  oembed.ThumbnailURL,
		Tracks: []PlaylistTrack{},
	}, nil
}
