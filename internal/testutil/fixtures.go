package testutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Test URLs used across packages
const (
	TestSpotifyTrackURL       = "https://open.spotify.com/track/ABC123"
	TestSpotifyIntlTrackURL   = "https://open.spotify.com/intl-de/track/ABC123"
	TestSpotifyPlaylistURL    = "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M"
	TestYouTubeURL            = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	TestAppleMusicURL         = "https://music.apple.com/us/album/bohemian-rhapsody/1440806041?i=1440806053"
	TestSoundCloudURL         = "https://soundcloud.com/artist/song"
	TestDeezerTrackURL        = "https://www.deezer.com/tr/track/3135556"
	TestDeezerPlaylistURL     = "https://www.deezer.com/en/playlist/908622995"
	TestBandcampURL           = "https://artist.bandcamp.com/track/song"
	TestTidalURL              = "https://tidal.com/browse/track/77646168"
	TestAppleMusicPlaylistURL = "https://music.apple.com/us/playlist/todays-hits/pl.f4d106fed2bd41149aaacabb233eb5eb"
)

// SongLinkEntity describes one entity in a SongLinkResponse fixture
type SongLinkEntity struct {
	Key       string
	Title     string
	Artist    string
	Thumbnail string
}

// SongLinkResponse builds a link index response body. Entities keep the
// given order in the encoded object.
func SongLinkResponse(entities []SongLinkEntity, links map[string]string) string {
	var b strings.Builder
	b.WriteString(`{"entityUniqueId":"fixture","entitiesByUniqueId":{`)
	for i, e := range entities {
		if i > 0 {
			b.WriteString(",")
		}
		entity, _ := json.Marshal(map[string]string{
			"id":           e.Key,
			"title":        e.Title,
			"artistName":   e.Artist,
			"thumbnailUrl": e.Thumbnail,
		})
		key, _ := json.Marshal(e.Key)
		b.Write(key)
		b.WriteString(":")
		b.Write(entity)
	}
	b.WriteString(`},"linksByPlatform":`)

	platforms := make(map[string]map[string]string, len(links))
	for platform, url := range links {
		platforms[platform] = map[string]string{"url": url}
	}
	encoded, _ := json.Marshal(platforms)
	b.Write(encoded)
	b.WriteString("}")
	return b.String()
}

// OEmbedResponse creates an oEmbed response body
func OEmbedResponse(title, author, thumbnail string) map[string]interface{} {
	return map[string]interface{}{
		"version":       "1.0",
		"type":          "rich",
		"title":         title,
		"author_name":   author,
		"thumbnail_url": thumbnail,
	}
}

// SpotifyEmbedPage renders an embed page carrying a __NEXT_DATA__ track entity
func SpotifyEmbedPage(title string, artists []string, cover string) string {
	artistObjs := make([]map[string]string, 0, len(artists))
	for _, a := range artists {
		artistObjs = append(artistObjs, map[string]string{"name": a})
	}

	data := map[string]interface{}{
		"props": map[string]interface{}{
			"pageProps": map[string]interface{}{
				"state": map[string]interface{}{
					"data": map[string]interface{}{
						"entity": map[string]interface{}{
							"title":   title,
							"artists": artistObjs,
							"coverArt": map[string]interface{}{
								"sources": []map[string]string{{"url": cover}},
							},
						},
					},
				},
			},
		},
	}
	encoded, _ := json.Marshal(data)

	return fmt.Sprintf(`<!DOCTYPE html><html><head><title>Spotify Embed</title></head><body>`+
		`<div id="__next"></div>`+
		`<script id="__NEXT_DATA__" type="application/json">%s</script>`+
		`</body></html>`, encoded)
}

// DeezerTrackResponse creates a Deezer track API response
func DeezerTrackResponse(id int, title, artist, coverMedium string) map[string]interface{} {
	return map[string]interface{}{
		"id":    id,
		"title": title,
		"artist": map[string]interface{}{
			"name": artist,
		},
		"album": map[string]interface{}{
			"cover":        "https://e-cdns-images.dzcdn.net/images/cover/default.jpg",
			"cover_medium": coverMedium,
		},
	}
}

// DeezerErrorResponse creates the error body Deezer returns with a 200 status
func DeezerErrorResponse() map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"type":    "DataException",
			"message": "no data",
			"code":    800,
		},
	}
}

// DeezerPlaylistResponse creates a Deezer playlist with trackCount tracks
func DeezerPlaylistResponse(title string, trackCount int) map[string]interface{} {
	tracks := make([]map[string]interface{}, 0, trackCount)
	for i := 1; i <= trackCount; i++ {
		tracks = append(tracks, DeezerTrackResponse(1000+i, fmt.Sprintf("Track %d", i), fmt.Sprintf("Artist %d", i), fmt.Sprintf("https://cdn.deezer.test/%d.jpg", i)))
	}
	return map[string]interface{}{
		"id":             908622995,
		"title":          title,
		"picture_medium": "https://cdn.deezer.test/playlist.jpg",
		"tracks": map[string]interface{}{
			"data": tracks,
		},
	}
}

// SpotifyTokenResponse creates a mock OAuth token response
func SpotifyTokenResponse() map[string]interface{} {
	return map[string]interface{}{
		"access_token": "mock-access-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	}
}

// SpotifyWebPlayerTokenResponse creates a mock anonymous token response
func SpotifyWebPlayerTokenResponse(token string) map[string]interface{} {
	return map[string]interface{}{
		"clientId":                         "web-player",
		"accessToken":                      token,
		"accessTokenExpirationTimestampMs": 1700000000000,
		"isAnonymous":                      true,
	}
}

// SpotifyPlaylistTrack describes one item of a SpotifyPlaylistResponse fixture.
// An empty ID is encoded as null; Removed encodes the item as {"track":null}.
type SpotifyPlaylistTrack struct {
	ID      string
	Name    string
	Artists []string
	Images  []string
	Removed bool
}

// SpotifyPlaylistResponse creates a playlists API response restricted to the requested fields
func SpotifyPlaylistResponse(name string, images []string, tracks []SpotifyPlaylistTrack) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(tracks))
	for _, track := range tracks {
		if track.Removed {
			items = append(items, map[string]interface{}{"track": nil})
			continue
		}

		artists := make([]map[string]string, 0, len(track.Artists))
		for _, a := range track.Artists {
			artists = append(artists, map[string]string{"name": a})
		}
		var id interface{}
		if track.ID != "" {
			id = track.ID
		}
		items = append(items, map[string]interface{}{
			"track": map[string]interface{}{
				"id":      id,
				"name":    track.Name,
				"artists": artists,
				"album": map[string]interface{}{
					"images": imageObjects(track.Images),
				},
			},
		})
	}

	return map[string]interface{}{
		"name":   name,
		"images": imageObjects(images),
		"tracks": map[string]interface{}{
			"items": items,
		},
	}
}

func imageObjects(urls []string) []map[string]interface{} {
	images := make([]map[string]interface{}, 0, len(urls))
	for _, url := range urls {
		images = append(images, map[string]interface{}{"url": url})
	}
	return images
}

// TenorResult describes one hit of a TenorSearchResponse fixture
type TenorResult struct {
	ID          string
	Description string
	Formats     map[string]string
}

// TenorSearchResponse creates a Tenor v2 search response
func TenorSearchResponse(results ...TenorResult) map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		formats := make(map[string]interface{}, len(r.Formats))
		for name, url := range r.Formats {
			formats[name] = map[string]interface{}{"url": url}
		}
		out = append(out, map[string]interface{}{
			"id":                  r.ID,
			"content_description": r.Description,
			"media_formats":       formats,
		})
	}
	return map[string]interface{}{
		"results": out,
		"next":    "",
	}
}
