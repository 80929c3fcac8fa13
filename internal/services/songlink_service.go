package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"musicshare/internal/cache"
	"musicshare/internal/metrics"
)

// SongLinkEntity is one platform entity in a link index response
type SongLinkEntity struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ArtistName   string `json:"artistName"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// SongLinkPlatformLink is the link index entry for one platform
type SongLinkPlatformLink struct {
	URL string `json:"url"`
}

// SongLinkResponse is the subset of the link index response the engine reads
type SongLinkResponse struct {
	Entities        SongLinkEntities                `json:"entitiesByUniqueId"`
	LinksByPlatform map[string]SongLinkPlatformLink `json:"linksByPlatform"`
}

// FirstEntity returns the first entity in document order, or nil
func (r *SongLinkResponse) FirstEntity() *SongLinkEntity {
	if r == nil || len(r.Entities) == 0 {
		return nil
	}
	return &r.Entities[0]
}

// LinkFor returns the URL listed for a link index platform key
func (r *SongLinkResponse) LinkFor(key string) string {
	if r == nil {
		return ""
	}
	return r.LinksByPlatform[key].URL
}

// SongLinkEntities keeps entitiesByUniqueId in the order the upstream sent it.
// The "first entity" rule depends on that order, which a Go map would lose.
type SongLinkEntities []SongLinkEntity

// UnmarshalJSON decodes the entity object key by key. Entities whose shape
// does not match are skipped.
func (e *SongLinkEntities) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if !bytes.Equal(trimmed, []byte("null")) {
			slog.Debug("Ignoring link index entities that are not an object")
		}
		*e = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return err
	}

	entities := make(SongLinkEntities, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("entitiesByUniqueId[%s]: %w", key, err)
		}

		var entity SongLinkEntity
		if err := json.Unmarshal(raw, &entity); err != nil {
			slog.Debug("Skipping malformed link index entity", "entity", key, "error", err)
			continue
		}
		if entity.ID == "" {
			entity.ID = key
		}
		entities = append(entities, entity)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*e = entities
	return nil
}

// SongLinkClient queries the cross-platform link index
type SongLinkClient struct {
	client   *resty.Client
	baseURL  string
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	group    singleflight.Group
}

// SongLinkOption configures a SongLinkClient
type SongLinkOption func(*SongLinkClient)

// WithSongLinkCache caches raw link index responses for ttl
func WithSongLinkCache(c cache.Cache, ttl time.Duration) SongLinkOption {
	return func(s *SongLinkClient) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithSongLinkMetrics records lookup outcomes
func WithSongLinkMetrics(m *metrics.Metrics) SongLinkOption {
	return func(s *SongLinkClient) {
		s.metrics = m
	}
}

// NewSongLinkClient creates a link index client for baseURL
func NewSongLinkClient(client *resty.Client, baseURL string, opts ...SongLinkOption) *SongLinkClient {
	s := &SongLinkClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup returns the link index entry for a content URL. userCountry is
// optional. Identical concurrent lookups share one upstream call.
func (s *SongLinkClient) Lookup(ctx context.Context, contentURL, userCountry string) (*SongLinkResponse, error) {
	key := "songlink:" + userCountry + ":" + contentURL

	body, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.fetch(ctx, key, contentURL, userCountry)
	})
	if err != nil {
		s.metrics.RecordLinkIndexLookup(metrics.OutcomeError)
		return nil, err
	}

	var resp SongLinkResponse
	if err := json.Unmarshal(body.([]byte), &resp); err != nil {
		s.metrics.RecordLinkIndexLookup(metrics.OutcomeError)
		return nil, &PlatformError{
			Platform:  "songlink",
			Operation: "lookup",
			Message:   "malformed response",
			URL:       contentURL,
			Err:       err,
		}
	}

	return &resp, nil
}

func (s *SongLinkClient) fetch(ctx context.Context, key, contentURL, userCountry string) ([]byte, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err != nil {
			slog.Warn("Link index cache read failed", "error", err)
		} else if data != nil {
			s.metrics.RecordLinkIndexLookup(metrics.OutcomeCacheHit)
			return data, nil
		}
	}

	query := map[string]string{"url": contentURL}
	if userCountry != "" {
		query["userCountry"] = userCountry
	}

	body, err := getBody(ctx, s.client, jsonRequest{
		Platform:  "songlink",
		Operation: "lookup",
		URL:       s.baseURL + "/links",
		Query:     query,
	})
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, &PlatformError{
			Platform:  "songlink",
			Operation: "lookup",
			Message:   "malformed response",
			URL:       contentURL,
		}
	}

	s.metrics.RecordLinkIndexLookup(metrics.OutcomeSuccess)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, body, s.cacheTTL); err != nil {
			slog.Warn("Link index cache write failed", "error", err)
		}
	}

	return body, nil
}

// linkIndexStrategy resolves a track from the first link index entity.
// With requireArtist the entity must carry both title and artist.
func linkIndexStrategy(songLink *SongLinkClient, requireArtist bool, normalize func(string) string) StrategyFunc {
	return func(ctx context.Context, url string) (*TrackInfo, error) {
		if normalize != nil {
			url = normalize(url)
		}

		resp, err := songLink.Lookup(ctx, url, "")
		if err != nil {
			return nil, err
		}

		entity := resp.FirstEntity()
		if entity == nil {
			return nil, &PlatformError{
				Platform:  "songlink",
				Operation: "lookup",
				Message:   "no entities",
				URL:       url,
			}
		}

		if requireArtist && (entity.Title == "" || entity.ArtistName == "") {
			return nil, &PlatformError{
				Platform:  "songlink",
				Operation: "lookup",
				Message:   "entity missing title or artist",
				URL:       url,
			}
		}

		return newTrackInfo(entity.Title, entity.ArtistName, entity.ThumbnailURL), nil
	}
}
