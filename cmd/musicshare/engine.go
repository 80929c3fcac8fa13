package main

import (
	"fmt"

	"musicshare/internal/cache"
	"musicshare/internal/config"
	"musicshare/internal/metrics"
	"musicshare/internal/services"
)

// engine holds the resolution services built from configuration
type engine struct {
	cache     cache.Cache
	metrics   *metrics.Metrics
	tracks    *services.TrackResolutionService
	links     *services.LinkAggregationService
	playlists *services.PlaylistService
	gifs      *services.GIFSearchService
}

func newEngine(cfg *config.Config) (*engine, error) {
	responseCache, err := cache.New(cfg.Cache())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	m := metrics.New()
	client := services.NewHTTPClient(cfg.HTTPTimeout)

	endpoints := services.DefaultEndpoints()
	endpoints.SongLink = cfg.SongLinkAPIURL

	songLinkOpts := []services.SongLinkOption{services.WithSongLinkMetrics(m)}
	if responseCache != nil {
		songLinkOpts = append(songLinkOpts, services.WithSongLinkCache(responseCache, cfg.LinksCacheTTL))
	}
	songLink := services.NewSongLinkClient(client, endpoints.SongLink, songLinkOpts...)

	deps := services.ResolverDeps{
		HTTP:      client,
		SongLink:  songLink,
		Endpoints: endpoints,
		Metrics:   m,
	}

	return &engine{
		cache:     responseCache,
		metrics:   m,
		tracks:    services.NewTrackResolutionService(m, services.DefaultResolvers(deps)...),
		links:     services.NewLinkAggregationService(songLink, cfg.SongLinkUserCountry),
		playlists: services.NewPlaylistService(client, endpoints, services.NewSpotifyTokenSource(cfg.Spotify(), client), m),
		gifs: services.NewGIFSearchService(client, services.GIFSearchConfig{
			APIKey:    cfg.TenorAPIKey,
			ClientKey: cfg.TenorClientKey,
			Endpoint:  endpoints.TenorSearch,
			CacheTTL:  cfg.GIFCacheTTL,
		}, responseCache),
	}, nil
}

// Close releases the cache connection, if any
func (e *engine) Close() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Close()
}
