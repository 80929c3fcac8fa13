package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"

	"musicshare/internal/metrics"
)

// Errors returned by the resolution facades. Handlers map them onto status codes.
var (
	ErrMissingURL          = errors.New("url parameter is required")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrMetadataUnavailable = errors.New("could not retrieve track information")
)

// ResolverDeps are the collaborators shared by the per-platform resolvers
type ResolverDeps struct {
	HTTP      *resty.Client
	SongLink  *SongLinkClient
	Endpoints Endpoints
	Metrics   *metrics.Metrics
}

// DefaultResolvers builds one resolver per supported platform
func DefaultResolvers(deps ResolverDeps) []TrackResolver {
	return []TrackResolver{
		NewSpotifyResolver(deps),
		NewYouTubeResolver(deps),
		NewAppleMusicResolver(deps),
		NewSoundCloudResolver(deps),
		NewDeezerResolver(deps),
		NewBandcampResolver(deps),
		NewTidalResolver(deps),
	}
}

// ResolvedTrack is a usable TrackInfo tagged with the track provider
type ResolvedTrack struct {
	TrackInfo
	Provider string `json:"provider"`
}

// TrackResolutionService dispatches track URLs to the matching platform resolver
type TrackResolutionService struct {
	detector  *Detector
	resolvers map[Platform]TrackResolver
	metrics   *metrics.Metrics
}

// NewTrackResolutionService creates a facade over the given resolvers
func NewTrackResolutionService(m *metrics.Metrics, resolvers ...TrackResolver) *TrackResolutionService {
	s := &TrackResolutionService{
		detector:  TrackDetector,
		resolvers: make(map[Platform]TrackResolver),
		metrics:   m,
	}
	for _, resolver := range resolvers {
		s.RegisterResolver(resolver)
	}
	return s
}

// RegisterResolver registers a resolver, replacing any for the same platform
func (s *TrackResolutionService) RegisterResolver(resolver TrackResolver) {
	s.resolvers[resolver.Platform()] = resolver
}

// Resolve detects the platform of url and returns its normalized metadata.
// Resolution is not cancelled when ctx is; each strategy is bounded by the
// client timeout instead.
func (s *TrackResolutionService) Resolve(ctx context.Context, url string) (resolved *ResolvedTrack, err error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrMissingURL
	}

	platform := s.detector.Detect(url)
	resolver, ok := s.resolvers[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, url)
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Track resolution panicked",
				"platform", platform,
				"url", url,
				"panic", r)
			s.metrics.RecordResolution("track", string(platform), metrics.OutcomePanic)
			resolved = nil
			err = ErrMetadataUnavailable
		}
	}()

	info := resolver.Resolve(context.WithoutCancel(ctx), url)
	if !info.Usable() {
		slog.Warn("All strategies failed",
			"platform", platform,
			"url", url)
		s.metrics.RecordResolution("track", string(platform), metrics.OutcomeEmpty)
		return nil, ErrMetadataUnavailable
	}

	s.metrics.RecordResolution("track", string(platform), metrics.OutcomeSuccess)
	return &ResolvedTrack{
		TrackInfo: *info,
		Provider:  TrackProviderTag(platform),
	}, nil
}
