package services

// NewBandcampResolver creates the Bandcamp track resolver (oEmbed only)
func NewBandcampResolver(deps ResolverDeps) TrackResolver {
	return NewStrategyChain(PlatformBandcamp, deps.Metrics,
		Strategy{Name: "oembed", Run: oembedStrategy(deps.HTTP, oembedRequest{
			Platform:   PlatformBandcamp,
			Endpoint:   deps.Endpoints.BandcampOEmbed,
			JSONFormat: true,
		}, plainOEmbed)},
	)
}
