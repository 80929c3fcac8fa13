package services

// NewTidalResolver creates the Tidal track resolver. Tidal has no public
// oEmbed or anonymous API, so tracks resolve through the link index only.
func NewTidalResolver(deps ResolverDeps) TrackResolver {
	return NewStrategyChain(PlatformTidal, deps.Metrics,
		Strategy{Name: "link_index", Run: linkIndexStrategy(deps.SongLink, false, nil)},
	)
}
