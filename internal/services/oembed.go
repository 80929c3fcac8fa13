package services

import (
	"context"

	"github.com/go-resty/resty/v2"
)

// OEmbedResponse holds the oEmbed fields the resolvers read
type OEmbedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	ProviderName string `json:"provider_name"`
}

// oembedRequest describes a call to one platform's oEmbed endpoint
type oembedRequest struct {
	Platform   Platform
	Endpoint   string
	ContentURL string
	// JSONFormat adds format=json for providers that default to XML
	JSONFormat bool
	UserAgent  string
}

// fetchOEmbed calls an oEmbed endpoint for a content URL
func fetchOEmbed(ctx context.Context, client *resty.Client, req oembedRequest) (*OEmbedResponse, error) {
	query := map[string]string{"url": req.ContentURL}
	if req.JSONFormat {
		query["format"] = "json"
	}

	var headers map[string]string
	if req.UserAgent != "" {
		headers = map[string]string{"User-Agent": req.UserAgent}
	}

	var resp OEmbedResponse
	err := getJSON(ctx, client, jsonRequest{
		Platform:  string(req.Platform),
		Operation: "oembed",
		URL:       req.Endpoint,
		Query:     query,
		Headers:   headers,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// oembedStrategy returns a strategy that maps an oEmbed response through parse
func oembedStrategy(client *resty.Client, req oembedRequest, parse func(*OEmbedResponse) *TrackInfo) StrategyFunc {
	return func(ctx context.Context, url string) (*TrackInfo, error) {
		call := req
		call.ContentURL = url
		resp, err := fetchOEmbed(ctx, client, call)
		if err != nil {
			return nil, err
		}
		return parse(resp), nil
	}
}

// plainOEmbed maps title, author and thumbnail without any parsing
func plainOEmbed(resp *OEmbedResponse) *TrackInfo {
	return newTrackInfo(resp.Title, resp.AuthorName, resp.ThumbnailURL)
}
