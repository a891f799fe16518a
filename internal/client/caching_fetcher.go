package client

import (
	"context"
	"net/http"

	"github.com/Belphemur/NrkDownload/internal/cache"
	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/models"
)

// cachingFetcher serves repeated lookups of the same URL from a cache.
// Only successful responses are stored.
type cachingFetcher struct {
	inner Fetcher
	cache cache.Cache
}

// NewCachingFetcher wraps inner with c. A nil cache returns inner unchanged.
func NewCachingFetcher(inner Fetcher, c cache.Cache) Fetcher {
	if c == nil {
		return inner
	}
	return &cachingFetcher{inner: inner, cache: c}
}

func (f *cachingFetcher) Fetch(ctx context.Context, rawURL string, headers http.Header) (*models.Response, error) {
	logger := config.GetLogger()

	if body, ok := f.cache.Get(rawURL); ok {
		logger.Debug().Str("url", rawURL).Int("size", len(body)).Msg("Retrieved lookup from cache")
		return &models.Response{URL: rawURL, StatusCode: http.StatusOK, Header: http.Header{}, Body: body}, nil
	}

	resp, err := f.inner.Fetch(ctx, rawURL, headers)
	if err != nil {
		return nil, err
	}

	f.cache.Set(rawURL, resp.Body)
	return resp, nil
}
