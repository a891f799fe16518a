package client

import (
	"net/http"
	"net/url"
	"time"

	"github.com/Belphemur/NrkDownload/internal/cache"
	"github.com/Belphemur/NrkDownload/internal/config"
)

// Client bundles the HTTP plumbing shared by the resolver, the subtitle
// locator and the segment downloader.
type Client struct {
	// Fetcher is used for manifests, caption assets and media segments.
	Fetcher Fetcher
	// LookupFetcher is used for program metadata and media-ID lookups and is
	// backed by the lookup cache when one is configured.
	LookupFetcher Fetcher
	// Programs reads program metadata from the TV API.
	Programs ProgramClient
}

// NewClient creates the HTTP client stack with proxy configuration if provided.
// lookupCache may be nil to disable caching.
func NewClient(cfg *config.Config, lookupCache cache.Cache) *Client {
	httpClient := NewHTTPClient(cfg)
	fetcher := NewFetcher(httpClient, cfg.UserAgent)
	lookupFetcher := NewCachingFetcher(fetcher, lookupCache)

	return &Client{
		Fetcher:       fetcher,
		LookupFetcher: lookupFetcher,
		Programs:      NewProgramClient(lookupFetcher, cfg.ProgramAPIURL, cfg.APIClientVersion),
	}
}

// NewHTTPClient builds the *http.Client used for every request: configured
// timeout, optional proxy and transparent response decompression.
func NewHTTPClient(cfg *config.Config) *http.Client {
	logger := config.GetLogger()

	timeout := 30 * time.Second // default
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			timeout = parsedTimeout
		}
	}

	// Clone DefaultTransport to preserve its pooling, HTTP/2 and dial settings
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: newCompressionTransport(baseTransport),
	}
}
