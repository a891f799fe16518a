package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/fallback"

	"github.com/Belphemur/NrkDownload/internal/apperrors"
	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/models"
)

// Fetcher performs GET requests and returns fully read responses.
//
// A URL without scheme is retried once with "https://" prepended. Every other
// failure is logged and returned as a typed error: *apperrors.ErrTransport for
// network problems and *apperrors.ErrUnexpectedStatus for non-2xx answers.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, headers http.Header) (*models.Response, error)
}

type httpFetcher struct {
	httpClient *http.Client
	userAgent  string
}

// NewFetcher creates a Fetcher on top of the given HTTP client
func NewFetcher(httpClient *http.Client, userAgent string) Fetcher {
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	return &httpFetcher{httpClient: httpClient, userAgent: userAgent}
}

func (f *httpFetcher) Fetch(ctx context.Context, rawURL string, headers http.Header) (*models.Response, error) {
	logger := config.GetLogger()

	schemeFixup := fallback.NewWithFunc(func(exec failsafe.Execution[*models.Response]) (*models.Response, error) {
		if !errors.Is(exec.LastError(), &apperrors.ErrMissingScheme{}) {
			return exec.LastResult(), exec.LastError()
		}

		fixedURL := "https://" + rawURL
		logger.Debug().Str("url", rawURL).Str("fixedURL", fixedURL).Msg("Missing URL scheme, retrying with https")
		resp, err := f.get(ctx, fixedURL, headers)
		if errors.Is(err, &apperrors.ErrMissingScheme{}) {
			return nil, &apperrors.ErrTransport{URL: rawURL, Err: err}
		}
		return resp, err
	})

	resp, err := failsafe.Get(func() (*models.Response, error) {
		return f.get(ctx, rawURL, headers)
	}, schemeFixup)
	if err != nil {
		logger.Error().Err(err).Str("url", rawURL).Msg("Request failed")
		return nil, err
	}

	return resp, nil
}

// get performs a single GET without any retry
func (f *httpFetcher) get(ctx context.Context, rawURL string, headers http.Header) (*models.Response, error) {
	logger := config.GetLogger()

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		// "host:port/path" does not even parse without a scheme
		if !strings.Contains(rawURL, "://") {
			return nil, &apperrors.ErrMissingScheme{URL: rawURL}
		}
		if err == nil {
			err = errors.New("missing host")
		}
		return nil, &apperrors.ErrTransport{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &apperrors.ErrTransport{URL: rawURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	// Set user agent to avoid being blocked
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	logger.Debug().Str("url", rawURL).Msg("Fetching")
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &apperrors.ErrTransport{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &apperrors.ErrUnexpectedStatus{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.ErrTransport{URL: rawURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return &models.Response{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
