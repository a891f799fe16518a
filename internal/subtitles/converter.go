package subtitles

import (
	"context"
	"fmt"

	"github.com/Belphemur/NrkDownload/internal/apperrors"
	"github.com/Belphemur/NrkDownload/internal/client"
	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/hls"
	"github.com/Belphemur/NrkDownload/internal/metrics"
)

// SubtitleDirective is the prefix of the master playlist line announcing the subtitle track
const SubtitleDirective = "#EXT-X-MEDIA:TYPE=SUBTITLES"

// Converter finds the caption asset behind a master playlist and converts it to SRT
type Converter interface {
	// Locate returns the absolute URL of the caption asset
	Locate(ctx context.Context, manifestURL string) (string, error)
	// LocateAndConvert returns the caption asset converted to SRT text
	LocateAndConvert(ctx context.Context, manifestURL string) (string, error)
}

// DefaultConverter is the default implementation of Converter
type DefaultConverter struct {
	fetcher client.Fetcher
}

// NewConverter creates a new instance of DefaultConverter
func NewConverter(fetcher client.Fetcher) *DefaultConverter {
	return &DefaultConverter{fetcher: fetcher}
}

// Locate walks master playlist -> subtitle playlist -> caption asset.
// A missing directive, URI attribute or locator yields
// *apperrors.ErrSubtitleTrackInconsistent.
func (c *DefaultConverter) Locate(ctx context.Context, manifestURL string) (string, error) {
	logger := config.GetLogger()

	master, err := c.fetchPlaylist(ctx, manifestURL)
	if err != nil {
		return "", err
	}

	directive, ok := master.FirstDirective(SubtitleDirective)
	if !ok {
		return "", &apperrors.ErrSubtitleTrackInconsistent{URL: manifestURL, Reason: "no subtitle track directive"}
	}
	uri := hls.ParseAttributes(directive)["URI"]
	if uri == "" {
		return "", &apperrors.ErrSubtitleTrackInconsistent{URL: manifestURL, Reason: "subtitle track directive without URI"}
	}
	subManifestURL, err := master.Resolve(uri)
	if err != nil {
		return "", &apperrors.ErrSubtitleTrackInconsistent{URL: manifestURL, Reason: err.Error()}
	}
	logger.Debug().Str("url", subManifestURL).Msg("Found subtitle playlist")

	subManifest, err := c.fetchPlaylist(ctx, subManifestURL)
	if err != nil {
		return "", err
	}
	locator, ok := subManifest.FirstLocator()
	if !ok {
		return "", &apperrors.ErrSubtitleTrackInconsistent{URL: subManifestURL, Reason: "subtitle playlist without caption locator"}
	}

	assetURL, err := subManifest.Resolve(locator)
	if err != nil {
		return "", &apperrors.ErrSubtitleTrackInconsistent{URL: subManifestURL, Reason: err.Error()}
	}
	logger.Debug().Str("url", assetURL).Msg("Found caption asset")
	return assetURL, nil
}

// LocateAndConvert fetches the caption asset found by Locate and converts it to SRT
func (c *DefaultConverter) LocateAndConvert(ctx context.Context, manifestURL string) (string, error) {
	srt, err := c.locateAndConvert(ctx, manifestURL)
	if err != nil {
		metrics.SubtitleConversionsTotal.WithLabelValues("failure").Inc()
		return "", err
	}
	metrics.SubtitleConversionsTotal.WithLabelValues("success").Inc()
	return srt, nil
}

func (c *DefaultConverter) locateAndConvert(ctx context.Context, manifestURL string) (string, error) {
	assetURL, err := c.Locate(ctx, manifestURL)
	if err != nil {
		return "", err
	}

	resp, err := c.fetcher.Fetch(ctx, assetURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch caption asset: %w", err)
	}

	_, cues := ParseWebVTT(resp.Text())
	logger := config.GetLogger()
	logger.Debug().Int("cues", len(cues)).Str("url", assetURL).Msg("Converted caption asset")
	return FormatSRT(cues), nil
}

func (c *DefaultConverter) fetchPlaylist(ctx context.Context, rawURL string) (*hls.Playlist, error) {
	resp, err := c.fetcher.Fetch(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}
	return hls.ParsePlaylist(resp.URL, resp.Text())
}
