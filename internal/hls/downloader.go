package hls

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Belphemur/NrkDownload/internal/apperrors"
	"github.com/Belphemur/NrkDownload/internal/client"
	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/metrics"
)

// ProgressFunc receives the download progress as an integer percentage
type ProgressFunc func(percent int)

// Downloader saves an HLS stream as one transport stream
type Downloader interface {
	// Download fetches the stream behind manifestURL and writes its segments
	// to w in order, returning the number of bytes written.
	Download(ctx context.Context, manifestURL string, w io.Writer, progress ProgressFunc) (int64, error)
}

// SegmentDownloader fetches segments one at a time through a client.Fetcher
type SegmentDownloader struct {
	fetcher client.Fetcher
}

// NewDownloader creates a Downloader on top of fetcher
func NewDownloader(fetcher client.Fetcher) *SegmentDownloader {
	return &SegmentDownloader{fetcher: fetcher}
}

// Download picks the highest-bandwidth variant of a master playlist (or uses
// a media playlist as is) and concatenates its segments. Encrypted and empty
// playlists yield *apperrors.ErrUnsupportedPlaylist. progress may be nil.
func (d *SegmentDownloader) Download(ctx context.Context, manifestURL string, w io.Writer, progress ProgressFunc) (int64, error) {
	logger := config.GetLogger().With().Str("url", manifestURL).Logger()
	if progress == nil {
		progress = func(int) {}
	}

	playlist, err := d.fetchPlaylist(ctx, manifestURL)
	if err != nil {
		return 0, err
	}

	if playlist.IsMaster() {
		variant, ok := playlist.BestVariant()
		if !ok {
			return 0, &apperrors.ErrUnsupportedPlaylist{URL: manifestURL, Reason: "master playlist without variants"}
		}
		variantURL, err := playlist.Resolve(variant.URI)
		if err != nil {
			return 0, err
		}
		logger.Debug().Int64("bandwidth", variant.Bandwidth).Str("variant", variantURL).Msg("Selected variant")

		playlist, err = d.fetchPlaylist(ctx, variantURL)
		if err != nil {
			return 0, err
		}
	}

	if err := checkSupported(playlist); err != nil {
		return 0, err
	}

	segments := playlist.Locators()
	var written int64
	lastPercent := -1

	for i, segment := range segments {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		segmentURL, err := playlist.Resolve(segment)
		if err != nil {
			return written, err
		}
		resp, err := d.fetcher.Fetch(ctx, segmentURL, nil)
		if err != nil {
			return written, fmt.Errorf("failed to fetch segment %d/%d: %w", i+1, len(segments), err)
		}

		n, err := w.Write(resp.Body)
		written += int64(n)
		metrics.BytesDownloadedTotal.Add(float64(n))
		if err != nil {
			return written, fmt.Errorf("failed to write segment %d/%d: %w", i+1, len(segments), err)
		}
		metrics.SegmentsDownloadedTotal.Inc()

		if percent := (i + 1) * 100 / len(segments); percent != lastPercent {
			lastPercent = percent
			progress(percent)
		}
	}

	logger.Info().
		Int("segments", len(segments)).
		Str("size", humanize.Bytes(uint64(written))).
		Msg("Stream downloaded")

	return written, nil
}

func (d *SegmentDownloader) fetchPlaylist(ctx context.Context, rawURL string) (*Playlist, error) {
	resp, err := d.fetcher.Fetch(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}
	// Resolve against the URL actually fetched, which may carry an added scheme
	return ParsePlaylist(resp.URL, resp.Text())
}

func checkSupported(playlist *Playlist) error {
	for _, key := range playlist.Directives(TagKey) {
		if method := ParseAttributes(key)["METHOD"]; method != "" && !strings.EqualFold(method, "NONE") {
			return &apperrors.ErrUnsupportedPlaylist{URL: playlist.URL.String(), Reason: "encrypted with " + method}
		}
	}
	if _, ok := playlist.FirstLocator(); !ok {
		return &apperrors.ErrUnsupportedPlaylist{URL: playlist.URL.String(), Reason: "no segments"}
	}
	return nil
}
