package subtitles

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Belphemur/NrkDownload/internal/apperrors"
	"github.com/Belphemur/NrkDownload/internal/client"
	"github.com/Belphemur/NrkDownload/internal/testutil"
)

const playlistType = "application/vnd.apple.mpegurl"

func newTestConverter(t *testing.T) (*DefaultConverter, *testutil.FakeNRK) {
	t.Helper()
	return NewConverter(client.NewFetcher(http.DefaultClient, "")), testutil.NewFakeNRK(t)
}

func TestLocateAndConvert(t *testing.T) {
	t.Parallel()
	c, fake := newTestConverter(t)
	masterURL := fake.AddStream("MSUI28008021", "Skam", testutil.StreamOptions{
		Segments: []string{"a"},
		WebVTT:   testutil.SampleWebVTT,
	})

	srt, err := c.LocateAndConvert(context.Background(), masterURL)
	if err != nil {
		t.Fatalf("LocateAndConvert failed: %v", err)
	}
	if srt != testutil.SampleSRT {
		t.Errorf("Unexpected SRT:\n%q\nwant\n%q", srt, testutil.SampleSRT)
	}

	again, err := c.LocateAndConvert(context.Background(), masterURL)
	if err != nil {
		t.Fatalf("Second LocateAndConvert failed: %v", err)
	}
	if again != srt {
		t.Error("Expected converting the same asset twice to yield identical output")
	}
}

func TestLocate_RelativeAndAbsoluteLocators(t *testing.T) {
	t.Parallel()
	c, fake := newTestConverter(t)

	// Absolute sub-manifest URI, relative caption locator
	fake.AddFile("/a/master.m3u8", playlistType, testutil.GenerateMasterManifest(
		[]testutil.VariantOptions{{Bandwidth: 1, URI: "v.m3u8"}}, fake.URL("/a/path/sub.m3u8")))
	fake.AddFile("/a/path/sub.m3u8", playlistType, testutil.GenerateSubtitlePlaylist("seg.vtt"))

	assetURL, err := c.Locate(context.Background(), fake.URL("/a/master.m3u8"))
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if assetURL != fake.URL("/a/path/seg.vtt") {
		t.Errorf("Expected %q, got %q", fake.URL("/a/path/seg.vtt"), assetURL)
	}

	// Relative sub-manifest URI, absolute caption locator
	fake.AddFile("/b/master.m3u8", playlistType, testutil.GenerateMasterManifest(
		[]testutil.VariantOptions{{Bandwidth: 1, URI: "v.m3u8"}}, "subs/nb.m3u8"))
	fake.AddFile("/b/subs/nb.m3u8", playlistType, testutil.GenerateSubtitlePlaylist("https://cdn.example/nb.vtt"))

	assetURL, err = c.Locate(context.Background(), fake.URL("/b/master.m3u8"))
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if assetURL != "https://cdn.example/nb.vtt" {
		t.Errorf("Expected absolute locator to be kept, got %q", assetURL)
	}
}

func TestLocate_InconsistentTrack(t *testing.T) {
	t.Parallel()
	c, fake := newTestConverter(t)

	fake.AddFile("/no-directive.m3u8", playlistType, testutil.GenerateMasterManifest(
		[]testutil.VariantOptions{{Bandwidth: 1, URI: "v.m3u8"}}, ""))
	fake.AddFile("/no-uri.m3u8", playlistType, "#EXTM3U\n#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID=\"subs\",NAME=\"Norsk\"\n")
	fake.AddFile("/no-locator.m3u8", playlistType, "#EXTM3U\n#EXT-X-MEDIA:TYPE=SUBTITLES,URI=\"empty-sub.m3u8\"\n")
	fake.AddFile("/empty-sub.m3u8", playlistType, "#EXTM3U\n#EXT-X-ENDLIST\n")
	// Audio tracks do not count as subtitle tracks
	fake.AddFile("/audio-only.m3u8", playlistType, "#EXTM3U\n#EXT-X-MEDIA:TYPE=AUDIO,URI=\"audio.m3u8\"\n")

	for _, path := range []string{"/no-directive.m3u8", "/no-uri.m3u8", "/no-locator.m3u8", "/audio-only.m3u8"} {
		path := path
		t.Run(path, func(t *testing.T) {
			t.Parallel()
			_, err := c.LocateAndConvert(context.Background(), fake.URL(path))
			if !errors.Is(err, &apperrors.ErrSubtitleTrackInconsistent{}) {
				t.Errorf("Expected ErrSubtitleTrackInconsistent, got %v", err)
			}
		})
	}
}

func TestLocateAndConvert_FetchFailures(t *testing.T) {
	t.Parallel()
	c, fake := newTestConverter(t)
	fake.AddFile("/master.m3u8", playlistType, "#EXTM3U\n#EXT-X-MEDIA:TYPE=SUBTITLES,URI=\"sub.m3u8\"\n")
	fake.AddFile("/sub.m3u8", playlistType, testutil.GenerateSubtitlePlaylist("missing.vtt"))

	tests := []struct {
		name string
		url  string
	}{
		{"missing master", fake.URL("/gone.m3u8")},
		{"missing caption asset", fake.URL("/master.m3u8")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := c.LocateAndConvert(context.Background(), tt.url)
			if !errors.Is(err, &apperrors.ErrUnexpectedStatus{}) {
				t.Errorf("Expected ErrUnexpectedStatus, got %v", err)
			}
		})
	}
}
