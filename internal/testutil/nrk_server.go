package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Belphemur/NrkDownload/internal/config"
)

// FakeNRK serves program metadata, media-ID lookups, web pages, manifests
// and segments from memory. Unknown paths answer 404.
type FakeNRK struct {
	Server *httptest.Server

	mu       sync.Mutex
	programs map[string]string
	lookups  map[string]string
	files    map[string]fakeFile
	requests map[string]int
}

type fakeFile struct {
	contentType string
	body        []byte
}

// StreamOptions describes a program stream registered with AddStream
type StreamOptions struct {
	Segments []string // Segment payloads, served as seg0.ts, seg1.ts, ...
	WebVTT   string   // Caption asset; no subtitle track when empty
}

// NewFakeNRK starts a fake NRK backend that is closed with the test
func NewFakeNRK(t testing.TB) *FakeNRK {
	t.Helper()
	f := &FakeNRK{
		programs: make(map[string]string),
		lookups:  make(map[string]string),
		files:    make(map[string]fakeFile),
		requests: make(map[string]int),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeNRK) serveHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[r.URL.Path]++

	switch {
	case strings.HasPrefix(r.URL.Path, "/programs/"):
		body, ok := f.programs[strings.TrimPrefix(r.URL.Path, "/programs/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	case r.URL.Path == "/mimir":
		body, ok := f.lookups[r.URL.Query().Get("mediaId")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	default:
		file, ok := f.files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", file.contentType)
		_, _ = w.Write(file.body)
	}
}

// URL returns the absolute URL of path on the fake server
func (f *FakeNRK) URL(path string) string {
	return f.Server.URL + path
}

// Config returns a configuration pointing every NRK endpoint at the fake server
func (f *FakeNRK) Config() *config.Config {
	cfg := &config.Config{
		ProgramAPIURL:    f.URL("/programs"),
		MediaLookupURL:   f.URL("/mimir"),
		APIClientVersion: config.DefaultAPIClientVersion,
		ClientTimeout:    "5s",
		UserAgent:        config.DefaultUserAgent,
		OutputDir:        ".",
		Subtitles:        true,
	}
	return cfg
}

// AddProgramJSON registers a raw metadata body for a program ID
func (f *FakeNRK) AddProgramJSON(programID, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.programs[programID] = body
}

// AddProgram registers program metadata pointing at mediaURL
func (f *FakeNRK) AddProgram(programID, title, mediaURL string, hasSubtitles bool) {
	body, _ := json.Marshal(map[string]any{
		"fullTitle":    title,
		"mediaUrl":     mediaURL,
		"hasSubtitles": hasSubtitles,
	})
	f.AddProgramJSON(programID, string(body))
}

// AddMediaLookup registers the lookup page of a numeric media ID
func (f *FakeNRK) AddMediaLookup(mediaID, programID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups[mediaID] = GenerateMediaLookupHTML(programID)
}

// AddFile serves body at path with the given content type
func (f *FakeNRK) AddFile(path, contentType, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = fakeFile{contentType: contentType, body: []byte(body)}
}

// AddPage serves an HTML page at path
func (f *FakeNRK) AddPage(path, html string) {
	f.AddFile(path, "text/html; charset=utf-8", html)
}

// AddStream registers a complete program: metadata, master manifest, media
// playlist, segments and optionally a subtitle track. It returns the master
// manifest URL.
func (f *FakeNRK) AddStream(programID, title string, opts StreamOptions) string {
	base := "/media/" + programID
	segmentURIs := make([]string, len(opts.Segments))
	for i, segment := range opts.Segments {
		segmentURIs[i] = fmt.Sprintf("seg%d.ts", i)
		f.AddFile(fmt.Sprintf("%s/video/seg%d.ts", base, i), "video/mp2t", segment)
	}
	f.AddFile(base+"/video/index.m3u8", "application/vnd.apple.mpegurl", GenerateMediaPlaylist(segmentURIs, false))

	subtitleURI := ""
	if opts.WebVTT != "" {
		subtitleURI = "subs/nb.m3u8"
		f.AddFile(base+"/subs/nb.m3u8", "application/vnd.apple.mpegurl", GenerateSubtitlePlaylist("nb.vtt"))
		f.AddFile(base+"/subs/nb.vtt", "text/vtt", opts.WebVTT)
	}

	variants := []VariantOptions{{Bandwidth: 1200000, URI: "video/index.m3u8"}}
	f.AddFile(base+"/master.m3u8", "application/vnd.apple.mpegurl", GenerateMasterManifest(variants, subtitleURI))

	masterURL := f.URL(base + "/master.m3u8")
	f.AddProgram(programID, title, masterURL, opts.WebVTT != "")
	return masterURL
}

// Requests returns how many times path was requested
func (f *FakeNRK) Requests(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}
