package hls

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Directive prefixes used by the downloader and the subtitle locator
const (
	TagStreamInf = "#EXT-X-STREAM-INF"
	TagKey       = "#EXT-X-KEY"
	TagMedia     = "#EXT-X-MEDIA"
)

// Playlist is a line-oriented HLS manifest. Lines starting with '#' are
// directives, every other non-blank line is a locator.
type Playlist struct {
	URL   *url.URL
	Lines []string
}

// Variant is one entry of a master playlist
type Variant struct {
	Bandwidth int64
	URI       string
}

// ParsePlaylist splits body into trimmed, non-blank lines. rawURL is the
// address the playlist was fetched from and anchors relative locators.
func ParsePlaylist(rawURL, body string) (*Playlist, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid playlist URL %q: %w", rawURL, err)
	}

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return &Playlist{URL: base, Lines: lines}, nil
}

// IsDirective reports whether line is a directive or comment
func IsDirective(line string) bool {
	return strings.HasPrefix(line, "#")
}

// Directives returns every directive line starting with prefix, in order
func (p *Playlist) Directives(prefix string) []string {
	var directives []string
	for _, line := range p.Lines {
		if IsDirective(line) && strings.HasPrefix(line, prefix) {
			directives = append(directives, line)
		}
	}
	return directives
}

// FirstDirective returns the first directive line starting with prefix
func (p *Playlist) FirstDirective(prefix string) (string, bool) {
	for _, line := range p.Lines {
		if IsDirective(line) && strings.HasPrefix(line, prefix) {
			return line, true
		}
	}
	return "", false
}

// Locators returns the non-directive lines, in order
func (p *Playlist) Locators() []string {
	var locators []string
	for _, line := range p.Lines {
		if !IsDirective(line) {
			locators = append(locators, line)
		}
	}
	return locators
}

// FirstLocator returns the first non-directive line
func (p *Playlist) FirstLocator() (string, bool) {
	for _, line := range p.Lines {
		if !IsDirective(line) {
			return line, true
		}
	}
	return "", false
}

// Resolve turns a possibly relative locator into an absolute URL using the
// playlist's own URL as base
func (p *Playlist) Resolve(locator string) (string, error) {
	ref, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("invalid locator %q: %w", locator, err)
	}
	return p.URL.ResolveReference(ref).String(), nil
}

// IsMaster reports whether the playlist lists variant streams
func (p *Playlist) IsMaster() bool {
	_, ok := p.FirstDirective(TagStreamInf)
	return ok
}

// Variants pairs every EXT-X-STREAM-INF directive with the locator that follows it
func (p *Playlist) Variants() []Variant {
	var variants []Variant
	for i := 0; i < len(p.Lines); i++ {
		if !strings.HasPrefix(p.Lines[i], TagStreamInf) {
			continue
		}
		attrs := ParseAttributes(p.Lines[i])
		bandwidth, _ := strconv.ParseInt(attrs["BANDWIDTH"], 10, 64)

		for j := i + 1; j < len(p.Lines); j++ {
			if !IsDirective(p.Lines[j]) {
				variants = append(variants, Variant{Bandwidth: bandwidth, URI: p.Lines[j]})
				i = j
				break
			}
		}
	}
	return variants
}

// BestVariant returns the variant with the highest bandwidth; the first one wins ties
func (p *Playlist) BestVariant() (Variant, bool) {
	variants := p.Variants()
	if len(variants) == 0 {
		return Variant{}, false
	}
	best := variants[0]
	for _, variant := range variants[1:] {
		if variant.Bandwidth > best.Bandwidth {
			best = variant
		}
	}
	return best, true
}

// ParseAttributes reads the KEY=VALUE list after the first ':' of a directive.
// Quoted values keep their commas and lose their quotes.
func ParseAttributes(directive string) map[string]string {
	attrs := make(map[string]string)
	_, list, found := strings.Cut(directive, ":")
	if !found {
		return attrs
	}

	for list != "" {
		key, rest, ok := strings.Cut(list, "=")
		if !ok {
			break
		}
		key = strings.TrimSpace(key)

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := strings.Index(rest[1:], `"`)
			if end < 0 {
				value, list = rest[1:], ""
			} else {
				value, list = rest[1:end+1], rest[end+2:]
			}
			list = strings.TrimPrefix(list, ",")
		} else {
			value, list, _ = strings.Cut(rest, ",")
		}

		if key != "" {
			attrs[key] = value
		}
	}
	return attrs
}
