package testutil

import (
	"fmt"
	"strings"
)

// SampleWebVTT is a caption asset as served by the NRK subtitle playlists
const SampleWebVTT = "WEBVTT\n\n1\n00:00:01.000 --> 00:00:02.000\nHello\n\n2\n00:00:03.500 --> 00:00:05.250\nHei på deg\nto linjer\n"

// SampleSRT is SampleWebVTT after conversion
const SampleSRT = "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n2\n00:00:03,500 --> 00:00:05,250\nHei på deg\nto linjer"

// VariantOptions describes one EXT-X-STREAM-INF entry of a master manifest
type VariantOptions struct {
	Bandwidth int
	URI       string
}

// GenerateMasterManifest generates a master manifest with the given variants.
// subtitleURI adds an EXT-X-MEDIA subtitle directive when non-empty.
func GenerateMasterManifest(variants []VariantOptions, subtitleURI string) string {
	var sb strings.Builder
	sb.WriteString("#EXTM3U\n#EXT-X-VERSION:3\n")
	if subtitleURI != "" {
		fmt.Fprintf(&sb, "#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID=\"subs\",NAME=\"Norsk\",DEFAULT=YES,AUTOSELECT=YES,LANGUAGE=\"nb\",URI=\"%s\"\n", subtitleURI)
	}
	for _, variant := range variants {
		fmt.Fprintf(&sb, "#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=1280x720,CODECS=\"avc1.4d401f,mp4a.40.2\"", variant.Bandwidth)
		if subtitleURI != "" {
			sb.WriteString(",SUBTITLES=\"subs\"")
		}
		fmt.Fprintf(&sb, "\n%s\n", variant.URI)
	}
	return sb.String()
}

// GenerateMediaPlaylist generates a media playlist listing the given segments
func GenerateMediaPlaylist(segments []string, encrypted bool) string {
	var sb strings.Builder
	sb.WriteString("#EXTM3U\n#EXT-X-VERSION:3\n#EXT-X-TARGETDURATION:10\n#EXT-X-MEDIA-SEQUENCE:0\n")
	if encrypted {
		sb.WriteString("#EXT-X-KEY:METHOD=AES-128,URI=\"https://example.com/key\"\n")
	}
	for _, segment := range segments {
		fmt.Fprintf(&sb, "#EXTINF:10.000,\n%s\n", segment)
	}
	sb.WriteString("#EXT-X-ENDLIST\n")
	return sb.String()
}

// GenerateSubtitlePlaylist generates a subtitle media playlist pointing at one caption asset
func GenerateSubtitlePlaylist(locator string) string {
	return fmt.Sprintf("#EXTM3U\n#EXT-X-TARGETDURATION:3600\n#EXT-X-VERSION:3\n#EXT-X-MEDIA-SEQUENCE:1\n#EXT-X-PLAYLIST-TYPE:VOD\n#EXTINF:3600.0,\n%s\n#EXT-X-ENDLIST\n", locator)
}
