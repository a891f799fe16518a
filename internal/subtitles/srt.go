package subtitles

import (
	"strings"

	"github.com/Belphemur/NrkDownload/internal/models"
)

// ConvertTiming rewrites a WebVTT timing line for SRT by turning every
// fractional-second '.' into ','
func ConvertTiming(timing string) string {
	return strings.ReplaceAll(timing, ".", ",")
}

// FormatSRT renders cues as SRT. Cue identifiers and text are kept as they
// are; cues are not renumbered. Blocks are separated by one blank line and
// the output has no trailing newline.
func FormatSRT(cues []models.Cue) string {
	blocks := make([]string, 0, len(cues))
	for _, cue := range cues {
		if !cue.IsCue() {
			blocks = append(blocks, strings.Join(cue.Raw, "\n"))
			continue
		}

		lines := make([]string, 0, len(cue.Identifier)+1+len(cue.Text))
		lines = append(lines, cue.Identifier...)
		lines = append(lines, ConvertTiming(cue.Timing))
		lines = append(lines, cue.Text...)
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return strings.Join(blocks, "\n\n")
}

// ConvertWebVTT converts a whole caption asset to SRT text
func ConvertWebVTT(text string) string {
	_, cues := ParseWebVTT(text)
	return FormatSRT(cues)
}
