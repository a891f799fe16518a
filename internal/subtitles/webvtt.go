package subtitles

import (
	"regexp"
	"strings"

	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/models"
)

const (
	webVTTSignature = "WEBVTT"
	timingArrow     = "-->"
)

// A blank line separates blocks, with or without carriage returns
var blockSeparator = regexp.MustCompile(`\r?\n\r?\n`)

// ParseWebVTT splits a caption asset into blocks. The first block is the
// file header and is returned separately; empty blocks are dropped.
//
// Within a block the timing line is the first line containing "-->". Lines
// before it are the cue identifier, lines after it the cue text. Blocks
// without a timing line (NOTE, STYLE, REGION) keep their lines in Raw.
func ParseWebVTT(text string) (header string, cues []models.Cue) {
	text = strings.TrimPrefix(text, "\ufeff")
	blocks := blockSeparator.Split(text, -1)

	header = strings.TrimRight(blocks[0], "\r\n")
	if !strings.HasPrefix(header, webVTTSignature) {
		logger := config.GetLogger()
		logger.Warn().Str("header", firstLine(header)).Msg("Caption asset does not start with a WEBVTT header, dropping first block anyway")
	}

	for _, block := range blocks[1:] {
		lines := splitLines(block)
		if len(lines) == 0 {
			continue
		}
		cues = append(cues, parseBlock(lines))
	}
	return header, cues
}

func parseBlock(lines []string) models.Cue {
	for i, line := range lines {
		if strings.Contains(line, timingArrow) {
			return models.Cue{
				Identifier: lines[:i],
				Timing:     line,
				Text:       lines[i+1:],
			}
		}
	}
	return models.Cue{Raw: lines}
}

// splitLines splits on \n, \r\n or \r and drops trailing empty lines
func splitLines(block string) []string {
	block = strings.TrimRight(block, "\r\n")
	if block == "" {
		return nil
	}
	block = strings.ReplaceAll(block, "\r\n", "\n")
	block = strings.ReplaceAll(block, "\r", "\n")
	return strings.Split(block, "\n")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimRight(line, "\r")
}
