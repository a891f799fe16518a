package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Belphemur/NrkDownload/internal/apperrors"
	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/models"
)

// MediaLookupParser reads the program ID out of the media-ID lookup page,
// which embeds its state as JSON inside a <script> element.
type MediaLookupParser struct{}

// NewMediaLookupParser creates a new media lookup parser instance
func NewMediaLookupParser() SingleResultParser[models.ProgramID] {
	return &MediaLookupParser{}
}

// ParseHtml returns activeMedia.psId from the first script whose text is a
// JSON object. A page without such a script or without the field yields
// *apperrors.ErrNotFound.
func (p *MediaLookupParser) ParseHtml(body io.Reader, contentType string) (models.ProgramID, error) {
	logger := config.GetLogger()

	utf8Body, err := NewUTF8Reader(body, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to decode charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse HTML document")
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var payload *models.MediaLookupPayload
	doc.Find("script").EachWithBreak(func(i int, script *goquery.Selection) bool {
		text := strings.TrimSpace(script.Text())
		if !strings.HasPrefix(text, "{") {
			return true
		}

		var candidate models.MediaLookupPayload
		if err := json.Unmarshal([]byte(text), &candidate); err != nil {
			logger.Debug().Int("script", i).Err(err).Msg("Script is not a JSON payload")
			return true
		}
		payload = &candidate
		return false
	})

	if payload == nil {
		return "", apperrors.NewNotFoundError("media lookup payload", nil)
	}

	psID := strings.TrimSpace(payload.ActiveMedia.PsID)
	if psID == "" {
		return "", apperrors.NewNotFoundError("activeMedia.psId", nil)
	}

	logger.Debug().Str("programID", psID).Msg("Extracted program ID from media lookup payload")
	return models.ProgramID(psID), nil
}
