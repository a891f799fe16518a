package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Belphemur/NrkDownload/internal/apperrors"
	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/models"
)

const (
	// programInfoSelector is the program information section of tv.nrk.no pages
	programInfoSelector = "section#program-info"
	// figureSelector is the fallback: article pages embed the player in a <figure>
	figureSelector = "figure"
)

// programIDAttributes are read in order; the first non-empty value wins
var programIDAttributes = []string{"data-ga-from-id", "data-video-id"}

// ProgramPageParser scrapes a program ID out of an arbitrary NRK web page
type ProgramPageParser struct{}

// NewProgramPageParser creates a new program page parser instance
func NewProgramPageParser() SingleResultParser[models.ProgramID] {
	return &ProgramPageParser{}
}

// ParseHtml looks for the program information section, or the first figure
// when the page has no such section, and reads its program ID attributes.
// The figure is only consulted when the section is absent, not when the
// section lacks the attributes.
func (p *ProgramPageParser) ParseHtml(body io.Reader, contentType string) (models.ProgramID, error) {
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

	element := doc.Find(programInfoSelector).First()
	if element.Length() == 0 {
		logger.Debug().Msg("No program-info section, falling back to first figure")
		element = doc.Find(figureSelector).First()
	}
	if element.Length() == 0 {
		return "", apperrors.NewNotFoundError("program element", nil)
	}

	for _, attribute := range programIDAttributes {
		if value, exists := element.Attr(attribute); exists {
			if value = strings.TrimSpace(value); value != "" {
				logger.Debug().Str("attribute", attribute).Str("programID", value).Msg("Extracted program ID from page")
				return models.ProgramID(value), nil
			}
		}
	}

	return "", apperrors.NewNotFoundError("program ID attribute", nil)
}
