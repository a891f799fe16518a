package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Belphemur/NrkDownload/internal/apperrors"
	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/models"
)

// apiVersionHeader marks requests as coming from an up-to-date API client
const apiVersionHeader = "app-version-android"

// ProgramClient reads program metadata from the TV API
type ProgramClient interface {
	GetProgram(ctx context.Context, programID models.ProgramID) (*models.MediaDescriptor, error)
}

type programClient struct {
	fetcher       Fetcher
	baseURL       string
	clientVersion string
}

// NewProgramClient creates a ProgramClient for {baseURL}/{programID}
func NewProgramClient(fetcher Fetcher, baseURL, clientVersion string) ProgramClient {
	if baseURL == "" {
		baseURL = config.DefaultProgramAPIURL
	}
	if clientVersion == "" {
		clientVersion = config.DefaultAPIClientVersion
	}
	return &programClient{
		fetcher:       fetcher,
		baseURL:       strings.TrimRight(baseURL, "/"),
		clientVersion: clientVersion,
	}
}

// GetProgram fetches and validates the metadata of a program.
// An empty response or a 404 yields *apperrors.ErrNotFound; metadata without
// a media URL yields *apperrors.ErrMediaUnavailable.
func (c *programClient) GetProgram(ctx context.Context, programID models.ProgramID) (*models.MediaDescriptor, error) {
	logger := config.GetLogger()
	endpoint := c.baseURL + "/" + programID.String()

	logger.Info().Str("programID", programID.String()).Msg("Fetching program metadata")

	headers := http.Header{}
	headers.Set(apiVersionHeader, c.clientVersion)

	resp, err := c.fetcher.Fetch(ctx, endpoint, headers)
	if err != nil {
		var statusErr *apperrors.ErrUnexpectedStatus
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, apperrors.NewProgramNotFoundError(programID.String())
		}
		return nil, fmt.Errorf("failed to fetch program metadata: %w", err)
	}

	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, apperrors.NewProgramNotFoundError(programID.String())
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode program metadata: %w", err)
	}
	if len(fields) == 0 {
		return nil, apperrors.NewProgramNotFoundError(programID.String())
	}

	var program models.ProgramResponse
	if err := json.Unmarshal(body, &program); err != nil {
		return nil, fmt.Errorf("failed to decode program metadata: %w", err)
	}
	if program.MediaURL == "" {
		return nil, &apperrors.ErrMediaUnavailable{ProgramID: programID.String()}
	}

	descriptor := convertProgram(programID, program)
	logger.Info().
		Str("programID", programID.String()).
		Str("title", descriptor.Title).
		Bool("hasSubtitles", descriptor.HasSubtitles).
		Msg("Found program")

	return descriptor, nil
}

// convertProgram normalizes the raw API response. The title falls back from
// fullTitle to title to the program ID itself.
func convertProgram(programID models.ProgramID, program models.ProgramResponse) *models.MediaDescriptor {
	title := strings.TrimSpace(program.FullTitle)
	if title == "" {
		title = strings.TrimSpace(program.Title)
	}
	if title == "" {
		title = programID.String()
	}

	return &models.MediaDescriptor{
		ProgramID:    programID,
		Title:        title,
		MediaURL:     program.MediaURL,
		HasSubtitles: program.HasSubtitles,
	}
}
