package resolver

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/Belphemur/NrkDownload/internal/client"
	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/models"
	"github.com/Belphemur/NrkDownload/internal/parser"
)

// Strategy names, used as the "strategy" metric label
const (
	StrategyDirect  = "direct"
	StrategyStar    = "star"
	StrategyMediaID = "media-id"
	StrategyPage    = "page"
)

var (
	// Four uppercase letters and eight digits, delimited by start/end or '/'
	directPattern = regexp.MustCompile(`(?:^|/)([A-Z]{4}\d{8})(?:$|/)`)
	starPattern   = regexp.MustCompile(`(?:^|/)PS\*([\da-f-]+)(?:$|/)`)
	// A bare number or a mediaId query parameter
	mediaIDPattern = regexp.MustCompile(`(?:^|mediaId=)(\d+)(?:$|&)`)
)

// patternStrategy matches a regular expression and returns the captured
// token as the program ID
type patternStrategy struct {
	name    string
	pattern *regexp.Regexp
	prefix  string
}

// NewDirectStrategy matches references embedding an ID like "MSUI28008021"
func NewDirectStrategy() Strategy {
	return &patternStrategy{name: StrategyDirect, pattern: directPattern}
}

// NewStarStrategy matches references embedding an ID like "PS*3f2a-..."
func NewStarStrategy() Strategy {
	return &patternStrategy{name: StrategyStar, pattern: starPattern, prefix: "PS*"}
}

func (s *patternStrategy) Name() string { return s.name }

func (s *patternStrategy) Match(reference string) (string, bool) {
	match := s.pattern.FindStringSubmatch(reference)
	if match == nil {
		return "", false
	}
	return match[1], true
}

func (s *patternStrategy) Extract(_ context.Context, token string) (models.ProgramID, error) {
	return models.ProgramID(s.prefix + token), nil
}

// mediaIDStrategy looks a numeric media ID up on the media lookup endpoint
type mediaIDStrategy struct {
	fetcher   client.Fetcher
	lookupURL string
	parser    parser.SingleResultParser[models.ProgramID]
}

// NewMediaIDStrategy matches numeric media IDs and resolves them through lookupURL
func NewMediaIDStrategy(fetcher client.Fetcher, lookupURL string) Strategy {
	if lookupURL == "" {
		lookupURL = config.DefaultMediaLookupURL
	}
	return &mediaIDStrategy{
		fetcher:   fetcher,
		lookupURL: lookupURL,
		parser:    parser.NewMediaLookupParser(),
	}
}

func (s *mediaIDStrategy) Name() string { return StrategyMediaID }

func (s *mediaIDStrategy) Match(reference string) (string, bool) {
	match := mediaIDPattern.FindStringSubmatch(reference)
	if match == nil {
		return "", false
	}
	return match[1], true
}

func (s *mediaIDStrategy) Extract(ctx context.Context, mediaID string) (models.ProgramID, error) {
	endpoint, err := url.Parse(s.lookupURL)
	if err != nil {
		return "", fmt.Errorf("invalid media lookup URL %q: %w", s.lookupURL, err)
	}
	query := endpoint.Query()
	query.Set("mediaId", mediaID)
	endpoint.RawQuery = query.Encode()

	resp, err := s.fetcher.Fetch(ctx, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("media lookup for %s failed: %w", mediaID, err)
	}

	return s.parser.ParseHtml(bytes.NewReader(resp.Body), resp.ContentType())
}

// pageStrategy fetches the reference itself and scrapes the program ID off the page
type pageStrategy struct {
	fetcher client.Fetcher
	parser  parser.SingleResultParser[models.ProgramID]
}

// NewPageStrategy matches every reference; it belongs at the end of the chain
func NewPageStrategy(fetcher client.Fetcher) Strategy {
	return &pageStrategy{fetcher: fetcher, parser: parser.NewProgramPageParser()}
}

func (s *pageStrategy) Name() string { return StrategyPage }

func (s *pageStrategy) Match(reference string) (string, bool) {
	return reference, reference != ""
}

func (s *pageStrategy) Extract(ctx context.Context, pageURL string) (models.ProgramID, error) {
	resp, err := s.fetcher.Fetch(ctx, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}

	return s.parser.ParseHtml(bytes.NewReader(resp.Body), resp.ContentType())
}
