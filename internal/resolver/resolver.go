package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/Belphemur/NrkDownload/internal/apperrors"
	"github.com/Belphemur/NrkDownload/internal/client"
	"github.com/Belphemur/NrkDownload/internal/config"
	"github.com/Belphemur/NrkDownload/internal/metrics"
	"github.com/Belphemur/NrkDownload/internal/models"
)

// Resolver turns an arbitrary reference (page URL, path with an embedded
// identifier, numeric media ID) into a program ID
type Resolver interface {
	Resolve(ctx context.Context, reference string) (models.ProgramID, error)
}

// Strategy is one step of the resolution chain.
//
// Match is a pure string check returning the token Extract works on.
// Extract may hit the network; its result is final for the reference.
type Strategy interface {
	Name() string
	Match(reference string) (token string, ok bool)
	Extract(ctx context.Context, token string) (models.ProgramID, error)
}

// ChainResolver runs its strategies in order and stops at the first one whose
// Match succeeds. A failed extraction does not fall through to later strategies.
type ChainResolver struct {
	strategies []Strategy
}

// NewChainResolver creates a resolver running the given strategies in order
func NewChainResolver(strategies ...Strategy) *ChainResolver {
	return &ChainResolver{strategies: strategies}
}

// NewResolver creates the standard chain: direct ID, PS* ID, media ID lookup
// and finally the page scrape
func NewResolver(c *client.Client, cfg *config.Config) *ChainResolver {
	return NewChainResolver(
		NewDirectStrategy(),
		NewStarStrategy(),
		NewMediaIDStrategy(c.LookupFetcher, cfg.MediaLookupURL),
		NewPageStrategy(c.Fetcher),
	)
}

// Resolve returns the program ID for reference. Any failure is reported as
// *apperrors.ErrUnresolvableReference, wrapping the extraction error if any.
func (r *ChainResolver) Resolve(ctx context.Context, reference string) (models.ProgramID, error) {
	logger := config.GetLogger().With().Str("reference", reference).Logger()
	reference = strings.TrimSpace(reference)

	for _, strategy := range r.strategies {
		token, ok := strategy.Match(reference)
		if !ok {
			continue
		}

		logger.Debug().Str("strategy", strategy.Name()).Str("token", token).Msg("Reference matched")
		id, err := strategy.Extract(ctx, token)
		if err == nil && id == "" {
			err = apperrors.NewNotFoundError("program ID", nil)
		}
		if err != nil {
			metrics.ResolutionFailuresTotal.Inc()
			logger.Warn().Err(err).Str("strategy", strategy.Name()).Msg("Could not extract program ID")
			return "", fmt.Errorf("%w: %w", &apperrors.ErrUnresolvableReference{Reference: reference}, err)
		}

		metrics.ResolutionsTotal.WithLabelValues(strategy.Name()).Inc()
		logger.Info().Str("strategy", strategy.Name()).Str("programID", id.String()).Msg("Resolved reference")
		return id, nil
	}

	metrics.ResolutionFailuresTotal.Inc()
	return "", &apperrors.ErrUnresolvableReference{Reference: reference}
}
