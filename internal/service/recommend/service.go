package recommend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/film-robo-go/internal/constants"
	"github.com/kapu/film-robo-go/internal/domain"
	"github.com/kapu/film-robo-go/internal/metrics"
	"github.com/kapu/film-robo-go/internal/util"
	"github.com/kapu/film-robo-go/pkg/errors"
)

// IntentResolver turns a free-text prompt into genre ids. It never fails.
type IntentResolver interface {
	Resolve(ctx context.Context, query string) domain.IntentResolution
}

// CatalogDiscoverer lists candidate movies for a set of genre ids.
type CatalogDiscoverer interface {
	Discover(ctx context.Context, genreIDs []int) ([]domain.Candidate, error)
}

type Service struct {
	resolver   IntentResolver
	catalog    CatalogDiscoverer
	aggregator *Aggregator
	logger     *zap.Logger
}

func NewService(resolver IntentResolver, catalog CatalogDiscoverer, aggregator *Aggregator, logger *zap.Logger) *Service {
	return &Service{
		resolver:   resolver,
		catalog:    catalog,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Recommend runs resolve, discover and enrich for one prompt. An empty intent is
// an informational result, not an error. Catalog failures abort the request.
func (s *Service) Recommend(ctx context.Context, prompt string) (*domain.RecommendationResult, error) {
	// AI and keyword classification both see the same capped text
	query := util.SanitizeInput(prompt, constants.AIInputLimits.MaxQueryLength)
	s.logger.Info("Recommendation requested", zap.String("prompt", util.TruncateString(query, 120)))

	resolution := s.resolver.Resolve(ctx, query)
	genreIDs := resolution.GenreIDs.Ints()

	s.logger.Info("Intent resolved",
		zap.String("source", resolution.Source.String()),
		zap.Ints("genre_ids", genreIDs),
	)

	if resolution.GenreIDs.IsEmpty() {
		metrics.RecordRecommendation(metrics.OutcomeNoGenres)
		return &domain.RecommendationResult{
			Message:           constants.Messages.NoGenres,
			RequestedGenreIDs: []int{},
			Movies:            []domain.EnrichedMovie{},
			UsedAI:            resolution.UsedAI(),
		}, nil
	}

	start := time.Now()
	candidates, err := s.catalog.Discover(ctx, genreIDs)
	metrics.RecordCatalogDiscover(time.Since(start))
	if err != nil {
		metrics.RecordRecommendation(metrics.OutcomeCatalogError)
		s.logger.Error("Catalog discovery failed", zap.Ints("genre_ids", genreIDs), zap.Error(err))
		return nil, errors.NewServiceError(constants.Messages.CatalogError, "tmdb", "discover", err)
	}

	movies := s.aggregator.EnrichAll(ctx, candidates)

	metrics.RecordRecommendation(metrics.OutcomeOK)
	s.logger.Info("Recommendation completed",
		zap.Int("movies", len(movies)),
		zap.Bool("used_ai", resolution.UsedAI()),
	)

	return &domain.RecommendationResult{
		Message:           fmt.Sprintf(constants.Messages.MoviesFound, len(movies)),
		RequestedGenreIDs: genreIDs,
		Movies:            movies,
		UsedAI:            resolution.UsedAI(),
	}, nil
}
