package recommend

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/kapu/film-robo-go/internal/constants"
	"github.com/kapu/film-robo-go/internal/domain"
	"github.com/kapu/film-robo-go/internal/metrics"
	"github.com/kapu/film-robo-go/internal/util"
)

// ProviderLookup resolves streaming providers for a movie. Implementations absorb
// their own failures and return an empty list instead.
type ProviderLookup interface {
	ProvidersFor(ctx context.Context, movieID int) []domain.StreamingProvider
}

// Aggregator enriches candidates with streaming providers concurrently.
type Aggregator struct {
	providers   ProviderLookup
	concurrency int
	logger      *zap.Logger
}

func NewAggregator(providers ProviderLookup, concurrency int, logger *zap.Logger) *Aggregator {
	if concurrency <= 0 {
		concurrency = constants.EnrichmentConfig.Concurrency
	}
	return &Aggregator{
		providers:   providers,
		concurrency: concurrency,
		logger:      logger,
	}
}

// EnrichAll returns one enriched movie per candidate, in candidate order.
func (a *Aggregator) EnrichAll(ctx context.Context, candidates []domain.Candidate) []domain.EnrichedMovie {
	results := make([]domain.EnrichedMovie, len(candidates))
	if len(candidates) == 0 {
		return results
	}

	start := time.Now()
	p := pool.New().WithMaxGoroutines(util.Min(a.concurrency, len(candidates)))
	for idx, candidate := range candidates {
		idx, candidate := idx, candidate
		p.Go(func() {
			// each task owns its slot
			results[idx] = domain.NewEnrichedMovie(candidate, a.providers.ProvidersFor(ctx, candidate.ID))
		})
	}
	p.Wait()

	withoutProviders := 0
	for _, movie := range results {
		if len(movie.StreamingProviders) == 0 {
			withoutProviders++
		}
	}
	elapsed := time.Since(start)
	metrics.RecordEnrichment(elapsed, withoutProviders)

	a.logger.Debug("Enrichment completed",
		zap.Int("movies", len(results)),
		zap.Int("without_providers", withoutProviders),
		zap.Duration("elapsed", elapsed),
	)
	return results
}
