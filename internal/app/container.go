package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/film-robo-go/internal/api"
	"github.com/kapu/film-robo-go/internal/config"
	"github.com/kapu/film-robo-go/internal/domain"
	"github.com/kapu/film-robo-go/internal/metrics"
	"github.com/kapu/film-robo-go/internal/prompt"
	"github.com/kapu/film-robo-go/internal/service/ai"
	"github.com/kapu/film-robo-go/internal/service/database"
	"github.com/kapu/film-robo-go/internal/service/intent"
	"github.com/kapu/film-robo-go/internal/service/recommend"
	"github.com/kapu/film-robo-go/internal/service/tmdb"
)

// Container bundles the assembled services. Everything in it is built once and
// read-only afterwards.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Recommender  *recommend.Service
	ModelManager *ai.ModelManager
	Catalog      *tmdb.Client

	handler http.Handler
	closers []func()
}

// NewServer returns an HTTP server bound to the configured address.
func (c *Container) NewServer() (*http.Server, error) {
	if c == nil || c.handler == nil {
		return nil, fmt.Errorf("http handler not initialized")
	}
	return &http.Server{
		Addr:              c.Config.Server.Addr,
		Handler:           c.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Handler exposes the routed API, mainly for tests.
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles the pipeline: classifier, resolver, catalog, aggregator and the
// HTTP layer in front of them.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Optional database handle, only pinged for readiness
	var checkers []api.ReadinessChecker
	if cfg.Postgres.Enabled() {
		postgresSvc, err := database.NewPostgresService(ctx, database.PostgresConfig{URL: cfg.Postgres.URL}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", err)
		}
		closers = append(closers, func() {
			_ = postgresSvc.Close()
		})
		checkers = append(checkers, postgresSvc)
	}

	// AI stack
	modelManager, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
		Provider:     cfg.Classifier.Provider,
		OpenAIAPIKey: cfg.OpenAI.APIKey,
		OpenAIModel:  cfg.OpenAI.Model,
		OpenAIBase:   cfg.OpenAI.BaseURL,
		GeminiAPIKey: cfg.Gemini.APIKey,
		GeminiModel:  cfg.Gemini.Model,
		Timeout:      cfg.Classifier.Timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}

	var aiClassifier intent.AIClassifier
	if modelManager.Available() {
		aiClassifier = ai.NewGenreClassifier(modelManager, prompt.NewPromptBuilder(), logger)
	}

	resolver := intent.NewResolver(aiClassifier, intent.NewKeywordClassifier(), logger,
		intent.WithObserver(func(res domain.IntentResolution) {
			metrics.RecordIntentResolution(res.Source.String())
		}),
	)

	// Catalog
	catalog := tmdb.NewClient(tmdb.Config{
		APIKey:          cfg.TMDB.APIKey,
		BaseURL:         cfg.TMDB.BaseURL,
		Language:        cfg.TMDB.Language,
		Region:          cfg.TMDB.Region,
		Timeout:         cfg.TMDB.Timeout,
		ProviderTimeout: cfg.TMDB.ProviderTimeout,
	}, logger)
	if catalog.MockMode() {
		logger.Warn("TMDB_API_KEY not set, serving placeholder movies")
	}

	aggregator := recommend.NewAggregator(catalog, cfg.Enrichment.Concurrency, logger)
	recommender := recommend.NewService(resolver, catalog, aggregator, logger)

	// HTTP
	handler := api.NewRouter(api.RouterConfig{
		CORSOrigins:       cfg.CORS.Origins,
		RateLimitRequests: cfg.RateLimit.Requests,
		RateLimitWindow:   cfg.RateLimit.Window,
	}, api.NewHandler(recommender, checkers, logger, api.WithStatusReporters(modelManager)), logger)

	logger.Info("Application services assembled",
		zap.String("classifier_provider", cfg.Classifier.Provider),
		zap.Bool("ai_enabled", modelManager.Available()),
		zap.Bool("tmdb_mock", catalog.MockMode()),
		zap.Bool("postgres", cfg.Postgres.Enabled()),
		zap.Int("enrichment_concurrency", cfg.Enrichment.Concurrency),
	)

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Recommender:  recommender,
		ModelManager: modelManager,
		Catalog:      catalog,
		handler:      handler,
		closers:      closers,
	}, nil
}
