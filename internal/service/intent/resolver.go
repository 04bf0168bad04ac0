package intent

import (
	"context"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/kapu/film-robo-go/internal/domain"
	"github.com/kapu/film-robo-go/pkg/errors"
)

// AIClassifier is the primary, fallible classifier.
type AIClassifier interface {
	Classify(ctx context.Context, query string) (domain.GenreIDSet, error)
}

// Resolver tries the AI classifier first and falls back to keyword matching on
// any failure. Resolve never fails.
type Resolver struct {
	ai       AIClassifier
	keywords *KeywordClassifier
	logger   *zap.Logger
	observe  func(domain.IntentResolution)
}

type ResolverOption func(*Resolver)

// WithObserver registers a callback invoked with every resolution.
func WithObserver(fn func(domain.IntentResolution)) ResolverOption {
	return func(r *Resolver) {
		r.observe = fn
	}
}

func NewResolver(ai AIClassifier, keywords *KeywordClassifier, logger *zap.Logger, opts ...ResolverOption) *Resolver {
	if keywords == nil {
		keywords = NewKeywordClassifier()
	}
	r := &Resolver{
		ai:       ai,
		keywords: keywords,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Resolve(ctx context.Context, query string) domain.IntentResolution {
	resolution := r.resolve(ctx, query)
	if r.observe != nil {
		r.observe(resolution)
	}
	return resolution
}

func (r *Resolver) resolve(ctx context.Context, query string) domain.IntentResolution {
	var aiErr error
	if r.ai == nil {
		aiErr = errors.NewClassificationError("AI classifier not configured", "none", errors.ReasonMissingCredentials, nil)
	} else {
		ids, err := r.ai.Classify(ctx, query)
		if err == nil {
			return domain.AIResolved(ids)
		}
		aiErr = err
	}

	fields := []zap.Field{zap.Error(aiErr)}
	var classErr *errors.ClassificationError
	if stderrors.As(aiErr, &classErr) {
		fields = append(fields,
			zap.String("provider", classErr.Provider),
			zap.String("reason", classErr.Reason),
		)
	}
	r.logger.Warn("AI classification failed, using keyword fallback", fields...)

	ids := r.keywords.Classify(query)
	r.logger.Info("Keyword fallback classification", zap.Ints("genre_ids", ids.Ints()))

	return domain.FallbackResolved(ids, aiErr)
}
