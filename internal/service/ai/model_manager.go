package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"github.com/kapu/film-robo-go/internal/constants"
	"github.com/kapu/film-robo-go/internal/util"
	"github.com/kapu/film-robo-go/pkg/errors"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var (
	statusCodePattern = regexp.MustCompile(`\b([45]\d{2})\b`)
	geminiCodePattern = regexp.MustCompile(`"code":\s*(\d{3})`)
)

// ModelManager owns the configured completion provider and guards it with a
// circuit breaker. It never retries: one call, one attempt.
type ModelManager struct {
	provider       TextProvider
	providerName   string
	timeout        time.Duration
	logger         *zap.Logger
	circuitBreaker *util.CircuitBreaker
}

type ModelManagerConfig struct {
	Provider     string
	OpenAIAPIKey string
	OpenAIModel  string
	OpenAIBase   string
	GeminiAPIKey string
	GeminiModel  string
	Timeout      time.Duration
}

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	var provider TextProvider

	switch cfg.Provider {
	case ProviderGemini:
		model := cfg.GeminiModel
		if model == "" {
			model = constants.ClassifierConfig.DefaultGeminiModel
		}
		gemini, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, model, logger)
		if err != nil {
			return nil, err
		}
		if gemini != nil {
			provider = gemini
		}
	case ProviderOpenAI, "":
		model := cfg.OpenAIModel
		if model == "" {
			model = constants.ClassifierConfig.DefaultOpenAIModel
		}
		if openaiProvider := NewOpenAIProvider(cfg.OpenAIAPIKey, model, cfg.OpenAIBase, logger); openaiProvider != nil {
			provider = openaiProvider
		}
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}

	if provider == nil {
		logger.Warn("AI classification disabled (no API key), keyword matching will be used",
			zap.String("provider", cfg.Provider),
		)
	} else {
		logger.Info("AI classification enabled",
			zap.String("provider", provider.Name()),
			zap.String("model", provider.Model()),
		)
	}

	return NewModelManagerWithProvider(provider, cfg.Provider, cfg.Timeout, logger), nil
}

// NewModelManagerWithProvider wires an already constructed provider. A nil
// provider yields a manager whose calls fail with missing credentials.
func NewModelManagerWithProvider(provider TextProvider, providerName string, timeout time.Duration, logger *zap.Logger) *ModelManager {
	if timeout <= 0 {
		timeout = constants.ClassifierConfig.Timeout
	}
	if provider != nil {
		providerName = provider.Name()
	}

	mm := &ModelManager{
		provider:     provider,
		providerName: providerName,
		timeout:      timeout,
		logger:       logger,
	}
	mm.circuitBreaker = util.NewCircuitBreaker(
		"ai-classifier",
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		mm.healthCheckPing,
		logger,
	)
	return mm
}

func (mm *ModelManager) Available() bool {
	return mm != nil && mm.provider != nil
}

// Generate runs one completion. Every failure is returned as *errors.ClassificationError.
func (mm *ModelManager) Generate(ctx context.Context, req TextRequest) (*GenerateResult, error) {
	if !mm.Available() {
		return nil, errors.NewClassificationError("AI provider not configured", mm.providerName, errors.ReasonMissingCredentials, nil)
	}

	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.Status()
		nextRetry := "unknown"
		if status.NextRetryTime != nil {
			nextRetry = util.FormatBerlin(*status.NextRetryTime, "15:04:05")
		}
		mm.logger.Warn("AI service unavailable (Circuit OPEN)",
			zap.Int("failure_count", status.FailureCount),
			zap.String("next_retry", nextRetry),
		)
		return nil, errors.NewClassificationError("AI service temporarily unavailable", mm.provider.Name(), errors.ReasonCircuitOpen, nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, mm.timeout)
	defer cancel()

	text, err := mm.provider.Generate(callCtx, req)
	if err != nil {
		mm.recordFailure(err)
		reason := errors.ReasonProvider
		if isTimeout(err) {
			reason = errors.ReasonTimeout
		}
		return nil, errors.NewClassificationError("AI generation failed", mm.provider.Name(), reason, err)
	}

	mm.circuitBreaker.RecordSuccess()
	return &GenerateResult{
		Text: strings.TrimSpace(text),
		Metadata: GenerateMetadata{
			Provider: mm.provider.Name(),
			Model:    mm.provider.Model(),
		},
	}, nil
}

func (mm *ModelManager) recordFailure(err error) {
	if !isServiceFailure(err) {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if statusCode(err) == 429 {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}
	mm.circuitBreaker.RecordFailure(timeout)
}

func (mm *ModelManager) healthCheckPing() bool {
	if mm.provider == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	healthy := mm.provider.Ping(ctx)
	mm.logger.Info("Health Check: Result",
		zap.String("provider", mm.provider.Name()),
		zap.Bool("healthy", healthy),
	)
	return healthy
}

func (mm *ModelManager) CircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.Status()
}

// Name and Status let the readiness endpoint report the classifier without
// gating on it; keyword matching covers any outage.
func (mm *ModelManager) Name() string {
	return "classifier"
}

func (mm *ModelManager) Status() string {
	if !mm.Available() {
		return "disabled"
	}
	return strings.ToLower(mm.CircuitStatus().State.String())
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded")
}

// isServiceFailure reports failures that say something about provider health
// (timeouts, rate limits, 5xx) as opposed to bad requests.
func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}
	if isTimeout(err) {
		return true
	}
	code := statusCode(err)
	return code == 429 || (code >= 500 && code < 600)
}

func statusCode(err error) int {
	var apiErr *openai.Error
	if stderrors.As(err, &apiErr) {
		return apiErr.StatusCode
	}

	msg := err.Error()
	if matches := geminiCodePattern.FindStringSubmatch(msg); len(matches) > 1 {
		if code, convErr := strconv.Atoi(matches[1]); convErr == nil {
			return code
		}
	}
	if matches := statusCodePattern.FindStringSubmatch(msg); len(matches) > 1 {
		if code, convErr := strconv.Atoi(matches[1]); convErr == nil {
			return code
		}
	}
	return 0
}
