package api

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kapu/film-robo-go/internal/constants"
	"github.com/kapu/film-robo-go/internal/domain"
	"github.com/kapu/film-robo-go/pkg/errors"
)

const maxRequestBody = 64 << 10

// Recommender runs the recommendation pipeline for one prompt.
type Recommender interface {
	Recommend(ctx context.Context, prompt string) (*domain.RecommendationResult, error)
}

// ReadinessChecker is a dependency the service needs before it is ready.
type ReadinessChecker interface {
	Name() string
	Ping(ctx context.Context) error
}

// StatusReporter adds an informational entry to the readiness report. It never
// makes the service unready.
type StatusReporter interface {
	Name() string
	Status() string
}

// RecommendRequest is the POST /api/recommend body. Prompt is a pointer so that a
// missing field is rejected while an empty string still reaches the pipeline.
type RecommendRequest struct {
	Prompt *string `json:"prompt" validate:"required"`
}

type statusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type readyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type Handler struct {
	recommender  Recommender
	checkers     []ReadinessChecker
	reporters    []StatusReporter
	readyTimeout time.Duration
	validate     *validator.Validate
	logger       *zap.Logger
}

type HandlerOption func(*Handler)

func WithStatusReporters(reporters ...StatusReporter) HandlerOption {
	return func(h *Handler) {
		h.reporters = append(h.reporters, reporters...)
	}
}

func NewHandler(recommender Recommender, checkers []ReadinessChecker, logger *zap.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		recommender:  recommender,
		checkers:     checkers,
		readyTimeout: 3 * time.Second,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Root answers GET /api/ with a liveness message.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Message: constants.Messages.HealthOK, Status: "ok"}, h.logger)
}

// Ready pings every registered dependency.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.readyTimeout)
	defer cancel()

	resp := readyResponse{Status: "ready", Checks: make(map[string]string, len(h.checkers)+len(h.reporters))}
	status := http.StatusOK
	for _, c := range h.checkers {
		if err := c.Ping(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("check", c.Name()), zap.Error(err))
			resp.Checks[c.Name()] = "unavailable"
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[c.Name()] = "ok"
	}
	for _, rep := range h.reporters {
		resp.Checks[rep.Name()] = rep.Status()
	}
	writeJSON(w, status, resp, h.logger)
}

// Recommend answers POST /api/recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Anfrage zu groß", h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, "Ungültige Anfrage", h.logger)
		return
	}

	var req RecommendRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Ungültiges JSON", h.logger)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		vErr := errors.NewValidationError("prompt is required", "prompt", nil)
		h.logger.Debug("Request validation failed", zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, vErr.Message, h.logger)
		return
	}

	result, err := h.recommender.Recommend(r.Context(), *req.Prompt)
	if err != nil {
		var svcErr *errors.ServiceError
		if stderrors.As(err, &svcErr) {
			writeError(w, svcErr.StatusCode, svcErr.Message, h.logger)
			return
		}
		h.logger.Error("Recommendation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, constants.Messages.CatalogError, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result, h.logger)
}
