package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	CORSOrigins []string
	// RateLimitRequests per RateLimitWindow per client IP on /api/recommend.
	// Zero disables the limiter.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter mounts the public API under /api and metrics at /metrics.
func NewRouter(cfg RouterConfig, handler *Handler, logger *zap.Logger) http.Handler {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", handler.Root)
		r.Get("/health/ready", handler.Ready)

		recommend := r.With()
		if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow > 0 {
			recommend = r.With(httprate.LimitByIP(cfg.RateLimitRequests, cfg.RateLimitWindow))
		}
		recommend.Post("/recommend", handler.Recommend)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
