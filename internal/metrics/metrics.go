package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmrobo_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filmrobo_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Intent resolution
	IntentResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmrobo_intent_resolutions_total",
			Help: "Intent resolutions by source (ai, fallback)",
		},
		[]string{"source"},
	)

	// Recommendation pipeline
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filmrobo_recommendations_total",
			Help: "Recommendation requests by outcome (ok, no_genres, catalog_error)",
		},
		[]string{"outcome"},
	)

	CatalogDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filmrobo_catalog_discover_duration_seconds",
			Help:    "Duration of catalog discovery calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	EnrichmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filmrobo_enrichment_duration_seconds",
			Help:    "Duration of the whole enrichment fan-out",
			Buckets: prometheus.DefBuckets,
		},
	)

	EnrichedWithoutProviders = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filmrobo_enriched_without_providers_total",
			Help: "Movies that ended up with an empty streaming provider list",
		},
	)
)

const (
	OutcomeOK           = "ok"
	OutcomeNoGenres     = "no_genres"
	OutcomeCatalogError = "catalog_error"
)

func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordIntentResolution(source string) {
	IntentResolutions.WithLabelValues(source).Inc()
}

func RecordRecommendation(outcome string) {
	Recommendations.WithLabelValues(outcome).Inc()
}

func RecordCatalogDiscover(duration time.Duration) {
	CatalogDuration.Observe(duration.Seconds())
}

// RecordEnrichment records one fan-out and how many movies got no providers.
func RecordEnrichment(duration time.Duration, withoutProviders int) {
	EnrichmentDuration.Observe(duration.Seconds())
	if withoutProviders > 0 {
		EnrichedWithoutProviders.Add(float64(withoutProviders))
	}
}
