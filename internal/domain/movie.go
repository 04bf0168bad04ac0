package domain

// Candidate is a catalog title returned by discovery, before enrichment.
type Candidate struct {
	ID          int      `json:"tmdb_id"`
	Title       string   `json:"title"`
	ReleaseDate *string  `json:"release_date,omitempty"`
	Overview    *string  `json:"overview,omitempty"`
	VoteAverage *float64 `json:"vote_average,omitempty"`
	PosterURL   *string  `json:"poster_url,omitempty"`
}

type StreamingProvider struct {
	Name    string  `json:"provider_name"`
	LogoURL *string `json:"logo_url,omitempty"`
}

type EnrichedMovie struct {
	Candidate
	StreamingProviders []StreamingProvider `json:"streaming_providers"`
}

func NewEnrichedMovie(candidate Candidate, providers []StreamingProvider) EnrichedMovie {
	if providers == nil {
		providers = []StreamingProvider{}
	}
	return EnrichedMovie{
		Candidate:          candidate,
		StreamingProviders: providers,
	}
}

// RecommendationResult is the payload returned for one recommendation request.
// UsedAI reports that AI classification was attempted, not that it succeeded.
type RecommendationResult struct {
	Message           string          `json:"message"`
	RequestedGenreIDs []int           `json:"requested_genre_ids"`
	Movies            []EnrichedMovie `json:"movies"`
	UsedAI            bool            `json:"used_ai"`
}
