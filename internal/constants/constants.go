package constants

import "time"

var AIInputLimits = struct {
	MaxQueryLength int
}{
	MaxQueryLength: 500,
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3, // consecutive failures
	ResetTimeout:        30 * time.Second,
	RateLimitTimeout:    10 * time.Minute, // after a 429
	HealthCheckInterval: 5 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var TMDBConfig = struct {
	BaseURL           string
	PosterBaseURL     string
	LogoBaseURL       string
	Language          string
	Region            string
	SortBy            string
	MaxCandidates     int
	Timeout           time.Duration
	ProviderTimeout   time.Duration
	PlaceholderAPIKey string
}{
	BaseURL:           "https://api.themoviedb.org/3",
	PosterBaseURL:     "https://image.tmdb.org/t/p/w500",
	LogoBaseURL:       "https://image.tmdb.org/t/p/original",
	Language:          "de-DE",
	Region:            "DE",
	SortBy:            "popularity.desc",
	MaxCandidates:     10,
	Timeout:           10 * time.Second,
	ProviderTimeout:   3 * time.Second,
	PlaceholderAPIKey: "PLACEHOLDER",
}

var ClassifierConfig = struct {
	DefaultOpenAIModel string
	DefaultGeminiModel string
	Timeout            time.Duration
	MaxOutputTokens    int
}{
	DefaultOpenAIModel: "gpt-4o-mini",
	DefaultGeminiModel: "gemini-2.5-flash",
	Timeout:            10 * time.Second,
	MaxOutputTokens:    64,
}

var EnrichmentConfig = struct {
	Concurrency int
}{
	Concurrency: 10,
}

var Messages = struct {
	NoGenres     string
	MoviesFound  string
	CatalogError string
	HealthOK     string
}{
	NoGenres:     "Konnte keine passenden Genres finden. Versuchen Sie es mit: lustig, spannend, Kinder, Action oder Fantasy.",
	MoviesFound:  "✓ %d Filme gefunden für Ihre Anfrage!",
	CatalogError: "Fehler bei der TMDb API-Kommunikation",
	HealthOK:     "Film Robo Backend läuft!",
}
