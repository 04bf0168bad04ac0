package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/film-robo-go/internal/constants"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Server     ServerConfig
	CORS       CORSConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	Classifier ClassifierConfig
	TMDB       TMDBConfig
	Enrichment EnrichmentConfig
	Postgres   PostgresConfig
	RateLimit  RateLimitConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type CORSConfig struct {
	Origins []string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type ClassifierConfig struct {
	Provider string
	Timeout  time.Duration
}

type TMDBConfig struct {
	APIKey          string
	BaseURL         string
	Language        string
	Region          string
	Timeout         time.Duration
	ProviderTimeout time.Duration
}

type EnrichmentConfig struct {
	Concurrency int
}

type PostgresConfig struct {
	URL string
}

func (c PostgresConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != ""
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type LoggingConfig struct {
	Level string
	File  string
}

// Load reads the process environment (and an optional .env file) once. The
// returned Config is treated as read-only by every component.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8001"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		CORS: CORSConfig{
			Origins: parseCommaSeparated(getEnv("CORS_ORIGINS", "*")),
		},
		OpenAI: OpenAIConfig{
			APIKey:  firstNonEmpty(os.Getenv("OPENAI_API_KEY"), os.Getenv("EMERGENT_LLM_KEY")),
			Model:   getEnv("OPENAI_MODEL", constants.ClassifierConfig.DefaultOpenAIModel),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", constants.ClassifierConfig.DefaultGeminiModel),
		},
		Classifier: ClassifierConfig{
			Provider: strings.ToLower(getEnv("CLASSIFIER_PROVIDER", ProviderOpenAI)),
			Timeout:  getEnvDuration("CLASSIFIER_TIMEOUT", constants.ClassifierConfig.Timeout),
		},
		TMDB: TMDBConfig{
			APIKey:          getEnv("TMDB_API_KEY", constants.TMDBConfig.PlaceholderAPIKey),
			BaseURL:         getEnv("TMDB_BASE_URL", constants.TMDBConfig.BaseURL),
			Language:        getEnv("TMDB_LANGUAGE", constants.TMDBConfig.Language),
			Region:          strings.ToUpper(getEnv("TMDB_REGION", constants.TMDBConfig.Region)),
			Timeout:         getEnvDuration("TMDB_TIMEOUT", constants.TMDBConfig.Timeout),
			ProviderTimeout: getEnvDuration("TMDB_PROVIDER_TIMEOUT", constants.TMDBConfig.ProviderTimeout),
		},
		Enrichment: EnrichmentConfig{
			Concurrency: getEnvInt("ENRICHMENT_CONCURRENCY", constants.EnrichmentConfig.Concurrency),
		},
		Postgres: PostgresConfig{
			URL: getEnv("POSTGRES_URL", ""),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvInt("RATE_LIMIT_REQUESTS", 60),
			Window:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	switch c.Classifier.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("CLASSIFIER_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, c.Classifier.Provider)
	}
	if c.Classifier.Timeout <= 0 {
		return fmt.Errorf("CLASSIFIER_TIMEOUT must be positive")
	}
	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("TMDB_BASE_URL is required")
	}
	if c.TMDB.Region == "" {
		return fmt.Errorf("TMDB_REGION is required")
	}
	if c.TMDB.Timeout <= 0 || c.TMDB.ProviderTimeout <= 0 {
		return fmt.Errorf("TMDB timeouts must be positive")
	}
	if c.Enrichment.Concurrency <= 0 {
		return fmt.Errorf("ENRICHMENT_CONCURRENCY must be positive")
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("5s") or plain seconds ("5").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
