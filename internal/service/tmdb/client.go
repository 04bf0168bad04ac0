package tmdb

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kapu/film-robo-go/internal/constants"
	"github.com/kapu/film-robo-go/internal/domain"
	"github.com/kapu/film-robo-go/pkg/errors"
)

const placeholderOverview = "Dies ist ein Platzhalter-Film. Fügen Sie einen TMDb API-Schlüssel hinzu für echte Daten."

// Config holds the connection settings for the TMDb API.
type Config struct {
	APIKey          string
	BaseURL         string
	Language        string
	Region          string
	Timeout         time.Duration
	ProviderTimeout time.Duration
}

// Client talks to TMDb for discovery and watch-provider lookups. Without a usable
// API key it serves placeholder data instead.
type Client struct {
	apiKey          string
	baseURL         string
	language        string
	region          string
	timeout         time.Duration
	providerTimeout time.Duration
	httpClient      *http.Client
	logger          *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRand sets the random source used for placeholder streaming providers.
func WithRand(rng *rand.Rand) Option {
	return func(c *Client) {
		if rng != nil {
			c.rng = rng
		}
	}
}

func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = constants.TMDBConfig.BaseURL
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = constants.TMDBConfig.Language
	}
	region := strings.ToUpper(strings.TrimSpace(cfg.Region))
	if region == "" {
		region = constants.TMDBConfig.Region
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.TMDBConfig.Timeout
	}
	providerTimeout := cfg.ProviderTimeout
	if providerTimeout <= 0 {
		providerTimeout = constants.TMDBConfig.ProviderTimeout
	}

	c := &Client{
		apiKey:          strings.TrimSpace(cfg.APIKey),
		baseURL:         baseURL,
		language:        language,
		region:          region,
		timeout:         timeout,
		providerTimeout: providerTimeout,
		httpClient:      &http.Client{},
		logger:          logger,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MockMode reports whether the client serves placeholder data.
func (c *Client) MockMode() bool {
	return c.apiKey == "" || c.apiKey == constants.TMDBConfig.PlaceholderAPIKey
}

type discoverResponse struct {
	Page    int              `json:"page"`
	Results []discoverResult `json:"results"`
}

type discoverResult struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	ReleaseDate *string  `json:"release_date"`
	Overview    *string  `json:"overview"`
	VoteAverage *float64 `json:"vote_average"`
	PosterPath  *string  `json:"poster_path"`
}

// Discover returns up to ten popular movies matching any of the genre ids, in the
// order TMDb ranks them.
func (c *Client) Discover(ctx context.Context, genreIDs []int) ([]domain.Candidate, error) {
	if c.MockMode() {
		c.logger.Warn("TMDb API key missing, serving placeholder movies")
		return placeholderCandidates(), nil
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("with_genres", joinIDs(genreIDs))
	params.Set("sort_by", constants.TMDBConfig.SortBy)
	params.Set("language", c.language)
	params.Set("page", "1")

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.get(reqCtx, "/discover/movie", params)
	if err != nil {
		c.logger.Error("TMDb discover failed", zap.Ints("genre_ids", genreIDs), zap.Error(err))
		return nil, err
	}

	var payload discoverResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Error("TMDb discover response malformed", zap.Error(err))
		return nil, errors.NewAPIError("Malformed TMDb discover response", http.StatusBadGateway, nil).WithCause(err)
	}

	results := payload.Results
	if len(results) > constants.TMDBConfig.MaxCandidates {
		results = results[:constants.TMDBConfig.MaxCandidates]
	}

	candidates := make([]domain.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, domain.Candidate{
			ID:          r.ID,
			Title:       r.Title,
			ReleaseDate: r.ReleaseDate,
			Overview:    r.Overview,
			VoteAverage: r.VoteAverage,
			PosterURL:   imageURL(constants.TMDBConfig.PosterBaseURL, r.PosterPath),
		})
	}

	c.logger.Debug("TMDb discover",
		zap.Ints("genre_ids", genreIDs),
		zap.Int("results", len(payload.Results)),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if params != nil {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.NewAPIError("Failed to build TMDb request", 0, map[string]any{"path": path}).WithCause(err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return nil, errors.NewAPIError("TMDb request failed", 0, map[string]any{
			"path":    path,
			"latency": latency.String(),
		}).WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewAPIError("Failed to read TMDb response", resp.StatusCode, map[string]any{"path": path}).WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewAPIError(fmt.Sprintf("TMDb returned %d", resp.StatusCode), resp.StatusCode, map[string]any{
			"path":    path,
			"latency": latency.String(),
		})
	}
	return body, nil
}

func placeholderCandidates() []domain.Candidate {
	candidates := make([]domain.Candidate, 0, constants.TMDBConfig.MaxCandidates)
	for i := 0; i < constants.TMDBConfig.MaxCandidates; i++ {
		releaseDate := "2024-01-01"
		overview := placeholderOverview
		vote := 7.5 + float64(i)*0.1
		candidates = append(candidates, domain.Candidate{
			ID:          1000 + i,
			Title:       fmt.Sprintf("Simulierter Film %d", i+1),
			ReleaseDate: &releaseDate,
			Overview:    &overview,
			VoteAverage: &vote,
		})
	}
	return candidates
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func imageURL(base string, path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := base + *path
	return &u
}
