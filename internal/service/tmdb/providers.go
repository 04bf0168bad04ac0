package tmdb

import (
	"context"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kapu/film-robo-go/internal/constants"
	"github.com/kapu/film-robo-go/internal/domain"
)

var placeholderProviders = []string{
	"Netflix",
	"Amazon Prime Video",
	"Disney Plus",
	"Apple TV Plus",
	"WOW",
	"RTL+",
}

type watchProvidersResponse struct {
	ID      int                          `json:"id"`
	Results map[string]watchProviderInfo `json:"results"`
}

type watchProviderInfo struct {
	Link     string          `json:"link"`
	Flatrate []watchProvider `json:"flatrate"`
}

type watchProvider struct {
	ProviderID   int     `json:"provider_id"`
	ProviderName string  `json:"provider_name"`
	LogoPath     *string `json:"logo_path"`
}

// ProvidersFor returns the subscription streaming providers for a movie in the
// configured region. It never fails: any error yields an empty list.
func (c *Client) ProvidersFor(ctx context.Context, movieID int) []domain.StreamingProvider {
	if c.MockMode() {
		return c.randomProviders()
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.providerTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("api_key", c.apiKey)

	body, err := c.get(reqCtx, "/movie/"+strconv.Itoa(movieID)+"/watch/providers", params)
	if err != nil {
		c.logger.Warn("Streaming provider lookup failed", zap.Int("movie_id", movieID), zap.Error(err))
		return []domain.StreamingProvider{}
	}

	var payload watchProvidersResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		c.logger.Warn("Streaming provider response malformed", zap.Int("movie_id", movieID), zap.Error(err))
		return []domain.StreamingProvider{}
	}

	info, ok := payload.Results[c.region]
	if !ok {
		return []domain.StreamingProvider{}
	}

	providers := make([]domain.StreamingProvider, 0, len(info.Flatrate))
	for _, p := range info.Flatrate {
		providers = append(providers, domain.StreamingProvider{
			Name:    p.ProviderName,
			LogoURL: imageURL(constants.TMDBConfig.LogoBaseURL, p.LogoPath),
		})
	}
	return providers
}

// randomProviders picks one to three distinct placeholder providers.
func (c *Client) randomProviders() []domain.StreamingProvider {
	c.rngMu.Lock()
	n := 1 + c.rng.Intn(3)
	perm := c.rng.Perm(len(placeholderProviders))
	c.rngMu.Unlock()

	providers := make([]domain.StreamingProvider, n)
	for i := 0; i < n; i++ {
		providers[i] = domain.StreamingProvider{Name: placeholderProviders[perm[i]]}
	}
	return providers
}
