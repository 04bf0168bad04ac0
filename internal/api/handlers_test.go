package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kapu/film-robo-go/internal/domain"
	"github.com/kapu/film-robo-go/pkg/errors"
)

type fakeRecommender struct {
	result  *domain.RecommendationResult
	err     error
	prompts []string
}

func (f *fakeRecommender) Recommend(_ context.Context, prompt string) (*domain.RecommendationResult, error) {
	f.prompts = append(f.prompts, prompt)
	return f.result, f.err
}

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Name() string               { return f.name }
func (f fakeChecker) Ping(context.Context) error { return f.err }

type fakeReporter struct{}

func (fakeReporter) Name() string   { return "classifier" }
func (fakeReporter) Status() string { return "open" }

func newTestRouter(rec Recommender, checkers ...ReadinessChecker) http.Handler {
	return NewRouter(RouterConfig{CORSOrigins: []string{"*"}}, NewHandler(rec, checkers, zap.NewNop()), zap.NewNop())
}

func TestRootHealth(t *testing.T) {
	router := newTestRouter(&fakeRecommender{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Film Robo Backend läuft!") || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRecommendSuccess(t *testing.T) {
	vote := 7.5
	logo := "https://image.tmdb.org/t/p/original/n.png"
	fake := &fakeRecommender{result: &domain.RecommendationResult{
		Message:           "✓ 1 Filme gefunden für Ihre Anfrage!",
		RequestedGenreIDs: []int{35, 10749},
		Movies: []domain.EnrichedMovie{
			domain.NewEnrichedMovie(domain.Candidate{ID: 1000, Title: "Simulierter Film 1", VoteAverage: &vote},
				[]domain.StreamingProvider{{Name: "Netflix", LogoURL: &logo}}),
		},
		UsedAI: true,
	}}
	router := newTestRouter(fake)

	req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"prompt":"lustig"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(fake.prompts) != 1 || fake.prompts[0] != "lustig" {
		t.Fatalf("unexpected prompts %v", fake.prompts)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["used_ai"] != true {
		t.Fatalf("expected used_ai true, got %v", body["used_ai"])
	}
	movies := body["movies"].([]any)
	movie := movies[0].(map[string]any)
	if movie["tmdb_id"] != float64(1000) || movie["title"] != "Simulierter Film 1" {
		t.Fatalf("unexpected movie %v", movie)
	}
	if _, ok := movie["poster_url"]; ok {
		t.Fatalf("absent poster must be omitted, got %v", movie["poster_url"])
	}
	providers := movie["streaming_providers"].([]any)
	if providers[0].(map[string]any)["provider_name"] != "Netflix" {
		t.Fatalf("unexpected providers %v", providers)
	}
}

func TestRecommendEmptyPromptReachesPipeline(t *testing.T) {
	fake := &fakeRecommender{result: &domain.RecommendationResult{
		Message:           "Konnte keine passenden Genres finden.",
		RequestedGenreIDs: []int{},
		Movies:            []domain.EnrichedMovie{},
		UsedAI:            true,
	}}
	router := newTestRouter(fake)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"prompt":""}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"movies":[]`) || !strings.Contains(rec.Body.String(), `"requested_genre_ids":[]`) {
		t.Fatalf("expected empty lists in body, got %s", rec.Body.String())
	}
}

func TestRecommendRejectsBadRequests(t *testing.T) {
	cases := map[string]string{
		"missing prompt": `{}`,
		"null prompt":    `{"prompt":null}`,
		"malformed json": `{"prompt":`,
		"wrong type":     `{"prompt":42}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			fake := &fakeRecommender{}
			router := newTestRouter(fake)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(payload)))

			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rec.Code)
			}
			if len(fake.prompts) != 0 {
				t.Fatal("pipeline must not run for invalid requests")
			}
		})
	}
}

func TestRecommendRejectsOversizedBody(t *testing.T) {
	fake := &fakeRecommender{}
	router := newTestRouter(fake)

	payload := `{"prompt":"` + strings.Repeat("a", maxRequestBody) + `"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(payload)))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if len(fake.prompts) != 0 {
		t.Fatal("pipeline must not run for oversized requests")
	}
}

func TestRecommendCatalogFailure(t *testing.T) {
	cause := errors.NewAPIError("TMDb returned 503", 503, nil)
	fake := &fakeRecommender{err: errors.NewServiceError("Fehler bei der TMDb API-Kommunikation", "tmdb", "discover", cause)}
	router := newTestRouter(fake)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"prompt":"horror"}`)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Detail != "Fehler bei der TMDb API-Kommunikation" {
		t.Fatalf("unexpected detail %q", body.Detail)
	}
	if strings.Contains(rec.Body.String(), "movies") {
		t.Fatal("error response must not carry a partial payload")
	}
}

func TestRecommendUnexpectedError(t *testing.T) {
	router := newTestRouter(&fakeRecommender{err: stderrors.New("boom")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"prompt":"x"}`)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Fatal("internal error text must not leak")
	}
}

func TestReady(t *testing.T) {
	router := newTestRouter(&fakeRecommender{}, fakeChecker{name: "postgres"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	router = NewRouter(RouterConfig{}, NewHandler(&fakeRecommender{},
		[]ReadinessChecker{fakeChecker{name: "postgres", err: stderrors.New("down")}},
		zap.NewNop(), WithStatusReporters(fakeReporter{})), zap.NewNop())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var body readyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Checks["postgres"] != "unavailable" || body.Status != "not_ready" || body.Checks["classifier"] != "open" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(RouterConfig{CORSOrigins: []string{"https://film.example"}}, NewHandler(&fakeRecommender{}, nil, zap.NewNop()), zap.NewNop())

	req := httptest.NewRequest(http.MethodOptions, "/api/recommend", nil)
	req.Header.Set("Origin", "https://film.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://film.example" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestRecommendRateLimit(t *testing.T) {
	fake := &fakeRecommender{result: &domain.RecommendationResult{RequestedGenreIDs: []int{}, Movies: []domain.EnrichedMovie{}}}
	router := NewRouter(RouterConfig{RateLimitRequests: 2, RateLimitWindow: time.Minute}, NewHandler(fake, nil, zap.NewNop()), zap.NewNop())

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/recommend", strings.NewReader(`{"prompt":"x"}`))
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %d", last)
	}
	if len(fake.prompts) != 2 {
		t.Fatalf("expected 2 pipeline runs, got %d", len(fake.prompts))
	}
}
