package tmdb_test

import (
	"context"
	stderrors "errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/film-robo-go/internal/service/tmdb"
	"github.com/kapu/film-robo-go/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...tmdb.Option) *tmdb.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return tmdb.NewClient(tmdb.Config{
		APIKey:          "key",
		BaseURL:         server.URL,
		ProviderTimeout: 200 * time.Millisecond,
	}, zap.NewNop(), opts...)
}

func TestDiscoverSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "key" {
			t.Errorf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		if q.Get("with_genres") != "35,10749" {
			t.Errorf("unexpected with_genres %q", q.Get("with_genres"))
		}
		if q.Get("sort_by") != "popularity.desc" || q.Get("language") != "de-DE" || q.Get("page") != "1" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[
			{"id":11,"title":"Eins","release_date":"2020-05-01","overview":"o","vote_average":6.4,"poster_path":"/a.jpg"},
			{"id":12,"title":"Zwei","poster_path":null}
		]}`))
	})

	movies, err := client.Discover(context.Background(), []int{35, 10749})
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies, got %d", len(movies))
	}
	first := movies[0]
	if first.ID != 11 || first.Title != "Eins" {
		t.Fatalf("unexpected first movie %+v", first)
	}
	if first.PosterURL == nil || *first.PosterURL != "https://image.tmdb.org/t/p/w500/a.jpg" {
		t.Fatalf("unexpected poster url %v", first.PosterURL)
	}
	if first.VoteAverage == nil || *first.VoteAverage != 6.4 {
		t.Fatalf("unexpected vote average %v", first.VoteAverage)
	}
	if movies[1].PosterURL != nil || movies[1].ReleaseDate != nil {
		t.Fatalf("expected absent fields to stay nil, got %+v", movies[1])
	}
}

func TestDiscoverCapsAtTen(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString(`{"page":1,"results":[`)
		for i := 0; i < 20; i++ {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(`{"id":`)
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(`,"title":"t"}`)
		}
		b.WriteString(`]}`)
		_, _ = w.Write([]byte(b.String()))
	})

	movies, err := client.Discover(context.Background(), []int{28})
	if err != nil {
		t.Fatalf("Discover returned error: %v", err)
	}
	if len(movies) != 10 {
		t.Fatalf("expected 10 movies, got %d", len(movies))
	}
	if movies[0].ID != 1 || movies[9].ID != 10 {
		t.Fatalf("provider order must be kept, got %d, %d", movies[0].ID, movies[9].ID)
	}
}

func TestDiscoverHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_code":7}`))
	})

	_, err := client.Discover(context.Background(), []int{35})
	var apiErr *errors.APIError
	if !stderrors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
}

func TestDiscoverMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	})

	_, err := client.Discover(context.Background(), []int{35})
	var apiErr *errors.APIError
	if !stderrors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
}

func TestDiscoverPlaceholderMode(t *testing.T) {
	for _, key := range []string{"", "PLACEHOLDER"} {
		client := tmdb.NewClient(tmdb.Config{APIKey: key, BaseURL: "http://127.0.0.1:1"}, zap.NewNop())
		if !client.MockMode() {
			t.Fatalf("%q: expected mock mode", key)
		}

		movies, err := client.Discover(context.Background(), []int{35})
		if err != nil {
			t.Fatalf("Discover returned error: %v", err)
		}
		if len(movies) != 10 {
			t.Fatalf("expected 10 placeholder movies, got %d", len(movies))
		}
		for i, m := range movies {
			if m.ID != 1000+i {
				t.Fatalf("unexpected id %d at %d", m.ID, i)
			}
			if !strings.HasPrefix(m.Title, "Simulierter Film ") {
				t.Fatalf("unexpected title %q", m.Title)
			}
			if m.ReleaseDate == nil || *m.ReleaseDate != "2024-01-01" {
				t.Fatalf("unexpected release date %v", m.ReleaseDate)
			}
		}
		if got := *movies[9].VoteAverage; got < 8.39 || got > 8.41 {
			t.Fatalf("unexpected vote average %v", got)
		}
	}
}

func TestProvidersForRegion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/550/watch/providers" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":550,"results":{
			"US":{"flatrate":[{"provider_id":1,"provider_name":"Hulu","logo_path":"/h.png"}]},
			"DE":{"link":"x","flatrate":[
				{"provider_id":8,"provider_name":"Netflix","logo_path":"/n.png"},
				{"provider_id":337,"provider_name":"Disney Plus"}
			],"buy":[{"provider_id":2,"provider_name":"Apple TV"}]}
		}}`))
	})

	providers := client.ProvidersFor(context.Background(), 550)
	if len(providers) != 2 {
		t.Fatalf("expected 2 providers, got %+v", providers)
	}
	if providers[0].Name != "Netflix" || providers[1].Name != "Disney Plus" {
		t.Fatalf("unexpected providers %+v", providers)
	}
	if providers[0].LogoURL == nil || *providers[0].LogoURL != "https://image.tmdb.org/t/p/original/n.png" {
		t.Fatalf("unexpected logo %v", providers[0].LogoURL)
	}
	if providers[1].LogoURL != nil {
		t.Fatalf("expected missing logo to stay nil")
	}
}

func TestProvidersForMissingRegion(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"results":{"US":{"flatrate":[{"provider_name":"Hulu"}]}}}`))
	})

	providers := client.ProvidersFor(context.Background(), 1)
	if providers == nil || len(providers) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", providers)
	}
}

func TestProvidersForFailuresYieldEmptyList(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusInternalServerError)
		case 2:
			_, _ = w.Write([]byte(`not json`))
		default:
			time.Sleep(time.Second)
		}
	})

	for i := 0; i < 3; i++ {
		providers := client.ProvidersFor(context.Background(), 7)
		if providers == nil || len(providers) != 0 {
			t.Fatalf("call %d: expected empty list, got %#v", i, providers)
		}
	}
}

func TestProvidersForPlaceholderMode(t *testing.T) {
	client := tmdb.NewClient(tmdb.Config{APIKey: "PLACEHOLDER"}, zap.NewNop(), tmdb.WithRand(rand.New(rand.NewSource(42))))
	known := map[string]bool{
		"Netflix": true, "Amazon Prime Video": true, "Disney Plus": true,
		"Apple TV Plus": true, "WOW": true, "RTL+": true,
	}

	for i := 0; i < 50; i++ {
		providers := client.ProvidersFor(context.Background(), 1000+i)
		if len(providers) < 1 || len(providers) > 3 {
			t.Fatalf("expected 1-3 providers, got %d", len(providers))
		}
		seen := map[string]bool{}
		for _, p := range providers {
			if !known[p.Name] {
				t.Fatalf("unexpected provider %q", p.Name)
			}
			if seen[p.Name] {
				t.Fatalf("duplicate provider %q", p.Name)
			}
			seen[p.Name] = true
		}
	}
}

func TestProvidersForPlaceholderDeterministicWithSeed(t *testing.T) {
	a := tmdb.NewClient(tmdb.Config{}, zap.NewNop(), tmdb.WithRand(rand.New(rand.NewSource(7))))
	b := tmdb.NewClient(tmdb.Config{}, zap.NewNop(), tmdb.WithRand(rand.New(rand.NewSource(7))))

	for i := 0; i < 5; i++ {
		pa := a.ProvidersFor(context.Background(), i)
		pb := b.ProvidersFor(context.Background(), i)
		if len(pa) != len(pb) {
			t.Fatalf("seeded sources diverged: %v vs %v", pa, pb)
		}
		for j := range pa {
			if pa[j].Name != pb[j].Name {
				t.Fatalf("seeded sources diverged: %v vs %v", pa, pb)
			}
		}
	}
}
