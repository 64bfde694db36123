// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/sourcecheck/pkg/types"
)

func TestBraveBackendSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Subscription-Token"); got != "test-key" {
			t.Errorf("missing subscription token, got %q", got)
		}
		q := r.URL.Query()
		if q.Get("q") != "capital gains exemption" {
			t.Errorf("query = %q", q.Get("q"))
		}
		if q.Get("country") != "CA" {
			t.Errorf("country = %q, want CA", q.Get("country"))
		}
		if q.Get("count") != "5" {
			t.Errorf("count = %q, want 5", q.Get("count"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"web":{"results":[
			{"title":"Guide T4037","url":"https://canada.ca/t4037","description":"Capital gains guide","page_age":"2024-03-01"},
			{"title":"No URL","url":"","description":"dropped"},
			{"title":"Other","url":"https://example.com/x","description":"other"}
		]}}`))
	}))
	defer ts.Close()

	braveAPIBase = ts.URL
	defer func() { braveAPIBase = "https://api.search.brave.com/res/v1/web/search" }()

	backend, err := NewBraveBackend(types.SearchConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewBraveBackend: %v", err)
	}

	results, err := backend.Search(context.Background(), "capital gains exemption", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2 (empty URL dropped)", len(results))
	}
	if results[0].Title != "Guide T4037" || results[0].URL != "https://canada.ca/t4037" {
		t.Errorf("first result = %+v", results[0])
	}
	if results[0].Date != "2024-03-01" {
		t.Errorf("Date = %q", results[0].Date)
	}
}

func TestBraveBackendNon200IsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	braveAPIBase = ts.URL
	defer func() { braveAPIBase = "https://api.search.brave.com/res/v1/web/search" }()

	backend, _ := NewBraveBackend(types.SearchConfig{APIKey: "k"})
	if _, err := backend.Search(context.Background(), "q", 3); err == nil {
		t.Fatal("expected an error for HTTP 422")
	}
}

func TestNewBraveBackendRequiresKey(t *testing.T) {
	if _, err := NewBraveBackend(types.SearchConfig{}); err == nil {
		t.Fatal("expected a configuration error without an API key")
	}
}

// --- Client ---

type fakeBackend struct {
	results []types.CandidateResult
	err     error
	lastQ   string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Search(_ context.Context, query string, _ int) ([]types.CandidateResult, error) {
	f.lastQ = query
	return f.results, f.err
}

func TestClientFailsSoft(t *testing.T) {
	c := NewClient(&fakeBackend{err: errors.New("network down")}, nil)
	got := c.Search(context.Background(), "anything", 5)
	if got != nil {
		t.Errorf("Search = %v, want nil on backend failure", got)
	}
}

func TestClientPassesResultsThrough(t *testing.T) {
	want := []types.CandidateResult{{Title: "A", URL: "https://canada.ca/a"}}
	c := NewClient(&fakeBackend{results: want}, nil)
	got := c.Search(context.Background(), "q", 5)
	if len(got) != 1 || got[0].URL != want[0].URL {
		t.Errorf("Search = %v, want %v", got, want)
	}
}

func TestContextualize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tax-adjacent without jurisdiction", "RRSP contribution deadline", "RRSP contribution deadline Canada"},
		{"already anchored", "CRA filing deadline", "CRA filing deadline"},
		{"explicit jurisdiction", "capital gains tax canada", "capital gains tax canada"},
		{"off-topic passes through", "best hiking trails banff", "best hiking trails banff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contextualize(tt.in); got != tt.want {
				t.Errorf("contextualize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
