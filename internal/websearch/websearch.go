// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package websearch issues web-search requests and returns raw candidate
// results. No enrichment happens at this layer; verification and scoring
// are downstream.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pdiddy/sourcecheck/internal/httputil"
	"github.com/pdiddy/sourcecheck/pkg/types"
)

// Backend searches a single web-search API.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, count int) ([]types.CandidateResult, error)
}

// braveAPIBase is the search endpoint. Package-level var so tests can
// substitute an httptest server.
var braveAPIBase = "https://api.search.brave.com/res/v1/web/search"

const defaultTimeout = 10 * time.Second

// BraveBackend queries the Brave Search API.
type BraveBackend struct {
	apiKey string
	region string
	client *http.Client
}

// NewBraveBackend builds a backend from search configuration. It returns
// an error when the API key is missing: search credentials are a
// configuration error, surfaced immediately rather than degraded.
func NewBraveBackend(cfg types.SearchConfig) (*BraveBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("search API key is not configured")
	}
	region := cfg.Region
	if region == "" {
		region = "CA"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &BraveBackend{
		apiKey: cfg.APIKey,
		region: region,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Name identifies the backend in logs.
func (b *BraveBackend) Name() string { return "brave" }

// braveResponse mirrors the fields of the API response we consume.
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			PageAge     string `json:"page_age"`
		} `json:"results"`
	} `json:"web"`
}

// Search issues one query and converts results 1:1 into candidate
// records. Non-2xx responses and malformed bodies are errors here; the
// Client wrapper decides how soft to fail.
func (b *BraveBackend) Search(ctx context.Context, query string, count int) ([]types.CandidateResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("country", b.region)
	params.Set("count", strconv.Itoa(count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, braveAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := httputil.DoWithRetry(ctx, b.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned HTTP %d", resp.StatusCode)
	}

	var parsed braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	results := make([]types.CandidateResult, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, types.CandidateResult{
			Title:       r.Title,
			URL:         r.URL,
			Description: r.Description,
			Date:        r.PageAge,
		})
	}
	return results, nil
}
