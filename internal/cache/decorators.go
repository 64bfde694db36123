// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"

	"github.com/pdiddy/sourcecheck/internal/websearch"
	"github.com/pdiddy/sourcecheck/pkg/types"
)

// SearchBackend wraps a search backend with the cache. Cache writes are
// best-effort: a failed write never fails the search.
type SearchBackend struct {
	inner  websearch.Backend
	store  *Store
	region string
}

// NewSearchBackend decorates inner with cached lookups keyed by query
// and region.
func NewSearchBackend(inner websearch.Backend, store *Store, region string) *SearchBackend {
	return &SearchBackend{inner: inner, store: store, region: region}
}

// Name identifies the decorated backend in logs.
func (b *SearchBackend) Name() string { return b.inner.Name() + "+cache" }

// Search serves fresh cached results when present, otherwise delegates
// and stores the outcome.
func (b *SearchBackend) Search(ctx context.Context, query string, count int) ([]types.CandidateResult, error) {
	if results, ok := b.store.GetSearch(query, b.region); ok {
		return results, nil
	}
	results, err := b.inner.Search(ctx, query, count)
	if err != nil {
		return nil, err
	}
	b.store.PutSearch(query, b.region, results)
	return results, nil
}

// URLVerifier is the verification capability the cache decorates.
type URLVerifier interface {
	Verify(ctx context.Context, url string) types.VerificationOutcome
}

// Verifier wraps a URLVerifier with cached outcomes keyed by URL.
// Only successful outcomes are cached: a transient failure should not
// condemn a URL for the full TTL.
type Verifier struct {
	inner URLVerifier
	store *Store
}

// NewVerifier decorates inner with cached outcome lookups.
func NewVerifier(inner URLVerifier, store *Store) *Verifier {
	return &Verifier{inner: inner, store: store}
}

// Verify serves a fresh cached outcome when present, otherwise
// delegates and stores valid outcomes.
func (v *Verifier) Verify(ctx context.Context, url string) types.VerificationOutcome {
	if outcome, ok := v.store.GetOutcome(url); ok {
		return outcome
	}
	outcome := v.inner.Verify(ctx, url)
	if outcome.IsValid {
		v.store.PutOutcome(url, outcome)
	}
	return outcome
}
