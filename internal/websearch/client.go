// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package websearch

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/sourcecheck/pkg/types"
)

// Client wraps a Backend with the pipeline's failure policy: transport
// and API errors are logged with query, error, and timestamp, then fail
// soft to an empty result list. Callers never see a search error.
type Client struct {
	backend Backend
	logger  *zap.Logger
}

// NewClient builds a fail-soft search client. A nil logger is replaced
// with a no-op logger.
func NewClient(backend Backend, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{backend: backend, logger: logger}
}

// Search runs one query, returning an empty list on any failure.
func (c *Client) Search(ctx context.Context, query string, count int) []types.CandidateResult {
	results, err := c.backend.Search(ctx, query, count)
	if err != nil {
		c.logger.Warn("search failed",
			zap.String("backend", c.backend.Name()),
			zap.String("query", query),
			zap.Error(err),
			zap.Time("at", time.Now()))
		return nil
	}
	return results
}

// taxTerms mark a query as topically adjacent to Canadian tax guidance.
var taxTerms = []string{
	"tax", "taxes", "cra", "rrsp", "tfsa", "resp", "gst", "hst",
	"deduction", "deductions", "credit", "credits", "income",
	"capital gains", "exemption", "filing", "return", "t4", "t1",
	"payroll", "benefit", "benefits", "pension",
}

// jurisdictionTerms indicate the query is already anchored to a
// jurisdiction, so no context terms are needed.
var jurisdictionTerms = []string{
	"canada", "canadian", "cra", "quebec", "ontario", "alberta",
	"british columbia", "revenue agency",
}

// SearchWithContext adds jurisdiction context to the query, but only
// when the raw query is already topically adjacent and not yet
// anchored. Unconditional prefixes and hardcoded domain allow-lists
// degrade recall, so off-topic and pre-anchored queries pass through
// unchanged.
func (c *Client) SearchWithContext(ctx context.Context, query string, count int) []types.CandidateResult {
	return c.Search(ctx, contextualize(query), count)
}

// contextualize appends " Canada" when the query is tax-adjacent and
// carries no jurisdiction of its own.
func contextualize(query string) string {
	lower := strings.ToLower(query)
	if !containsAny(lower, taxTerms) {
		return query
	}
	if containsAny(lower, jurisdictionTerms) {
		return query
	}
	return query + " Canada"
}

func containsAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}
