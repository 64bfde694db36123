// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package planner expands a user question into targeted search queries.
// The model-assisted path aims queries at specific documents, forms,
// and guides rather than homepages; every failure mode degrades to a
// deterministic fallback, so planning never aborts the pipeline.
package planner

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/sourcecheck/internal/llm"
)

const (
	// maxPlannedQueries caps the model-planned query list.
	maxPlannedQueries = 3

	// maxFallbackQueries caps the deterministic templated list.
	maxFallbackQueries = 4
)

const planPrompt = `Generate %d web search queries to find specific documents, forms, or guides that answer this question. Queries should target concrete pages, not homepages or portals. One query per line, no numbering, no commentary.

Question: %s`

// Planner produces ordered search queries, most targeted first.
type Planner struct {
	completer llm.Completer
	logger    *zap.Logger
}

// New builds a Planner. completer may be nil, in which case only the
// deterministic fallback is used. A nil logger is replaced with a no-op
// logger.
func New(completer llm.Completer, logger *zap.Logger) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{completer: completer, logger: logger}
}

// Plan returns 1-4 search queries for the question. The model path is
// tried first; unusable output or a failed call falls back to the
// templated queries.
func (p *Planner) Plan(ctx context.Context, query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	if p.completer != nil {
		if planned := p.planWithModel(ctx, query); len(planned) > 0 {
			return planned
		}
	}
	return FallbackQueries(query)
}

func (p *Planner) planWithModel(ctx context.Context, query string) []string {
	reply, err := p.completer.Complete(ctx, llm.CompletionRequest{
		Prompt:      fmt.Sprintf(planPrompt, maxPlannedQueries, query),
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		p.logger.Warn("query planning failed, using templated fallback",
			zap.String("query", query), zap.Error(err))
		return nil
	}
	planned := ParseQueryList(reply)
	if len(planned) == 0 {
		p.logger.Warn("query planning returned unusable output",
			zap.String("query", query))
	}
	return planned
}

// enumerationRe strips leading list markers: "1.", "2)", "-", "*", "•".
var enumerationRe = regexp.MustCompile(`^\s*(?:\d+[.)]\s*|[-*•]\s*)`)

// ParseQueryList splits model output into queries: one per line,
// enumeration markers stripped, blanks dropped, capped at three.
func ParseQueryList(reply string) []string {
	var queries []string
	for _, line := range strings.Split(reply, "\n") {
		line = enumerationRe.ReplaceAllString(line, "")
		line = strings.Trim(line, `"' `)
		if line == "" {
			continue
		}
		queries = append(queries, line)
		if len(queries) == maxPlannedQueries {
			break
		}
	}
	return queries
}

// fallbackQualifiers are appended to the raw query to steer results
// toward concrete documents.
var fallbackQualifiers = []string{
	"specific guide document",
	"detailed explanation instructions",
	"form requirements process",
}

// FallbackQueries builds deterministic templated queries from the raw
// query. The raw query itself is included last as a catch-all.
func FallbackQueries(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	queries := make([]string, 0, maxFallbackQueries)
	for _, q := range fallbackQualifiers {
		queries = append(queries, query+" "+q)
	}
	queries = append(queries, query)
	return queries
}

// stopWords are dropped when simplifying an under-delivering query.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true,
	"was": true, "were": true, "do": true, "does": true, "did": true,
	"can": true, "could": true, "should": true, "would": true,
	"i": true, "my": true, "me": true, "we": true, "our": true,
	"you": true, "your": true, "how": true, "what": true, "when": true,
	"where": true, "why": true, "which": true, "who": true,
	"to": true, "of": true, "in": true, "on": true, "for": true,
	"with": true, "about": true, "and": true, "or": true, "if": true,
	"it": true, "this": true, "that": true, "there": true, "be": true,
	"have": true, "has": true, "get": true, "need": true, "want": true,
}

// simplifyKeepWords is how many content words Simplify retains.
const simplifyKeepWords = 4

// Simplify strips stop-words and keeps the first few content words.
// Used to retry with a broader query when the planned queries
// under-deliver. Returns "" when nothing survives.
func Simplify(query string) string {
	var kept []string
	for _, word := range strings.Fields(query) {
		cleaned := strings.Trim(strings.ToLower(word), `?!.,;:"'`)
		if cleaned == "" || stopWords[cleaned] {
			continue
		}
		kept = append(kept, cleaned)
		if len(kept) == simplifyKeepWords {
			break
		}
	}
	return strings.Join(kept, " ")
}

// genericFallbacks are jurisdiction-anchored queries used only when
// every prior attempt returned zero results.
var genericFallbacks = []string{
	"Canada Revenue Agency tax guide",
	"CRA tax forms information",
	"Canada income tax rules",
}

// GenericFallbacks returns broad domain-anchored queries, optionally
// seeded with the simplified form of the original query.
func GenericFallbacks(query string) []string {
	queries := make([]string, 0, len(genericFallbacks)+1)
	if simplified := Simplify(query); simplified != "" {
		queries = append(queries, simplified+" Canada")
	}
	queries = append(queries, genericFallbacks...)
	return queries
}
