// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citecheck audits generated answer text against the verified
// source list used to produce it. Every inline [Title](URL) citation is
// extracted, its URL matched against the available sources, and the
// text checked for uncited factual claims. The result is a structured
// compliance report, never an error: the caller decides whether to
// warn, regenerate, or deliver with a disclaimer.
package citecheck

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/sourcecheck/internal/verify"
	"github.com/pdiddy/sourcecheck/pkg/types"
)

// citationRe matches inline [Title](URL) citations. Title and URL
// lengths are capped so adversarial input cannot force pathological
// scans.
var citationRe = regexp.MustCompile(`\[([^\[\]]{1,200})\]\((https?://[^\s()]{1,500})\)`)

// paragraphRe splits answer text on blank lines.
var paragraphRe = regexp.MustCompile(`\n\s*\n`)

// factualPhrases signal a factual claim that needs a citation.
var factualPhrases = []string{
	"according to",
	"shows that",
	"states that",
	"indicates that",
	"requires",
	"must be",
	"is required",
	"deadline",
	"eligible",
	"exemption",
	"deduction",
	"tax rate",
	"tax credit",
	"cra",
	"canada revenue agency",
	"income tax act",
}

// DefaultMinCitations is the minimum inline citation count expected of
// an answer when more than one source was available.
const DefaultMinCitations = 2

// Extract scans text for inline [Title](URL) citations. Matching is
// non-overlapping and left-to-right; matches carry their character
// spans.
func Extract(text string) []types.CitationMatch {
	var matches []types.CitationMatch
	for _, m := range citationRe.FindAllStringSubmatchIndex(text, -1) {
		matches = append(matches, types.CitationMatch{
			Text:       text[m[0]:m[1]],
			Title:      text[m[2]:m[3]],
			URL:        text[m[4]:m[5]],
			StartIndex: m[0],
			EndIndex:   m[1],
		})
	}
	return matches
}

// Validate checks the answer text against the available sources and
// reports compliance. minCitations <= 0 applies DefaultMinCitations.
func Validate(text string, sources []types.Source, minCitations int) types.CitationValidationResult {
	if minCitations <= 0 {
		minCitations = DefaultMinCitations
	}

	citations := Extract(text)
	result := types.CitationValidationResult{
		CitationCount:      len(citations),
		SourceCount:        len(sources),
		ExtractedCitations: citations,
	}

	// Minimum citation count, relative to what was available.
	if len(sources) > 1 && len(citations) < minCitations {
		result.Issues = append(result.Issues, fmt.Sprintf(
			"insufficient citations: %d found, at least %d expected with %d sources available",
			len(citations), minCitations, len(sources)))
	}

	// Factual language with no citations at all.
	if len(citations) == 0 && containsFactualLanguage(text) {
		result.Issues = append(result.Issues,
			"text makes factual claims but contains no citations")
	}

	// URL fidelity: every cited URL must match an available source.
	available := make(map[string]bool, len(sources))
	for _, s := range sources {
		available[verify.NormalizeForComparison(s.URI)] = true
	}
	cited := make(map[string]bool, len(citations))
	for _, c := range citations {
		key := verify.NormalizeForComparison(c.URL)
		cited[key] = true
		if available[key] {
			continue
		}
		issue := fmt.Sprintf("citation %q references a source that was not provided: %s", c.Title, c.URL)
		if nearest, score := nearestSource(c.URL, sources); nearest != "" {
			issue += fmt.Sprintf(" (closest available: %s, similarity %.2f)", nearest, score)
		}
		result.Issues = append(result.Issues, issue)
	}

	// Paragraph coverage: factual paragraphs need a citation somewhere.
	if hasUncoveredFactualParagraph(text) {
		result.Issues = append(result.Issues,
			"factual paragraphs present but no paragraph contains a citation")
	}

	// Sources that were offered but never used.
	for _, s := range sources {
		if !cited[verify.NormalizeForComparison(s.URI)] {
			result.MissingSourcesCount++
		}
	}

	result.IsValid = len(result.Issues) == 0
	return result
}

// containsFactualLanguage applies the phrase heuristic.
func containsFactualLanguage(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range factualPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// hasUncoveredFactualParagraph reports whether any paragraph contains
// factual language while no paragraph anywhere contains a citation.
func hasUncoveredFactualParagraph(text string) bool {
	paragraphs := paragraphRe.Split(text, -1)
	anyFactual := false
	for _, p := range paragraphs {
		if citationRe.MatchString(p) {
			return false
		}
		if containsFactualLanguage(p) {
			anyFactual = true
		}
	}
	return anyFactual
}

// nearestSource finds the available source most similar to a cited URL.
// Diagnostic only: it helps spot citations where the model altered a
// real URL, it guarantees nothing.
func nearestSource(citedURL string, sources []types.Source) (string, float64) {
	cited := verify.NormalizeForComparison(citedURL)
	best := ""
	bestScore := 0.0
	for _, s := range sources {
		score := urlSimilarity(cited, verify.NormalizeForComparison(s.URI))
		if score > bestScore {
			bestScore = score
			best = s.URI
		}
	}
	return best, bestScore
}

// urlSimilarity blends character-position equality over the shared
// prefix length (70%) with length similarity (30%).
func urlSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	shorter, longer := len(a), len(b)
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	equal := 0
	for i := 0; i < shorter; i++ {
		if a[i] == b[i] {
			equal++
		}
	}
	positional := float64(equal) / float64(shorter)
	lengthSim := float64(shorter) / float64(longer)
	return 0.7*positional + 0.3*lengthSim
}
