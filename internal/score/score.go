// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score rates extracted content for relevance to the query and
// for source authority. Both raters return 0-100. The model-assisted
// path degrades to deterministic heuristics when the generation call
// fails, so scoring never aborts the pipeline.
package score

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/sourcecheck/internal/llm"
	"github.com/pdiddy/sourcecheck/internal/verify"
)

// NeutralScore is returned when a score cannot be determined either way.
const NeutralScore = 50

// Scorer rates content. Implementations: ModelScorer (generation API)
// and HeuristicScorer (deterministic tables).
type Scorer interface {
	// Relevance rates how well content answers the query.
	Relevance(ctx context.Context, content, query string) int

	// Authority rates the credibility of the source at url for the
	// given content.
	Authority(ctx context.Context, content, url string) int
}

// --- heuristic scorer ---

// Domain tiers for the deterministic authority fallback. Government and
// legal sources outrank professional bodies, which outrank the major
// advisory firms, which outrank everything else.
var (
	governmentDomains = []string{
		"canada.ca", "gc.ca", "canlii.org", ".gov", "ontario.ca",
		"quebec.ca", "alberta.ca", "bclaws.gov.bc.ca",
	}
	professionalDomains = []string{
		"cpacanada.ca", ".edu", "ctf.ca", "lawsociety", "barreau",
	}
	advisoryDomains = []string{
		"kpmg.com", "deloitte.com", "pwc.com", "ey.com", "bdo.ca",
		"grantthornton.ca", "mnp.ca", "taxtips.ca",
	}
)

const (
	tierGovernment   = 90
	tierProfessional = 75
	tierAdvisory     = 60
	tierGeneral      = 40
)

// HeuristicScorer scores without network calls. Relevance has no safe
// deterministic heuristic and stays neutral; authority uses the domain
// tier table.
type HeuristicScorer struct{}

// Relevance returns the neutral score: text similarity alone cannot
// safely judge whether content answers a tax question.
func (HeuristicScorer) Relevance(_ context.Context, _, _ string) int {
	return NeutralScore
}

// Authority returns the tier score for the URL's domain.
func (HeuristicScorer) Authority(_ context.Context, _, url string) int {
	return DomainAuthority(verify.Domain(url))
}

// DomainAuthority maps a host to its authority tier.
func DomainAuthority(domain string) int {
	domain = strings.ToLower(domain)
	if domain == "" {
		return tierGeneral
	}
	for _, d := range governmentDomains {
		if matchesDomain(domain, d) {
			return tierGovernment
		}
	}
	for _, d := range professionalDomains {
		if matchesDomain(domain, d) {
			return tierProfessional
		}
	}
	for _, d := range advisoryDomains {
		if matchesDomain(domain, d) {
			return tierAdvisory
		}
	}
	return tierGeneral
}

// matchesDomain reports whether host is the pattern domain or a
// subdomain of it. Patterns starting with "." match any host under that
// suffix. Substring patterns (no dot prefix, no TLD) match anywhere in
// the host.
func matchesDomain(host, pattern string) bool {
	if strings.HasPrefix(pattern, ".") {
		return strings.HasSuffix(host, pattern)
	}
	if !strings.Contains(pattern, ".") {
		return strings.Contains(host, pattern)
	}
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}

// --- model scorer ---

const (
	relevancePrompt = `Rate from 0 to 100 how well the following content answers the query with specific, actionable information. Vague or generic marketing text scores low; concrete guidance, figures, forms, and procedures score high. Respond with a single integer and nothing else.

Query: %q

Content:
%s`

	authorityPrompt = `Rate from 0 to 100 how credible, professional, and current this source appears for Canadian tax guidance. Consider the domain and the tone of the content. Respond with a single integer and nothing else.

URL: %s

Content:
%s`

	// maxPromptContent bounds how much extracted text goes into a
	// scoring prompt.
	maxPromptContent = 1500
)

// ModelScorer asks the generation API for scores, clamping the numeric
// reply and degrading to HeuristicScorer when the call fails.
type ModelScorer struct {
	completer llm.Completer
	fallback  HeuristicScorer
	logger    *zap.Logger
}

// NewModelScorer builds a ModelScorer. A nil logger is replaced with a
// no-op logger.
func NewModelScorer(completer llm.Completer, logger *zap.Logger) *ModelScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelScorer{completer: completer, logger: logger}
}

// Relevance asks the model whether content answers the query. Call
// failure degrades to the neutral default.
func (s *ModelScorer) Relevance(ctx context.Context, content, query string) int {
	reply, err := s.complete(ctx, fmt.Sprintf(relevancePrompt, query, clip(content)))
	if err != nil {
		s.logger.Warn("relevance scoring failed, using neutral default",
			zap.String("query", query), zap.Error(err))
		return s.fallback.Relevance(ctx, content, query)
	}
	return parseScore(reply)
}

// Authority asks the model to rate source credibility. Call failure
// degrades to the domain tier table.
func (s *ModelScorer) Authority(ctx context.Context, content, url string) int {
	reply, err := s.complete(ctx, fmt.Sprintf(authorityPrompt, url, clip(content)))
	if err != nil {
		s.logger.Warn("authority scoring failed, using domain tiers",
			zap.String("url", url), zap.Error(err))
		return s.fallback.Authority(ctx, content, url)
	}
	return parseScore(reply)
}

func (s *ModelScorer) complete(ctx context.Context, prompt string) (string, error) {
	return s.completer.Complete(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		Temperature: 0,
		MaxTokens:   8,
	})
}

func clip(content string) string {
	if len(content) <= maxPromptContent {
		return content
	}
	cut := maxPromptContent
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}

// scoreRe finds the first integer in a model reply.
var scoreRe = regexp.MustCompile(`\d{1,3}`)

// parseScore extracts and clamps the numeric reply. Unparseable replies
// score neutral.
func parseScore(reply string) int {
	m := scoreRe.FindString(reply)
	if m == "" {
		return NeutralScore
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return NeutralScore
	}
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
