// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates source finding: query planning, search,
// per-candidate verification fan-out, scoring, and ranked aggregation.
// A failure in any one candidate isolates to that candidate; the
// aggregator proceeds with whatever succeeded.
package pipeline

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/sourcecheck/internal/citecheck"
	"github.com/pdiddy/sourcecheck/internal/planner"
	"github.com/pdiddy/sourcecheck/internal/score"
	"github.com/pdiddy/sourcecheck/internal/verify"
	"github.com/pdiddy/sourcecheck/pkg/types"
)

// SearchClient is the fail-soft search capability the pipeline consumes.
type SearchClient interface {
	Search(ctx context.Context, query string, count int) []types.CandidateResult
}

// Verifier classifies candidate URL reachability.
type Verifier interface {
	Verify(ctx context.Context, url string) types.VerificationOutcome
}

// Extractor fetches and scores page content.
type Extractor interface {
	Extract(ctx context.Context, url string) (types.ContentAnalysis, error)
}

// Composite score weights: relevance and content quality dominate,
// authority tempers.
const (
	weightRelevance = 0.4
	weightAuthority = 0.2
	weightQuality   = 0.4
)

// Threshold defaults applied when the config leaves them zero.
const (
	defaultMinRelevance = 20
	defaultMinAuthority = 10
	defaultMinComposite = 40
	defaultMinQuality   = 20

	// defaultSearchCount is how many results each search query requests.
	defaultSearchCount = 10
)

// Options tunes a Pipeline beyond its collaborators.
type Options struct {
	// Scoring carries the acceptance thresholds.
	Scoring types.ScoringConfig

	// SearchCount is the per-query result request (default 10).
	SearchCount int

	// MinCitations is passed through to answer validation (default 2).
	MinCitations int
}

// Pipeline wires the stages together. Collaborators are injected so
// tests can substitute fakes for every network-touching stage.
type Pipeline struct {
	planner   *planner.Planner
	search    SearchClient
	verifier  Verifier
	extractor Extractor
	scorer    score.Scorer
	opts      Options
	logger    *zap.Logger
}

// New builds a Pipeline. A nil logger is replaced with a no-op logger.
func New(pl *planner.Planner, search SearchClient, verifier Verifier, extractor Extractor, scorer score.Scorer, opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Scoring.MinRelevance <= 0 {
		opts.Scoring.MinRelevance = defaultMinRelevance
	}
	if opts.Scoring.MinAuthority <= 0 {
		opts.Scoring.MinAuthority = defaultMinAuthority
	}
	if opts.Scoring.MinComposite <= 0 {
		opts.Scoring.MinComposite = defaultMinComposite
	}
	if opts.Scoring.MinQuality <= 0 {
		opts.Scoring.MinQuality = defaultMinQuality
	}
	if opts.SearchCount <= 0 {
		opts.SearchCount = defaultSearchCount
	}
	if opts.MinCitations <= 0 {
		opts.MinCitations = citecheck.DefaultMinCitations
	}
	return &Pipeline{
		planner:   pl,
		search:    search,
		verifier:  verifier,
		extractor: extractor,
		scorer:    scorer,
		opts:      opts,
		logger:    logger,
	}
}

// Stage results. Each stage consumes the previous immutable result and
// produces a new one; nothing is mutated across concurrent branches.

type candidate struct {
	types.CandidateResult
	normalizedURL string
}

type verifiedCandidate struct {
	candidate
	outcome types.VerificationOutcome
}

type scoredCandidate struct {
	verifiedCandidate
	analysis  types.ContentAnalysis
	relevance int
	authority int
	composite int
}

// FindSources plans queries for the user query, searches in escalating
// tiers, verifies and scores every unseen candidate concurrently, and
// returns at most count sources ranked by composite score. The
// simplified tier fires when narrower ones under-deliver; the generic
// jurisdiction tier fires only when nothing was accepted at all. The
// filter is strict: when fewer than count candidates pass, fewer are
// returned.
func (p *Pipeline) FindSources(ctx context.Context, query string, count int) []types.Source {
	if count <= 0 {
		return nil
	}

	log := p.logger.With(
		zap.String("run", uuid.NewString()[:8]),
		zap.String("query", query),
	)

	tiers := p.queryTiers(ctx, query)
	seen := make(map[string]bool)
	seenFinal := make(map[string]bool)
	var accepted []scoredCandidate

	for tier, queries := range tiers {
		if len(accepted) >= count {
			break
		}
		// The generic jurisdiction queries are a last resort: they run
		// only when every targeted tier came up empty.
		if tier == len(tiers)-1 && len(accepted) > 0 {
			break
		}
		if tier > 0 {
			log.Info("escalating to broader queries",
				zap.Int("tier", tier), zap.Int("accepted", len(accepted)))
		}

		batch := p.collectCandidates(ctx, queries, seen)
		if len(batch) == 0 {
			continue
		}

		accepted = append(accepted,
			p.evaluateBatch(ctx, batch, query, count-len(accepted), seenFinal)...)
	}

	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].composite > accepted[j].composite
	})
	if len(accepted) > count {
		accepted = accepted[:count]
	}

	sources := make([]types.Source, 0, len(accepted))
	for _, sc := range accepted {
		sources = append(sources, sc.source())
	}

	log.Info("source finding complete",
		zap.Int("requested", count),
		zap.Int("returned", len(sources)))
	return sources
}

// ValidateAnswer audits generated answer text against the sources that
// produced it.
func (p *Pipeline) ValidateAnswer(text string, sources []types.Source) types.CitationValidationResult {
	return citecheck.Validate(text, sources, p.opts.MinCitations)
}

// queryTiers builds the escalation ladder: planned queries first, then
// the simplified broad query, then generic jurisdiction fallbacks.
func (p *Pipeline) queryTiers(ctx context.Context, query string) [][]string {
	tiers := [][]string{p.planner.Plan(ctx, query)}
	if simplified := planner.Simplify(query); simplified != "" && simplified != query {
		tiers = append(tiers, []string{simplified})
	}
	tiers = append(tiers, planner.GenericFallbacks(query))
	return tiers
}

// collectCandidates runs the tier's queries in order and gathers
// never-seen candidates. The seen set is keyed by normalized URL and
// only touched here, sequentially.
func (p *Pipeline) collectCandidates(ctx context.Context, queries []string, seen map[string]bool) []candidate {
	var batch []candidate
	for _, q := range queries {
		for _, r := range p.search.Search(ctx, q, p.opts.SearchCount) {
			norm := verify.Normalize(r.URL)
			if norm == "" || seen[norm] {
				continue
			}
			seen[norm] = true
			batch = append(batch, candidate{CandidateResult: r, normalizedURL: norm})
		}
	}
	return batch
}

// evaluateBatch fans candidates out to concurrent verification chains,
// bounded by the batch size, and consumes results sequentially so the
// final-URL dedup check-then-insert stays atomic. Once needed
// acceptances are in, remaining branches are cancelled and their
// results drained.
func (p *Pipeline) evaluateBatch(ctx context.Context, batch []candidate, query string, needed int, seenFinal map[string]bool) []scoredCandidate {
	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan evalResult, len(batch))
	var wg sync.WaitGroup
	for _, c := range batch {
		wg.Add(1)
		go func(c candidate) {
			defer wg.Done()
			results <- p.evaluate(batchCtx, c, query)
		}(c)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var accepted []scoredCandidate
	for res := range results {
		if !res.ok || len(accepted) >= needed {
			continue
		}
		if seenFinal[res.sc.outcome.FinalURL] {
			continue
		}
		seenFinal[res.sc.outcome.FinalURL] = true
		accepted = append(accepted, res.sc)
		if len(accepted) >= needed {
			cancel()
		}
	}
	return accepted
}

type evalResult struct {
	sc scoredCandidate
	ok bool
}

// evaluate runs one candidate through the verification chain. Every
// rejection is logged at debug with its reason; rejections never
// propagate as errors.
func (p *Pipeline) evaluate(ctx context.Context, c candidate, query string) evalResult {
	log := p.logger.With(zap.String("url", c.normalizedURL))

	outcome := p.verifier.Verify(ctx, c.normalizedURL)
	if !outcome.IsValid {
		log.Debug("candidate rejected: verification failed")
		return evalResult{}
	}
	if verify.IsHomepage(outcome.FinalURL) {
		log.Debug("candidate rejected: resolves to a homepage",
			zap.String("final_url", outcome.FinalURL))
		return evalResult{}
	}
	vc := verifiedCandidate{candidate: c, outcome: outcome}

	analysis, err := p.extractor.Extract(ctx, outcome.FinalURL)
	if err != nil {
		log.Debug("candidate rejected: extraction failed", zap.Error(err))
		return evalResult{}
	}
	if !analysis.IsSpecific || analysis.ContentQuality < p.opts.Scoring.MinQuality {
		log.Debug("candidate rejected: content below quality floor",
			zap.Int("quality", analysis.ContentQuality),
			zap.Bool("specific", analysis.IsSpecific))
		return evalResult{}
	}

	relevance := p.scorer.Relevance(ctx, analysis.Content, query)
	authority := p.scorer.Authority(ctx, analysis.Content, outcome.FinalURL)
	composite := compositeScore(relevance, authority, analysis.ContentQuality)

	if relevance < p.opts.Scoring.MinRelevance ||
		authority < p.opts.Scoring.MinAuthority ||
		composite < p.opts.Scoring.MinComposite {
		log.Debug("candidate rejected: below score floors",
			zap.Int("relevance", relevance),
			zap.Int("authority", authority),
			zap.Int("composite", composite))
		return evalResult{}
	}

	return evalResult{
		sc: scoredCandidate{
			verifiedCandidate: vc,
			analysis:          analysis,
			relevance:         relevance,
			authority:         authority,
			composite:         composite,
		},
		ok: true,
	}
}

// compositeScore blends the three ratings into 0-100.
func compositeScore(relevance, authority, quality int) int {
	return int(math.Round(
		weightRelevance*float64(relevance) +
			weightAuthority*float64(authority) +
			weightQuality*float64(quality)))
}

// source converts the internal working record to the minimal public
// shape. The title prefers the verified page title over the search
// snippet title.
func (sc scoredCandidate) source() types.Source {
	title := sc.outcome.Title
	if title == "" {
		title = sc.Title
	}
	if title == "" {
		title = sc.outcome.Domain
	}
	return types.Source{URI: sc.outcome.FinalURL, Title: title}
}
