// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package content fetches candidate pages and reduces them to scored
// plain text.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/sourcecheck/internal/httputil"
	"github.com/pdiddy/sourcecheck/pkg/types"
)

const (
	defaultTimeout = 10 * time.Second

	// maxBodyBytes bounds how much of a page is read before parsing.
	maxBodyBytes = 512 * 1024

	// maxStoredChars caps the text kept in a ContentAnalysis. Bounds
	// both memory and downstream prompt size.
	maxStoredChars = 2000

	// minSpecificWords is the word count below which a page cannot
	// support a citation.
	minSpecificWords = 50
)

// placeholderPhrases mark pages with no real content yet.
var placeholderPhrases = []string{
	"coming soon",
	"under construction",
	"page not found",
	"lorem ipsum",
}

// Extractor fetches pages and computes content quality.
type Extractor struct {
	client *http.Client
	cfg    types.VerifyConfig
}

// NewExtractor builds an Extractor sharing the verification stage's HTTP
// settings.
func NewExtractor(cfg types.VerifyConfig) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Extractor{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Extract fetches the page, strips markup and boilerplate blocks, and
// scores the remaining text.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (types.ContentAnalysis, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return types.ContentAnalysis{}, fmt.Errorf("creating request: %w", err)
	}
	httputil.SetBrowserHeaders(req, e.cfg.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return types.ContentAnalysis{}, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.ContentAnalysis{}, fmt.Errorf("fetching %s: HTTP %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return types.ContentAnalysis{}, fmt.Errorf("parsing %s: %w", rawURL, err)
	}

	return Analyze(cleanText(doc)), nil
}

// cleanText strips script, style, and page-chrome blocks and collapses
// all whitespace to single spaces.
func cleanText(doc *goquery.Document) string {
	doc.Find("script, style, nav, header, footer, aside").Remove()
	body := doc.Find("body")
	text := body.Text()
	if body.Length() == 0 {
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " ")
}

// Analyze scores already-cleaned text. Split out from Extract so the
// cache layer and tests can score text without a fetch.
func Analyze(text string) types.ContentAnalysis {
	wordCount := len(strings.Fields(text))

	lower := strings.ToLower(text)
	isSpecific := wordCount >= minSpecificWords
	for _, phrase := range placeholderPhrases {
		if strings.Contains(lower, phrase) {
			isSpecific = false
			break
		}
	}

	stored := text
	if len(stored) > maxStoredChars {
		cut := maxStoredChars
		for cut > 0 && !utf8.RuneStart(stored[cut]) {
			cut--
		}
		stored = stored[:cut]
	}

	return types.ContentAnalysis{
		Content:        stored,
		WordCount:      wordCount,
		IsSpecific:     isSpecific,
		ContentQuality: qualityScore(wordCount, isSpecific),
	}
}

// qualityScore blends scaled word count with a flat specificity bonus,
// bounded to 0-100.
func qualityScore(wordCount int, isSpecific bool) int {
	score := wordCount / 10
	if score > 70 {
		score = 70
	}
	if isSpecific {
		score += 30
	}
	if score > 100 {
		score = 100
	}
	return score
}
