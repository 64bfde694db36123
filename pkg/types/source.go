// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the sourcecheck pipeline.
package types

// Source is the minimal citation unit handed to consumers. Its URI is
// always normalized before it leaves the pipeline, and a ranked list
// never contains the same URI twice.
type Source struct {
	// URI is the normalized, deduplicated source URL.
	URI string `json:"uri" yaml:"uri"`

	// Title is the display title for the citation (page title or
	// search-result title, whichever the pipeline resolved).
	Title string `json:"title" yaml:"title"`
}

// CandidateResult is a raw search-engine hit before any verification.
type CandidateResult struct {
	// Title is the result title as returned by the search backend.
	Title string `json:"title" yaml:"title"`

	// URL is the result URL as returned by the search backend.
	URL string `json:"url" yaml:"url"`

	// Description is the result snippet, when the backend provides one.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Date is the page age or publication date string, when available.
	Date string `json:"date,omitempty" yaml:"date,omitempty"`
}

// VerificationStatus classifies the outcome of URL verification.
type VerificationStatus string

const (
	// StatusVerified means the URL answered 2xx and is citable.
	StatusVerified VerificationStatus = "verified"

	// StatusPartial means the URL was reachable only through the
	// ranged-GET fallback after the server rejected HEAD.
	StatusPartial VerificationStatus = "partial"

	// StatusFailed means the URL is not citable in this attempt.
	StatusFailed VerificationStatus = "failed"

	// StatusPending means verification has not run yet.
	StatusPending VerificationStatus = "pending"
)

// VerificationOutcome is the result of verifying one candidate URL.
// Failed and Partial are terminal for the candidate within the current
// attempt but never abort the batch.
type VerificationOutcome struct {
	// IsValid reports whether the URL answered with a 2xx status.
	IsValid bool `json:"is_valid" yaml:"is_valid"`

	// FinalURL is the normalized URL after redirects. On failure it
	// preserves the original (normalized) URL so callers can still
	// display or retry it.
	FinalURL string `json:"final_url" yaml:"final_url"`

	// Domain is the host of FinalURL.
	Domain string `json:"domain" yaml:"domain"`

	// Status is the terminal reachability classification.
	Status VerificationStatus `json:"status" yaml:"status"`

	// ContentType is the response Content-Type, when present.
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`

	// Title is the page <title>, when the response was HTML and the
	// title fetch succeeded.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// ContentAnalysis holds the extracted text of a page and its quality
// assessment.
type ContentAnalysis struct {
	// Content is the cleaned page text, truncated to a fixed cap.
	Content string `json:"content" yaml:"content"`

	// WordCount is the number of words in the cleaned text.
	WordCount int `json:"word_count" yaml:"word_count"`

	// IsSpecific is false for placeholder pages and pages with too
	// little text to support a citation.
	IsSpecific bool `json:"is_specific" yaml:"is_specific"`

	// ContentQuality is a 0-100 score combining word count and
	// specificity.
	ContentQuality int `json:"content_quality" yaml:"content_quality"`
}
