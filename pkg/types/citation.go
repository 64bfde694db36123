// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CitationMatch is one inline [Title](URL) citation found in generated
// answer text, with its character span.
type CitationMatch struct {
	// Text is the full matched citation markup.
	Text string `json:"text" yaml:"text"`

	// Title is the bracketed display title.
	Title string `json:"title" yaml:"title"`

	// URL is the parenthesized target URL.
	URL string `json:"url" yaml:"url"`

	// StartIndex and EndIndex delimit the match in the answer text.
	StartIndex int `json:"start_index" yaml:"start_index"`
	EndIndex   int `json:"end_index" yaml:"end_index"`
}

// CitationValidationResult reports how well an answer's citations line
// up with the verified source list used to generate it. It is a
// structured result, not an error: callers decide whether to warn,
// regenerate, or deliver with a disclaimer.
type CitationValidationResult struct {
	// IsValid is true only when Issues is empty and the citation count
	// meets the minimum relative to available sources.
	IsValid bool `json:"is_valid" yaml:"is_valid"`

	// CitationCount is the number of citations extracted from the text.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// SourceCount is the number of sources that were available.
	SourceCount int `json:"source_count" yaml:"source_count"`

	// ExtractedCitations lists every citation found, in text order.
	ExtractedCitations []CitationMatch `json:"extracted_citations" yaml:"extracted_citations"`

	// MissingSourcesCount is the number of available sources never cited.
	MissingSourcesCount int `json:"missing_sources_count" yaml:"missing_sources_count"`

	// Issues lists human-readable compliance problems, one per failed check.
	Issues []string `json:"issues" yaml:"issues"`
}
