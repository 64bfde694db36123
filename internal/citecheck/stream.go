// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citecheck

import "strings"

// HasCompleteCitations reports whether the chunk-so-far contains at
// least one syntactically complete citation and no unterminated
// citation markup at the tail. Used for live progress heuristics during
// streaming generation, never for final validation.
func HasCompleteCitations(chunk string) bool {
	if !citationRe.MatchString(chunk) {
		return false
	}
	return !hasUnterminatedCitation(chunk)
}

// hasUnterminatedCitation detects citation markup still being streamed:
// an open bracket with no close, or a "](... " with no closing paren.
func hasUnterminatedCitation(chunk string) bool {
	open := strings.LastIndex(chunk, "[")
	if open >= 0 && !strings.Contains(chunk[open:], "]") {
		return true
	}
	link := strings.LastIndex(chunk, "](")
	if link >= 0 && !strings.Contains(chunk[link:], ")") {
		return true
	}
	return false
}
