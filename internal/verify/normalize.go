// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify confirms candidate URLs are live, citable targets.
// normalize.go holds the URL canonicalization rules shared by the
// pipeline and the citation validator.
package verify

import (
	"net/url"
	"strings"
)

// trackingParams lists query parameters stripped during normalization.
// They identify campaigns, not content, and would defeat deduplication.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"fbclid":       true,
	"gclid":        true,
	"msclkid":      true,
	"mc_cid":       true,
	"mc_eid":       true,
	"ref":          true,
}

// Normalize canonicalizes a URL for deduplication and display: tracking
// parameters stripped, fragment removed, trailing slash on non-root
// paths removed, scheme and host lowercased. Unparseable or schemeless
// input is returned trimmed but otherwise untouched. Normalize is
// idempotent: Normalize(Normalize(u)) == Normalize(u).
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = cleanQuery(u.Query())

	if u.Path != "/" {
		u.Path = strings.TrimSuffix(u.Path, "/")
		u.RawPath = ""
	}

	return u.String()
}

// cleanQuery drops tracking parameters and re-encodes the remainder with
// sorted keys so equivalent URLs compare equal.
func cleanQuery(q url.Values) string {
	for param := range q {
		if trackingParams[strings.ToLower(param)] {
			q.Del(param)
		}
	}
	return q.Encode()
}

// NormalizeForComparison reduces a URL further for matching cited URLs
// against available sources: on top of Normalize it lowercases the whole
// URL and strips a leading "www." from the host. Query parameters are
// already sorted by Normalize.
func NormalizeForComparison(raw string) string {
	normalized := Normalize(raw)
	u, err := url.Parse(normalized)
	if err != nil || u.Host == "" {
		return strings.ToLower(normalized)
	}
	u.Host = strings.TrimPrefix(u.Host, "www.")
	return strings.ToLower(u.String())
}

// Domain returns the lowercased host of a URL, or "" when unparseable.
func Domain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
