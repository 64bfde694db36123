// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"net/url"
	"strings"
)

// homepagePrefixes are path prefixes that identify a site root rather
// than a specific document. A redirect landing on one of these is a
// low-value citation target even though the URL is reachable.
var homepagePrefixes = []string{"/index", "/home", "/default"}

// IsHomepage reports whether the URL path points at a homepage. The
// root path and common index/home/default paths all count.
func IsHomepage(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(strings.TrimSuffix(u.Path, "/"))
	if path == "" {
		return true
	}
	for _, prefix := range homepagePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
