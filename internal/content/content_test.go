// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/sourcecheck/pkg/types"
)

func testExtractor() *Extractor {
	return NewExtractor(types.VerifyConfig{})
}

func TestExtractStripsBoilerplate(t *testing.T) {
	page := `<html><head><title>T</title><script>var x = 1;</script></head>
	<body>
	<nav>Home | About | Contact</nav>
	<header>Site Banner</header>
	<p>` + strings.Repeat("The lifetime capital gains exemption applies to qualified property. ", 20) + `</p>
	<aside>Related links</aside>
	<footer>Copyright notice</footer>
	</body></html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer ts.Close()

	analysis, err := testExtractor().Extract(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	for _, junk := range []string{"var x", "Site Banner", "Related links", "Copyright notice", "Home | About"} {
		if strings.Contains(analysis.Content, junk) {
			t.Errorf("extracted content contains boilerplate %q", junk)
		}
	}
	if !strings.Contains(analysis.Content, "capital gains exemption") {
		t.Error("extracted content lost the article body")
	}
	if !analysis.IsSpecific {
		t.Errorf("IsSpecific = false for a %d-word page", analysis.WordCount)
	}
}

func TestExtractNon2xxIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	if _, err := testExtractor().Extract(context.Background(), ts.URL); err == nil {
		t.Fatal("expected an error for HTTP 403")
	}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantSpecific bool
	}{
		{"placeholder page", "This page is coming soon. " + strings.Repeat("word ", 100), false},
		{"under construction", "Site under construction. " + strings.Repeat("word ", 100), false},
		{"too short", "Only a few words here.", false},
		{"substantial text", strings.Repeat("tax deduction rules ", 30), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)
			if got.IsSpecific != tt.wantSpecific {
				t.Errorf("IsSpecific = %v, want %v", got.IsSpecific, tt.wantSpecific)
			}
		})
	}
}

func TestAnalyzeTruncatesStoredText(t *testing.T) {
	got := Analyze(strings.Repeat("abcde ", 1000))
	if len(got.Content) > 2000 {
		t.Errorf("stored content length = %d, want <= 2000", len(got.Content))
	}
	if got.WordCount != 1000 {
		t.Errorf("WordCount = %d, want 1000 (counted before truncation)", got.WordCount)
	}
}

func TestAnalyzeTruncatesOnRuneBoundary(t *testing.T) {
	// 700 three-byte runes (2100 bytes): a byte-index cut at 2000 would
	// split the 667th rune.
	got := Analyze(strings.Repeat("税", 700))
	if len(got.Content) > 2000 {
		t.Errorf("stored content length = %d, want <= 2000", len(got.Content))
	}
	if !utf8.ValidString(got.Content) {
		t.Errorf("stored content is not valid UTF-8 after truncation")
	}
}

func TestQualityScoreBounds(t *testing.T) {
	tests := []struct {
		words    int
		specific bool
		want     int
	}{
		{0, false, 0},
		{100, false, 10},
		{1000, false, 70},
		{1000, true, 100},
		{200, true, 50},
	}
	for _, tt := range tests {
		if got := qualityScore(tt.words, tt.specific); got != tt.want {
			t.Errorf("qualityScore(%d, %v) = %d, want %d", tt.words, tt.specific, got, tt.want)
		}
	}
}
