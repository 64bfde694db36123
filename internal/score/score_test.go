// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pdiddy/sourcecheck/internal/llm"
)

// fakeCompleter returns a canned reply or error.
type fakeCompleter struct {
	reply string
	err   error
}

func (f fakeCompleter) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	return f.reply, f.err
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  int
	}{
		{"bare integer", "85", 85},
		{"with whitespace", "  72 \n", 72},
		{"embedded in prose", "I would rate this 45 out of 100.", 45},
		{"clamped high", "250", 100},
		{"zero", "0", 0},
		{"no number", "highly relevant", NeutralScore},
		{"empty", "", NeutralScore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseScore(tt.reply); got != tt.want {
				t.Errorf("parseScore(%q) = %d, want %d", tt.reply, got, tt.want)
			}
		})
	}
}

func TestClipKeepsRuneBoundary(t *testing.T) {
	// One ASCII byte then three-byte runes: a byte-index cut at 1500
	// would land mid-rune.
	got := clip("x" + strings.Repeat("税", 600))
	if len(got) > maxPromptContent {
		t.Errorf("clipped length = %d, want <= %d", len(got), maxPromptContent)
	}
	if !utf8.ValidString(got) {
		t.Errorf("clipped content is not valid UTF-8")
	}
	if short := "short"; clip(short) != short {
		t.Errorf("short content modified by clip")
	}
}

func TestModelScorerUsesReply(t *testing.T) {
	s := NewModelScorer(fakeCompleter{reply: "88"}, nil)
	if got := s.Relevance(context.Background(), "content", "query"); got != 88 {
		t.Errorf("Relevance = %d, want 88", got)
	}
	if got := s.Authority(context.Background(), "content", "https://canada.ca/x"); got != 88 {
		t.Errorf("Authority = %d, want 88", got)
	}
}

func TestModelScorerRelevanceFallsBackToNeutral(t *testing.T) {
	s := NewModelScorer(fakeCompleter{err: errors.New("api down")}, nil)
	if got := s.Relevance(context.Background(), "content", "query"); got != NeutralScore {
		t.Errorf("Relevance fallback = %d, want %d", got, NeutralScore)
	}
}

func TestModelScorerAuthorityFallsBackToDomainTiers(t *testing.T) {
	s := NewModelScorer(fakeCompleter{err: errors.New("api down")}, nil)
	got := s.Authority(context.Background(), "content", "https://www.canada.ca/en/services/taxes")
	if got != tierGovernment {
		t.Errorf("Authority fallback = %d, want government tier %d", got, tierGovernment)
	}
}

func TestDomainAuthority(t *testing.T) {
	tests := []struct {
		domain string
		want   int
	}{
		{"canada.ca", tierGovernment},
		{"www.canada.ca", tierGovernment},
		{"cra-arc.gc.ca", tierGovernment},
		{"www.canlii.org", tierGovernment},
		{"irs.gov", tierGovernment},
		{"cpacanada.ca", tierProfessional},
		{"law.utoronto.edu", tierProfessional},
		{"kpmg.com", tierAdvisory},
		{"taxtips.ca", tierAdvisory},
		{"randomblog.net", tierGeneral},
		{"", tierGeneral},
		{"notcanada.ca", tierGeneral},
	}
	for _, tt := range tests {
		if got := DomainAuthority(tt.domain); got != tt.want {
			t.Errorf("DomainAuthority(%q) = %d, want %d", tt.domain, got, tt.want)
		}
	}
}

func TestHeuristicScorerRelevanceIsNeutral(t *testing.T) {
	var s HeuristicScorer
	if got := s.Relevance(context.Background(), "anything", "anything"); got != NeutralScore {
		t.Errorf("Relevance = %d, want %d", got, NeutralScore)
	}
}
