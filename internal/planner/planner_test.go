// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/sourcecheck/internal/llm"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f fakeCompleter) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	return f.reply, f.err
}

func TestPlanUsesModelOutput(t *testing.T) {
	p := New(fakeCompleter{reply: "1. CRA capital gains guide T4037\n2) lifetime capital gains exemption form\n- qualified small business shares rules\nfourth query over the cap"}, nil)

	got := p.Plan(context.Background(), "capital gains exemption")
	want := []string{
		"CRA capital gains guide T4037",
		"lifetime capital gains exemption form",
		"qualified small business shares rules",
	}
	if len(got) != len(want) {
		t.Fatalf("Plan returned %d queries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("query[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPlanFallsBackOnModelError(t *testing.T) {
	p := New(fakeCompleter{err: errors.New("api down")}, nil)

	got := p.Plan(context.Background(), "RRSP contribution limit")
	if len(got) == 0 {
		t.Fatal("Plan returned nothing after model failure")
	}
	if !strings.Contains(got[0], "RRSP contribution limit") {
		t.Errorf("fallback query %q does not contain the raw query", got[0])
	}
}

func TestPlanFallsBackOnUnusableOutput(t *testing.T) {
	p := New(fakeCompleter{reply: "\n\n   \n"}, nil)

	got := p.Plan(context.Background(), "GST filing deadline")
	if len(got) == 0 {
		t.Fatal("Plan returned nothing for blank model output")
	}
}

func TestPlanWithoutCompleter(t *testing.T) {
	p := New(nil, nil)
	got := p.Plan(context.Background(), "tax brackets 2024")
	if len(got) == 0 || len(got) > 4 {
		t.Fatalf("Plan returned %d queries, want 1-4", len(got))
	}
}

func TestPlanEmptyQuery(t *testing.T) {
	p := New(nil, nil)
	if got := p.Plan(context.Background(), "   "); got != nil {
		t.Errorf("Plan(blank) = %v, want nil", got)
	}
}

func TestFallbackQueries(t *testing.T) {
	got := FallbackQueries("principal residence exemption")
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0] != "principal residence exemption specific guide document" {
		t.Errorf("first query = %q", got[0])
	}
	if got[3] != "principal residence exemption" {
		t.Errorf("last query should be the raw query, got %q", got[3])
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"How do I claim the capital gains exemption?", "claim capital gains exemption"},
		{"What are the RRSP limits for 2024", "rrsp limits 2024"},
		{"the a an of", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Simplify(tt.in); got != tt.want {
			t.Errorf("Simplify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenericFallbacks(t *testing.T) {
	got := GenericFallbacks("How do I claim moving expenses?")
	if len(got) == 0 {
		t.Fatal("GenericFallbacks returned nothing")
	}
	if !strings.HasSuffix(got[0], " Canada") {
		t.Errorf("seeded fallback %q should be jurisdiction-anchored", got[0])
	}

	bare := GenericFallbacks("")
	if len(bare) != 3 {
		t.Errorf("bare fallbacks = %d, want 3", len(bare))
	}
}

func TestParseQueryListStripsMarkersAndQuotes(t *testing.T) {
	reply := "• \"first query\"\n\n2. second query  \n* third"
	got := ParseQueryList(reply)
	want := []string{"first query", "second query", "third"}
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("query[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
