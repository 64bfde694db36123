// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer generates grounded answers from verified sources. The
// generator never invents sources: the prompt restricts citations to
// the supplied list, and an empty list switches to an explicit
// limited-sources framing instead of refusing to answer.
package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/sourcecheck/internal/citecheck"
	"github.com/pdiddy/sourcecheck/internal/llm"
	"github.com/pdiddy/sourcecheck/pkg/types"
)

const (
	// defaultMaxTokens caps answer length when the config leaves it zero.
	defaultMaxTokens = 1500

	answerTemperature = 0.2
)

const systemPrompt = `You are a Canadian tax research assistant. Answer the question using ONLY the sources provided. Cite every factual claim inline as [Title](URL), using the exact titles and URLs from the source list. Do not cite any URL that is not in the list. If the sources do not cover part of the question, say so plainly.`

const limitedSourcesPrompt = `You are a Canadian tax research assistant. No verified sources are available for this question. Give a brief general answer from your own knowledge, open with a clear statement that no verifiable sources were found, and recommend the reader confirm details with the Canada Revenue Agency. Do not fabricate citations or URLs.`

// Generator produces cited answers over a streaming completion backend.
type Generator struct {
	streamer llm.Streamer
	cfg      types.GenerationConfig
	logger   *zap.Logger
}

// New builds a Generator. A nil logger is replaced with a no-op logger.
func New(streamer llm.Streamer, cfg types.GenerationConfig, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Generator{streamer: streamer, cfg: cfg, logger: logger}
}

// Generate produces the full answer text in one call.
func (g *Generator) Generate(ctx context.Context, query string, sources []types.Source) (string, error) {
	var sb strings.Builder
	err := g.GenerateStream(ctx, query, sources, func(chunk string) error {
		sb.WriteString(chunk)
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// GenerateStream produces the answer incrementally, invoking fn for
// every text chunk. A non-nil error from fn aborts the stream.
func (g *Generator) GenerateStream(ctx context.Context, query string, sources []types.Source, fn func(chunk string) error) error {
	system := systemPrompt
	if len(sources) == 0 {
		system = limitedSourcesPrompt
		g.logger.Warn("generating answer without verified sources",
			zap.String("query", query))
	}

	var generated strings.Builder
	cited := false
	err := g.streamer.CompleteStream(ctx, llm.CompletionRequest{
		System:      system,
		Prompt:      buildPrompt(query, sources),
		Temperature: answerTemperature,
		MaxTokens:   g.cfg.MaxTokens,
	}, func(chunk string) error {
		generated.WriteString(chunk)
		if !cited && citecheck.HasCompleteCitations(generated.String()) {
			cited = true
			g.logger.Debug("first complete citation streamed",
				zap.Int("chars", generated.Len()))
		}
		return fn(chunk)
	})
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}

	if len(sources) > 0 && !cited {
		g.logger.Warn("generated answer contains no citations",
			zap.String("query", query),
			zap.Int("sources", len(sources)))
	}
	return nil
}

// buildPrompt assembles the user message: the numbered source list
// followed by the question.
func buildPrompt(query string, sources []types.Source) string {
	var sb strings.Builder
	if len(sources) > 0 {
		sb.WriteString("Sources:\n")
		for i, src := range sources {
			fmt.Fprintf(&sb, "%d. [%s](%s)\n", i+1, src.Title, src.URI)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Question: ")
	sb.WriteString(query)
	return sb.String()
}
