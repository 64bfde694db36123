// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the text-generation API behind narrow interfaces.
// The pipeline treats generation as an opaque capability: a single
// completion for planning and scoring, a chunk stream for answers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/sourcecheck/pkg/types"
)

// CompletionRequest is one generation call.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Completer produces a single completion. Planner and scorers depend on
// this interface so tests can supply a mock.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Streamer produces a completion as a sequence of text chunks. The
// answer layer depends on this interface.
type Streamer interface {
	CompleteStream(ctx context.Context, req CompletionRequest, fn func(chunk string) error) error
}

// Client calls the OpenAI-compatible chat API.
type Client struct {
	api        *openai.Client
	model      string
	maxRetries int
}

// NewClient builds a Client from AI configuration. It returns an error
// when the API key is missing: generation credentials are a
// configuration error, surfaced immediately rather than degraded.
func NewClient(cfg types.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generation API key is not configured")
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{
		api:        openai.NewClient(cfg.APIKey),
		model:      model,
		maxRetries: maxRetries,
	}, nil
}

// retryBaseDelay is the base backoff between completion retries.
// Package-level var so tests can shrink it.
var retryBaseDelay = 500 * time.Millisecond

// Complete sends one chat completion request and returns the text of the
// first choice. Transient failures are retried with exponential backoff
// up to the configured attempt count.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retryBaseDelay << (attempt - 1)):
			}
		}

		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    messages(req),
			Temperature: req.Temperature,
			MaxTokens:   req.MaxTokens,
		})
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("completion returned no choices")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("completion failed after %d attempts: %w", c.maxRetries, lastErr)
}

// CompleteStream sends one chat completion request and invokes fn for
// every text chunk as it arrives. A non-nil error from fn stops the
// stream and is returned.
func (c *Client) CompleteStream(ctx context.Context, req CompletionRequest, fn func(chunk string) error) error {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages(req),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return fmt.Errorf("opening completion stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading completion stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if chunk := resp.Choices[0].Delta.Content; chunk != "" {
			if err := fn(chunk); err != nil {
				return err
			}
		}
	}
}

func messages(req CompletionRequest) []openai.ChatCompletionMessage {
	var msgs []openai.ChatCompletionMessage
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})
	return msgs
}
