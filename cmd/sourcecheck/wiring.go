// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/sourcecheck/internal/cache"
	"github.com/pdiddy/sourcecheck/internal/content"
	"github.com/pdiddy/sourcecheck/internal/llm"
	"github.com/pdiddy/sourcecheck/internal/logging"
	"github.com/pdiddy/sourcecheck/internal/pipeline"
	"github.com/pdiddy/sourcecheck/internal/planner"
	"github.com/pdiddy/sourcecheck/internal/score"
	"github.com/pdiddy/sourcecheck/internal/secrets"
	"github.com/pdiddy/sourcecheck/internal/verify"
	"github.com/pdiddy/sourcecheck/internal/websearch"
	"github.com/pdiddy/sourcecheck/pkg/types"
)

// Environment variable names recognized alongside flags and .secrets/.
const (
	searchKeyEnv = "SOURCECHECK_SEARCH_API_KEY"
	openaiKeyEnv = "SOURCECHECK_OPENAI_API_KEY"
)

// loadConfig assembles the pipeline configuration from the config file,
// environment, flags, and the secrets directory. Flags beat the
// environment, which beats .secrets/, which beats the config file.
func loadConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{Timeout: viper.GetDuration("search.timeout")},
			Region:     viper.GetString("search.region"),
			MaxResults: viper.GetInt("search.max_results"),
		},
		Verify: types.VerifyConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("verify.timeout"),
				UserAgent: viper.GetString("verify.user_agent"),
			},
			TitleTimeout: viper.GetDuration("verify.title_timeout"),
		},
		Scoring: types.ScoringConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("scoring.model"),
				MaxRetries: viper.GetInt("scoring.max_retries"),
			},
			MinRelevance: viper.GetInt("scoring.min_relevance"),
			MinAuthority: viper.GetInt("scoring.min_authority"),
			MinComposite: viper.GetInt("scoring.min_composite"),
			MinQuality:   viper.GetInt("scoring.min_quality"),
		},
		Generation: types.GenerationConfig{
			AIConfig: types.AIConfig{
				Model:      viper.GetString("generation.model"),
				MaxRetries: viper.GetInt("generation.max_retries"),
			},
			MaxTokens:    viper.GetInt("generation.max_tokens"),
			MinCitations: viper.GetInt("generation.min_citations"),
		},
		Cache: types.CacheConfig{
			Enabled: viper.GetBool("cache.enabled"),
			Dir:     viper.GetString("cache.dir"),
			TTL:     viper.GetDuration("cache.ttl"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
	}

	searchKey, _ := cmd.Flags().GetString("search-key")
	cfg.Search.APIKey = secrets.Resolve(loadedSecrets, searchKey, searchKeyEnv, secrets.SearchAPIKey)

	openaiKey, _ := cmd.Flags().GetString("openai-key")
	aiKey := secrets.Resolve(loadedSecrets, openaiKey, openaiKeyEnv, secrets.OpenAIAPIKey)
	cfg.Scoring.APIKey = aiKey
	cfg.Generation.APIKey = aiKey

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.Log.Format = format
	}
	if cacheFlag, _ := cmd.Flags().GetBool("cache"); cacheFlag {
		cfg.Cache.Enabled = true
	}
	return cfg
}

// newLogger builds the stderr logger from log configuration.
func newLogger(cfg types.LogConfig) (*zap.Logger, error) {
	return logging.New(cfg.Level, cfg.Format)
}

// buildPipeline wires the full source pipeline from configuration. The
// returned cleanup function syncs the logger and closes the cache when
// one was opened. A missing generation key degrades planning and
// scoring to their deterministic fallbacks; a missing search key is an
// error because nothing can substitute for the search backend.
func buildPipeline(cmd *cobra.Command) (*pipeline.Pipeline, *zap.Logger, func(), error) {
	cfg := loadConfig(cmd)

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() { _ = logger.Sync() }

	backend, err := websearch.NewBraveBackend(cfg.Search)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("configuring search: %w (set --search-key, %s, or .secrets/%s)",
			err, searchKeyEnv, secrets.SearchAPIKey)
	}

	verifier := pipeline.Verifier(verify.NewVerifier(cfg.Verify))
	var searchBackend websearch.Backend = backend

	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("opening cache: %w", err)
		}
		searchBackend = cache.NewSearchBackend(backend, store, cfg.Search.Region)
		verifier = cache.NewVerifier(verifier, store)
		prev := cleanup
		cleanup = func() {
			_ = store.Close()
			prev()
		}
	}

	completer := newCompleter(cfg.Scoring.AIConfig, logger)
	var scorer score.Scorer = score.HeuristicScorer{}
	if completer != nil {
		scorer = score.NewModelScorer(completer, logger)
	}

	p := pipeline.New(
		planner.New(completer, logger),
		contextSearch{websearch.NewClient(searchBackend, logger)},
		verifier,
		content.NewExtractor(cfg.Verify),
		scorer,
		pipeline.Options{
			Scoring:      cfg.Scoring,
			SearchCount:  cfg.Search.MaxResults,
			MinCitations: cfg.Generation.MinCitations,
		},
		logger,
	)
	return p, logger, cleanup, nil
}

// contextSearch routes pipeline searches through the client's
// jurisdiction contextualization.
type contextSearch struct {
	*websearch.Client
}

func (c contextSearch) Search(ctx context.Context, query string, count int) []types.CandidateResult {
	return c.SearchWithContext(ctx, query, count)
}

// newCompleter builds the generation client, or nil when no key is
// configured. Planning and scoring work without one.
func newCompleter(cfg types.AIConfig, logger *zap.Logger) llm.Completer {
	client, err := llm.NewClient(cfg)
	if err != nil {
		logger.Warn("generation unavailable, using deterministic fallbacks", zap.Error(err))
		fmt.Fprintln(os.Stderr, "note: no generation API key; query planning and scoring use deterministic fallbacks")
		return nil
	}
	return client
}
