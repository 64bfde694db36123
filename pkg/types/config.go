package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	// Verification and extraction send a browser-like agent to avoid
	// automated-client blocking; API backends send this value as-is.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the web-search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the search backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Region is the regional bias passed to the backend (default "CA").
	Region string `json:"region" yaml:"region"`

	// MaxResults is the per-query result cap requested from the backend
	// (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// VerifyConfig holds settings for URL verification and content extraction.
type VerifyConfig struct {
	HTTPConfig `yaml:",inline"`

	// TitleTimeout bounds the secondary title-only fetch (default 5s,
	// shorter than the main verification timeout).
	TitleTimeout time.Duration `json:"title_timeout" yaml:"title_timeout"`
}

// AIConfig holds shared settings for stages that call the generation API.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the generation API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ScoringConfig holds settings for relevance and authority scoring and
// the aggregation thresholds.
type ScoringConfig struct {
	AIConfig `yaml:",inline"`

	// MinRelevance is the relevance floor for accepting a source (default 20).
	MinRelevance int `json:"min_relevance" yaml:"min_relevance"`

	// MinAuthority is the authority floor for accepting a source (default 10).
	MinAuthority int `json:"min_authority" yaml:"min_authority"`

	// MinComposite is the composite-score floor for accepting a source
	// (default 40).
	MinComposite int `json:"min_composite" yaml:"min_composite"`

	// MinQuality is the content-quality floor (default 20).
	MinQuality int `json:"min_quality" yaml:"min_quality"`
}

// GenerationConfig holds settings for answer generation.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`

	// MaxTokens caps the generated answer length (default 1500).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MinCitations is the minimum inline citation count expected of a
	// generated answer (default 2).
	MinCitations int `json:"min_citations" yaml:"min_citations"`
}

// CacheConfig holds settings for the optional result cache. The cache is
// a separate layer in front of search and verification, not part of the
// core pipeline contract; it is disabled unless Enabled is set.
type CacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the directory holding the cache database (default ".sourcecheck").
	Dir string `json:"dir" yaml:"dir"`

	// TTL is how long cached entries stay fresh (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	Level string `json:"level" yaml:"level"`

	// Format selects the encoder: "console" or "json".
	Format string `json:"format" yaml:"format"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search"`
	Verify     VerifyConfig     `json:"verify" yaml:"verify"`
	Scoring    ScoringConfig    `json:"scoring" yaml:"scoring"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Cache      CacheConfig      `json:"cache" yaml:"cache"`
	Log        LogConfig        `json:"log" yaml:"log"`
}
