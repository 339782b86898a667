// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every connector.
type HTTPConfig struct {
	// Timeout bounds each outbound request. Connectors never retry, so this
	// is the longest a single call can block (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "papercast/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the aggregation pipeline.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is how many ranked papers a query run returns (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// MatchLimit caps how many close title matches the relevance filter keeps (default 10).
	MatchLimit int `json:"match_limit" yaml:"match_limit" mapstructure:"match_limit"`

	// MatchCutoff is the minimum similarity ratio for a close match (default 0.6).
	MatchCutoff float64 `json:"match_cutoff" yaml:"match_cutoff" mapstructure:"match_cutoff"`

	// ArxivMaxResults is the page size requested from arXiv (default 60).
	ArxivMaxResults int `json:"arxiv_max_results" yaml:"arxiv_max_results" mapstructure:"arxiv_max_results"`

	// SemanticScholarLimit is the page size requested from Semantic Scholar (default 10).
	SemanticScholarLimit int `json:"semantic_scholar_limit" yaml:"semantic_scholar_limit" mapstructure:"semantic_scholar_limit"`

	// ExaNumResults is how many content results Exa returns (default 3).
	ExaNumResults int `json:"exa_num_results" yaml:"exa_num_results" mapstructure:"exa_num_results"`

	// EnableArxiv controls whether the arXiv connector is used.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv" mapstructure:"enable_arxiv"`

	// EnableSemanticScholar controls whether the Semantic Scholar connector is used.
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar" mapstructure:"enable_semantic_scholar"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// ExaAPIKey enables the content search connector. Empty disables it.
	ExaAPIKey string `json:"exa_api_key,omitempty" yaml:"exa_api_key,omitempty" mapstructure:"exa_api_key"`

	// RequestsPerSecond paces calls to each connector. Zero disables pacing.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// KeepMissingIDs keeps records without an identifier, deduplicating
	// them by title instead of dropping them.
	KeepMissingIDs bool `json:"keep_missing_ids" yaml:"keep_missing_ids" mapstructure:"keep_missing_ids"`

	// IncludeContentResults adds the content search results to the
	// aggregated candidates alongside the paper connectors.
	IncludeContentResults bool `json:"include_content_results" yaml:"include_content_results" mapstructure:"include_content_results"`
}

// LLMProvider selects the text-generation backend.
type LLMProvider string

const (
	ProviderOpenAI    LLMProvider = "openai"
	ProviderAnthropic LLMProvider = "anthropic"
)

// LLMConfig holds settings for text generation (title normalization and
// podcast scripts).
type LLMConfig struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or "anthropic".
	Provider LLMProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// BaseURL overrides the provider endpoint. For the openai provider it
	// defaults to Gemini's OpenAI-compatible API.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Model is the model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates with the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Timeout bounds a single generation call (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// RPM caps generation calls per minute. Zero disables pacing.
	RPM int `json:"rpm" yaml:"rpm" mapstructure:"rpm"`

	// MaxTokens bounds the response length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PodcastConfig holds settings for podcast script generation.
type PodcastConfig struct {
	// OutputDir receives generated scripts (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// IncludeRelated adds related papers found by the search pipeline to the prompt.
	IncludeRelated bool `json:"include_related" yaml:"include_related" mapstructure:"include_related"`

	// MaxContentChars truncates the paper text sent to the model (default 20000).
	MaxContentChars int `json:"max_content_chars" yaml:"max_content_chars" mapstructure:"max_content_chars"`
}

// LibraryConfig holds settings for the run library.
type LibraryConfig struct {
	// Path is the SQLite database file. Empty disables recording.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a logrus level name (default "info").
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// File additionally writes logs to this path when set.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// Config groups all stage configurations.
type Config struct {
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	LLM     LLMConfig     `json:"llm" yaml:"llm" mapstructure:"llm"`
	Podcast PodcastConfig `json:"podcast" yaml:"podcast" mapstructure:"podcast"`
	Library LibraryConfig `json:"library" yaml:"library" mapstructure:"library"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}
