// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles types.Config from flags, environment, the
// config file, the .secrets/ directory and built-in defaults, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/papercast/internal/secrets"
	"github.com/pdiddy/papercast/pkg/types"
)

// EnvPrefix is prepended to every environment override
// (e.g. PAPERCAST_SEARCH_MAX_RESULTS).
const EnvPrefix = "PAPERCAST"

// Default values.
const (
	DefaultUserAgent   = "papercast/0.1"
	DefaultHTTPTimeout = 10 * time.Second
	DefaultLLMTimeout  = 30 * time.Second
	DefaultLLMBaseURL  = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultLLMModel    = "gemini-2.0-flash"
	DefaultLibraryPath = "papercast.db"
)

// bareEnv lists the unprefixed variables honored for API keys.
var bareEnv = map[string]string{
	"search.exa_api_key":              "EXA_API_KEY",
	"search.semantic_scholar_api_key": "SEMANTIC_SCHOLAR_API_KEY",
	"llm.api_key":                     "LLM_API_KEY",
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("search.timeout", DefaultHTTPTimeout)
	v.SetDefault("search.user_agent", DefaultUserAgent)
	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.match_limit", 10)
	v.SetDefault("search.match_cutoff", 0.6)
	v.SetDefault("search.arxiv_max_results", 60)
	v.SetDefault("search.semantic_scholar_limit", 10)
	v.SetDefault("search.exa_num_results", 3)
	v.SetDefault("search.enable_arxiv", true)
	v.SetDefault("search.enable_semantic_scholar", true)
	v.SetDefault("search.requests_per_second", 0.0)
	v.SetDefault("search.keep_missing_ids", false)
	v.SetDefault("search.include_content_results", false)
	v.SetDefault("search.exa_api_key", "")
	v.SetDefault("search.semantic_scholar_api_key", "")

	v.SetDefault("llm.provider", string(types.ProviderOpenAI))
	v.SetDefault("llm.base_url", DefaultLLMBaseURL)
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", DefaultLLMTimeout)
	v.SetDefault("llm.rpm", 0)
	v.SetDefault("llm.max_tokens", 4096)

	v.SetDefault("podcast.output_dir", "output")
	v.SetDefault("podcast.include_related", false)
	v.SetDefault("podcast.max_content_chars", 20000)

	v.SetDefault("library.path", DefaultLibraryPath)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Init prepares v to read the config file and environment. cfgFile
// overrides the search path when non-empty. It does not read anything.
func Init(v *viper.Viper, cfgFile string) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("papercast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "papercast"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range bareEnv {
		// BindEnv only errors on an empty key.
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env)
	}
}

// ReadFile reads the config file if one is found. A missing file is not
// an error. It returns the path used, or "".
func ReadFile(v *viper.Viper) (string, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process
// environment without overriding variables that are already set. A
// missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load unmarshals v into a Config, then fills API keys that are still
// empty from the secrets set.
func Load(v *viper.Viper, s secrets.Set) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}

	fill(&cfg.Search.ExaAPIKey, s.Get(secrets.ExaAPIKey))
	fill(&cfg.Search.SemanticScholarAPIKey, s.Get(secrets.SemanticScholarAPIKey))
	if cfg.LLM.Provider == types.ProviderAnthropic {
		fill(&cfg.LLM.APIKey, s.Get(secrets.AnthropicAPIKey))
	}
	fill(&cfg.LLM.APIKey, s.Get(secrets.LLMAPIKey))

	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func Validate(cfg types.Config) error {
	switch {
	case cfg.Search.MaxResults < 1:
		return fmt.Errorf("search.max_results must be positive, got %d", cfg.Search.MaxResults)
	case cfg.Search.MatchLimit < 1:
		return fmt.Errorf("search.match_limit must be positive, got %d", cfg.Search.MatchLimit)
	case cfg.Search.MatchCutoff < 0 || cfg.Search.MatchCutoff > 1:
		return fmt.Errorf("search.match_cutoff must be within [0, 1], got %g", cfg.Search.MatchCutoff)
	}
	switch cfg.LLM.Provider {
	case types.ProviderOpenAI, types.ProviderAnthropic:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", types.ProviderOpenAI, types.ProviderAnthropic, cfg.LLM.Provider)
	}
	return nil
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}
