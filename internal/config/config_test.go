// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papercast/internal/secrets"
	"github.com/pdiddy/papercast/pkg/types"
)

func newViper(t *testing.T, cfgFile string) *viper.Viper {
	t.Helper()
	v := viper.New()
	Init(v, cfgFile)
	return v
}

func TestLoadDefaults(t *testing.T) {
	v := newViper(t, "")

	cfg, err := Load(v, secrets.Set{})
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.Equal(t, 10, cfg.Search.MatchLimit)
	assert.InDelta(t, 0.6, cfg.Search.MatchCutoff, 1e-9)
	assert.Equal(t, 60, cfg.Search.ArxivMaxResults)
	assert.Equal(t, 10, cfg.Search.SemanticScholarLimit)
	assert.Equal(t, 3, cfg.Search.ExaNumResults)
	assert.Equal(t, DefaultHTTPTimeout, cfg.Search.Timeout)
	assert.True(t, cfg.Search.EnableArxiv)
	assert.False(t, cfg.Search.KeepMissingIDs)
	assert.Equal(t, types.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, DefaultLLMModel, cfg.LLM.Model)
	assert.Equal(t, DefaultLLMTimeout, cfg.LLM.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFilePrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "papercast.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
search:
  max_results: 5
  timeout: 3s
  keep_missing_ids: true
llm:
  provider: anthropic
  model: claude-sonnet-4-5
`), 0o644))

	t.Setenv("PAPERCAST_SEARCH_MAX_RESULTS", "7")

	v := newViper(t, path)
	used, err := ReadFile(v)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := Load(v, secrets.Set{})
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Search.MaxResults, "env beats file")
	assert.Equal(t, 3*time.Second, cfg.Search.Timeout)
	assert.True(t, cfg.Search.KeepMissingIDs)
	assert.Equal(t, types.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.LLM.Model)
}

func TestLoadAPIKeys(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		secrets secrets.Set
		wantExa string
		wantLLM string
	}{
		{
			name:    "secrets fill empty keys",
			secrets: secrets.Set{secrets.ExaAPIKey: "exa-secret", secrets.LLMAPIKey: "llm-secret"},
			wantExa: "exa-secret",
			wantLLM: "llm-secret",
		},
		{
			name:    "bare env beats secrets",
			env:     map[string]string{"EXA_API_KEY": "exa-env"},
			secrets: secrets.Set{secrets.ExaAPIKey: "exa-secret"},
			wantExa: "exa-env",
		},
		{
			name:    "prefixed env is honored",
			env:     map[string]string{"PAPERCAST_LLM_API_KEY": "llm-env"},
			wantLLM: "llm-env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, val := range tt.env {
				t.Setenv(k, val)
			}
			cfg, err := Load(newViper(t, ""), tt.secrets)
			require.NoError(t, err)
			assert.Equal(t, tt.wantExa, cfg.Search.ExaAPIKey)
			assert.Equal(t, tt.wantLLM, cfg.LLM.APIKey)
		})
	}
}

func TestLoadAnthropicSecret(t *testing.T) {
	v := newViper(t, "")
	v.Set("llm.provider", "anthropic")

	cfg, err := Load(v, secrets.Set{secrets.AnthropicAPIKey: "ak", secrets.LLMAPIKey: "generic"})
	require.NoError(t, err)
	assert.Equal(t, "ak", cfg.LLM.APIKey)
}

func TestReadFileMissing(t *testing.T) {
	v := newViper(t, filepath.Join(t.TempDir(), "absent.yaml"))
	used, err := ReadFile(v)
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestValidate(t *testing.T) {
	base := func() types.Config {
		v := newViper(t, "")
		cfg, err := Load(v, secrets.Set{})
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*types.Config)
		errMsg string
	}{
		{"zero max results", func(c *types.Config) { c.Search.MaxResults = 0 }, "search.max_results"},
		{"cutoff above one", func(c *types.Config) { c.Search.MatchCutoff = 1.5 }, "search.match_cutoff"},
		{"unknown provider", func(c *types.Config) { c.LLM.Provider = "cohere" }, "llm.provider"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PAPERCAST_TEST_DOTENV=from-file\n"), 0o644))
	t.Setenv("PAPERCAST_TEST_DOTENV", "")
	os.Unsetenv("PAPERCAST_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("PAPERCAST_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
