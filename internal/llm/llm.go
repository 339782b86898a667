// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides text generation behind a single-method interface.
// Two backends exist: any OpenAI-compatible chat endpoint (through eino)
// and Anthropic's Messages API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/papercast/pkg/types"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNoAPIKey is returned by New when the provider needs a key and none is configured.
var ErrNoAPIKey = errors.New("llm api key not configured")

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("llm returned an empty response")

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxTokens = 4096
)

// New builds the Generator selected by cfg.Provider.
func New(ctx context.Context, cfg types.LLMConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		return NewChatModel(ctx, cfg)
	case types.ProviderAnthropic:
		return NewAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// newLimiter converts a requests-per-minute budget into a limiter.
// Zero or negative rpm means no pacing.
func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
}

// wait blocks on l when it is set, bounded by ctx.
func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return nil
	}
	if err := l.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for llm rate limit: %w", err)
	}
	return nil
}
