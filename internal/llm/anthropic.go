// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"

	"github.com/pdiddy/papercast/pkg/types"
)

// AnthropicMessager is the Messages service surface used by Anthropic.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// newAnthropicClient is swapped in tests.
var newAnthropicClient = func(apiKey, baseURL string) AnthropicMessager {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	c := anthropic.NewClient(opts...)
	return &c.Messages
}

// Anthropic generates text through Anthropic's Messages API.
type Anthropic struct {
	messages  AnthropicMessager
	model     string
	maxTokens int64
	timeout   time.Duration
	limiter   *rate.Limiter
}

// NewAnthropic builds a client for cfg. BaseURL is honored only when it
// is not the OpenAI-compatible default.
func NewAnthropic(cfg types.LLMConfig) *Anthropic {
	baseURL := cfg.BaseURL
	if strings.Contains(baseURL, "generativelanguage.googleapis.com") {
		baseURL = ""
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Anthropic{
		messages:  newAnthropicClient(cfg.APIKey, baseURL),
		model:     cfg.Model,
		maxTokens: int64(maxTokens),
		timeout:   timeout,
		limiter:   newLimiter(cfg.RPM),
	}
}

// Generate sends prompt as a single user message and joins the text blocks of the reply.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	if err := wait(ctx, a.limiter); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
	})
	if err != nil {
		return "", fmt.Errorf("generating with %s: %w", a.model, err)
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
