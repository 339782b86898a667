// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/pdiddy/papercast/pkg/types"
)

const systemPrompt = "You are a concise assistant for academic research. Follow the instruction exactly and output only what is asked."

// Chatter is the slice of an eino chat model that ChatModel uses.
type Chatter interface {
	Generate(ctx context.Context, in []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// ChatModel generates text through an OpenAI-compatible endpoint.
type ChatModel struct {
	chat    Chatter
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewChatModel connects to cfg.BaseURL with cfg.APIKey.
func NewChatModel(ctx context.Context, cfg types.LLMConfig) (*ChatModel, error) {
	temp := float32(0.3)
	maxTokens := cfg.MaxTokens
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating chat model: %w", err)
	}
	return NewChatModelWith(cm, cfg), nil
}

// NewChatModelWith wraps an existing Chatter.
func NewChatModelWith(chat Chatter, cfg types.LLMConfig) *ChatModel {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ChatModel{
		chat:    chat,
		model:   cfg.Model,
		timeout: timeout,
		limiter: newLimiter(cfg.RPM),
	}
}

// Generate sends prompt as the user turn under a fixed system message.
func (c *ChatModel) Generate(ctx context.Context, prompt string) (string, error) {
	if err := wait(ctx, c.limiter); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	}
	resp, err := c.chat.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generating with %s: %w", c.model, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Content, nil
}
