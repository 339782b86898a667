// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papercast/pkg/types"
)

type fakeChatter struct {
	reply *schema.Message
	err   error
	got   []*schema.Message
	wait  bool
}

func (f *fakeChatter) Generate(ctx context.Context, in []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.got = in
	if f.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.reply, f.err
}

func TestChatModelGenerate(t *testing.T) {
	fake := &fakeChatter{reply: schema.AssistantMessage("Attention Is All You Need", nil)}
	cm := NewChatModelWith(fake, types.LLMConfig{Model: "test-model"})

	got, err := cm.Generate(context.Background(), "Write a clean title")
	require.NoError(t, err)
	assert.Equal(t, "Attention Is All You Need", got)

	require.Len(t, fake.got, 2)
	assert.Equal(t, schema.System, fake.got[0].Role)
	assert.Equal(t, schema.User, fake.got[1].Role)
	assert.Equal(t, "Write a clean title", fake.got[1].Content)
}

func TestChatModelErrors(t *testing.T) {
	tests := []struct {
		name    string
		fake    *fakeChatter
		wantErr error
	}{
		{"upstream failure", &fakeChatter{err: errors.New("boom")}, nil},
		{"nil reply", &fakeChatter{}, ErrEmptyResponse},
		{"blank reply", &fakeChatter{reply: schema.AssistantMessage("  \n", nil)}, ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm := NewChatModelWith(tt.fake, types.LLMConfig{Model: "m"})
			_, err := cm.Generate(context.Background(), "p")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestChatModelTimeout(t *testing.T) {
	cm := NewChatModelWith(&fakeChatter{wait: true}, types.LLMConfig{Model: "m", Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := cm.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

type fakeMessager struct {
	resp   *anthropic.Message
	err    error
	params anthropic.MessageNewParams
}

func (f *fakeMessager) New(_ context.Context, p anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	f.params = p
	return f.resp, f.err
}

func withMessager(t *testing.T, m AnthropicMessager) {
	t.Helper()
	old := newAnthropicClient
	newAnthropicClient = func(string, string) AnthropicMessager { return m }
	t.Cleanup(func() { newAnthropicClient = old })
}

func TestAnthropicGenerate(t *testing.T) {
	fake := &fakeMessager{resp: &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "Graph Neural "},
			{Type: "thinking", Text: "ignored"},
			{Type: "text", Text: "Networks"},
		},
	}}
	withMessager(t, fake)

	a := NewAnthropic(types.LLMConfig{Model: "claude-sonnet-4-5", MaxTokens: 512})
	got, err := a.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Graph Neural Networks", got)
	assert.Equal(t, anthropic.Model("claude-sonnet-4-5"), fake.params.Model)
	assert.Equal(t, int64(512), fake.params.MaxTokens)
}

func TestAnthropicEmpty(t *testing.T) {
	withMessager(t, &fakeMessager{resp: &anthropic.Message{}})

	_, err := NewAnthropic(types.LLMConfig{Model: "m"}).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNew(t *testing.T) {
	withMessager(t, &fakeMessager{})

	_, err := New(context.Background(), types.LLMConfig{Provider: types.ProviderOpenAI})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	g, err := New(context.Background(), types.LLMConfig{Provider: types.ProviderAnthropic, APIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, g)

	_, err = New(context.Background(), types.LLMConfig{Provider: "cohere", APIKey: "k"})
	assert.Error(t, err)
}

func TestNewLimiter(t *testing.T) {
	assert.Nil(t, newLimiter(0))
	l := newLimiter(120)
	require.NotNil(t, l)
	assert.InDelta(t, 2.0, float64(l.Limit()), 1e-9)
}
