// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package titlegen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGen struct {
	reply  string
	err    error
	prompt string
	calls  int
}

func (f *fakeGen) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Graph Neural Networks  ", "Graph Neural Networks"},
		{`"Attention: Is All You Need!"`, "Attention Is All You Need"},
		{"Title: Deep_Learning\nSecond line", "Title Deep_Learning"},
		{"- **BERT** pre-training\n", "BERT pretraining"},
		{"!!!", ""},
		{"\n\nLeading blank lines", "Leading blank lines"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		gen       *fakeGen
		blob      string
		want      string
		wantCalls int
	}{
		{
			name:      "cleans model reply",
			gen:       &fakeGen{reply: "**Graph Neural Networks: A Survey**"},
			blob:      "Some content about GNNs",
			want:      "Graph Neural Networks A Survey",
			wantCalls: 1,
		},
		{
			name:      "generator error falls back",
			gen:       &fakeGen{err: errors.New("quota")},
			blob:      "content",
			want:      "graph neural networks",
			wantCalls: 1,
		},
		{
			name:      "reply cleans to nothing",
			gen:       &fakeGen{reply: "???"},
			blob:      "content",
			want:      "graph neural networks",
			wantCalls: 1,
		},
		{
			name:      "empty blob skips the model",
			gen:       &fakeGen{reply: "unused"},
			blob:      "  ",
			want:      "graph neural networks",
			wantCalls: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(tt.gen, nil)
			got := n.Normalize(context.Background(), tt.blob, "  graph neural networks ")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, tt.gen.calls)
		})
	}
}

func TestNormalizePromptIncludesBlob(t *testing.T) {
	gen := &fakeGen{reply: "x"}
	New(gen, nil).Normalize(context.Background(), "Transformers for protein folding", "q")
	require.Contains(t, gen.prompt, "Transformers for protein folding")
	assert.Contains(t, gen.prompt, "Return ONLY the title")
}

func TestNormalizeNilGenerator(t *testing.T) {
	var n *Normalizer
	assert.Equal(t, "q", n.Normalize(context.Background(), "blob", " q "))
	assert.Equal(t, "q", New(nil, nil).Normalize(context.Background(), "blob", "q"))
}
