// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package titlegen condenses free text (content search results or a raw
// user query) into a short search title using an LLM.
package titlegen

import (
	"bytes"
	"context"
	"io"
	"strings"
	"text/template"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/papercast/internal/llm"
)

var titlePromptTmpl = template.Must(template.New("title").Parse(`Write a clean title to search on arxiv or semantic scholar from this text. Return ONLY the title, no quotes, no prefixes, no bullet points, no special characters, only neatly spaced words as the most apt title for:
{{.Blob}}
`))

// Normalizer turns a text blob into a clean title.
type Normalizer struct {
	gen llm.Generator
	log logrus.FieldLogger
}

// New returns a Normalizer. A nil gen makes every call fall back.
func New(gen llm.Generator, log logrus.FieldLogger) *Normalizer {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Normalizer{gen: gen, log: log}
}

// Normalize asks the model for a title describing blob and cleans the
// reply. It never fails: an empty blob, a generator error or a reply that
// cleans to nothing all yield strings.TrimSpace(fallback).
func (n *Normalizer) Normalize(ctx context.Context, blob, fallback string) string {
	fallback = strings.TrimSpace(fallback)
	if n == nil || n.gen == nil || strings.TrimSpace(blob) == "" {
		return fallback
	}

	var buf bytes.Buffer
	if err := titlePromptTmpl.Execute(&buf, struct{ Blob string }{blob}); err != nil {
		n.log.WithError(err).Warn("rendering title prompt")
		return fallback
	}

	raw, err := n.gen.Generate(ctx, buf.String())
	if err != nil {
		n.log.WithError(err).Warn("title generation failed, using input")
		return fallback
	}

	title := Clean(raw)
	if title == "" {
		return fallback
	}
	n.log.WithField("title", title).Debug("generated title")
	return title
}

// Clean trims s, removes every rune that is not a letter, digit,
// underscore or whitespace, and returns the first line, trimmed.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
