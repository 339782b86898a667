// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package podcast

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/papercast/internal/llm"
	"github.com/pdiddy/papercast/internal/search"
	"github.com/pdiddy/papercast/pkg/types"
)

const defaultMaxContentChars = 20000

var scriptPromptTmpl = template.Must(template.New("script").Funcs(template.FuncMap{"join": strings.Join}).Parse(`Write a podcast script discussing the research paper below as a conversation between two hosts, "{{.HostOne}}" and "{{.HostTwo}}". Base it strictly on the paper.
Return ONLY a JSON object inside ` + "```json" + ` markers with these keys: "title" (the paper title); "host_intro", "paper_overview", "methodology", "results", "real_world_applications", "limitations", "conclusion", "outro" (each a list of {"speaker": ..., "dialogue": ...} objects); "key_insights" (a list of at least three such lists, one per insight).

Title: {{.Paper.Title}}
{{- if .Paper.Authors}}
Authors: {{join .Paper.Authors ", "}}
{{- end}}
{{- if .Paper.Year}}
Year: {{.Paper.Year}}
{{- end}}
URL: {{.Paper.URL}}

Content:
{{.Content}}
{{- if .Related}}

Related papers the hosts may mention:
{{- range .Related}}
- {{.Title}}{{if .Year}} ({{.Year}}){{end}}
{{- end}}
{{- end}}
`))

// RelatedFinder runs the paper search pipeline.
type RelatedFinder interface {
	Run(ctx context.Context, input string, variant search.Variant) (search.Output, error)
}

// Generator produces validated scripts.
type Generator struct {
	LLM      llm.Generator
	Resolver *Resolver
	Related  RelatedFinder
	Config   types.PodcastConfig
	Log      logrus.FieldLogger
}

// Generate resolves the paper at url and writes a script for it.
func (g *Generator) Generate(ctx context.Context, url string) (*Script, error) {
	if g.LLM == nil {
		return nil, fmt.Errorf("podcast generation needs an LLM: %w", llm.ErrNoAPIKey)
	}
	log := g.logger().WithField("url", url)

	paper, err := g.Resolver.Resolve(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("resolving paper: %w", err)
	}
	log.WithFields(logrus.Fields{"title": paper.Title, "source": paper.Source}).Info("resolved paper")

	var related []types.PaperRecord
	if g.Config.IncludeRelated && g.Related != nil {
		out, err := g.Related.Run(ctx, url, search.VariantPodcast)
		if err != nil {
			log.WithError(err).Warn("related paper search failed")
		} else {
			related = withoutTitle(out.Papers, paper.Title)
		}
	}

	prompt, err := renderScriptPrompt(paper, related, g.maxChars())
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	reply, err := g.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generating podcast script: %w", err)
	}

	script, err := ParseScript(reply)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"turns": len(script.Turns()),
		"words": script.WordCount(),
	}).Info("script generated")
	return script, nil
}

func (g *Generator) maxChars() int {
	if g.Config.MaxContentChars > 0 {
		return g.Config.MaxContentChars
	}
	return defaultMaxContentChars
}

func (g *Generator) logger() logrus.FieldLogger {
	if g.Log != nil {
		return g.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func renderScriptPrompt(p Paper, related []types.PaperRecord, maxChars int) (string, error) {
	content := p.Content
	if r := []rune(content); len(r) > maxChars {
		content = string(r[:maxChars])
	}

	var buf bytes.Buffer
	err := scriptPromptTmpl.Execute(&buf, struct {
		HostOne, HostTwo string
		Paper            Paper
		Content          string
		Related          []types.PaperRecord
	}{HostOne, HostTwo, p, content, related})
	return buf.String(), err
}

func withoutTitle(records []types.PaperRecord, title string) []types.PaperRecord {
	var out []types.PaperRecord
	for _, r := range records {
		if !strings.EqualFold(r.Title, title) {
			out = append(out, r)
		}
	}
	return out
}
