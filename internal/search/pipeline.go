// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/papercast/pkg/types"
)

// maxBlobChars bounds the content handed to the title normalizer.
const maxBlobChars = 8000

// Titler condenses a text blob into a search title, falling back to
// fallback when it cannot.
type Titler interface {
	Normalize(ctx context.Context, blob, fallback string) string
}

// ErrEmptyInput is returned by Run for blank input.
var ErrEmptyInput = errors.New("input is empty: provide a research topic or a URL")

// ProcessingError reports an internal fault caught at the pipeline boundary.
type ProcessingError struct {
	Message string
}

func (e *ProcessingError) Error() string {
	return "Error during processing: " + e.Message
}

// JSON returns the fault payload: a one-element array holding the error.
func (e *ProcessingError) JSON() string {
	return `[{"error": ` + quoteJSON(e.Error()) + `}]`
}

// Output is the result of one pipeline run.
type Output struct {
	Input       string              `json:"input" yaml:"input"`
	Title       string              `json:"title" yaml:"title"`
	Papers      []types.PaperRecord `json:"papers" yaml:"papers"`
	Errors      []*ConnectorError   `json:"errors,omitempty" yaml:"-"`
	DupsRemoved int                 `json:"dups_removed" yaml:"dups_removed"`
	Candidates  int                 `json:"candidates" yaml:"candidates"`
}

// Pipeline wires the connectors, the title normalizer and the
// post-processing stages. Content may be nil; Titler may be nil.
type Pipeline struct {
	Content ContentSearcher
	Papers  []Connector
	Titler  Titler
	Config  types.SearchConfig
	Log     logrus.FieldLogger
}

// Run classifies input, searches, and returns deduplicated, relevant
// papers ordered by year. Connector failures are reported in
// Output.Errors and never abort the run. A panic in any stage is
// returned as a *ProcessingError.
func (p *Pipeline) Run(ctx context.Context, input string, variant Variant) (out Output, err error) {
	if strings.TrimSpace(input) == "" {
		return Output{}, ErrEmptyInput
	}

	defer func() {
		if r := recover(); r != nil {
			out = Output{}
			err = &ProcessingError{Message: fmt.Sprint(r)}
		}
	}()

	log := p.logger().WithField("variant", variant)
	out = Output{Input: input}

	content := p.searchContent(ctx, input)
	if !content.OK() {
		out.Errors = append(out.Errors, content.Err)
		p.logFailure(content)
	}

	out.Title = p.title(ctx, input, content)
	log.WithField("title", out.Title).Info("searching papers")

	var raw []RawRecord
	for _, o := range p.searchPapers(ctx, out.Title) {
		if !o.OK() {
			out.Errors = append(out.Errors, o.Err)
			p.logFailure(o)
			continue
		}
		raw = append(raw, o.Records...)
	}
	if p.Config.IncludeContentResults && content.OK() {
		raw = append(raw, content.Records...)
	}
	out.Candidates = len(raw)

	deduped, removed := Deduplicate(FormatAll(raw), PolicyFor(p.Config))
	out.DupsRemoved = removed

	limit, cutoff := p.Config.MatchLimit, p.Config.MatchCutoff
	if limit <= 0 {
		limit = DefaultMatchLimit
	}
	if cutoff <= 0 {
		cutoff = DefaultMatchCutoff
	}
	relevant := FilterRelevant(out.Title, deduped, limit, cutoff)
	out.Papers = Rank(relevant, variant, p.Config.MaxResults)

	log.WithFields(logrus.Fields{
		"candidates": out.Candidates,
		"duplicates": out.DupsRemoved,
		"relevant":   len(relevant),
		"returned":   len(out.Papers),
		"errors":     len(out.Errors),
	}).Info("search complete")
	return out, nil
}

func (p *Pipeline) searchContent(ctx context.Context, input string) Outcome {
	if p.Content == nil {
		return Outcome{Source: types.SourceExa, Err: errExaNotConfigured}
	}
	if IsURL(input) {
		return InvokeSimilar(ctx, p.Content, input)
	}
	return Invoke(ctx, p.Content, "Find research papers related to: "+input+".")
}

func (p *Pipeline) title(ctx context.Context, input string, content Outcome) string {
	if p.Titler == nil {
		return strings.TrimSpace(input)
	}
	var blob string
	if content.OK() {
		blob = clip(contentBlob(content.Records), maxBlobChars)
	}
	return p.Titler.Normalize(ctx, blob, input)
}

// searchPapers invokes every paper connector concurrently. Outcomes are
// returned in connector order.
func (p *Pipeline) searchPapers(ctx context.Context, title string) []Outcome {
	outcomes := make([]Outcome, len(p.Papers))
	var wg sync.WaitGroup
	for i, c := range p.Papers {
		wg.Add(1)
		go func(i int, c Connector) {
			defer wg.Done()
			outcomes[i] = Invoke(ctx, c, title)
		}(i, c)
	}
	wg.Wait()
	return outcomes
}

func (p *Pipeline) logFailure(o Outcome) {
	p.logger().WithFields(logrus.Fields{
		"source": o.Source,
		"kind":   o.Err.Kind,
	}).Warn(o.Err.Message)
}

func (p *Pipeline) logger() logrus.FieldLogger {
	if p.Log != nil {
		return p.Log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
