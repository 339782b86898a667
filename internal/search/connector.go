// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search finds papers related to a topic or URL. Connectors query
// arXiv, Semantic Scholar and Exa; the Pipeline normalizes, deduplicates,
// filters and ranks what they return.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pdiddy/papercast/pkg/types"
)

// Connector searches one external service. Implementations return raw,
// source-shaped records; the Formatter normalizes them.
type Connector interface {
	Name() types.Source
	Search(ctx context.Context, query string) ([]RawRecord, error)
}

// ContentSearcher is a Connector that can also find pages similar to a URL.
type ContentSearcher interface {
	Connector
	FindSimilar(ctx context.Context, url string) ([]RawRecord, error)
}

// RawRecord is the union of the fields any connector may report. Fields a
// source does not provide stay at their zero value.
type RawRecord struct {
	Title         string
	Authors       []string
	Year          int    // 0 when the source gave no year
	Published     string // ISO date or timestamp
	Abstract      string
	Summary       string
	URL           string
	PDFURL        string
	PaperID       string
	ArxivID       string
	Source        string
	Categories    []string
	CitationCount int
	Venue         string
	Text          string // page text (content search only)
	Highlights    []string
}

// ErrorKind classifies a connector failure.
type ErrorKind string

const (
	// KindNotConfigured means the connector lacks a credential and made no call.
	KindNotConfigured ErrorKind = "not_configured"
	// KindUpstream covers transport errors, non-2xx replies and bad payloads.
	KindUpstream ErrorKind = "upstream"
)

// ErrNotConfigured is matched by errors.Is on not-configured ConnectorErrors.
var ErrNotConfigured = errors.New("connector not configured")

// ConnectorError is a connector failure carried as data. It encodes as
// {"error": "<message>"}.
type ConnectorError struct {
	Source  types.Source
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ConnectorError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *ConnectorError) Unwrap() error { return e.Err }

// Is reports not-configured errors as ErrNotConfigured.
func (e *ConnectorError) Is(target error) bool {
	return target == ErrNotConfigured && e.Kind == KindNotConfigured
}

// MarshalJSON encodes the error payload.
func (e *ConnectorError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"error": e.Message})
}

// Outcome is the result of one connector call: either Records or Err.
type Outcome struct {
	Source  types.Source
	Records []RawRecord
	Err     *ConnectorError
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// failurePrefix is the message prefix for upstream failures per source.
var failurePrefix = map[types.Source]string{
	types.SourceArxiv:           "arXiv search failed",
	types.SourceSemanticScholar: "Semantic Scholar search failed",
	types.SourceExa:             "Exa search failed",
}

// Invoke runs c.Search and converts any error or panic into an Outcome.
func Invoke(ctx context.Context, c Connector, query string) Outcome {
	return invoke(c.Name(), failurePrefix[c.Name()], func() ([]RawRecord, error) {
		return c.Search(ctx, query)
	})
}

// InvokeSimilar runs c.FindSimilar with the same guarantees as Invoke.
func InvokeSimilar(ctx context.Context, c ContentSearcher, url string) Outcome {
	return invoke(c.Name(), "Exa similar search failed", func() ([]RawRecord, error) {
		return c.FindSimilar(ctx, url)
	})
}

func invoke(src types.Source, prefix string, call func() ([]RawRecord, error)) (out Outcome) {
	out.Source = src
	defer func() {
		if r := recover(); r != nil {
			out.Records = nil
			out.Err = upstreamError(src, prefix, fmt.Errorf("panic: %v", r))
		}
	}()

	records, err := call()
	if err != nil {
		var ce *ConnectorError
		if errors.As(err, &ce) {
			out.Err = ce
		} else {
			out.Err = upstreamError(src, prefix, err)
		}
		return out
	}
	if records == nil {
		records = []RawRecord{}
	}
	out.Records = records
	return out
}

func upstreamError(src types.Source, prefix string, err error) *ConnectorError {
	if prefix == "" {
		prefix = string(src) + " search failed"
	}
	return &ConnectorError{
		Source:  src,
		Kind:    KindUpstream,
		Message: fmt.Sprintf("%s: %v", prefix, err),
		Err:     err,
	}
}
