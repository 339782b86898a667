// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/papercast/internal/httputil"
	"github.com/pdiddy/papercast/pkg/types"
)

// exaAPIBase is the Exa API root. Declared as a var so tests can
// substitute an httptest server.
var exaAPIBase = "https://api.exa.ai"

const defaultExaNumResults = 3

// errExaNotConfigured is returned by every call on a connector built
// without an API key.
var errExaNotConfigured = &ConnectorError{
	Source:  types.SourceExa,
	Kind:    KindNotConfigured,
	Message: "Exa API key not configured",
}

// ExaConnector performs content search and similar-page search with Exa.
type ExaConnector struct {
	Client     *http.Client
	Limiter    *rate.Limiter
	UserAgent  string
	APIKey     string
	NumResults int
}

// NewExaConnector returns a connector for apiKey. An empty key yields a
// disabled connector that never touches the network.
func NewExaConnector(apiKey string, client *http.Client, limiter *rate.Limiter, cfg types.SearchConfig) *ExaConnector {
	return &ExaConnector{
		Client:     client,
		Limiter:    limiter,
		UserAgent:  cfg.UserAgent,
		APIKey:     strings.TrimSpace(apiKey),
		NumResults: cfg.ExaNumResults,
	}
}

// Name returns the connector's source tag.
func (c *ExaConnector) Name() types.Source { return types.SourceExa }

// Enabled reports whether an API key is configured.
func (c *ExaConnector) Enabled() bool { return c != nil && c.APIKey != "" }

// Search runs an autoprompted content search for query.
func (c *ExaConnector) Search(ctx context.Context, query string) ([]RawRecord, error) {
	if !c.Enabled() {
		return nil, errExaNotConfigured
	}
	return c.post(ctx, "/search", exaRequest{
		Query:         query,
		UseAutoprompt: true,
		NumResults:    c.numResults(),
		Contents:      exaContents{Text: true, Highlights: true},
	})
}

// FindSimilar returns pages similar to the page at url.
func (c *ExaConnector) FindSimilar(ctx context.Context, url string) ([]RawRecord, error) {
	if !c.Enabled() {
		return nil, errExaNotConfigured
	}
	return c.post(ctx, "/findSimilar", exaRequest{
		URL:        url,
		NumResults: c.numResults(),
		Contents:   exaContents{Text: true, Highlights: true},
	})
}

func (c *ExaConnector) numResults() int {
	if c.NumResults <= 0 {
		return defaultExaNumResults
	}
	return c.NumResults
}

func (c *ExaConnector) post(ctx context.Context, path string, body exaRequest) ([]RawRecord, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, exaAPIBase+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)

	client := c.Client
	if client == nil {
		client = httputil.NewClient(types.HTTPConfig{})
	}
	resp, err := httputil.Do(ctx, client, req, c.Limiter, c.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("Exa API request: %w", err)
	}
	defer resp.Body.Close()

	var er exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing Exa response: %w", err)
	}

	records := make([]RawRecord, 0, len(er.Results))
	for _, res := range er.Results {
		records = append(records, res.record())
	}
	return records, nil
}

// Exa API JSON structures.
type exaRequest struct {
	Query         string      `json:"query,omitempty"`
	URL           string      `json:"url,omitempty"`
	UseAutoprompt bool        `json:"useAutoprompt,omitempty"`
	NumResults    int         `json:"numResults"`
	Contents      exaContents `json:"contents"`
}

type exaContents struct {
	Text       bool `json:"text"`
	Highlights bool `json:"highlights"`
}

type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	Score         float64  `json:"score"`
	PublishedDate string   `json:"publishedDate"`
	Author        string   `json:"author"`
	Text          string   `json:"text"`
	Highlights    []string `json:"highlights"`
}

func (r exaResult) record() RawRecord {
	rec := RawRecord{
		Title:      strings.TrimSpace(r.Title),
		URL:        r.URL,
		PaperID:    r.ID,
		Published:  r.PublishedDate,
		Source:     string(types.SourceExa),
		Text:       r.Text,
		Highlights: r.Highlights,
		Authors:    []string{},
		Categories: []string{},
	}
	if r.Author != "" {
		rec.Authors = append(rec.Authors, r.Author)
	}
	if len(r.Highlights) > 0 {
		rec.Summary = strings.Join(r.Highlights, " ")
	}
	return rec
}

// contentBlob joins the titles, highlights and text of content results
// into the text handed to the title normalizer.
func contentBlob(records []RawRecord) string {
	var sb strings.Builder
	for _, r := range records {
		if r.Title != "" {
			sb.WriteString(r.Title)
			sb.WriteString("\n")
		}
		for _, h := range r.Highlights {
			sb.WriteString(h)
			sb.WriteString("\n")
		}
		if r.Text != "" {
			sb.WriteString(r.Text)
			sb.WriteString("\n")
		}
	}
	return strings.TrimSpace(sb.String())
}
