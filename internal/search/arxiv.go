// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/papercast/internal/httputil"
	"github.com/pdiddy/papercast/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const defaultArxivMaxResults = 60

// ArxivConnector queries the arXiv Atom API.
type ArxivConnector struct {
	Client     *http.Client
	Limiter    *rate.Limiter
	UserAgent  string
	MaxResults int
}

// Name returns the connector's source tag.
func (c *ArxivConnector) Name() types.Source { return types.SourceArxiv }

// Search returns up to MaxResults entries for query in relevance order.
func (c *ArxivConnector) Search(ctx context.Context, query string) ([]RawRecord, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	maxResults := c.MaxResults
	if maxResults <= 0 {
		maxResults = defaultArxivMaxResults
	}

	params := url.Values{
		"search_query": {q},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}
	return c.fetch(ctx, params)
}

// Lookup fetches a single paper by arXiv identifier.
func (c *ArxivConnector) Lookup(ctx context.Context, arxivID string) (RawRecord, error) {
	arxivID = strings.TrimSpace(arxivID)
	if arxivID == "" {
		return RawRecord{}, fmt.Errorf("empty arXiv id")
	}

	records, err := c.fetch(ctx, url.Values{"id_list": {arxivID}})
	if err != nil {
		return RawRecord{}, err
	}
	if len(records) == 0 {
		return RawRecord{}, fmt.Errorf("arXiv paper %s not found", arxivID)
	}
	return records[0], nil
}

func (c *ArxivConnector) fetch(ctx context.Context, params url.Values) ([]RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := httputil.Do(ctx, c.client(), req, c.Limiter, c.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	records := make([]RawRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}
		records = append(records, entry.record(arxivID))
	}
	return records, nil
}

func (c *ArxivConnector) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return httputil.NewClient(types.HTTPConfig{})
}

// buildArxivQuery collapses whitespace in the title; arXiv searches all
// fields when no field prefix is given.
func buildArxivQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Authors    []arxivAuthor   `xml:"author"`
	Links      []arxivLink     `xml:"link"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
	Title string `xml:"title,attr"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

func (e arxivEntry) record(arxivID string) RawRecord {
	r := RawRecord{
		Title:      collapseSpace(e.Title),
		Summary:    strings.TrimSpace(e.Summary),
		Published:  strings.TrimSpace(e.Published),
		ArxivID:    arxivID,
		Source:     string(types.SourceArxiv),
		Authors:    []string{},
		Categories: []string{},
	}
	for _, a := range e.Authors {
		r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
	}
	for _, cat := range e.Categories {
		if cat.Term != "" {
			r.Categories = append(r.Categories, cat.Term)
		}
	}
	if t, err := time.Parse(time.RFC3339, r.Published); err == nil {
		r.Year = t.Year()
	}
	r.PDFURL = e.pdfLink()
	return r
}

// pdfLink returns the entry's PDF link, deriving it from the abstract id
// when the feed omits one.
func (e arxivEntry) pdfLink() string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	if strings.Contains(e.ID, "/abs/") {
		return strings.Replace(e.ID, "/abs/", "/pdf/", 1)
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
