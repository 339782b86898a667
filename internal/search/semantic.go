// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/papercast/internal/httputil"
	"github.com/pdiddy/papercast/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const (
	semanticFields       = "title,year,authors,abstract,url,openAccessPdf,paperId,citationCount,venue,fieldsOfStudy"
	defaultSemanticLimit = 10
)

// SemanticScholarConnector queries the Semantic Scholar Graph API.
type SemanticScholarConnector struct {
	Client    *http.Client
	Limiter   *rate.Limiter
	UserAgent string
	APIKey    string
	Limit     int
}

// Name returns the connector's source tag.
func (c *SemanticScholarConnector) Name() types.Source { return types.SourceSemanticScholar }

// Search returns up to Limit papers matching query.
func (c *SemanticScholarConnector) Search(ctx context.Context, query string) ([]RawRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	limit := c.Limit
	if limit <= 0 {
		limit = defaultSemanticLimit
	}

	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	client := c.Client
	if client == nil {
		client = httputil.NewClient(types.HTTPConfig{})
	}
	resp, err := httputil.Do(ctx, client, req, c.Limiter, c.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	records := make([]RawRecord, 0, len(sr.Data))
	for _, paper := range sr.Data {
		records = append(records, paper.record())
	}
	return records, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string           `json:"paperId"`
	Title         string           `json:"title"`
	Abstract      string           `json:"abstract"`
	Year          int              `json:"year"`
	URL           string           `json:"url"`
	Venue         string           `json:"venue"`
	CitationCount int              `json:"citationCount"`
	Authors       []semanticAuthor `json:"authors"`
	OpenAccessPDF *semanticPDF     `json:"openAccessPdf"`
	FieldsOfStudy []string         `json:"fieldsOfStudy"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticPDF struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

func (p semanticPaper) record() RawRecord {
	r := RawRecord{
		Title:         p.Title,
		Summary:       p.Abstract,
		Year:          p.Year,
		URL:           p.URL,
		PaperID:       p.PaperID,
		Source:        string(types.SourceSemanticScholar),
		CitationCount: p.CitationCount,
		Venue:         p.Venue,
		Authors:       []string{},
		Categories:    []string{},
	}
	for _, a := range p.Authors {
		if a.Name != "" {
			r.Authors = append(r.Authors, a.Name)
		}
	}
	r.Categories = append(r.Categories, p.FieldsOfStudy...)
	if p.OpenAccessPDF != nil {
		r.PDFURL = p.OpenAccessPDF.URL
	}
	return r
}
