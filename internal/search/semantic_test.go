// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSemanticServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	t.Cleanup(func() { semanticAPIBase = old })
	return ts
}

// --- Request construction (URL params, headers) ---

func TestSemanticSearchRequestParams(t *testing.T) {
	var capturedReq *http.Request
	ts := withSemanticServer(t, func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"total":0,"offset":0,"data":[]}`)
	})

	c := &SemanticScholarConnector{Client: ts.Client(), UserAgent: "papercast-test"}
	_, err := c.Search(context.Background(), "graph neural networks")
	require.NoError(t, err)

	q := capturedReq.URL.Query()
	if got := q.Get("query"); got != "graph neural networks" {
		t.Errorf("query param = %q, want %q", got, "graph neural networks")
	}
	if got := q.Get("limit"); got != "10" {
		t.Errorf("limit param = %q, want %q", got, "10")
	}

	fields := q.Get("fields")
	for _, f := range []string{"title", "year", "authors", "abstract", "url", "openAccessPdf", "paperId", "citationCount", "venue", "fieldsOfStudy"} {
		if !strings.Contains(fields, f) {
			t.Errorf("fields param %q missing %q", fields, f)
		}
	}
	assert.Equal(t, "papercast-test", capturedReq.Header.Get("User-Agent"))
}

func TestSemanticSearchAPIKeyHeader(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
	}{
		{"with API key", "test-key-123"},
		{"without API key", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			ts := withSemanticServer(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("x-api-key")
				fmt.Fprint(w, `{"data":[]}`)
			})

			c := &SemanticScholarConnector{Client: ts.Client(), APIKey: tt.apiKey}
			_, err := c.Search(context.Background(), "test")
			require.NoError(t, err)
			assert.Equal(t, tt.apiKey, got)
		})
	}
}

// --- Response mapping ---

func TestSemanticSearchMapsFields(t *testing.T) {
	withSemanticServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"total":2,"offset":0,"data":[
			{"paperId":"204e3073870fae3d05bcbc2f6a8e263d9b72e776","title":"Attention is All you Need",
			 "abstract":"The dominant sequence transduction models...","year":2017,
			 "url":"https://www.semanticscholar.org/paper/204e3073",
			 "authors":[{"authorId":"40348417","name":"Ashish Vaswani"},{"authorId":"1","name":""}],
			 "openAccessPdf":{"url":"https://arxiv.org/pdf/1706.03762","status":"GREEN"},
			 "citationCount":100000,"venue":"NeurIPS","fieldsOfStudy":["Computer Science"]},
			{"paperId":"p2","title":"No extras","year":null,"authors":[],"openAccessPdf":null,"fieldsOfStudy":null}
		]}`)
	})

	records, err := (&SemanticScholarConnector{}).Search(context.Background(), "attention")
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, "204e3073870fae3d05bcbc2f6a8e263d9b72e776", r.PaperID)
	assert.Equal(t, "Attention is All you Need", r.Title)
	assert.Equal(t, "The dominant sequence transduction models...", r.Summary)
	assert.Equal(t, 2017, r.Year)
	assert.Equal(t, "https://www.semanticscholar.org/paper/204e3073", r.URL)
	assert.Equal(t, "https://arxiv.org/pdf/1706.03762", r.PDFURL)
	assert.Equal(t, []string{"Ashish Vaswani"}, r.Authors)
	assert.Equal(t, []string{"Computer Science"}, r.Categories)
	assert.Equal(t, 100000, r.CitationCount)
	assert.Equal(t, "NeurIPS", r.Venue)
	assert.Equal(t, "semantic_scholar", r.Source)

	bare := records[1]
	assert.Zero(t, bare.Year)
	assert.Empty(t, bare.PDFURL)
	assert.NotNil(t, bare.Categories)
}

// --- Error cases ---

func TestSemanticSearchHTTPErrors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"429 rate limit", http.StatusTooManyRequests, "HTTP 429"},
		{"500 server error", http.StatusInternalServerError, "HTTP 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			ts := withSemanticServer(t, func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(tt.statusCode)
			})

			_, err := (&SemanticScholarConnector{Client: ts.Client()}).Search(context.Background(), "test")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, 1, calls, "connectors never retry")
		})
	}
}

func TestSemanticSearchMalformedJSON(t *testing.T) {
	ts := withSemanticServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{invalid json`)
	})

	_, err := (&SemanticScholarConnector{Client: ts.Client()}).Search(context.Background(), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestSemanticSearchEmptyQuery(t *testing.T) {
	_, err := (&SemanticScholarConnector{}).Search(context.Background(), "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}
