// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package podcast

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/time/rate"

	"github.com/pdiddy/papercast/internal/httputil"
	"github.com/pdiddy/papercast/internal/search"
	"github.com/pdiddy/papercast/pkg/types"
)

// maxPageBytes bounds how much of a web page is read.
const maxPageBytes = 5 << 20

// ErrNoContent is returned when a page yields no usable text.
var ErrNoContent = errors.New("no substantial content found on the webpage")

// Paper is the material a script is written from.
type Paper struct {
	Title   string
	Authors []string
	Year    *int
	URL     string
	Content string
	Source  types.Source
}

// ArxivLookup fetches arXiv metadata by identifier.
type ArxivLookup interface {
	Lookup(ctx context.Context, arxivID string) (search.RawRecord, error)
}

// Resolver finds the paper behind a URL.
type Resolver struct {
	Arxiv     ArxivLookup
	Client    *http.Client
	Limiter   *rate.Limiter
	UserAgent string
}

// Resolve returns arXiv metadata for arXiv links and the readable text of
// the page for everything else.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (Paper, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !search.IsURL(rawURL) {
		return Paper{}, fmt.Errorf("not a URL: %q", rawURL)
	}

	if id := search.ArxivIDFromURL(rawURL); id != "" && r.Arxiv != nil {
		return r.fromArxiv(ctx, id, rawURL)
	}
	return r.fromPage(ctx, rawURL)
}

func (r *Resolver) fromArxiv(ctx context.Context, id, rawURL string) (Paper, error) {
	raw, err := r.Arxiv.Lookup(ctx, id)
	if err != nil {
		return Paper{}, fmt.Errorf("looking up arXiv %s: %w", id, err)
	}
	rec := search.Format(raw)
	p := Paper{
		Title:   rec.Title,
		Authors: rec.Authors,
		Year:    rec.Year,
		URL:     "https://arxiv.org/abs/" + id,
		Content: rec.Abstract,
		Source:  types.SourceArxiv,
	}
	if p.Content == types.NoAbstract {
		return Paper{}, fmt.Errorf("arXiv %s has no abstract", id)
	}
	return p, nil
}

func (r *Resolver) fromPage(ctx context.Context, rawURL string) (Paper, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return Paper{}, fmt.Errorf("parsing URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Paper{}, fmt.Errorf("creating request: %w", err)
	}
	client := r.Client
	if client == nil {
		client = httputil.NewClient(types.HTTPConfig{})
	}
	resp, err := httputil.Do(ctx, client, req, r.Limiter, r.UserAgent)
	if err != nil {
		return Paper{}, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return Paper{}, fmt.Errorf("reading page: %w", err)
	}

	title, content := extractReadable(body, pageURL)
	if content == "" {
		title, content, err = extractElements(body)
		if err != nil {
			return Paper{}, err
		}
	}
	if content == "" {
		return Paper{}, ErrNoContent
	}
	if title == "" {
		title = types.UntitledPaperPage
	}
	return Paper{Title: title, URL: rawURL, Content: content, Source: types.SourceUnknown, Authors: []string{}}, nil
}

// extractReadable runs the readability algorithm over the page.
func extractReadable(body []byte, pageURL *url.URL) (title, content string) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(article.Title), strings.TrimSpace(article.TextContent)
}

// extractElements collects the text of every paragraph and heading.
func extractElements(body []byte) (title, content string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("parsing page: %w", err)
	}

	var parts []string
	doc.Find("p, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	title = strings.TrimSpace(doc.Find("title").First().Text())
	return title, strings.Join(parts, "\n"), nil
}
