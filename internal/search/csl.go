// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/papercast/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID       string    `yaml:"id"`
	Type     string    `yaml:"type"`
	Title    string    `yaml:"title"`
	Author   []CSLName `yaml:"author,omitempty"`
	Abstract string    `yaml:"abstract,omitempty"`
	Issued   *CSLDate  `yaml:"issued,omitempty"`
	URL      string    `yaml:"URL,omitempty"`
	Keyword  string    `yaml:"keyword,omitempty"`
	Source   string    `yaml:"source,omitempty"`
	Number   string    `yaml:"number,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes the ranked papers as a CSL-YAML list to w.
func FormatCSL(out Output, w io.Writer) error {
	items := make([]CSLItem, len(out.Papers))
	for i, r := range out.Papers {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a PaperRecord to a CSLItem. arXiv papers are typed
// as preprints carrying their identifier as the number.
func toCSLItem(r types.PaperRecord) CSLItem {
	item := CSLItem{
		ID:      r.ID,
		Type:    "article-journal",
		Title:   r.Title,
		URL:     r.URL,
		Keyword: strings.Join(r.Categories, ", "),
		Source:  sourceLabel(r.Source),
	}
	if item.ID == "" {
		item.ID = citationKey(r)
	}
	if r.Abstract != types.NoAbstract {
		item.Abstract = r.Abstract
	}

	switch r.Source {
	case types.SourceArxiv:
		item.Type = "article"
		item.Number = "arXiv:" + r.ID
	case types.SourceExa:
		item.Type = "webpage"
	}

	for _, a := range r.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if r.HasYear() {
		item.Issued = &CSLDate{DateParts: [][]int{{*r.Year}}}
	}
	return item
}

func sourceLabel(s types.Source) string {
	switch s {
	case types.SourceArxiv:
		return "arXiv"
	case types.SourceSemanticScholar:
		return "Semantic Scholar"
	case types.SourceExa:
		return "Exa"
	default:
		return ""
	}
}

// citationKey builds a fallback id from the first author's family name
// and the year (e.g. "vaswani2017").
func citationKey(r types.PaperRecord) string {
	var b strings.Builder
	if len(r.Authors) > 0 {
		n := parseAuthorName(r.Authors[0])
		name := n.Family
		if name == "" {
			name = n.Literal
		}
		b.WriteString(strings.ToLower(strings.Join(strings.Fields(name), "")))
	}
	if r.HasYear() {
		b.WriteString(strconv.Itoa(*r.Year))
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
