// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the papercast pipeline:
// the uniform PaperRecord produced by the search pipeline and the
// configuration groups consumed by each stage.
package types

// Source identifies the connector a record came from.
type Source string

const (
	SourceArxiv           Source = "arxiv"
	SourceSemanticScholar Source = "semantic_scholar"
	SourceExa             Source = "exa"
	SourceUnknown         Source = "unknown"
)

// ParseSource maps a raw source tag to a Source. Unrecognized or empty
// tags map to SourceUnknown.
func ParseSource(s string) Source {
	switch Source(s) {
	case SourceArxiv, SourceSemanticScholar, SourceExa:
		return Source(s)
	default:
		return SourceUnknown
	}
}

// Placeholders used when a source omits a field.
const (
	UnknownTitle      = "Unknown Title"
	NoAbstract        = "No abstract available"
	UntitledPaperPage = "Untitled Research Paper"
)

// PaperRecord is the uniform representation of one paper or content
// result after formatting. Records are built fresh for each pipeline run
// and are not modified once formatted.
type PaperRecord struct {
	// Title is the display title; UnknownTitle when the source had none.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in source order. Never nil.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year. Nil means the year is unknown; it is
	// never encoded as 0.
	Year *int `json:"year" yaml:"year"`

	// Abstract is the abstract or summary; NoAbstract when missing.
	Abstract string `json:"abstract" yaml:"abstract"`

	// URL locates the landing page or PDF. May be empty.
	URL string `json:"url" yaml:"url"`

	// Source is the connector that produced the record.
	Source Source `json:"source" yaml:"source"`

	// Categories are topical tags (arXiv categories, fields of study). Never nil.
	Categories []string `json:"categories" yaml:"categories"`

	// ID is the source-specific identifier (Semantic Scholar paperId or
	// arXiv ID). Empty when the source assigned none.
	ID string `json:"id" yaml:"id"`
}

// HasYear reports whether the publication year is known.
func (p PaperRecord) HasYear() bool {
	return p.Year != nil
}

// YearOr returns the publication year, or def when it is unknown.
func (p PaperRecord) YearOr(def int) int {
	if p.Year == nil {
		return def
	}
	return *p.Year
}

// IntPtr returns a pointer to v. Handy for building records with a year.
func IntPtr(v int) *int {
	return &v
}
