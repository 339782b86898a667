// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/papercast/pkg/types"
)

// FormatJSON writes the ranked papers as an indented JSON array to w.
// An empty result is written as [].
func FormatJSON(out Output, w io.Writer) error {
	papers := out.Papers
	if papers == nil {
		papers = []types.PaperRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

// FormatTable writes the ranked papers as a human-readable table to w,
// followed by any connector warnings.
func FormatTable(out Output, w io.Writer) {
	if len(out.Papers) == 0 {
		fmt.Fprintln(w, "No results found.")
	} else {
		fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %s\n",
			"Rank", "Title", "Authors", "Year", "Source")
		fmt.Fprintln(w, strings.Repeat("-", 104))

		for i, r := range out.Papers {
			year := ""
			if r.HasYear() {
				year = fmt.Sprintf("%d", *r.Year)
			}
			fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %s\n",
				i+1, truncate(r.Title, 60), formatAuthors(r.Authors), year, r.Source)
		}

		fmt.Fprintf(w, "\n%d results for %q", len(out.Papers), out.Title)
		if out.DupsRemoved > 0 {
			fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
		}
		fmt.Fprintln(w)
	}

	if len(out.Errors) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, e := range out.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.Source, e.Message)
		}
	}
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return clip(s, max-3) + "..."
}

// clip returns at most n runes of s.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func quoteJSON(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
