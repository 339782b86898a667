// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pdiddy/papercast/pkg/types"
)

// Relevance defaults.
const (
	DefaultMatchLimit  = 10
	DefaultMatchCutoff = 0.6
)

// CloseMatches returns up to n candidates whose character-level
// similarity to word is at least cutoff, best first. Ties on score are
// broken by the larger string.
func CloseMatches(word string, candidates []string, n int, cutoff float64) []string {
	if n <= 0 {
		return nil
	}

	type scored struct {
		score float64
		s     string
	}

	m := difflib.NewMatcher(nil, nil)
	m.SetSeq2(chars(word))

	var hits []scored
	for _, c := range candidates {
		m.SetSeq1(chars(c))
		if m.RealQuickRatio() >= cutoff && m.QuickRatio() >= cutoff {
			if r := m.Ratio(); r >= cutoff {
				hits = append(hits, scored{score: r, s: c})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].s > hits[j].s
	})
	if len(hits) > n {
		hits = hits[:n]
	}

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.s
	}
	return out
}

// FilterRelevant keeps the records whose titles are close matches to
// title, in best-match order. A title appears at most once after
// deduplication, so each match selects one record.
func FilterRelevant(title string, records []types.PaperRecord, n int, cutoff float64) []types.PaperRecord {
	titles := make([]string, len(records))
	byTitle := make(map[string][]types.PaperRecord, len(records))
	for i, r := range records {
		titles[i] = r.Title
		byTitle[r.Title] = append(byTitle[r.Title], r)
	}

	matches := CloseMatches(title, titles, n, cutoff)
	out := make([]types.PaperRecord, 0, len(matches))
	for _, t := range matches {
		if rs := byTitle[t]; len(rs) > 0 {
			out = append(out, rs[0])
			byTitle[t] = rs[1:]
		}
	}
	return out
}

// chars splits s into single-character strings for the sequence matcher.
func chars(s string) []string {
	return strings.Split(s, "")
}
