// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"sort"

	"github.com/pdiddy/papercast/pkg/types"
)

// Variant selects how the ranked list is cut.
type Variant string

const (
	// VariantQuery returns at most SearchConfig.MaxResults records.
	VariantQuery Variant = "query"
	// VariantPodcast keeps every relevance match.
	VariantPodcast Variant = "podcast"
)

// RankByYear sorts records by year, newest first. Records without a year
// go last. Equal years keep their input order.
func RankByYear(records []types.PaperRecord) []types.PaperRecord {
	out := make([]types.PaperRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Year, out[j].Year
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
	return out
}

// Rank orders records by year and applies the variant's cut.
func Rank(records []types.PaperRecord, variant Variant, maxResults int) []types.PaperRecord {
	ranked := RankByYear(records)
	if variant == VariantQuery && maxResults > 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}
