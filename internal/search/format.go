// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"strconv"
	"strings"

	"github.com/pdiddy/papercast/pkg/types"
)

// Format maps a raw connector record into a PaperRecord, applying the
// fallback for every missing field. It never fails.
func Format(r RawRecord) types.PaperRecord {
	p := types.PaperRecord{
		Title:      firstNonEmpty(r.Title, types.UnknownTitle),
		Authors:    cleanList(r.Authors),
		Year:       formatYear(r.Year, r.Published),
		Abstract:   firstNonEmpty(r.Abstract, r.Summary, types.NoAbstract),
		URL:        firstNonEmpty(r.URL, r.PDFURL),
		Source:     types.ParseSource(r.Source),
		Categories: cleanList(r.Categories),
		ID:         firstNonEmpty(r.PaperID, r.ArxivID),
	}
	return p
}

// FormatAll formats every record, preserving order.
func FormatAll(raw []RawRecord) []types.PaperRecord {
	out := make([]types.PaperRecord, 0, len(raw))
	for _, r := range raw {
		out = append(out, Format(r))
	}
	return out
}

// formatYear prefers an explicit positive year, then the leading year of
// an ISO date. Anything else is unknown.
func formatYear(year int, published string) *int {
	if year > 0 {
		return types.IntPtr(year)
	}
	published = strings.TrimSpace(published)
	if len(published) >= 4 {
		if y, err := strconv.Atoi(published[:4]); err == nil && y > 0 {
			return types.IntPtr(y)
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// cleanList copies in, dropping blank entries. The result is never nil.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
