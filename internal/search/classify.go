// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"regexp"
	"strings"
)

// urlPattern accepts an optional http(s) scheme, a host, a dot, a 2-6
// character TLD and an optional path of word characters, slashes, dots
// and hyphens.
var urlPattern = regexp.MustCompile(`^(https?://)?([\da-z.-]+)\.([a-z.]{2,6})([/\w.-]*)*/?$`)

// IsURL reports whether s looks like a URL. Strings containing spaces or
// punctuation outside the path alphabet never match.
func IsURL(s string) bool {
	return urlPattern.MatchString(s)
}

// ArxivIDFromURL extracts the identifier from an arxiv.org abstract or
// PDF link ("https://arxiv.org/abs/1706.03762v5" → "1706.03762"). It
// returns "" for any other URL.
func ArxivIDFromURL(u string) string {
	idx := strings.Index(u, "arxiv.org/")
	if idx < 0 {
		return ""
	}
	rest := u[idx+len("arxiv.org/"):]

	var id string
	switch {
	case strings.HasPrefix(rest, "abs/"):
		id = strings.TrimPrefix(rest, "abs/")
	case strings.HasPrefix(rest, "pdf/"):
		id = strings.TrimSuffix(strings.TrimPrefix(rest, "pdf/"), ".pdf")
	default:
		return ""
	}
	if i := strings.IndexAny(id, "?#"); i >= 0 {
		id = id[:i]
	}
	id = strings.TrimSuffix(id, "/")
	if id == "" {
		return ""
	}
	return extractArxivID("/abs/" + id)
}
