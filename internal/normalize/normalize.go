// Package normalize provides utilities for normalizing user-typed text before it reaches upstream services.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Query canonicalizes a search string typed into a preference slot.
// It composes Unicode (NFC), folds full-width forms, strips control
// characters and collapses runs of whitespace. Case is preserved; the
// title search endpoint is case-insensitive and echoes the query back.
//
// An all-whitespace input normalizes to "" which callers treat as "no query".
func Query(raw string) string {
	if raw == "" {
		return ""
	}

	s := width.Fold.String(norm.NFC.String(raw))

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			// dropped
		default:
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CacheKey returns the case-folded form of a normalized query, used to share
// cached search results between "Interstellar" and "interstellar".
func CacheKey(query string) string {
	return strings.ToLower(Query(query))
}
