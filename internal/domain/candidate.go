package domain

import "strings"

// Candidate is one title search hit offered for a slot.
type Candidate struct {
	ID          int64  `json:"id"`
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// TitleFromKey derives a display title from a page key.
func TitleFromKey(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// FindCandidate returns the candidate with the given page key.
func FindCandidate(candidates []Candidate, key string) (Candidate, bool) {
	for _, c := range candidates {
		if c.Key == key {
			return c, true
		}
	}
	return Candidate{}, false
}
