package domain

import "net/url"

const webSearchURL = "https://www.google.com/search"

// Recommendation is one suggestion returned by the recommendation service.
type Recommendation struct {
	// ID is the encyclopedia page id of the recommended item. Results are keyed by it.
	ID string `json:"id"`
	// SourceKey and SourceTitle identify the encyclopedia page the item was matched to.
	SourceKey   string `json:"source_key"`
	SourceTitle string `json:"source_title"`
	// Title is the display title, which may differ from the page title.
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// SearchURL is the general web search link for the recommendation title.
func (r Recommendation) SearchURL() string {
	return WebSearchURL(r.Title)
}

// WebSearchURL builds a web search link for an arbitrary title.
func WebSearchURL(title string) string {
	return webSearchURL + "?" + url.Values{"q": {title}}.Encode()
}
