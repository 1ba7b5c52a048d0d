package dto

import (
	"fmt"

	"github.com/kz4killua/wikirec/internal/domain"
)

// ResultItem is one recommendation as shown in the results grid.
type ResultItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	SourceKey   string `json:"source_key"`
	SourceTitle string `json:"source_title"`
	// SearchURL is where activating the item sends the user.
	SearchURL string `json:"search_url"`
}

// Results is the presentation of one successful submission.
type Results struct {
	Category domain.Category `json:"category"`
	Label    string          `json:"label"`
	Heading  string          `json:"heading"`
	Aspect   domain.Aspect   `json:"aspect"`
	Items    []ResultItem    `json:"items"`
	Columns  int             `json:"columns"`
}

// NewResults lays out recs for category. Items keep the service's order.
func NewResults(category domain.Category, recs []domain.Recommendation) *Results {
	items := make([]ResultItem, 0, len(recs))
	for _, r := range recs {
		items = append(items, ResultItem{
			ID:          r.ID,
			Title:       r.Title,
			Thumbnail:   r.Thumbnail,
			SourceKey:   r.SourceKey,
			SourceTitle: r.SourceTitle,
			SearchURL:   r.SearchURL(),
		})
	}

	return &Results{
		Category: category,
		Label:    category.Label(),
		Heading:  Heading(category),
		Columns:  category.Columns(),
		Aspect:   category.Aspect(),
		Items:    items,
	}
}

// Heading is the title line above the results grid.
func Heading(category domain.Category) string {
	return fmt.Sprintf("We found some %s you'll love", category.Label())
}

// Item returns the result with the given id.
func (r *Results) Item(id string) (ResultItem, bool) {
	if r == nil {
		return ResultItem{}, false
	}
	for _, it := range r.Items {
		if it.ID == id {
			return it, true
		}
	}
	return ResultItem{}, false
}
