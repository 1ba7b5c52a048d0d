package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz4killua/wikirec/internal/domain"
)

func TestNewResults_Layout(t *testing.T) {
	tests := []struct {
		category domain.Category
		label    string
		columns  int
		aspect   domain.Aspect
	}{
		{domain.CategoryMovies, "movies", 4, domain.AspectTall},
		{domain.CategoryTVSeries, "tv series", 4, domain.AspectTall},
		{domain.CategoryBooks, "books", 4, domain.AspectTall},
		{domain.CategoryMusic, "songs", 4, domain.AspectSquare},
		{domain.CategoryGames, "games", 3, domain.AspectVideo},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			r := NewResults(tt.category, nil)
			assert.Equal(t, tt.label, r.Label)
			assert.Equal(t, tt.columns, r.Columns)
			assert.Equal(t, tt.aspect, r.Aspect)
			assert.Equal(t, "We found some "+tt.label+" you'll love", r.Heading)
			assert.NotNil(t, r.Items)
		})
	}
}

func TestNewResults_ItemsKeepOrderAndLinkToWebSearch(t *testing.T) {
	recs := []domain.Recommendation{
		{ID: "42", Title: "Gravity", SourceKey: "Gravity_(2013_film)"},
		{ID: "7", Title: "The Martian & Co"},
	}

	r := NewResults(domain.CategoryMovies, recs)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "42", r.Items[0].ID)
	assert.Equal(t, "https://www.google.com/search?q=Gravity", r.Items[0].SearchURL)
	assert.Equal(t, "https://www.google.com/search?q=The+Martian+%26+Co", r.Items[1].SearchURL)

	item, ok := r.Item("7")
	require.True(t, ok)
	assert.Equal(t, "The Martian & Co", item.Title)

	_, ok = r.Item("missing")
	assert.False(t, ok)

	var empty *Results
	_, ok = empty.Item("42")
	assert.False(t, ok)
}

func TestCategories(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 5)
	assert.Equal(t, Category{Value: domain.CategoryMusic, Label: "songs"}, cats[3])
}
