package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_Presentation(t *testing.T) {
	tests := []struct {
		category Category
		label    string
		columns  int
		aspect   Aspect
	}{
		{CategoryMovies, "movies", 4, AspectTall},
		{CategoryTVSeries, "tv series", 4, AspectTall},
		{CategoryBooks, "books", 4, AspectTall},
		{CategoryMusic, "songs", 4, AspectSquare},
		{CategoryGames, "games", 3, AspectVideo},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.True(t, tt.category.Valid())
			assert.Equal(t, tt.label, tt.category.Label())
			assert.Equal(t, tt.columns, tt.category.Columns())
			assert.Equal(t, tt.aspect, tt.category.Aspect())
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("tv-series")
	require.NoError(t, err)
	assert.Equal(t, CategoryTVSeries, c)

	_, err = ParseCategory("podcasts")
	assert.Error(t, err)

	_, err = ParseCategory("")
	assert.Error(t, err)
	assert.False(t, CategoryNone.Valid())
}

func TestCategories_Order(t *testing.T) {
	assert.Equal(t, []Category{"movies", "tv-series", "books", "music", "games"}, Categories())
}

func TestNewSlots(t *testing.T) {
	slots := NewSlots()

	require.Len(t, slots, SlotCount)
	assert.Equal(t, 1, slots[0].ID)
	assert.Equal(t, "super awesome movie here...", slots[0].Placeholder)
	assert.Equal(t, "or maybe your favorite book...", slots[1].Placeholder)
	assert.Equal(t, "or the song that's been on repeat...", slots[2].Placeholder)
	for _, s := range slots {
		assert.False(t, s.Confirmed())
	}
}

func TestSlot_ConfirmAndClear(t *testing.T) {
	s := Slot{ID: 1}

	s.Confirm(Candidate{})
	assert.False(t, s.Confirmed(), "empty key must not confirm")

	s.Confirm(Candidate{Key: "Interstellar_(film)", Title: "Interstellar (film)"})
	assert.True(t, s.Confirmed())
	assert.Equal(t, "Interstellar (film)", s.ConfirmedTitle)

	s.Clear()
	assert.False(t, s.Confirmed())
	assert.Empty(t, s.ConfirmedTitle)
}

func TestSlot_ConfirmWithoutTitle(t *testing.T) {
	s := Slot{ID: 2}

	s.Confirm(Candidate{Key: "Dune_(novel)"})
	require.True(t, s.Confirmed())
	assert.Equal(t, "Dune (novel)", s.ConfirmedTitle)
}

func TestValidSlotID(t *testing.T) {
	assert.False(t, ValidSlotID(0))
	assert.True(t, ValidSlotID(1))
	assert.True(t, ValidSlotID(3))
	assert.False(t, ValidSlotID(4))
}

func TestFindCandidate(t *testing.T) {
	list := []Candidate{{Key: "Dune_(novel)"}, {Key: "Dune_(2021_film)"}}

	c, ok := FindCandidate(list, "Dune_(2021_film)")
	assert.True(t, ok)
	assert.Equal(t, "Dune_(2021_film)", c.Key)

	_, ok = FindCandidate(list, "Dune")
	assert.False(t, ok)
}

func TestRecommendation_SearchURL(t *testing.T) {
	r := Recommendation{Title: "The Martian & Me"}
	assert.Equal(t, "https://www.google.com/search?q=The+Martian+%26+Me", r.SearchURL())
}
