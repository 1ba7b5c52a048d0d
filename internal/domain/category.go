package domain

import "fmt"

// Category is the kind of item recommendations are requested for.
// The zero value means no category has been chosen yet.
type Category string

// Categories accepted by the recommendation service.
const (
	CategoryNone     Category = ""
	CategoryMovies   Category = "movies"
	CategoryTVSeries Category = "tv-series"
	CategoryBooks    Category = "books"
	CategoryMusic    Category = "music"
	CategoryGames    Category = "games"
)

// Categories lists every selectable category in display order.
func Categories() []Category {
	return []Category{CategoryMovies, CategoryTVSeries, CategoryBooks, CategoryMusic, CategoryGames}
}

// ParseCategory converts a wire value to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return CategoryNone, fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the selectable categories. CategoryNone is not valid.
func (c Category) Valid() bool {
	switch c {
	case CategoryMovies, CategoryTVSeries, CategoryBooks, CategoryMusic, CategoryGames:
		return true
	default:
		return false
	}
}

// Label is the human-readable plural shown next to results.
func (c Category) Label() string {
	switch c {
	case CategoryMovies:
		return "movies"
	case CategoryTVSeries:
		return "tv series"
	case CategoryBooks:
		return "books"
	case CategoryMusic:
		return "songs"
	case CategoryGames:
		return "games"
	default:
		return ""
	}
}

// Columns is the grid width used when presenting results for the category.
// Game artwork is wide, so fewer fit per row.
func (c Category) Columns() int {
	if c == CategoryGames {
		return 3
	}
	return 4
}

// Aspect describes the thumbnail shape used for the category.
type Aspect string

// Thumbnail shapes.
const (
	AspectTall   Aspect = "tall"   // posters and covers
	AspectSquare Aspect = "square" // album art
	AspectVideo  Aspect = "video"  // 16:9 game key art
)

// Aspect returns the thumbnail shape for the category.
func (c Category) Aspect() Aspect {
	switch c {
	case CategoryMusic:
		return AspectSquare
	case CategoryGames:
		return AspectVideo
	default:
		return AspectTall
	}
}

func (c Category) String() string {
	return string(c)
}
