package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Interstellar", "Interstellar"},
		{"trims", "  Interstellar  ", "Interstellar"},
		{"collapses inner whitespace", "The   Dark\tKnight", "The Dark Knight"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"full width folded", "ＩＮＴ", "INT"},
		{"composes accents", "Pokémon", "Pokémon"},
		{"drops control chars", "Dune\x00\x07", "Dune"},
		{"keeps case", "iNtErStElLaR", "iNtErStElLaR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Query(tt.input))
		})
	}
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("Interstellar"), CacheKey("  interstellar "))
	assert.Equal(t, "the dark knight", CacheKey("The  Dark Knight"))
}

func TestLanguageCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"de", "de"},
		{"fr", "fr"},
		{"eng", "en"},
		{"deu", "de"},
		{"en-US", "en"},
		{"en_GB", "en"},
		{"de-AT", "de"},
		{"english", "en"},
		{"English", "en"},
		{"GERMAN", "de"},
		{"", ""},
		{"  en  ", "en"},
		{"not a language", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, LanguageCode(tt.input))
		})
	}
}
