package wikimedia

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// excerptText turns a search excerpt such as
// `<span class="searchmatch">Inter</span>stellar` into plain text.
func excerptText(s string) string {
	if s == "" || (!strings.Contains(s, "<") && !strings.Contains(s, "&")) {
		return s
	}

	text, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}

	// Markdown escapes are noise in a one-line excerpt.
	text = strings.NewReplacer(`\_`, "_", `\*`, "*", `\[`, "[", `\]`, "]", `\-`, "-", `\#`, "#").Replace(text)
	return strings.Join(strings.Fields(text), " ")
}
