package wikimedia

// Raw API response types (internal)

type searchResponse struct {
	Pages []rawPage `json:"pages"`
}

type rawPage struct {
	ID           int64         `json:"id"`
	Key          string        `json:"key"`
	Title        string        `json:"title"`
	Excerpt      string        `json:"excerpt"`
	MatchedTitle *string       `json:"matched_title"`
	Description  *string       `json:"description"`
	Thumbnail    *rawThumbnail `json:"thumbnail"`
}

type rawThumbnail struct {
	Mimetype string `json:"mimetype"`
	Width    *int   `json:"width"`
	Height   *int   `json:"height"`
	URL      string `json:"url"`
}
