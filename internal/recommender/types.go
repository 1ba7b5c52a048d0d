package recommender

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// requestBody is the payload the recommendation function expects.
type requestBody struct {
	PageKeys     []string `json:"page_keys"`
	ItemCategory string   `json:"item_category"`
}

// rawRecommendation is one entry of the response list.
type rawRecommendation struct {
	WikipediaID    flexID `json:"wikipedia_id"`
	WikipediaKey   string `json:"wikipedia_key"`
	WikipediaTitle string `json:"wikipedia_title"`
	Title          string `json:"title"`
	Thumbnail      string `json:"thumbnail"`
}

// proxyEnvelope is the shape returned when the function is invoked without
// an API gateway in front: the list is JSON-encoded inside "body".
type proxyEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// flexID accepts page ids encoded either as JSON numbers or strings.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// Vector store metadata round-trips integers as floats ("123.0").
	if fl, err := n.Float64(); err == nil && fl == float64(int64(fl)) {
		*f = flexID(strconv.FormatInt(int64(fl), 10))
		return nil
	}
	*f = flexID(n.String())
	return nil
}
