package wikimedia

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kz4killua/wikirec/internal/domain"
)

// SearchTitles returns up to limit pages whose titles match query, in the
// order the API ranks them. An empty query returns no candidates without a
// request.
func (c *Client) SearchTitles(ctx context.Context, query string, limit int) ([]domain.Candidate, error) {
	if limit <= 0 {
		return nil, wrapError("searchTitles", query, ErrInvalidLimit)
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if strings.TrimSpace(query) == "" {
		return []domain.Candidate{}, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.doRequest(ctx, "/core/v1/wikipedia/"+url.PathEscape(c.language)+"/search/title", params)
	if err != nil {
		return nil, wrapError("searchTitles", query, err)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("searchTitles", query, fmt.Errorf("parse response: %w", err))
	}

	c.logger.Debug("wikimedia search results", "q", query, "count", len(resp.Pages))

	candidates := make([]domain.Candidate, 0, len(resp.Pages))
	for i := range resp.Pages {
		p := &resp.Pages[i]
		if p.Key == "" {
			continue
		}
		candidates = append(candidates, toCandidate(p))
		if len(candidates) == limit {
			break
		}
	}

	return candidates, nil
}

func toCandidate(p *rawPage) domain.Candidate {
	c := domain.Candidate{
		ID:      p.ID,
		Key:     p.Key,
		Title:   p.Title,
		Excerpt: excerptText(p.Excerpt),
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Thumbnail != nil {
		c.Thumbnail = absoluteURL(p.Thumbnail.URL)
	}
	if c.Title == "" {
		c.Title = domain.TitleFromKey(p.Key)
	}
	return c
}

// absoluteURL upgrades the protocol-relative thumbnail URLs the API returns.
func absoluteURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
