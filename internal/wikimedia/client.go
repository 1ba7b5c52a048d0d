// Package wikimedia is a client for the Wikimedia Core REST API title search.
package wikimedia

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Wikimedia API gateway.
	DefaultBaseURL = "https://api.wikimedia.org"

	// Anonymous clients get a few hundred requests per hour per IP; an
	// access token raises this substantially. The limiter is a local guard
	// so a burst of typing across many sessions cannot trip the remote one.
	defaultRPS   = 50.0
	defaultBurst = 10

	defaultTimeout = 10 * time.Second
	defaultLang    = "en"

	// maxLimit is the largest page size the search/title endpoint accepts.
	maxLimit = 100

	// maxErrorBody bounds how much of a failed response ends up in logs.
	maxErrorBody = 512
)

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	BaseURL      string
	Language     string
	AccessToken  string
	AppName      string
	ContactEmail string
	RPS          float64
	Burst        int
	Timeout      time.Duration
}

// Client is a rate-limited Wikimedia title search client.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
	baseURL   string
	language  string
	token     string
	userAgent string
}

// New creates a new Wikimedia client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = defaultLang
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		logger:    logger,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		language:  cfg.Language,
		token:     cfg.AccessToken,
		userAgent: userAgent(cfg.AppName, cfg.ContactEmail),
	}
}

// userAgent follows the Wikimedia User-Agent policy: a client name plus contact info.
func userAgent(app, email string) string {
	if app == "" {
		app = "wikirec"
	}
	if email == "" {
		return app
	}
	return fmt.Sprintf("%s (%s)", app, email)
}

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {}

// Language returns the Wikipedia edition the client searches.
func (c *Client) Language() string {
	return c.language
}

// doRequest executes a GET with rate limiting and maps error statuses to sentinels.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Api-User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("wikimedia request", "path", path, "q", query.Get("q"))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusBadRequest:
		return nil, ErrBadRequest
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, ErrServer
	default:
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}
}
