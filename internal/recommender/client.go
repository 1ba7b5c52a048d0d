// Package recommender is a client for the remote recommendation function.
// Calls go through a circuit breaker so a failing backend is not hammered by
// every submit.
package recommender

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/kz4killua/wikirec/internal/domain"
	"github.com/kz4killua/wikirec/internal/metrics"
)

const (
	breakerName = "recommender"

	defaultTimeout          = 30 * time.Second
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
	halfOpenMaxRequests     = 1
	maxErrorBody            = 512
)

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	URL              string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// Client calls the recommendation function.
type Client struct {
	http   *http.Client
	cb     *gobreaker.CircuitBreaker[[]domain.Recommendation]
	logger *slog.Logger
	url    string
}

// New creates a new recommendation client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = defaultFailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	threshold := cfg.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[[]domain.Recommendation](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: halfOpenMaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Caller mistakes and cancellations say nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrBadRequest) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		cb:     cb,
		logger: logger,
		url:    cfg.URL,
	}
}

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {}

// Configured reports whether an endpoint URL was provided.
func (c *Client) Configured() bool {
	return c.url != ""
}

// State returns the circuit breaker state: "closed", "half-open" or "open".
func (c *Client) State() string {
	return c.cb.State().String()
}

// Recommend asks for items of category similar to the pages identified by keys.
// Keys are sent in the order given. The response order is the service's
// ranking and is preserved.
func (c *Client) Recommend(ctx context.Context, keys []string, category domain.Category) ([]domain.Recommendation, error) {
	op := "recommend"
	if !c.Configured() {
		return nil, wrapError(op, category.String(), ErrNotConfigured)
	}
	if len(keys) == 0 {
		return nil, wrapError(op, category.String(), ErrNoKeys)
	}
	if !category.Valid() {
		return nil, wrapError(op, category.String(), ErrInvalidCategory)
	}

	recs, err := c.cb.Execute(func() ([]domain.Recommendation, error) {
		return c.doRecommend(ctx, keys, category)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			return nil, wrapError(op, category.String(), fmt.Errorf("%w: %w", ErrCircuitOpen, err))
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		return nil, wrapError(op, category.String(), err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	return recs, nil
}

func (c *Client) doRecommend(ctx context.Context, keys []string, category domain.Category) ([]domain.Recommendation, error) {
	payload, err := json.Marshal(requestBody{PageKeys: keys, ItemCategory: category.String()})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("recommender request", "category", category, "keys", len(keys))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstream(breakerName, time.Since(start), err)
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordUpstream(breakerName, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return decodeRecommendations(body)
}

func checkStatus(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status >= 400 && status < 500 && status != http.StatusTooManyRequests && status != http.StatusRequestTimeout:
		return fmt.Errorf("%w (%d)", ErrBadRequest, status)
	case status >= 500, status == http.StatusTooManyRequests, status == http.StatusRequestTimeout:
		return fmt.Errorf("%w (%d)", ErrServer, status)
	default:
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, status, string(body))
	}
}

// decodeRecommendations accepts either a bare JSON list or a proxy envelope
// whose body holds the list.
func decodeRecommendations(body []byte) ([]domain.Recommendation, error) {
	body = bytes.TrimSpace(body)

	if len(body) > 0 && body[0] == '{' {
		var env proxyEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("parse response envelope: %w", err)
		}
		if env.StatusCode != 0 {
			if err := checkStatus(env.StatusCode, []byte(env.Body)); err != nil {
				return nil, err
			}
		}
		body = []byte(env.Body)
	}

	var raw []rawRecommendation
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	recs := make([]domain.Recommendation, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i := range raw {
		r := &raw[i]
		id := string(r.WikipediaID)
		if id == "" {
			id = r.WikipediaKey
		}
		if id == "" {
			continue
		}
		// Results are keyed by id; the first (highest ranked) wins.
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		title := r.Title
		if title == "" {
			title = r.WikipediaTitle
		}
		recs = append(recs, domain.Recommendation{
			ID:          id,
			SourceKey:   r.WikipediaKey,
			SourceTitle: r.WikipediaTitle,
			Title:       title,
			Thumbnail:   r.Thumbnail,
		})
	}
	return recs, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
