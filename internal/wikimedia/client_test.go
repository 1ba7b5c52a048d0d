package wikimedia

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err, "load fixture %s", name)
	return data
}

func newTestClient(t *testing.T, cfg Config, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	client := New(cfg, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	client.http = server.Client()
	t.Cleanup(client.Close)

	return client
}

func TestClient_SearchTitles(t *testing.T) {
	fixture := loadFixture(t, "search_title.json")

	tests := []struct {
		name       string
		response   []byte
		statusCode int
		limit      int
		wantCount  int
		wantErr    error
	}{
		{
			name:       "successful search",
			response:   fixture,
			statusCode: http.StatusOK,
			limit:      5,
			wantCount:  3,
		},
		{
			name:       "response longer than limit is truncated",
			response:   fixture,
			statusCode: http.StatusOK,
			limit:      2,
			wantCount:  2,
		},
		{
			name:       "empty results",
			response:   []byte(`{"pages": []}`),
			statusCode: http.StatusOK,
			limit:      5,
			wantCount:  0,
		},
		{
			name:       "bad request",
			statusCode: http.StatusBadRequest,
			limit:      5,
			wantErr:    ErrBadRequest,
		},
		{
			name:       "rejected token",
			statusCode: http.StatusUnauthorized,
			limit:      5,
			wantErr:    ErrUnauthorized,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			limit:      5,
			wantErr:    ErrRateLimited,
		},
		{
			name:       "server error",
			statusCode: http.StatusBadGateway,
			limit:      5,
			wantErr:    ErrServer,
		},
		{
			name:       "unexpected status",
			statusCode: http.StatusTeapot,
			limit:      5,
			wantErr:    ErrUnexpectedStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				if tt.response != nil {
					_, _ = w.Write(tt.response)
				}
			})

			results, err := client.SearchTitles(context.Background(), "Interstellar", tt.limit)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				var wErr *Error
				require.True(t, errors.As(err, &wErr))
				assert.Equal(t, "searchTitles", wErr.Op)
				assert.Equal(t, "Interstellar", wErr.Query)
				return
			}

			require.NoError(t, err)
			assert.Len(t, results, tt.wantCount)
		})
	}
}

func TestClient_SearchTitles_MapsPages(t *testing.T) {
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(loadFixture(t, "search_title.json"))
	})

	results, err := client.SearchTitles(context.Background(), "Interstellar", 5)
	require.NoError(t, err)
	require.Len(t, results, 3)

	film := results[0]
	assert.Equal(t, int64(41723255), film.ID)
	assert.Equal(t, "Interstellar_(film)", film.Key)
	assert.Equal(t, "Interstellar (film)", film.Title)
	assert.Equal(t, "2014 film directed by Christopher Nolan", film.Description)
	assert.Equal(t, "Interstellar (film)", film.Excerpt)
	assert.Equal(t, "https://upload.wikimedia.org/wikipedia/en/thumb/b/bc/Interstellar_film_poster.jpg/60px-Interstellar_film_poster.jpg", film.Thumbnail)

	travel := results[1]
	assert.Empty(t, travel.Description)
	assert.Empty(t, travel.Thumbnail)
}

func TestClient_SearchTitles_Request(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, Config{
		Language:     "de",
		AccessToken:  "secret-token",
		AppName:      "wikirec",
		ContactEmail: "dev@example.com",
	}, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"pages": []}`))
	})

	_, err := client.SearchTitles(context.Background(), "Der Schwarm", 5)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "/core/v1/wikipedia/de/search/title", got.URL.Path)
	assert.Equal(t, "Der Schwarm", got.URL.Query().Get("q"))
	assert.Equal(t, "5", got.URL.Query().Get("limit"))
	assert.Equal(t, "Bearer secret-token", got.Header.Get("Authorization"))
	assert.Equal(t, "wikirec (dev@example.com)", got.Header.Get("User-Agent"))
}

func TestClient_SearchTitles_NoTokenNoAuthHeader(t *testing.T) {
	var auth string
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"pages": []}`))
	})

	_, err := client.SearchTitles(context.Background(), "Dune", 5)
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestClient_SearchTitles_ClampsLimit(t *testing.T) {
	var limit string
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		limit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`{"pages": []}`))
	})

	_, err := client.SearchTitles(context.Background(), "Dune", 500)
	require.NoError(t, err)
	assert.Equal(t, "100", limit)
}

func TestClient_SearchTitles_InvalidInput(t *testing.T) {
	calls := 0
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"pages": []}`))
	})

	_, err := client.SearchTitles(context.Background(), "Dune", 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	results, err := client.SearchTitles(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	assert.Zero(t, calls, "no request for invalid input")
}

func TestClient_SearchTitles_MalformedJSON(t *testing.T) {
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"pages": [`))
	})

	_, err := client.SearchTitles(context.Background(), "Dune", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse response")
}

func TestClient_SearchTitles_ContextCanceled(t *testing.T) {
	client := newTestClient(t, Config{}, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"pages": []}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SearchTitles(ctx, "Dune", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "wikirec", userAgent("", ""))
	assert.Equal(t, "myapp", userAgent("myapp", ""))
	assert.Equal(t, "myapp (me@example.com)", userAgent("myapp", "me@example.com"))
}

func TestExcerptText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{`<span class="searchmatch">Inter</span>stellar`, "Interstellar"},
		{`Tom &amp; Jerry`, "Tom & Jerry"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, excerptText(tt.in))
		})
	}
}
