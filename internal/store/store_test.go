package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz4killua/wikirec/internal/domain"
)

// setupTestStore creates a temporary on-disk store for testing.
func setupTestStore(t *testing.T, opts Options) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "cache.db"), nil, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSearchCache(t *testing.T) {
	s := setupTestStore(t, Options{})
	ctx := context.Background()

	cached, err := s.GetCachedSearch(ctx, "en", "Interstellar", 5)
	require.NoError(t, err)
	assert.Nil(t, cached)

	candidates := []domain.Candidate{
		{ID: 41723255, Key: "Interstellar_(film)", Title: "Interstellar (film)"},
		{ID: 14843, Key: "Interstellar_travel", Title: "Interstellar travel"},
	}
	require.NoError(t, s.SetCachedSearch(ctx, "en", "Interstellar", 5, candidates))

	cached, err = s.GetCachedSearch(ctx, "en", "Interstellar", 5)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "Interstellar", cached.Query)
	assert.Equal(t, "en", cached.Language)
	assert.Equal(t, candidates, cached.Candidates)

	// Different query, language or limit = miss
	for _, miss := range []struct {
		lang  string
		query string
		limit int
	}{
		{"en", "Inception", 5},
		{"de", "Interstellar", 5},
		{"en", "Interstellar", 10},
	} {
		cached, err = s.GetCachedSearch(ctx, miss.lang, miss.query, miss.limit)
		require.NoError(t, err)
		assert.Nil(t, cached, "%+v", miss)
	}

	require.NoError(t, s.DeleteCachedSearch(ctx, "en", "Interstellar", 5))
	cached, err = s.GetCachedSearch(ctx, "en", "Interstellar", 5)
	require.NoError(t, err)
	assert.Nil(t, cached)

	// Deleting again is fine
	assert.NoError(t, s.DeleteCachedSearch(ctx, "en", "Interstellar", 5))
}

func TestSearchCache_Expiry(t *testing.T) {
	s := setupTestStore(t, Options{SearchTTL: 50 * time.Millisecond})
	ctx := context.Background()

	require.NoError(t, s.SetCachedSearch(ctx, "en", "Dune", 5, []domain.Candidate{{Key: "Dune_(novel)"}}))

	cached, err := s.GetCachedSearch(ctx, "en", "Dune", 5)
	require.NoError(t, err)
	require.NotNil(t, cached)

	time.Sleep(100 * time.Millisecond)

	cached, err = s.GetCachedSearch(ctx, "en", "Dune", 5)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestSearchCache_CanceledContext(t *testing.T) {
	s := setupTestStore(t, Options{InMemory: true})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetCachedSearch(ctx, "en", "Dune", 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.SetCachedSearch(ctx, "en", "Dune", 5, nil), context.Canceled)
}

func TestListCachedSearches(t *testing.T) {
	s := setupTestStore(t, Options{InMemory: true})
	ctx := context.Background()

	require.NoError(t, s.SetCachedSearch(ctx, "en", "Dune", 5, []domain.Candidate{{Key: "Dune_(novel)"}}))
	require.NoError(t, s.SetCachedSearch(ctx, "en", "Inception", 5, []domain.Candidate{{Key: "Inception"}}))
	require.NoError(t, s.SetCachedSearch(ctx, "de", "Der Schwarm", 5, nil))

	var all, english []string
	require.NoError(t, s.ListCachedSearches(ctx, "", func(c *CachedSearch) bool {
		all = append(all, c.Query)
		return true
	}))
	require.NoError(t, s.ListCachedSearches(ctx, "EN", func(c *CachedSearch) bool {
		english = append(english, c.Query)
		return true
	}))

	assert.Len(t, all, 3)
	assert.ElementsMatch(t, []string{"Dune", "Inception"}, english)

	var first []string
	require.NoError(t, s.ListCachedSearches(ctx, "", func(c *CachedSearch) bool {
		first = append(first, c.Query)
		return false
	}))
	assert.Len(t, first, 1)
}

func TestPurgeSearchCache(t *testing.T) {
	s := setupTestStore(t, Options{InMemory: true})
	ctx := context.Background()

	require.NoError(t, s.SetCachedSearch(ctx, "en", "Dune", 5, nil))
	require.NoError(t, s.PurgeSearchCache())

	cached, err := s.GetCachedSearch(ctx, "en", "Dune", 5)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestStore_PingAndClose(t *testing.T) {
	s, err := New("", nil, Options{InMemory: true})
	require.NoError(t, err)

	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
	assert.Error(t, s.Ping(context.Background()))
}
