package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/kz4killua/wikirec/internal/domain"
)

const searchCachePrefix = "cache:titles:"

// CachedSearch wraps title search results with cache info.
type CachedSearch struct {
	Candidates []domain.Candidate `json:"candidates"`
	FetchedAt  time.Time          `json:"fetched_at"`
	Language   string             `json:"language"`
	Query      string             `json:"query"`
	Limit      int                `json:"limit"`
}

// searchCacheKey generates a cache key for title search results.
// Uses hash to handle long query strings.
func searchCacheKey(language, query string, limit int) []byte {
	hash := sha256.Sum256([]byte(query))
	hashStr := hex.EncodeToString(hash[:8])
	return fmt.Appendf(nil, "%s%s:%d:%s", searchCachePrefix, strings.ToLower(language), limit, hashStr)
}

// GetCachedSearch retrieves cached title search results.
// Returns nil, nil if not found or expired.
func (s *Store) GetCachedSearch(ctx context.Context, language, query string, limit int) (*CachedSearch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cached CachedSearch
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(searchCacheKey(language, query, limit))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cached)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached search: %w", err)
	}

	// Badger expires the key on its own; this also covers a TTL that was
	// shortened after the entry was written.
	if time.Since(cached.FetchedAt) > s.searchTTL {
		return nil, nil
	}
	// Hash collision guard.
	if cached.Query != query {
		return nil, nil
	}

	return &cached, nil
}

// SetCachedSearch stores title search results in cache.
func (s *Store) SetCachedSearch(ctx context.Context, language, query string, limit int, candidates []domain.Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(CachedSearch{
		Candidates: candidates,
		FetchedAt:  time.Now(),
		Language:   language,
		Query:      query,
		Limit:      limit,
	})
	if err != nil {
		return fmt.Errorf("marshal cached search: %w", err)
	}

	// Badger TTLs have one-second resolution; the FetchedAt check on read is
	// the precise one, this only lets Badger reclaim the key eventually.
	entry := badger.NewEntry(searchCacheKey(language, query, limit), data).WithTTL(s.searchTTL + time.Second)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
}

// DeleteCachedSearch removes cached title search results.
func (s *Store) DeleteCachedSearch(ctx context.Context, language, query string, limit int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(searchCacheKey(language, query, limit))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Idempotent
		}
		return err
	})
}

// ListCachedSearches calls fn for each live cached search whose language
// matches (all languages if empty). Iteration stops when fn returns false.
func (s *Store) ListCachedSearches(ctx context.Context, language string, fn func(*CachedSearch) bool) error {
	prefix := []byte(searchCachePrefix)
	if language != "" {
		prefix = []byte(searchCachePrefix + strings.ToLower(language) + ":")
	}

	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var cached CachedSearch
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &cached)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if time.Since(cached.FetchedAt) > s.searchTTL {
				continue
			}
			if !fn(&cached) {
				return nil
			}
		}
		return nil
	})
}

// PurgeSearchCache drops every cached title search.
func (s *Store) PurgeSearchCache() error {
	return s.db.DropPrefix([]byte(searchCachePrefix))
}
