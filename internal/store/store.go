// Package store persists cached upstream responses in Badger.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	defaultSearchTTL = 24 * time.Hour
	gcInterval       = 10 * time.Minute
	gcDiscardRatio   = 0.5
)

// Options configures a Store.
type Options struct {
	// SearchTTL bounds how long title search results are served from cache.
	SearchTTL time.Duration
	// InMemory keeps everything in RAM; path is ignored. Used by tests and
	// when caching to disk is disabled.
	InMemory bool
	// ReadOnly opens an existing database for inspection.
	ReadOnly bool
}

// Store wraps a Badger database instance.
type Store struct {
	db        *badger.DB
	logger    *slog.Logger
	searchTTL time.Duration
	stopGC    chan struct{}
	gcDone    chan struct{}
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger, opts Options) (*Store, error) {
	if opts.SearchTTL <= 0 {
		opts.SearchTTL = defaultSearchTTL
	}

	bopts := badger.DefaultOptions(path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil
	bopts.CompactL0OnClose = !opts.ReadOnly
	bopts.ReadOnly = opts.ReadOnly

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:        db,
		logger:    logger,
		searchTTL: opts.SearchTTL,
		stopGC:    make(chan struct{}),
		gcDone:    make(chan struct{}),
	}

	if opts.InMemory || opts.ReadOnly {
		close(s.gcDone)
	} else {
		go s.runGC()
	}

	if logger != nil {
		logger.Info("Badger database opened", "path", path, "in_memory", opts.InMemory, "read_only", opts.ReadOnly)
	}

	return s, nil
}

// Close stops background GC and closes the database.
func (s *Store) Close() error {
	select {
	case <-s.stopGC:
	default:
		close(s.stopGC)
	}
	<-s.gcDone

	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Ping verifies the database is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("store: database closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// SearchTTL returns the configured title search cache lifetime.
func (s *Store) SearchTTL() time.Duration {
	return s.searchTTL
}

// runGC periodically reclaims value log space left behind by expired entries.
func (s *Store) runGC() {
	defer close(s.gcDone)

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopGC:
			return
		case <-ticker.C:
			for {
				if err := s.db.RunValueLogGC(gcDiscardRatio); err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) && s.logger != nil {
						s.logger.Debug("value log GC", "error", err)
					}
					break
				}
			}
		}
	}
}
