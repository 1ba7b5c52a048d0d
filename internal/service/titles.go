package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kz4killua/wikirec/internal/domain"
	domainerrors "github.com/kz4killua/wikirec/internal/errors"
	"github.com/kz4killua/wikirec/internal/metrics"
	"github.com/kz4killua/wikirec/internal/normalize"
	"github.com/kz4killua/wikirec/internal/store"
	"github.com/kz4killua/wikirec/internal/wikimedia"
)

// TitleSearcher is the upstream title search.
type TitleSearcher interface {
	SearchTitles(ctx context.Context, query string, limit int) ([]domain.Candidate, error)
	Language() string
}

// SearchCache stores title search results. *store.Store implements it.
type SearchCache interface {
	GetCachedSearch(ctx context.Context, language, query string, limit int) (*store.CachedSearch, error)
	SetCachedSearch(ctx context.Context, language, query string, limit int, candidates []domain.Candidate) error
}

// TitleSearchService orchestrates title search with normalization and caching.
type TitleSearchService struct {
	client TitleSearcher
	cache  SearchCache
	logger *slog.Logger
}

// NewTitleSearchService creates a new title search service. cache may be nil.
func NewTitleSearchService(client TitleSearcher, cache SearchCache, logger *slog.Logger) *TitleSearchService {
	return &TitleSearchService{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// Search returns up to limit candidates for the raw query.
// A query that normalizes to empty returns no candidates and makes no upstream call.
func (s *TitleSearchService) Search(ctx context.Context, raw string, limit int) ([]domain.Candidate, error) {
	query := normalize.Query(raw)
	if query == "" {
		return []domain.Candidate{}, nil
	}
	if limit <= 0 {
		return nil, domainerrors.Validation("limit must be positive")
	}

	lang := s.client.Language()
	key := normalize.CacheKey(query)

	if s.cache != nil {
		cached, err := s.cache.GetCachedSearch(ctx, lang, key, limit)
		if err != nil {
			s.logger.Warn("cache lookup failed", "error", err, "query", query)
		}
		if cached != nil {
			metrics.RecordCacheLookup("hit")
			metrics.RecordTitleSearch(metrics.OutcomeCacheHit)
			s.logger.Debug("cache hit for title search", "query", query, "age", time.Since(cached.FetchedAt))
			return cached.Candidates, nil
		}
		metrics.RecordCacheLookup("miss")
	}

	start := time.Now()
	candidates, err := s.client.SearchTitles(ctx, query, limit)
	metrics.RecordUpstream("wikimedia", time.Since(start), err)
	if err != nil {
		metrics.RecordTitleSearch(metrics.OutcomeError)
		return nil, mapSearchError(err)
	}
	metrics.RecordTitleSearch(metrics.OutcomeOK)

	if s.cache != nil {
		// A superseded search still produced a good answer; keep it even
		// though the caller's context is gone.
		if err := s.cache.SetCachedSearch(context.WithoutCancel(ctx), lang, key, limit, candidates); err != nil {
			s.logger.Warn("failed to cache title search", "error", err, "query", query)
		}
	}

	return candidates, nil
}

func mapSearchError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, wikimedia.ErrRateLimited):
		return domainerrors.Wrap(err, domainerrors.CodeRateLimited, "title search is rate limited, try again shortly")
	case errors.Is(err, wikimedia.ErrBadRequest), errors.Is(err, wikimedia.ErrInvalidLimit):
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "title search rejected the query")
	default:
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "title search is unavailable")
	}
}
