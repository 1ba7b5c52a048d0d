package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz4killua/wikirec/internal/domain"
	domainerrors "github.com/kz4killua/wikirec/internal/errors"
	"github.com/kz4killua/wikirec/internal/recommender"
	"github.com/kz4killua/wikirec/internal/store"
	"github.com/kz4killua/wikirec/internal/wikimedia"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	result  []domain.Candidate
	err     error
}

func (f *fakeSearcher) SearchTitles(_ context.Context, query string, _ int) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	return f.result, f.err
}

func (f *fakeSearcher) Language() string { return "en" }

func (f *fakeSearcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func newCache(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New("", nil, store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTitleSearchService_NormalizesAndCaches(t *testing.T) {
	searcher := &fakeSearcher{result: []domain.Candidate{{Key: "Interstellar_(film)", Title: "Interstellar (film)"}}}
	svc := NewTitleSearchService(searcher, newCache(t), testLogger())
	ctx := context.Background()

	got, err := svc.Search(ctx, "  Interstellar ", 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// Same query with different case and spacing is served from cache.
	got, err = svc.Search(ctx, "interstellar", 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	assert.Equal(t, []string{"Interstellar"}, searcher.calls())
}

func TestTitleSearchService_EmptyQuerySkipsUpstream(t *testing.T) {
	searcher := &fakeSearcher{}
	svc := NewTitleSearchService(searcher, nil, testLogger())

	got, err := svc.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, searcher.calls())
}

func TestTitleSearchService_InvalidLimit(t *testing.T) {
	svc := NewTitleSearchService(&fakeSearcher{}, nil, testLogger())

	_, err := svc.Search(context.Background(), "Dune", 0)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTitleSearchService_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"rate limited", &wikimedia.Error{Op: "searchTitles", Err: wikimedia.ErrRateLimited}, domainerrors.ErrRateLimited},
		{"bad request", &wikimedia.Error{Op: "searchTitles", Err: wikimedia.ErrBadRequest}, domainerrors.ErrValidation},
		{"server", &wikimedia.Error{Op: "searchTitles", Err: wikimedia.ErrServer}, domainerrors.ErrUnavailable},
		{"canceled", fmt.Errorf("rate limit wait: %w", context.Canceled), context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTitleSearchService(&fakeSearcher{err: tt.err}, nil, testLogger())
			_, err := svc.Search(context.Background(), "Dune", 5)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTitleSearchService_FailuresAreNotCached(t *testing.T) {
	searcher := &fakeSearcher{err: wikimedia.ErrServer}
	svc := NewTitleSearchService(searcher, newCache(t), testLogger())

	_, err := svc.Search(context.Background(), "Dune", 5)
	require.Error(t, err)

	searcher.mu.Lock()
	searcher.err = nil
	searcher.result = []domain.Candidate{{Key: "Dune_(novel)"}}
	searcher.mu.Unlock()

	got, err := svc.Search(context.Background(), "Dune", 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Len(t, searcher.calls(), 2)
}

type fakeRecommender struct {
	keys     []string
	category domain.Category
	result   []domain.Recommendation
	err      error
	calls    int
}

func (f *fakeRecommender) Recommend(_ context.Context, keys []string, category domain.Category) ([]domain.Recommendation, error) {
	f.calls++
	f.keys = keys
	f.category = category
	return f.result, f.err
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		category domain.Category
		wantMsg  string
	}{
		{"no keys", nil, domain.CategoryMovies, MsgNoSelections},
		{"no keys and no category reports keys first", nil, domain.CategoryNone, MsgNoSelections},
		{"no category", []string{"Dune_(novel)"}, domain.CategoryNone, MsgNoCategory},
		{"unknown category", []string{"Dune_(novel)"}, domain.Category("podcasts"), MsgNoCategory},
		{"empty key", []string{""}, domain.CategoryBooks, "page keys must not be empty"},
		{"valid", []string{"Dune_(novel)"}, domain.CategoryBooks, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.keys, tt.category)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestRecommendationService_Recommend(t *testing.T) {
	rec := &fakeRecommender{result: []domain.Recommendation{{ID: "1", Title: "Gravity"}}}
	svc := NewRecommendationService(rec, testLogger())

	got, err := svc.Recommend(context.Background(), []string{"Interstellar_(film)"}, domain.CategoryMovies)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"Interstellar_(film)"}, rec.keys)
	assert.Equal(t, domain.CategoryMovies, rec.category)
}

func TestRecommendationService_ValidationSkipsUpstream(t *testing.T) {
	rec := &fakeRecommender{}
	svc := NewRecommendationService(rec, testLogger())

	_, err := svc.Recommend(context.Background(), nil, domain.CategoryMovies)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Zero(t, rec.calls)
}

func TestRecommendationService_MapsUpstreamFailure(t *testing.T) {
	upstream := &recommender.Error{Op: "recommend", Category: "movies", Err: recommender.ErrCircuitOpen}
	svc := NewRecommendationService(&fakeRecommender{err: upstream}, testLogger())

	_, err := svc.Recommend(context.Background(), []string{"Interstellar_(film)"}, domain.CategoryMovies)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrUnavailable)
	assert.True(t, errors.Is(err, recommender.ErrCircuitOpen), "cause preserved")
}
