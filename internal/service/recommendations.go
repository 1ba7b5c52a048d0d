// Package service sits between the API and the upstream clients: it
// normalizes input, consults caches and maps upstream failures to domain errors.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kz4killua/wikirec/internal/domain"
	domainerrors "github.com/kz4killua/wikirec/internal/errors"
	"github.com/kz4killua/wikirec/internal/recommender"
)

// Recommender is the upstream recommendation function.
type Recommender interface {
	Recommend(ctx context.Context, keys []string, category domain.Category) ([]domain.Recommendation, error)
}

// MaxPageKeys caps how many pages one request may seed recommendations with.
const MaxPageKeys = 10

// Messages shown when a submission is incomplete.
const (
	MsgNoSelections = "You must enter at least one movie, book, tv series, song, or game before proceeding."
	MsgNoCategory   = "Please choose a recommendation type before proceeding."
)

// RecommendationService validates recommendation requests and maps upstream failures.
type RecommendationService struct {
	client Recommender
	logger *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(client Recommender, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{client: client, logger: logger}
}

// Validate checks a request without calling out. Selections are checked
// before the category, matching the order the form reports problems in.
func Validate(keys []string, category domain.Category) error {
	if len(keys) == 0 {
		return domainerrors.Validation(MsgNoSelections)
	}
	if !category.Valid() {
		return domainerrors.Validation(MsgNoCategory)
	}
	if len(keys) > MaxPageKeys {
		return domainerrors.Validationf("at most %d page keys are allowed", MaxPageKeys)
	}
	for _, k := range keys {
		if k == "" {
			return domainerrors.Validation("page keys must not be empty")
		}
	}
	return nil
}

// Recommend returns recommendations of category for the given page keys.
func (s *RecommendationService) Recommend(ctx context.Context, keys []string, category domain.Category) ([]domain.Recommendation, error) {
	if err := Validate(keys, category); err != nil {
		return nil, err
	}

	recs, err := s.client.Recommend(ctx, keys, category)
	if err != nil {
		s.logger.Warn("recommendation request failed", "error", err, "category", category, "keys", len(keys))
		return nil, mapRecommendError(err)
	}

	s.logger.Debug("recommendations fetched", "category", category, "count", len(recs))
	return recs, nil
}

func mapRecommendError(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, recommender.ErrNoKeys), errors.Is(err, recommender.ErrInvalidCategory):
		return domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid recommendation request")
	default:
		return domainerrors.Wrap(err, domainerrors.CodeUnavailable, "recommendations are unavailable right now")
	}
}
