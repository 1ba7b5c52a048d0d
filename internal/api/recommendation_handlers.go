package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	apidto "github.com/kz4killua/wikirec/internal/api/dto"
	"github.com/kz4killua/wikirec/internal/domain"
	"github.com/kz4killua/wikirec/internal/dto"
	"github.com/kz4killua/wikirec/internal/service"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "recommend",
		Method:      http.MethodPost,
		Path:        APIPrefix + "/recommendations",
		Summary:     "Get recommendations",
		Description: "Returns items of the chosen category similar to the given pages, laid out for display",
		Tags:        []string{"Recommendations"},
	}, s.handleRecommend)
}

func (s *Server) handleRecommend(ctx context.Context, input *apidto.RecommendInput) (*apidto.ResultsOutput, error) {
	// An unknown category parses to CategoryNone, which Validate reports.
	category, _ := domain.ParseCategory(input.Body.Category)

	// Domain checks first so an empty form gets the same messages as the finder.
	if err := service.Validate(input.Body.PageKeys, category); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, recommendTimeout)
	defer cancel()

	recs, err := s.services.Recommendations.Recommend(ctx, input.Body.PageKeys, category)
	if err != nil {
		return nil, upstreamError(err)
	}

	return &apidto.ResultsOutput{Body: *dto.NewResults(category, recs)}, nil
}
