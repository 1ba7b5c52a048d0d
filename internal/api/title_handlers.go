package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	apidto "github.com/kz4killua/wikirec/internal/api/dto"
)

func (s *Server) registerTitleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchTitles",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/titles/search",
		Summary:     "Search titles",
		Description: "Returns Wikipedia pages whose titles match the query. Blank queries return no candidates.",
		Tags:        []string{"Catalog"},
	}, s.handleSearchTitles)
}

func (s *Server) handleSearchTitles(ctx context.Context, input *apidto.TitleSearchInput) (*apidto.TitleSearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = s.opts.SearchLimit
	}

	ctx, cancel := context.WithTimeout(ctx, titleSearchTimeout)
	defer cancel()

	candidates, err := s.services.Titles.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, upstreamError(err)
	}

	return &apidto.TitleSearchOutput{
		Body: apidto.TitleSearchResponse{
			Query:      input.Query,
			Candidates: candidates,
		},
	}, nil
}
