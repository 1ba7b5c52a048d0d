package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	apidto "github.com/kz4killua/wikirec/internal/api/dto"
	"github.com/kz4killua/wikirec/internal/dto"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        APIPrefix + "/categories",
		Summary:     "List categories",
		Description: "Returns the kinds of item that can be recommended, in display order",
		Tags:        []string{"Catalog"},
	}, s.handleListCategories)
}

func (s *Server) handleListCategories(_ context.Context, _ *struct{}) (*apidto.CategoryListOutput, error) {
	return &apidto.CategoryListOutput{
		CacheControl: CacheOneDay,
		Body:         apidto.CategoryListResponse{Categories: dto.Categories()},
	}, nil
}
