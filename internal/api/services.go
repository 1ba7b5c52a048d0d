package api

import (
	"github.com/kz4killua/wikirec/internal/auth"
	"github.com/kz4killua/wikirec/internal/finder"
	"github.com/kz4killua/wikirec/internal/service"
)

// Services groups the business logic used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Titles          *service.TitleSearchService
	Recommendations *service.RecommendationService
	Finder          *finder.Manager // Interactive finder sessions
	Tokens          *auth.TokenService
}

// BreakerReporter exposes upstream circuit breaker state for health checks.
// *recommender.Client implements it.
type BreakerReporter interface {
	Configured() bool
	State() string
}
