// Package di provides dependency injection configuration for the wikirec server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/kz4killua/wikirec/internal/auth"
	"github.com/kz4killua/wikirec/internal/config"
	"github.com/kz4killua/wikirec/internal/di/providers"
	"github.com/kz4killua/wikirec/internal/logger"
	"github.com/kz4killua/wikirec/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage and events
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Upstream clients
	do.Provide(injector, providers.ProvideWikimediaClient)
	do.Provide(injector, providers.ProvideRecommenderClient)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideTitleSearchService)
	do.Provide(injector, providers.ProvideRecommendationService)

	// Workers
	do.Provide(injector, providers.ProvideFinderManager)
	do.Provide(injector, providers.ProvideRateLimiter)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services.
// Invocation order is also the reverse of shutdown order.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	if _, err := do.Invoke[providers.AuthKey](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*auth.TokenService](injector)
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.WikimediaClientHandle](injector)
	_ = do.MustInvoke[*providers.RecommenderClientHandle](injector)
	_ = do.MustInvoke[*service.TitleSearchService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)
	_ = do.MustInvoke[*providers.FinderHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
