package providers

import (
	"github.com/samber/do/v2"

	"github.com/kz4killua/wikirec/internal/config"
	"github.com/kz4killua/wikirec/internal/logger"
	"github.com/kz4killua/wikirec/internal/service"
)

// ProvideTitleSearchService provides the cached title search service.
func ProvideTitleSearchService(i do.Injector) (*service.TitleSearchService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*WikimediaClientHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	// A nil *store.Store inside the interface would not compare equal to nil.
	var cache service.SearchCache
	if cfg.Cache.Enabled {
		cache = storeHandle.Store
	}

	return service.NewTitleSearchService(client.Client, cache, log.Logger), nil
}

// ProvideRecommendationService provides the recommendation service.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*RecommenderClientHandle](i)

	return service.NewRecommendationService(client.Client, log.Logger), nil
}
