package providers

import (
	"github.com/samber/do/v2"

	"github.com/kz4killua/wikirec/internal/config"
	"github.com/kz4killua/wikirec/internal/logger"
	"github.com/kz4killua/wikirec/internal/recommender"
	"github.com/kz4killua/wikirec/internal/wikimedia"
)

// WikimediaClientHandle wraps the Wikimedia client for lifecycle management.
type WikimediaClientHandle struct {
	*wikimedia.Client
}

// Shutdown implements do.Shutdownable.
func (h *WikimediaClientHandle) Shutdown() error {
	if h.Client != nil {
		h.Close()
	}
	return nil
}

// ProvideWikimediaClient provides the rate-limited title search client.
func ProvideWikimediaClient(i do.Injector) (*WikimediaClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := wikimedia.New(wikimedia.Config{
		BaseURL:      cfg.Wikimedia.BaseURL,
		Language:     cfg.Wikimedia.Language,
		AccessToken:  cfg.Wikimedia.AccessToken,
		AppName:      cfg.Wikimedia.AppName,
		ContactEmail: cfg.Wikimedia.AccountEmail,
		RPS:          cfg.Wikimedia.RPS,
		Burst:        cfg.Wikimedia.Burst,
	}, log.Logger)

	log.Info("Wikimedia client initialized",
		"language", client.Language(),
		"authenticated", cfg.Wikimedia.AccessToken != "",
	)

	return &WikimediaClientHandle{Client: client}, nil
}

// RecommenderClientHandle wraps the recommendation client for lifecycle management.
type RecommenderClientHandle struct {
	*recommender.Client
}

// Shutdown implements do.Shutdownable.
func (h *RecommenderClientHandle) Shutdown() error {
	if h.Client != nil {
		h.Close()
	}
	return nil
}

// ProvideRecommenderClient provides the circuit-broken recommendation client.
func ProvideRecommenderClient(i do.Injector) (*RecommenderClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := recommender.New(recommender.Config{
		URL:     cfg.Recommender.URL,
		Timeout: cfg.Recommender.Timeout,
		//nolint:gosec // validated positive at load time
		FailureThreshold: uint32(cfg.Recommender.FailureThreshold),
		OpenTimeout:      cfg.Recommender.OpenTimeout,
	}, log.Logger)

	if !client.Configured() {
		log.Warn("No recommendation service URL configured - submissions will fail until RECOMMENDER_URL is set")
	} else {
		log.Info("Recommendation client initialized", "timeout", cfg.Recommender.Timeout)
	}

	return &RecommenderClientHandle{Client: client}, nil
}
