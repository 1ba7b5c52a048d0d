package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/kz4killua/wikirec/internal/config"
	"github.com/kz4killua/wikirec/internal/finder"
	"github.com/kz4killua/wikirec/internal/logger"
	"github.com/kz4killua/wikirec/internal/ratelimit"
	"github.com/kz4killua/wikirec/internal/service"
)

// FinderHandle wraps the finder session manager and its idle-session janitor.
type FinderHandle struct {
	*finder.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *FinderHandle) Shutdown() error {
	h.cancel()
	h.Manager.Shutdown()
	return nil
}

// ProvideFinderManager provides the finder session manager.
func ProvideFinderManager(i do.Injector) (*FinderHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	titles := do.MustInvoke[*service.TitleSearchService](i)
	recommendations := do.MustInvoke[*service.RecommendationService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	manager := finder.NewManager(titles, recommendations, sseHandle.Manager, log.Logger, finder.ManagerConfig{
		Options: finder.Options{
			DebounceWindow: cfg.Finder.DebounceWindow,
			FocusGrace:     cfg.Finder.FocusGrace,
			SearchLimit:    cfg.Finder.SearchLimit,
			SubmitTimeout:  cfg.Recommender.Timeout,
		},
		SessionTTL:  cfg.Finder.SessionTTL,
		MaxSessions: cfg.Finder.MaxSessions,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("Finder session janitor started",
		"session_ttl", cfg.Finder.SessionTTL,
		"debounce_window", cfg.Finder.DebounceWindow,
	)

	return &FinderHandle{Manager: manager, cancel: cancel}, nil
}

// RateLimiterHandle wraps the per-client API rate limiter.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-IP API rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	rps := float64(cfg.RateLimit.RequestsPerMinute) / 60
	log.Info("API rate limiting enabled",
		"requests_per_minute", cfg.RateLimit.RequestsPerMinute,
		"burst", cfg.RateLimit.Burst,
	)
	return &RateLimiterHandle{KeyedRateLimiter: ratelimit.New(rps, cfg.RateLimit.Burst)}, nil
}
