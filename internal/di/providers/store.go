package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/kz4killua/wikirec/internal/config"
	"github.com/kz4killua/wikirec/internal/logger"
	"github.com/kz4killua/wikirec/internal/sse"
	"github.com/kz4killua/wikirec/internal/store"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the search cache store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the Badger-backed search cache.
// With caching disabled the store lives in memory and is only used for health checks.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	opts := store.Options{
		SearchTTL: cfg.Cache.TTL,
		InMemory:  !cfg.Cache.Enabled,
	}

	path := cfg.CachePath()
	db, err := store.New(path, log.Logger, opts)
	if err != nil {
		return nil, err
	}

	if cfg.Cache.Enabled {
		log.Info("Search cache initialized", "path", path, "ttl", cfg.Cache.TTL)
	} else {
		log.Info("Search cache disabled")
	}

	return &StoreHandle{Store: db}, nil
}
