package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/kz4killua/wikirec/internal/api"
	"github.com/kz4killua/wikirec/internal/auth"
	"github.com/kz4killua/wikirec/internal/config"
	"github.com/kz4killua/wikirec/internal/logger"
	"github.com/kz4killua/wikirec/internal/service"
)

// Version is reported in the OpenAPI document. Set with -ldflags at build time.
var Version = "dev" //nolint:gochecknoglobals // build-time variable

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	finderHandle := do.MustInvoke[*FinderHandle](i)
	recommenderHandle := do.MustInvoke[*RecommenderClientHandle](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)

	services := &api.Services{
		Titles:          do.MustInvoke[*service.TitleSearchService](i),
		Recommendations: do.MustInvoke[*service.RecommendationService](i),
		Finder:          finderHandle.Manager,
		Tokens:          do.MustInvoke[*auth.TokenService](i),
	}

	handler := api.NewServer(
		storeHandle.Store,
		services,
		recommenderHandle.Client,
		sseHandle.Manager,
		limiterHandle.KeyedRateLimiter,
		api.Options{
			Version:     Version,
			CORSOrigins: cfg.Server.CORSOrigins,
			SearchLimit: cfg.Finder.SearchLimit,
		},
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
