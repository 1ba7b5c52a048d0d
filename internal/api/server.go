// Package api provides the HTTP API server and handlers for the wikirec recommendation finder.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kz4killua/wikirec/internal/finder"
	"github.com/kz4killua/wikirec/internal/logger"
	"github.com/kz4killua/wikirec/internal/ratelimit"
	"github.com/kz4killua/wikirec/internal/sse"
	"github.com/kz4killua/wikirec/internal/store"
	"github.com/kz4killua/wikirec/internal/validation"
)

// Options configures the HTTP surface.
type Options struct {
	Version     string
	CORSOrigins []string
	// SearchLimit is the default candidate count for title searches.
	SearchLimit int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *store.Store
	services    *Services
	finder      *finder.Manager
	recommender BreakerReporter
	sseManager  *sse.Manager
	sseHandler  *sse.Handler
	rateLimiter *ratelimit.KeyedRateLimiter
	validator   *validation.Validator
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
	opts        Options
}

// NewServer creates a new HTTP server with all routes configured.
// st and recommender may be nil; health then reports them as degraded.
func NewServer(
	st *store.Store,
	services *Services,
	recommender BreakerReporter,
	sseManager *sse.Manager,
	rateLimiter *ratelimit.KeyedRateLimiter,
	opts Options,
	logger *slog.Logger,
) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = finder.DefaultOptions().SearchLimit
	}

	router := chi.NewRouter()

	s := &Server{
		store:       st,
		services:    services,
		finder:      services.Finder,
		recommender: recommender,
		sseManager:  sseManager,
		sseHandler:  sse.NewHandler(sseManager, logger),
		rateLimiter: rateLimiter,
		validator:   validation.New(),
		router:      router,
		logger:      logger,
		opts:        opts,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("wikirec API", opts.Version)
	humaConfig.Info.Description = "Find movies, TV series, books, music and games similar to Wikipedia pages you like."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for OpenAPI generation and tests.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logger.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID"},
		MaxAge:         300,
	}))
	if s.rateLimiter != nil {
		s.router.Use(s.apiRateLimit(ratelimit.Middleware(s.rateLimiter, ratelimit.ByRemoteIP, s.logger)))
	}
	s.router.Use(authMiddleware(s.services.Tokens))
}

// apiRateLimit applies limit to JSON API routes only. Pages, health and
// metrics stay reachable while a client is being throttled.
func (s *Server) apiRateLimit(limit func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, APIPrefix+"/") {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerCategoryRoutes()
	s.registerTitleRoutes()
	s.registerRecommendationRoutes()
	s.registerFinderRoutes()

	// Plain chi routes: streaming, redirects and pages don't fit the JSON envelope.
	s.registerStreamRoutes()
	s.registerWebRoutes()

	s.router.Handle("/metrics", promhttp.Handler())
}
