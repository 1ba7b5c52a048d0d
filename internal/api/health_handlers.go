package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"cache":       s.checkCache(ctx),
		"sse":         s.checkSSEManager(),
		"recommender": s.checkRecommender(),
		"finder":      s.checkFinder(),
	}

	overall := statusHealthy
	for _, c := range components {
		switch c.Status {
		case statusUnhealthy:
			overall = statusUnhealthy
		case statusDegraded:
			if overall == statusHealthy {
				overall = statusDegraded
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkCache verifies the Badger search cache is accessible.
func (s *Server) checkCache(ctx context.Context) ComponentHealth {
	// Handle nil store (e.g., in tests)
	if s.store == nil {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "search cache not configured",
		}
	}

	start := time.Now()
	err := s.store.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: latency.String(),
			Message: "search cache read failed",
		}
	}

	return ComponentHealth{
		Status:  statusHealthy,
		Latency: latency.String(),
	}
}

// checkSSEManager reports connected event stream clients.
func (s *Server) checkSSEManager() ComponentHealth {
	if s.sseManager == nil {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "event streaming not configured",
		}
	}

	return ComponentHealth{
		Status:  statusHealthy,
		Message: fmt.Sprintf("%d clients connected", s.sseManager.ClientCount()),
	}
}

// checkRecommender reports the recommendation backend's circuit breaker.
// An open breaker is degraded rather than unhealthy: title search still works.
func (s *Server) checkRecommender() ComponentHealth {
	if s.recommender == nil || !s.recommender.Configured() {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "recommendation service not configured",
		}
	}

	state := s.recommender.State()
	if state == "open" {
		return ComponentHealth{
			Status:  statusDegraded,
			Message: "circuit breaker open",
		}
	}

	return ComponentHealth{
		Status:  statusHealthy,
		Message: "circuit breaker " + state,
	}
}

// checkFinder reports live finder sessions.
func (s *Server) checkFinder() ComponentHealth {
	return ComponentHealth{
		Status:  statusHealthy,
		Message: fmt.Sprintf("%d active sessions", s.finder.Len()),
	}
}
