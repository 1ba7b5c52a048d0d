// Package metrics exposes Prometheus instrumentation for the finder and its upstreams.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeCacheHit = "cache_hit"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
	OutcomePending  = "pending"
)

var (
	// Upstream calls
	TitleSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikirec_title_search_total",
			Help: "Title searches by outcome (ok, error, cache_hit)",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wikirec_upstream_request_duration_seconds",
			Help:    "Latency of calls to the title search and recommendation services",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"upstream", "outcome"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikirec_submissions_total",
			Help: "Recommendation submissions by outcome (ok, error, invalid, pending)",
		},
		[]string{"outcome"},
	)

	// Finder sessions
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wikirec_finder_sessions_active",
			Help: "Finder sessions currently held in memory",
		},
	)

	StaleResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wikirec_stale_search_responses_total",
			Help: "Search responses discarded because a newer query superseded them",
		},
	)

	// Title search cache
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikirec_search_cache_lookups_total",
			Help: "Title search cache lookups by result (hit, miss, expired)",
		},
		[]string{"result"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wikirec_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikirec_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result (success, failure, rejected)",
		},
		[]string{"name", "result"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikirec_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// SSE
	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wikirec_sse_clients",
			Help: "Connected SSE subscribers",
		},
	)

	SSEDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wikirec_sse_events_dropped_total",
			Help: "Events dropped because a subscriber buffer was full",
		},
	)
)

// RecordUpstream records the latency and outcome of one upstream call.
func RecordUpstream(upstream string, duration time.Duration, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	UpstreamDuration.WithLabelValues(upstream, outcome).Observe(duration.Seconds())
}

// RecordTitleSearch counts one title search.
func RecordTitleSearch(outcome string) {
	TitleSearches.WithLabelValues(outcome).Inc()
}

// RecordSubmission counts one submission attempt.
func RecordSubmission(outcome string) {
	Submissions.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup counts a cache lookup result.
func RecordCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}
