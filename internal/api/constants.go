package api

import "time"

// API limits and constants.
const (
	// APIPrefix is where the JSON API is mounted.
	APIPrefix = "/api/v1"

	// titleSearchTimeout bounds one stateless title search.
	titleSearchTimeout = 10 * time.Second
	// recommendTimeout bounds one stateless recommendation request.
	recommendTimeout = 60 * time.Second
)

// Cache-Control header values.
const (
	CacheOneDay  = "public, max-age=86400"
	CacheNoStore = "no-store"
)
