package providers

import (
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz4killua/wikirec/internal/config"
	"github.com/kz4killua/wikirec/internal/logger"
)

func TestProvideRateLimiter(t *testing.T) {
	injector := do.New()
	do.ProvideValue(injector, &config.Config{
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 60, Burst: 2},
	})
	do.ProvideValue(injector, logger.Discard())

	handle, err := ProvideRateLimiter(injector)
	require.NoError(t, err)
	require.NotNil(t, handle.KeyedRateLimiter)
	t.Cleanup(func() { _ = handle.Shutdown() })

	assert.True(t, handle.Allow("10.0.0.1"))
	assert.True(t, handle.Allow("10.0.0.1"))
	assert.False(t, handle.Allow("10.0.0.1"), "burst of 2 should be spent")
	assert.True(t, handle.Allow("10.0.0.2"))
}
