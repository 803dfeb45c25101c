package middleware

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestOwnerRateLimiterCleanup(t *testing.T) {
	rl := NewOwnerRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, EntryTTL: time.Minute})
	defer rl.Stop()

	clock := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	stale, fresh := uuid.New(), uuid.New()
	rl.getLimiter(stale)
	clock = clock.Add(2 * time.Minute)
	rl.getLimiter(fresh)
	require.Equal(t, 2, rl.ActiveOwners())

	rl.cleanup()
	require.Equal(t, 1, rl.ActiveOwners())
	require.Same(t, rl.getLimiter(fresh), rl.getLimiter(fresh))
}

func TestOwnerRateLimiterStopIsIdempotent(t *testing.T) {
	rl := NewOwnerRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, CleanupInterval: time.Hour})
	rl.Stop()
	rl.Stop()
}
