package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prperemyshlev/habit-tracker/pkg/database"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateLimiter(t *testing.T, now *time.Time) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRateLimiter(&database.Redis{Client: client}).WithClock(func() time.Time { return *now })
	return limiter, mr
}

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	limiter, mr := newTestRateLimiter(t, &now)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := limiter.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Minute, res.RetryAfter)

	members, err := mr.ZMembers("ratelimit:login:10.0.0.1")
	require.NoError(t, err)
	assert.Len(t, members, 3)
}

func TestRateLimiterWindowSlides(t *testing.T) {
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	limiter, _ := newTestRateLimiter(t, &now)
	ctx := context.Background()

	_, err := limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)

	now = now.Add(40 * time.Second)
	res, err := limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 20*time.Second, res.RetryAfter)

	now = now.Add(21 * time.Second)
	res, err = limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	now := time.Now()
	limiter, _ := newTestRateLimiter(t, &now)
	ctx := context.Background()

	res, err := limiter.Allow(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.Allow(ctx, "b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRateLimiterSetsExpiry(t *testing.T) {
	now := time.Now()
	limiter, mr := newTestRateLimiter(t, &now)

	_, err := limiter.Allow(context.Background(), "k", 5, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, mr.TTL("ratelimit:k"))
}

func TestRateLimiterReportsRedisErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()
	limiter := NewRateLimiter(&database.Redis{Client: client})

	_, err := limiter.Allow(context.Background(), "k", 5, time.Minute)
	assert.Error(t, err)
}

func TestRateLimiterConcurrentCallersNeverExceedLimit(t *testing.T) {
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	limiter, mr := newTestRateLimiter(t, &now)
	ctx := context.Background()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Allow(ctx, "login:10.0.0.2", 5, time.Minute)
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), allowed.Load())

	members, err := mr.ZMembers("ratelimit:login:10.0.0.2")
	require.NoError(t, err)
	assert.Len(t, members, 5)
}
