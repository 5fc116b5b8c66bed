package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prperemyshlev/habit-tracker/pkg/database"
	"github.com/redis/go-redis/v9"
)

// RateLimitResult describes the outcome of a rate limit check
type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter is a sliding-window log limiter backed by a Redis sorted set
type RateLimiter struct {
	redis *database.Redis
	now   func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *database.Redis) *RateLimiter {
	return &RateLimiter{redis: redis, now: time.Now}
}

// WithClock returns a copy of the limiter that reads time from now
func (r *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	cp := *r
	cp.now = now
	return &cp
}

// Allow records a request for key and reports whether it fits in the window.
// Trimming, recording and counting run in one MULTI/EXEC, so concurrent
// callers never admit more than limit requests per window.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	now := r.now()
	redisKey := "ratelimit:" + key
	member := uuid.NewString()
	windowStart := now.Add(-window).UnixMilli()

	var count *redis.IntCmd
	_, err := r.redis.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMilli()), Member: member})
		count = pipe.ZCard(ctx, redisKey)
		pipe.Expire(ctx, redisKey, window+time.Minute)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record request: %w", err)
	}

	if count.Val() <= int64(limit) {
		return &RateLimitResult{Allowed: true, Remaining: limit - int(count.Val())}, nil
	}

	// Rejected requests do not occupy the window.
	if err := r.redis.Client.ZRem(ctx, redisKey, member).Err(); err != nil {
		return nil, fmt.Errorf("failed to drop rejected entry: %w", err)
	}

	result := &RateLimitResult{Allowed: false, Remaining: 0, RetryAfter: window}

	oldest, err := r.redis.Client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
	if err == nil && len(oldest) > 0 {
		oldestAt := time.UnixMilli(int64(oldest[0].Score))
		if wait := window - now.Sub(oldestAt); wait > 0 {
			result.RetryAfter = wait
		}
	}

	return result, nil
}
