package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/habit-tracker/internal/dto"
	"github.com/prperemyshlev/habit-tracker/internal/service"
	"go.uber.org/zap"
)

// RateLimitMiddleware limits requests per key. Limiter errors let the
// request through.
func RateLimitMiddleware(rateLimiter *service.RateLimiter, limit int, window time.Duration, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		result, err := rateLimiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error:   http.StatusText(http.StatusTooManyRequests),
				Code:    "rate_limited",
				Message: "Too many sign-in attempts, try again in " + result.RetryAfter.Round(time.Second).String(),
			})
			return
		}

		c.Next()
	}
}

// ClientIPKey keys rate limits by route and client address
func ClientIPKey(prefix string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		return prefix + ":" + c.ClientIP()
	}
}
