package middleware

import (
	"context"
	"fmt"
	"time"

	"blogapi/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// RateLimiter counts requests per resource and caller in fixed Redis windows.
type RateLimiter struct {
	rdb    *redis.Client
	env    string
	policy FailPolicy
}

// NewRateLimiter returns a limiter for env. Limits are not enforced in
// "test", "development" or "stress".
func NewRateLimiter(rdb *redis.Client, env string, policy FailPolicy) *RateLimiter {
	return &RateLimiter{rdb: rdb, env: env, policy: policy}
}

// Bypassed reports whether limits are switched off for the configured environment.
func (l *RateLimiter) Bypassed() bool {
	switch l.env {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

// Allow reports whether one more request for resource/id fits in the window.
func (l *RateLimiter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if l.Bypassed() {
		return true, nil
	}
	if l.rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	// A counter without a TTL would block the caller for good.
	if cnt == 1 {
		if err := l.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}

// Limit returns a Fiber middleware enforcing limit requests per window for the named resource.
// Callers are keyed by user id when TokenAuth ran first, otherwise by remote IP.
func (l *RateLimiter) Limit(name string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid, ok := c.Locals(LocalUserID).(uint); ok {
			id = fmt.Sprintf("user:%d", uid)
		} else {
			id = "ip:" + c.IP()
		}

		allowed, err := l.Allow(c.UserContext(), name, id, limit, window)
		if err != nil {
			if l.policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
					"resource", name, "error", err)
				return models.RespondWithError(c, models.NewServiceUnavailableError("Rate limit unavailable"))
			}
			return c.Next()
		}

		if !allowed {
			return models.RespondWithError(c, models.NewTooManyRequestsError())
		}
		return c.Next()
	}
}
