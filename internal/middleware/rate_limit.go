package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go-inventory-crm/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Counter increments a fixed-window counter and reports the hits so far and the time left.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type RateLimitRule struct {
	Prefix      string
	Window      time.Duration
	MaxRequests int
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// RedisCounter implements Counter with a Lua INCR + EXPIRE script.
type RedisCounter struct {
	client redis.UniversalClient
}

func NewRedisCounter(client redis.UniversalClient) *RedisCounter {
	return &RedisCounter{client: client}
}

func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	seconds := int(window / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	values, err := rateLimitScript.Run(ctx, r.client, []string{key}, seconds).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(values) < 2 {
		return 0, 0, fmt.Errorf("unexpected rate limit reply: %v", values)
	}
	return values[0], time.Duration(values[1]) * time.Second, nil
}

// RateLimit rejects clients that exceed rule.MaxRequests per window with 429.
// A nil counter or an empty rule disables it; counter failures let the request through.
func RateLimit(counter Counter, rule RateLimitRule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if counter == nil || rule.Window <= 0 || rule.MaxRequests <= 0 {
			return c.Next()
		}

		key := c.IP()
		if rule.Prefix != "" {
			key = rule.Prefix + ":" + key
		}

		count, ttl, err := counter.Hit(c.UserContext(), key, rule.Window)
		if err != nil {
			logger.Warnw("rate_limit_unavailable", "key", key, "error", err)
			return c.Next()
		}
		if count > int64(rule.MaxRequests) {
			wait := int(ttl / time.Second)
			if wait < 1 {
				wait = int(rule.Window / time.Second)
			}
			if wait < 1 {
				wait = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(wait))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fmt.Sprintf("too many attempts, retry in %d seconds", wait),
			})
		}
		return c.Next()
	}
}
