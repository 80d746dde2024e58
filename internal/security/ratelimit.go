package security

import (
	"context"
	"fmt"
	"net/netip"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/config"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

const ipv6PrefixBits = 60

// RateLimiter enforces a fixed-window request budget per client IP.
type RateLimiter struct {
	client  redis.Cmdable
	limit   int64
	window  time.Duration
	message string
	logger  *zap.Logger
	now     func() time.Time
}

// NewRateLimiter builds the limiter. A nil client disables it.
func NewRateLimiter(client redis.Cmdable, cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	window := cfg.Window()
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &RateLimiter{
		client: client,
		limit:  int64(cfg.Requests),
		window: window,
		message: fmt.Sprintf("Too many requests from this IP. Please try again in %d minutes.",
			int(window.Minutes())),
		logger: logger,
		now:    time.Now,
	}
}

// Allow counts one request for key and reports whether it fits the budget,
// along with the remaining budget and time until the window resets.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int64, time.Duration, error) {
	now := rl.now()
	windowStart := now.Truncate(rl.window)
	reset := windowStart.Add(rl.window).Sub(now)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, windowStart.Unix())

	var incr *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.Expire(ctx, redisKey, rl.window)
		return nil
	})
	if err != nil {
		return true, rl.limit, reset, err
	}

	count := incr.Val()
	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.limit, remaining, reset, nil
}

// Middleware applies the limiter to every request.
func (rl *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl == nil || rl.client == nil || rl.limit <= 0 {
			return c.Next()
		}

		allowed, remaining, reset, err := rl.Allow(c.UserContext(), clientKey(c.IP()))
		if err != nil {
			rl.logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}

		c.Set("RateLimit-Limit", strconv.FormatInt(rl.limit, 10))
		c.Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Set("RateLimit-Reset", strconv.Itoa(int(reset.Seconds())))
		if !allowed {
			return apperrors.NewTooManyRequests(rl.message)
		}
		return c.Next()
	}
}

// clientKey groups IPv6 clients by their /60 prefix.
func clientKey(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return ip
	}
	if addr.Is4() || addr.Is4In6() {
		return addr.Unmap().String()
	}
	prefix, err := addr.Prefix(ipv6PrefixBits)
	if err != nil {
		return addr.String()
	}
	return prefix.String()
}
