package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfwise/library-system/internal/core/domain"
)

const (
	defaultMaxAttempts = 10
	defaultWindow      = time.Minute
)

// LoginLimiter throttles login attempts per username, backed by Redis.
// Key format: login:<username>, INCR with a window TTL set on first attempt.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter with the default budget of
// 10 attempts per minute per username.
func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{
		client:      client,
		maxAttempts: defaultMaxAttempts,
		window:      defaultWindow,
	}
}

// Allow counts this attempt and returns domain.ErrTooManyAttempts once the
// username exceeds its budget for the current window. Redis being unreachable
// is reported as a distinct error so the caller can decide to fail open.
func (l *LoginLimiter) Allow(ctx context.Context, username string) error {
	key := l.key(username)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login limiter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter: %w", err)
		}
	}

	if count > l.maxAttempts {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (l *LoginLimiter) key(username string) string {
	return "login:" + username
}
