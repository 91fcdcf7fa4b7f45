package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed logins per username in Redis so every API
// instance shares the same lockout state.
// Key format: lockout:<username>
type LoginLimiter struct {
	client    *redis.Client
	threshold int64
	window    time.Duration
}

// NewLoginLimiter locks a username once threshold failures land within
// window of the first one.
func NewLoginLimiter(client *redis.Client, threshold int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, threshold: int64(threshold), window: window}
}

func (l *LoginLimiter) Locked(ctx context.Context, username string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lockout check: %w", err)
	}
	return n >= l.threshold, nil
}

// RecordFailure increments the counter. The window starts at the first
// failure and is not extended by later ones.
func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) error {
	key := l.key(username)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("lockout record: %w", err)
	}
	return nil
}

func (l *LoginLimiter) Reset(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, l.key(username)).Err(); err != nil {
		return fmt.Errorf("lockout reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(username string) string {
	return "lockout:" + username
}
