package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freelancehub/api/internal/core/domain"
)

const (
	defaultDialTimeout = 2 * time.Second
	// Lockout lookups sit on the login path, so each command is short-lived.
	commandTimeout = 500 * time.Millisecond
	poolSize       = 10
)

// Config selects the Redis instance that holds lockout counters.
type Config struct {
	Addr string
	DB   int
	// DialTimeout bounds connecting and the startup ping.
	DialTimeout time.Duration
}

func (c Config) options() *redis.Options {
	dial := c.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}
	return &redis.Options{
		Addr:         c.Addr,
		DB:           c.DB,
		DialTimeout:  dial,
		ReadTimeout:  commandTimeout,
		WriteTimeout: commandTimeout,
		PoolSize:     poolSize,
		MaxRetries:   1,
	}
}

// Connect opens the lockout store and fails fast when it cannot be reached.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := cfg.options()
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, domain.Unavailable(fmt.Sprintf("redis %s", cfg.Addr), err)
	}
	return client, nil
}

// Pinger adapts a client to the readiness check.
type Pinger struct {
	client *redis.Client
}

func NewPinger(client *redis.Client) *Pinger {
	return &Pinger{client: client}
}

func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
