// Package db opens the repositories selected by STORE_DRIVER and the
// optional Redis lockout store.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/freelancehub/api/internal/core/ports"
	"github.com/freelancehub/api/internal/infrastructure/config"
	"github.com/freelancehub/api/internal/infrastructure/db/memory"
	mongostore "github.com/freelancehub/api/internal/infrastructure/db/mongo"
	redisstore "github.com/freelancehub/api/internal/infrastructure/db/redis"
	"github.com/freelancehub/api/internal/infrastructure/db/sqlstore"
)

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles the repositories for one driver with its lifecycle hooks.
type Store struct {
	Driver   string
	Users    ports.AuthRepository
	Clients  ports.ClientRepository
	Projects ports.ProjectRepository
	// Pingers names every backend the readiness probe should check.
	Pingers map[string]Pinger

	sql     *sqlstore.DB
	closers []func(context.Context) error
}

// Open connects to the backend named by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	s := &Store{Driver: cfg.Store.Driver, Pingers: make(map[string]Pinger)}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		mem := memory.NewStore()
		s.Users, s.Clients, s.Projects = mem, mem.Clients(), mem.Projects()
		s.Pingers["store"] = mem

	case config.DriverMongo:
		client, database, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Disconnect)
		if err := mongostore.EnsureIndexes(ctx, database); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		s.Users = mongostore.NewUserRepository(database)
		s.Clients = mongostore.NewClientRepository(database)
		s.Projects = mongostore.NewProjectRepository(database)
		s.Pingers["mongo"] = mongostore.NewPinger(database)

	case config.DriverPostgres, config.DriverSQLite:
		sqlDB, err := sqlstore.Open(ctx, sqlstore.Dialect(cfg.Store.Driver), cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		s.sql = sqlDB
		s.closers = append(s.closers, func(context.Context) error { return sqlDB.Close() })
		if cfg.Store.AutoMigrate {
			if err := sqlDB.Migrate(ctx); err != nil {
				_ = s.Close(ctx)
				return nil, err
			}
		}
		s.Users, s.Clients, s.Projects = sqlDB.Users(), sqlDB.Clients(), sqlDB.Projects()
		s.Pingers[cfg.Store.Driver] = sqlDB

	default:
		return nil, fmt.Errorf("db: unknown driver %q", cfg.Store.Driver)
	}

	return s, nil
}

// SQL returns the relational handle, or false for the memory and mongo
// drivers.
func (s *Store) SQL() (*sqlstore.DB, bool) {
	return s.sql, s.sql != nil
}

// Close releases every connection opened by Open, last opened first.
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Lockout is the Redis-backed failed-login limiter.
type Lockout struct {
	Limiter *redisstore.LoginLimiter
	Pinger  Pinger
	close   func() error
}

func (l *Lockout) Close() error {
	return l.close()
}

// OpenLockout connects to Redis when REDIS_ADDR is set. It returns nil,
// nil when lockout is disabled.
func OpenLockout(ctx context.Context, cfg *config.Config) (*Lockout, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return nil, err
	}
	return &Lockout{
		Limiter: redisstore.NewLoginLimiter(client, cfg.Lockout.Threshold, cfg.Lockout.Window),
		Pinger:  redisstore.NewPinger(client),
		close:   client.Close,
	}, nil
}
