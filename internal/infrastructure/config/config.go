package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	JWTSecret       string        `env:"JWT_SECRET"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=24h"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Store   StoreConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Lockout LockoutConfig
	HTTP    HTTPConfig
	Revenue RevenueConfig
}

// DefaultSQLiteDSN is a database file in the working directory with foreign
// keys enforced.
const DefaultSQLiteDSN = "file:freelancehub.db?_pragma=foreign_keys(1)"

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=memory"`
	// DSN is required for postgres; sqlite falls back to DefaultSQLiteDSN.
	DSN string `env:"DATABASE_URL"`
	// AutoMigrate applies pending SQL migrations when the store opens.
	AutoMigrate bool `env:"STORE_AUTO_MIGRATE, default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=freelance_hub"`
}

// RedisConfig enables the login lockout store when Addr is set.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type LockoutConfig struct {
	Threshold int           `env:"LOCKOUT_THRESHOLD, default=5"`
	Window    time.Duration `env:"LOCKOUT_WINDOW,    default=15m"`
}

type HTTPConfig struct {
	CORSOrigins   []string      `env:"CORS_ORIGINS,    default=*"`
	AuthRateLimit float64       `env:"AUTH_RATE_LIMIT, default=5"`
	AuthBurst     int           `env:"AUTH_RATE_BURST, default=10"`
	ReadTimeout   time.Duration `env:"HTTP_READ_TIMEOUT,  default=15s"`
	WriteTimeout  time.Duration `env:"HTTP_WRITE_TIMEOUT, default=15s"`
}

type RevenueConfig struct {
	ExcludeAbandoned bool `env:"REVENUE_EXCLUDE_ABANDONED, default=true"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverMongo:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("config: DATABASE_URL is required for STORE_DRIVER=postgres")
		}
	case DriverSQLite:
		if c.Store.DSN == "" {
			c.Store.DSN = DefaultSQLiteDSN
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Lockout.Threshold <= 0 {
		return fmt.Errorf("config: LOCKOUT_THRESHOLD must be positive")
	}
	return nil
}

// IsDevelopment reports whether ENV selects human-friendly defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
