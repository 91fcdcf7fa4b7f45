package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.AutoMigrate)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.Lockout.Threshold)
	assert.Equal(t, 15*time.Minute, cfg.Lockout.Window)
	assert.True(t, cfg.Revenue.ExcludeAbandoned)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Empty(t, cfg.Redis.Addr)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORE_DRIVER":              "postgres",
		"DATABASE_URL":              "postgres://localhost/fh",
		"TOKEN_TTL":                 "1h",
		"REVENUE_EXCLUDE_ABANDONED": "false",
		"CORS_ORIGINS":              "https://a.example,https://b.example",
		"REDIS_ADDR":                "localhost:6379",
		"ENV":                       "production",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/fh", cfg.Store.DSN)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.Revenue.ExcludeAbandoned)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"STORE_DRIVER": "cassandra"}))
	assert.Error(t, err)
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"STORE_DRIVER": "postgres"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_SQLiteDefaultsDSN(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"STORE_DRIVER": "sqlite"}))
	require.NoError(t, err)
	assert.Equal(t, DefaultSQLiteDSN, cfg.Store.DSN)

	cfg, err = load(context.Background(), envconfig.MapLookuper(map[string]string{"STORE_DRIVER": "memory"}))
	require.NoError(t, err)
	assert.Empty(t, cfg.Store.DSN)
}
