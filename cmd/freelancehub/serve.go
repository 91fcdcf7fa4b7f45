package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/freelancehub/api/internal/api"
	"github.com/freelancehub/api/internal/api/handler"
	"github.com/freelancehub/api/internal/core/aggregate"
	"github.com/freelancehub/api/internal/core/service"
	"github.com/freelancehub/api/internal/infrastructure/db"
	httpserver "github.com/freelancehub/api/internal/infrastructure/http"
	"github.com/freelancehub/api/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until SIGINT or SIGTERM.

The backend is chosen by STORE_DRIVER (memory, mongo, postgres, sqlite).
Setting REDIS_ADDR enables failed-login lockout.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Named("server")

	store, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	health := make(map[string]handler.Pinger, len(store.Pingers)+1)
	for name, p := range store.Pingers {
		health[name] = p
	}

	var limiter service.LoginLimiter
	lockout, err := db.OpenLockout(ctx, cfg)
	if err != nil {
		return err
	}
	if lockout != nil {
		defer lockout.Close()
		limiter = lockout.Limiter
		health["redis"] = lockout.Pinger
	} else {
		log.Warn().Msg("REDIS_ADDR not set, failed-login lockout disabled")
	}

	router := api.NewRouter(api.Deps{
		Auth:          service.NewAuthService(store.Users, limiter, cfg.JWTSecret, cfg.TokenTTL, logger.Named("auth")),
		Clients:       service.NewClientService(store.Clients, logger.Named("clients")),
		Projects:      service.NewProjectService(store.Projects, logger.Named("projects")),
		Health:        health,
		Revenue:       aggregate.RevenuePolicy{ExcludeAbandoned: cfg.Revenue.ExcludeAbandoned},
		Logger:        logger.Named("http"),
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		AuthRateLimit: cfg.HTTP.AuthRateLimit,
		AuthBurst:     cfg.HTTP.AuthBurst,
	})

	log.Info().Str("driver", store.Driver).Msg("store ready")
	return httpserver.Run(ctx, router, httpserver.ServerConfig{
		Addr:            ":" + cfg.Port,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, log)
}
