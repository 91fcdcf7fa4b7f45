package main

import (
	"github.com/spf13/cobra"

	"github.com/freelancehub/api/internal/infrastructure/config"
	"github.com/freelancehub/api/pkg/logger"
)

const serviceName = "freelancehub"

// cfg is loaded once by the root command before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "freelancehub",
	Short: "Freelance Hub API server and tooling",
	Long: `Freelance Hub tracks clients and their projects for a freelancer
dashboard. Configuration is read from the environment.

Examples:
  # Run the HTTP API
  JWT_SECRET=change-me freelancehub serve

  # Apply SQL migrations
  STORE_DRIVER=postgres DATABASE_URL=postgres://localhost/fh freelancehub migrate up

  # Create a login
  freelancehub user add --username admin`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Context())
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.IsDevelopment(),
			Service: serviceName,
			Output:  cmd.ErrOrStderr(),
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, userCmd, seedCmd)
}
