package main

import (
	"log/slog"

	"github.com/edulytics/edulytics-server/internal/config"
	"github.com/edulytics/edulytics-server/internal/logging"
	"github.com/spf13/cobra"
)

const serviceName = "edulytics"

// NewRootCmd creates the root command. Running it without a subcommand
// starts the server.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edulytics",
		Short: "Edulytics identity and academics API",
		Long: `Edulytics serves registration, cookie sessions and role-gated
academic resources for teachers and students.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}

// loadConfig reads configuration for cmd and builds the logger that goes
// with it.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(serviceName, cfg.Log.Level), nil
}
