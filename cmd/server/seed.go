package main

import (
	"context"
	"time"

	"github.com/edulytics/edulytics-server/internal/repository/postgres"
	"github.com/edulytics/edulytics-server/internal/service"
	"github.com/spf13/cobra"
)

const defaultSeedTimeout = 30 * time.Second

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Install the default courses and semesters",
		Long: `Creates the BCA and CSIT courses with semesters 1 to 8.
This command is idempotent - it will not create duplicates if run multiple times.`,
		RunE: runSeed,
	}
	cmd.Flags().Duration("timeout", defaultSeedTimeout, "timeout for database operations")
	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	db, err := postgres.NewConnection(ctx, cfg.Database.URL, log)
	if err != nil {
		return err
	}
	defer postgres.Close(db)

	repos := postgres.NewRepositories(db)
	return service.NewAcademicsService(repos, log).Seed(ctx)
}
