package main

import (
	"github.com/edulytics/edulytics-server/internal/migrations"
	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending migrations, or roll every migration back with --down.`,
		RunE:  runMigrate,
	}
	cmd.Flags().Bool("down", false, "roll back all migrations")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m, err := migrations.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer m.Close()

	down, _ := cmd.Flags().GetBool("down")
	if down {
		if err := m.Down(); err != nil {
			return err
		}
		log.Info("migrations rolled back")
		return nil
	}

	if err := m.Up(); err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}
