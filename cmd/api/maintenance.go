package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardealer/service/internal/db"
	"github.com/cardealer/service/internal/retention"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.Migrate(a.cfg.DatabaseURL); err != nil {
				return fmt.Errorf("database migration failed: %w", err)
			}
			return nil
		},
	}
}

func newSweepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete cars older than RETENTION_MAX_AGE once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, pool, err := a.carService(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			sweeper := retention.NewSweeper(svc, a.cfg.RetentionMaxAge, a.cfg.RetentionInterval, a.logger)
			n, err := sweeper.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d car(s)\n", n)
			return nil
		},
	}
}
