package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MohammadOTaha/side-planner/internal/board/repository/sqlite"
	"github.com/MohammadOTaha/side-planner/internal/persistence"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			pool, cleanup, err := persistence.Provide(cmd.Context(), cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = cleanup() }()

			if _, err := sqlite.NewWithPool(pool); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", cfg.Database.Driver)
			return nil
		},
	}
}
