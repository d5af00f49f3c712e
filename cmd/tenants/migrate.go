package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenants/modules/tenants"
	"github.com/dmitrymomot/tenants/pkg/pg"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending tenant directory migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			return migrate(cmd.Context(), log)
		},
	}
}

func newRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Roll back the most recent tenant directory migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log, err := newLogger()
			if err != nil {
				return err
			}

			pool, cfg, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := pg.Rollback(ctx, pool, cfg, tenants.Migrations(), log); err != nil {
				return err
			}
			v, err := pg.Version(ctx, pool, cfg, tenants.Migrations(), log)
			if err != nil {
				return err
			}
			log.InfoContext(ctx, "migration rolled back", slog.Int64("version", v))
			return nil
		},
	}
}
