package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenants/modules/tenants"
	"github.com/dmitrymomot/tenants/pkg/config"
	"github.com/dmitrymomot/tenants/pkg/pg"
)

// openStore connects to PG_CONN_URL. The caller closes the pool.
func openStore(ctx context.Context) (*pgxpool.Pool, pg.Config, *tenants.Store, error) {
	var cfg pg.Config
	if err := config.Load(&cfg); err != nil {
		return nil, cfg, nil, err
	}
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, cfg, nil, err
	}
	return pool, cfg, tenants.NewStore(pool), nil
}

func migrate(ctx context.Context, log *slog.Logger) error {
	pool, cfg, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg, tenants.Migrations(), log); err != nil {
		return err
	}
	v, err := pg.Version(ctx, pool, cfg, tenants.Migrations(), log)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "migrations applied", slog.Int64("version", v))
	return nil
}
