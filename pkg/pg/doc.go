// Package pg bootstraps PostgreSQL access with pgx/v5: a retrying pool
// constructor, goose migrations read from an fs.FS (typically embedded), a
// readiness probe and helpers for classifying driver errors.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil { ... }
//	if err := pg.Migrate(ctx, pool, cfg, tenants.Migrations(), log); err != nil { ... }
package pg
