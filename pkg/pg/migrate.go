package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrymomot/tenants/pkg/logger"
)

// Migrate applies every pending migration found at the root of fsys.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, fsys fs.FS, log *slog.Logger) error {
	return withGoose(pool, cfg, fsys, log, func(db *sql.DB) error {
		if err := goose.UpContext(ctx, db, "."); err != nil {
			return errors.Join(ErrFailedToApplyMigrations, err)
		}
		return nil
	})
}

// Rollback reverts the most recently applied migration.
func Rollback(ctx context.Context, pool *pgxpool.Pool, cfg Config, fsys fs.FS, log *slog.Logger) error {
	return withGoose(pool, cfg, fsys, log, func(db *sql.DB) error {
		if err := goose.DownContext(ctx, db, "."); err != nil {
			return errors.Join(ErrFailedToRollback, err)
		}
		return nil
	})
}

// Version returns the current schema version.
func Version(ctx context.Context, pool *pgxpool.Pool, cfg Config, fsys fs.FS, log *slog.Logger) (int64, error) {
	var version int64
	err := withGoose(pool, cfg, fsys, log, func(db *sql.DB) error {
		v, err := goose.GetDBVersionContext(ctx, db)
		version = v
		return err
	})
	return version, err
}

// withGoose bridges the pgx pool to database/sql for goose. goose keeps its
// settings in package globals, so callers must not run migrations concurrently.
func withGoose(pool *pgxpool.Pool, cfg Config, fsys fs.FS, log *slog.Logger, fn func(*sql.DB) error) error {
	if fsys == nil {
		return ErrMigrationsNotProvided
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close migration connection", logger.Error(err))
		}
	}()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{log: log})
	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	return fn(db)
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}
