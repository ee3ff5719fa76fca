package service

import (
	"context"
	"fmt"

	"github.com/claude/ironlog"
	"github.com/claude/ironlog/internal/config"
	"github.com/claude/ironlog/internal/storage"
	"github.com/claude/ironlog/internal/storage/sqlite"
)

// Migrate applies the schema migrations for the configured driver.
func Migrate(cfg config.DatabaseConfig) error {
	switch cfg.Driver {
	case config.DriverPostgres:
		return storage.RunMigrations(cfg.DSN(), ironlog.MigrationsFS, "migrations/postgres")
	case config.DriverSQLite:
		return sqlite.RunMigrations(cfg.Path, ironlog.MigrationsFS, "migrations/sqlite")
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// Open migrates and connects the configured store. The returned func
// releases it.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Service, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if err := Migrate(cfg); err != nil {
			return nil, nil, err
		}
		db, err := storage.New(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		return New(db), db.Close, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Path, ironlog.MigrationsFS, "migrations/sqlite")
		if err != nil {
			return nil, nil, err
		}
		return New(store), func() { store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
