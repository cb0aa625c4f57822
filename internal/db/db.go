package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/unet360/unet360/backend/internal/util"
	"github.com/unet360/unet360/backend/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const DefaultMigrationsPath = "migrations"

// Connect opens a pool and waits until the database answers a ping. The
// ping is retried up to retries times with exponential backoff.
func Connect(ctx context.Context, databaseURL string, retries int) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	attempt := 0
	err = util.RetryErrWithBackoff(ctx, retries, time.Second, func(ctx context.Context) error {
		attempt++
		if err := pool.Ping(ctx); err != nil {
			logger.Warn("[DB] Database not reachable", "attempt", attempt, "err", err)
			return err
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return pool, nil
}

// Migrate applies all pending up migrations from migrationsPath.
func Migrate(databaseURL, migrationsPath string) error {
	m, err := migrate.New(sourceURL(migrationsPath), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logger.Info("[DB] Migrations applied", "version", version, "dirty", dirty)
	return nil
}

func sourceURL(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	if path == "" {
		path = DefaultMigrationsPath
	}
	return "file://" + filepath.ToSlash(path)
}
