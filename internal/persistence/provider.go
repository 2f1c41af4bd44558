// Package persistence opens the configured database for the board repositories.
package persistence

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/common/config"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
	"github.com/MohammadOTaha/side-planner/internal/db"
)

// Provide opens the database selected by cfg.Database.Driver and returns the
// pool with a cleanup func.
func Provide(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*db.Pool, func() error, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", config.DriverSQLite:
		pool, err := db.OpenSQLitePool(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		log.Info("database initialized", zap.String("db_driver", config.DriverSQLite), zap.String("db_path", cfg.Path))
		cleanup := func() error {
			// Refresh planner statistics before closing.
			_, _ = pool.Writer().Exec("PRAGMA optimize")
			return pool.Close()
		}
		return pool, cleanup, nil

	case config.DriverPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.DSN(), cfg.MaxConns, cfg.MinConns)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database initialized",
			zap.String("db_driver", config.DriverPostgres),
			zap.String("db_host", cfg.Host),
			zap.String("db_name", cfg.DBName))
		return pool, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
