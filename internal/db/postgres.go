package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/MohammadOTaha/side-planner/internal/db/dialect"
)

const (
	defaultMaxConns = 25
	defaultMinConns = 5
)

// postgresPoolConfig parses dsn and applies the pool bounds. Zero values
// fall back to the defaults; minConns never exceeds maxConns.
func postgresPoolConfig(dsn string, maxConns, minConns int) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	if minConns <= 0 {
		minConns = defaultMinConns
	}
	if minConns > maxConns {
		minConns = maxConns
	}
	cfg.MaxConns = int32(maxConns)
	cfg.MinConns = int32(minConns)
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.ConnConfig.ConnectTimeout = 10 * time.Second
	return cfg, nil
}

// OpenPostgres opens a pgxpool and exposes it to sqlx through the pgx stdlib
// adapter. The pool keeps at least minConns connections open.
func OpenPostgres(ctx context.Context, dsn string, maxConns, minConns int) (*Pool, error) {
	cfg, err := postgresPoolConfig(dsn, maxConns, minConns)
	if err != nil {
		return nil, err
	}

	pgPool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	x := sqlx.NewDb(stdlib.OpenDBFromPool(pgPool), dialect.PGX)
	pool := NewPool(x, x)
	pool.onClose = pgPool.Close
	return pool, nil
}
