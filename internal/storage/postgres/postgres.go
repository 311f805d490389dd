// Package postgres persists game saves in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/delve/internal/config"
)

// NewPool creates a PostgreSQL connection pool from cfg and verifies it with
// a ping.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a connected pool or a non-nil error. The caller owns
// the pool and must Close it.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

// Open connects to the database and returns a SaveRepository that owns the
// pool; closing the repository closes the pool.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*SaveRepository, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	repo := NewSaveRepository(pool)
	repo.owned = true
	return repo, nil
}
