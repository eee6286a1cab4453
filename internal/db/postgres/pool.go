// Package postgres wraps the pgx connection pool used to query the corpus
// tables. The pool is safe for concurrent use; connections are acquired per
// query, never held across an embedding-provider call.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds Postgres pool settings.
type Config struct {
	URL      string
	MaxConns int32
}

// Pool is a bounded Postgres connection pool.
type Pool struct {
	pool *pgxpool.Pool
}

// New creates a connection pool without touching the network.
// Call WaitForReady to verify connectivity.
func New(ctx context.Context, cfg Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// WaitForReady pings the database until it answers or the timeout expires.
func (p *Pool) WaitForReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	var lastErr error
	for time.Now().Before(deadline) {
		pingCtx, cancel := context.WithTimeout(ctx, time.Second)
		lastErr = p.pool.Ping(pingCtx)
		cancel()

		if lastErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for database: %w", ctx.Err())
		case <-time.After(500 * time.Millisecond):
		}
	}

	return fmt.Errorf("database not ready after %s: %w", timeout, lastErr)
}

// Ping checks database connectivity.
func (p *Pool) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Query executes a query, acquiring a connection from the pool for its duration.
func (p *Pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

// Close releases all pooled connections.
func (p *Pool) Close() {
	p.pool.Close()
}
