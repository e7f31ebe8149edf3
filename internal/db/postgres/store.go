// Package postgres opens a PostgreSQL-backed record store through pgx.
package postgres

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/kailas-cloud/scriptsearch/internal/db/sqlstore"
)

// Config holds connection parameters for a PostgreSQL store.
type Config struct {
	DSN          string
	MaxOpenConns int
	// ConnMaxIdleTime closes pooled connections idle longer than this. Zero keeps them.
	ConnMaxIdleTime time.Duration
}

// NewStore parses the DSN and opens a pooled handle. No connection is made
// until the first query; use WaitForReady to block on availability.
func NewStore(cfg Config) (*sqlstore.Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	handle := stdlib.OpenDB(*connCfg)
	if cfg.MaxOpenConns > 0 {
		handle.SetMaxOpenConns(cfg.MaxOpenConns)
		handle.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		handle.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	return sqlstore.New(handle, sqlstore.Postgres{}), nil
}
