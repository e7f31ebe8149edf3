// Package sqlstore runs filtered listings against a database/sql handle.
// The sqlite and postgres packages open the handle and pick the dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kailas-cloud/scriptsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store implements db.Store over a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open handle. The Store owns it and closes it on Close.
func New(handle *sql.DB, d Dialect) *Store {
	return &Store{db: handle, dialect: d}
}

// DB exposes the handle for schema setup and fixtures.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the SQL dialect in use.
func (s *Store) Dialect() Dialect { return s.dialect }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close closes the handle.
func (s *Store) Close() {
	_ = s.db.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}

// Find counts and lists the rows matching q.Where.
func (s *Store) Find(ctx context.Context, q *db.Query) (*db.Result, error) {
	stmt, err := Compile(s.dialect, q)
	if err != nil {
		return nil, err
	}

	var total int
	if err := s.db.QueryRowContext(ctx, stmt.Count, stmt.Args...).Scan(&total); err != nil {
		return nil, &db.Error{Op: db.OpCount, Err: err}
	}
	if total == 0 {
		return &db.Result{}, nil
	}

	rows, err := s.db.QueryContext(ctx, stmt.List, stmt.ListArgs...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	cols := q.Table.SelectColumns()
	out := make([]db.Row, 0, q.Limit)
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		row := make(db.Row, len(cols))
		for i, c := range cols {
			if vals[i].Valid {
				row[c] = vals[i].String
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	return &db.Result{Total: total, Rows: out}, nil
}
