// Package sqlite opens an SQLite-backed record store.
package sqlite

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	msqlite "modernc.org/sqlite"

	"github.com/kailas-cloud/scriptsearch/internal/db/sqlstore"
)

// Config holds connection parameters for an SQLite store.
type Config struct {
	// Path is a database file, or ":memory:".
	Path string
}

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFunctions installs unicode_lower: SQLite's lower() folds ASCII only.
func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = msqlite.RegisterDeterministicScalarFunction(
			sqlstore.UnicodeLower, 1,
			func(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				switch v := args[0].(type) {
				case nil:
					return nil, nil
				case string:
					return strings.ToLower(v), nil
				case []byte:
					return strings.ToLower(string(v)), nil
				default:
					return strings.ToLower(fmt.Sprint(v)), nil
				}
			},
		)
	})
	return registerErr
}

// NewStore opens the database and returns a store using the SQLite dialect.
func NewStore(cfg Config) (*sqlstore.Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if err := registerFunctions(); err != nil {
		return nil, fmt.Errorf("register functions: %w", err)
	}

	dsn := cfg.Path
	memory := cfg.Path == ":memory:"
	if !memory {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		// every connection to :memory: is a separate database
		handle.SetMaxOpenConns(1)
	}

	return sqlstore.New(handle, sqlstore.SQLite{}), nil
}
