package scriptsearch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver      string // memory, sqlite, postgres or valkey
	fixtures    string
	fixtureData []byte
	dsn         string
	addrs       []string
	password    string

	views           []View
	defaultPageSize int
	maxPageSize     int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// Relation declares a join from a view's table to a related table.
type Relation struct {
	Name         string
	Table        string
	LocalColumn  string
	RemoteColumn string
	// Many marks a to-many relation: one base record, several related rows.
	Many bool
}

// View declares a searchable listing over one table.
type View struct {
	Name       string
	Table      string
	PrimaryKey string // default "id"
	Columns    []string
	// SearchFields use the ^ = @ $ prefixes and "relation.field" paths.
	SearchFields []string
	Relations    []Relation
}

// WithFixtures serves views from an in-memory copy of a YAML fixtures file.
func WithFixtures(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.fixtures = path
	})
}

// WithFixtureData is WithFixtures for fixtures already in memory.
func WithFixtureData(data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "memory"
		c.fixtureData = data
	})
}

// WithSQLite serves views from an SQLite database file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.dsn = path
	})
}

// WithPostgres serves views from a PostgreSQL database.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "postgres"
		c.dsn = dsn
	})
}

// WithValkey serves views from Valkey search indexes, creating them if absent.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithView declares a view. May be repeated.
func WithView(v View) Option {
	return optionFunc(func(c *clientConfig) {
		c.views = append(c.views, v)
	})
}

// WithPageLimits sets the default and maximum page sizes.
// Defaults: 20 and 100.
func WithPageLimits(defaultSize, maxSize int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
