package scriptsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/scriptsearch/internal/db"
	"github.com/kailas-cloud/scriptsearch/internal/db/memory"
	"github.com/kailas-cloud/scriptsearch/internal/db/postgres"
	"github.com/kailas-cloud/scriptsearch/internal/db/sqlite"
	dbValkey "github.com/kailas-cloud/scriptsearch/internal/db/valkey"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/request"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/result"
	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
	searchrepo "github.com/kailas-cloud/scriptsearch/internal/repository/search"
	healthuc "github.com/kailas-cloud/scriptsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/scriptsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type searchUseCase interface {
	Search(ctx context.Context, viewName string, req request.Request) (result.Page, error)
	Explain(viewName string, req request.Request) (searchuc.Explanation, error)
}

// Client is the scriptsearch SDK entry point. It is safe for concurrent use.
type Client struct {
	store     db.Store
	views     *view.Registry
	limits    request.Limits
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client, opens the configured store and waits for it.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("scriptsearch: storage required (use WithFixtures, WithSQLite, WithPostgres or WithValkey)")
	}
	views, err := buildRegistry(cfg.views)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("scriptsearch: database not ready: %w", err)
	}

	if vs, ok := store.(*dbValkey.Store); ok {
		for _, v := range views.List() {
			if err := vs.EnsureIndex(ctx, searchrepo.Table(v), v.SearchLookups()); err != nil {
				store.Close()
				return nil, fmt.Errorf("scriptsearch: index for view %s: %w", v.Name(), err)
			}
		}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, views, cfg, obs), nil
}

func buildRegistry(specs []View) (*view.Registry, error) {
	if len(specs) == 0 {
		return nil, errors.New("scriptsearch: at least one view required (use WithView)")
	}
	views := make([]view.View, 0, len(specs))
	for _, s := range specs {
		rels := make([]view.Relation, len(s.Relations))
		for i, r := range s.Relations {
			rels[i] = view.Relation(r)
		}
		v, err := view.New(s.Name, s.Table, s.PrimaryKey, s.Columns, s.SearchFields, rels)
		if err != nil {
			return nil, fmt.Errorf("scriptsearch: %w", err)
		}
		views = append(views, v)
	}
	reg, err := view.NewRegistry(views...)
	if err != nil {
		return nil, fmt.Errorf("scriptsearch: %w", err)
	}
	return reg, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		var (
			s   *memory.Store
			err error
		)
		if cfg.fixtureData != nil {
			s, err = memory.Load(cfg.fixtureData)
		} else {
			s, err = memory.LoadFile(cfg.fixtures)
		}
		if err != nil {
			return nil, fmt.Errorf("scriptsearch: load fixtures: %w", err)
		}
		return s, nil
	case "sqlite":
		s, err := sqlite.NewStore(sqlite.Config{Path: cfg.dsn})
		if err != nil {
			return nil, fmt.Errorf("scriptsearch: create sqlite store: %w", err)
		}
		return s, nil
	case "postgres":
		s, err := postgres.NewStore(postgres.Config{DSN: cfg.dsn})
		if err != nil {
			return nil, fmt.Errorf("scriptsearch: create postgres store: %w", err)
		}
		return s, nil
	case "valkey":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("scriptsearch: create valkey store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("scriptsearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, views *view.Registry, cfg *clientConfig, obs *observer) *Client {
	return &Client{
		store: store,
		views: views,
		limits: request.Limits{
			DefaultPageSize: cfg.defaultPageSize,
			MaxPageSize:     cfg.maxPageSize,
		},
		searchSvc: searchuc.New(views, searchrepo.New(store)),
		healthSvc: healthuc.New(store, views),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Views returns the names of the declared views in order.
func (c *Client) Views() []string {
	vs := c.views.List()
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Name()
	}
	return names
}
