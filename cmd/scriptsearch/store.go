package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/scriptsearch/internal/config"
	"github.com/kailas-cloud/scriptsearch/internal/db"
	"github.com/kailas-cloud/scriptsearch/internal/db/memory"
	"github.com/kailas-cloud/scriptsearch/internal/db/postgres"
	"github.com/kailas-cloud/scriptsearch/internal/db/sqlite"
	"github.com/kailas-cloud/scriptsearch/internal/db/valkey"
	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
	searchrepo "github.com/kailas-cloud/scriptsearch/internal/repository/search"
)

// openStore creates the store named by cfg.Database.Driver. Valkey search
// indexes are created for every view before the store is returned.
func openStore(ctx context.Context, cfg *config.Config, views *view.Registry, logger *zap.Logger) (db.Store, error) {
	dbCfg := cfg.Database
	switch dbCfg.Driver {
	case config.DriverMemory:
		s, err := memory.LoadFile(dbCfg.Fixtures)
		if err != nil {
			return nil, fmt.Errorf("memory: %w", err)
		}
		logger.Info("Loaded fixtures", zap.String("path", dbCfg.Fixtures), zap.Strings("tables", s.Tables()))
		return s, nil
	case config.DriverSQLite:
		s, err := sqlite.NewStore(sqlite.Config{Path: dbCfg.DSN})
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.NewStore(postgres.Config{
			DSN:             dbCfg.DSN,
			MaxOpenConns:    dbCfg.MaxOpenConns,
			ConnMaxIdleTime: 5 * time.Minute,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return s, nil
	case config.DriverValkey:
		s, err := valkey.NewStore(valkey.Config{
			Addrs:     dbCfg.Addrs,
			Username:  dbCfg.Username,
			Password:  dbCfg.Password,
			DB:        dbCfg.DB,
			KeyPrefix: dbCfg.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("valkey: %w", err)
		}
		if err := s.WaitForReady(ctx, time.Duration(dbCfg.ReadinessTimeout)*time.Second); err != nil {
			s.Close()
			return nil, fmt.Errorf("valkey: %w", err)
		}
		for _, v := range views.List() {
			if err := s.EnsureIndex(ctx, searchrepo.Table(v), v.SearchLookups()); err != nil {
				s.Close()
				return nil, fmt.Errorf("valkey: index for view %s: %w", v.Name(), err)
			}
			logger.Info("Search index ready", zap.String("view", v.Name()), zap.String("index", s.IndexName(v.Table())))
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", dbCfg.Driver)
	}
}
