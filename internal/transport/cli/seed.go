package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/scriptsearch/internal/config"
	"github.com/kailas-cloud/scriptsearch/internal/db"
	"github.com/kailas-cloud/scriptsearch/internal/db/memory"
	"github.com/kailas-cloud/scriptsearch/internal/db/valkey"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
	searchrepo "github.com/kailas-cloud/scriptsearch/internal/repository/search"
)

// indexWriter creates search indexes and stores documents.
type indexWriter interface {
	EnsureIndex(ctx context.Context, t db.Table, lookups []lookup.Lookup) error
	Put(ctx context.Context, t db.Table, docs []db.Row) error
}

type seedOptions struct {
	configPath string
	fixtures   string
	addrs      []string
	timeout    time.Duration
}

func newSeedCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load fixture tables into Valkey",
		Long: `Reads the views from --config and the fixture tables from --fixtures (or
database.fixtures), then writes one hash per base record to Valkey with
relation values flattened into it, creating each view's search index first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "server config file declaring views and the Valkey connection")
	cmd.Flags().StringVar(&opts.fixtures, "fixtures", "", "fixture YAML file (default: database.fixtures)")
	cmd.Flags().StringSliceVar(&opts.addrs, "addr", nil, "Valkey addresses (default: database.addrs)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall deadline")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return err
	}
	views, err := cfg.Registry()
	if err != nil {
		return err
	}

	fixtures := opts.fixtures
	if fixtures == "" {
		fixtures = cfg.Database.Fixtures
	}
	if fixtures == "" {
		return errors.New("no fixtures file: pass --fixtures or set database.fixtures")
	}
	src, err := memory.LoadFile(fixtures)
	if err != nil {
		return err
	}

	addrs := opts.addrs
	if len(addrs) == 0 {
		addrs = cfg.Database.Addrs
	}
	dst, err := valkey.NewStore(valkey.Config{
		Addrs:     addrs,
		Username:  cfg.Database.Username,
		Password:  cfg.Database.Password,
		DB:        cfg.Database.DB,
		KeyPrefix: cfg.Database.KeyPrefix,
	})
	if err != nil {
		return fmt.Errorf("connect valkey: %w", err)
	}
	defer dst.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()
	if err := dst.WaitForReady(ctx, opts.timeout); err != nil {
		return fmt.Errorf("valkey not ready: %w", err)
	}

	counts, err := seedViews(ctx, src, dst, views.List())
	if err != nil {
		return err
	}
	for _, v := range views.List() {
		cmd.Printf("%s: %d documents\n", v.Name(), counts[v.Name()])
	}
	return nil
}

// seedViews copies every view's base table from src into dst and returns the
// document count per view.
func seedViews(ctx context.Context, src *memory.Store, dst indexWriter, views []view.View) (map[string]int, error) {
	counts := make(map[string]int, len(views))
	for _, v := range views {
		t := searchrepo.Table(v)
		lookups := v.SearchLookups()

		if err := dst.EnsureIndex(ctx, t, lookups); err != nil {
			return counts, fmt.Errorf("view %s: %w", v.Name(), err)
		}
		docs, err := src.Export(t, lookups, valkey.FieldKey, valkey.ValueSeparator)
		if err != nil {
			return counts, fmt.Errorf("view %s: %w", v.Name(), err)
		}
		if err := dst.Put(ctx, t, docs); err != nil {
			return counts, fmt.Errorf("view %s: %w", v.Name(), err)
		}
		counts[v.Name()] = len(docs)
	}
	return counts, nil
}
