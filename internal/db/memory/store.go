// Package memory implements db.Store over in-process tables loaded from YAML
// fixtures. Conditions are compiled with condition.Compile, so every lookup mode
// is supported. A to-many match yields the base row once regardless of
// Query.Distinct.
package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/scriptsearch/internal/db"
	"github.com/kailas-cloud/scriptsearch/internal/domain"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/condition"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store holds rows per table name.
type Store struct {
	mu     sync.RWMutex
	tables map[string][]db.Row
}

// New creates an empty store.
func New() *Store {
	return &Store{tables: make(map[string][]db.Row)}
}

type fixtureFile struct {
	Tables map[string][]map[string]any `yaml:"tables"`
}

// LoadFile reads fixtures from a YAML file.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return Load(data)
}

// Load parses YAML fixtures of the form
//
//	tables:
//	  places:
//	    - {id: 1, name: Москва}
//
// Scalar values are stored as strings; null values are omitted.
func Load(data []byte) (*Store, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	s := New()
	for name, rows := range f.Tables {
		converted := make([]db.Row, 0, len(rows))
		for i, raw := range rows {
			row := make(db.Row, len(raw))
			for k, v := range raw {
				switch val := v.(type) {
				case nil:
					continue
				case map[string]any, []any:
					return nil, fmt.Errorf("parse fixtures: %s[%d].%s: nested values are not supported", name, i, k)
				default:
					row[k] = fmt.Sprint(val)
				}
			}
			converted = append(converted, row)
		}
		s.Put(name, converted...)
	}
	return s, nil
}

// Put appends rows to table, creating it if needed. Rows are copied.
func (s *Store) Put(table string, rows ...db.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tables[table]
	for _, r := range rows {
		cp := make(db.Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		t = append(t, cp)
	}
	s.tables[table] = t
}

// Tables returns the table names in sorted order.
func (s *Store) Tables() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.tables))
	for name := range s.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}

// Find evaluates q.Where against every base row, ordered by primary key.
func (s *Store) Find(ctx context.Context, q *db.Query) (*db.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.Table.Name == "" || q.Table.PrimaryKey == "" {
		return nil, fmt.Errorf("%w: table name and primary key are required", db.ErrInvalidQuery)
	}
	if q.Offset < 0 || q.Limit < 0 {
		return nil, fmt.Errorf("%w: negative offset or limit", db.ErrInvalidQuery)
	}
	if err := checkRelations(&q.Table, q.Where); err != nil {
		return nil, err
	}
	match, err := condition.Compile(q.Where)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	base, ok := s.tables[q.Table.Name]
	if !ok {
		return nil, &db.Error{Op: db.OpScan, Err: fmt.Errorf("%w: %s", db.ErrTableNotFound, q.Table.Name)}
	}

	var matched []db.Row
	for _, row := range base {
		rec := record{store: s, table: &q.Table, row: row}
		if match(rec) {
			matched = append(matched, row)
		}
	}
	pk := q.Table.PrimaryKey
	sort.SliceStable(matched, func(i, j int) bool {
		return lessKey(matched[i][pk], matched[j][pk])
	})

	total := len(matched)
	start := min(q.Offset, total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}

	cols := q.Table.SelectColumns()
	rows := make([]db.Row, 0, end-start)
	for _, r := range matched[start:end] {
		out := make(db.Row, len(cols))
		for _, c := range cols {
			if v, ok := r[c]; ok {
				out[c] = v
			}
		}
		rows = append(rows, out)
	}
	return &db.Result{Total: total, Rows: rows}, nil
}

func checkRelations(t *db.Table, where condition.Node) error {
	for _, l := range condition.Lookups(where) {
		if l.Depth() > 2 {
			return fmt.Errorf("%w: %s traverses more than one relation", db.ErrInvalidQuery, l)
		}
		if name := l.Relation(); name != "" {
			if _, ok := t.Relation(name); !ok {
				return fmt.Errorf("%w: %q on %s", db.ErrUnknownRelation, name, t.Name)
			}
		}
	}
	return nil
}

// lessKey orders numeric keys numerically and everything else lexically.
func lessKey(a, b string) bool {
	ai, aerr := strconv.ParseInt(a, 10, 64)
	bi, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

// record resolves lookup paths for one base row. Callers hold s.mu.
type record struct {
	store *Store
	table *db.Table
	row   db.Row
}

func (r record) Values(path []string) []string {
	switch len(path) {
	case 1:
		if v, ok := r.row[path[0]]; ok {
			return []string{v}
		}
		return nil
	case 2:
		rel, ok := r.table.Relation(path[0])
		if !ok {
			return nil
		}
		key, ok := r.row[rel.LocalColumn]
		if !ok {
			return nil
		}
		var out []string
		for _, related := range r.store.tables[rel.Table] {
			if related[rel.RemoteColumn] != key {
				continue
			}
			if v, ok := related[path[1]]; ok {
				out = append(out, v)
			}
		}
		return out
	default:
		return nil
	}
}

// Export returns a copy of every row of t, ordered by primary key, with each
// lookup's values attached under key(l) and joined by sep. Relation values are
// resolved the same way Find resolves them.
func (s *Store) Export(t db.Table, lookups []lookup.Lookup, key func(lookup.Lookup) string, sep string) ([]db.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	base, ok := s.tables[t.Name]
	if !ok {
		return nil, &db.Error{Op: db.OpScan, Err: fmt.Errorf("%w: %s", db.ErrTableNotFound, t.Name)}
	}

	out := make([]db.Row, 0, len(base))
	for _, row := range base {
		doc := make(db.Row, len(row)+len(lookups))
		for k, v := range row {
			doc[k] = v
		}
		rec := record{store: s, table: &t, row: row}
		for _, l := range lookups {
			if vals := rec.Values(l.Path()); len(vals) > 0 {
				doc[key(l)] = strings.Join(vals, sep)
			}
		}
		out = append(out, doc)
	}
	pk := t.PrimaryKey
	sort.SliceStable(out, func(i, j int) bool { return lessKey(out[i][pk], out[j][pk]) })
	return out, nil
}
