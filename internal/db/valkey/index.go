package valkey

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/kailas-cloud/scriptsearch/internal/db"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
)

// ValueSeparator joins the values of a to-many relation inside one hash field.
const ValueSeparator = "|"

// FieldKey names the hash field holding a lookup's values: relations are
// flattened, so "city.name" is stored as "city_name".
func FieldKey(l lookup.Lookup) string {
	return strings.Join(l.Path(), "_")
}

func tagKey(l lookup.Lookup) string {
	return FieldKey(l) + "__tag"
}

// IndexDefinition returns the FT index covering t's search lookups: the
// primary key as a sortable TAG, each search field as an infix TEXT field plus
// a TAG alias for exact lookups.
func (s *Store) IndexDefinition(t db.Table, lookups []lookup.Lookup) (*db.IndexDefinition, error) {
	b := db.NewIndex(s.IndexName(t.Name)).
		Prefix(s.DocumentPrefix(t.Name)).
		SortableTag(t.PrimaryKey)

	seen := map[string]bool{t.PrimaryKey: true}
	for _, l := range lookups {
		key := FieldKey(l)
		if seen[key] {
			continue
		}
		seen[key] = true
		b.TextInfix(key).TagAs(key, tagKey(l), ValueSeparator)
	}
	return b.Build()
}

// EnsureIndex creates the FT index for t unless it already exists.
func (s *Store) EnsureIndex(ctx context.Context, t db.Table, lookups []lookup.Lookup) error {
	def, err := s.IndexDefinition(t, lookups)
	if err != nil {
		return err
	}
	exists, err := s.IndexExists(ctx, def.Name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := s.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return err
	}
	return nil
}

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isMissingIndex(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

func isMissingIndex(err error) bool {
	return isRedisErr(err, "unknown index name") || isRedisErr(err, "no such index")
}

func buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if idx.Name == "" {
		return nil, errors.New("index name is required")
	}
	if len(idx.Fields) == 0 {
		return nil, errors.New("at least one field is required")
	}

	args := []string{idx.Name}

	storage := idx.StorageType
	if storage == "" {
		storage = db.StorageHash
	}
	args = append(args, "ON", string(storage))

	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}

	args = append(args, "SCHEMA")

	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}

	return args, nil
}

func buildFieldArgs(f *db.IndexField) ([]string, error) {
	if f.Name == "" {
		return nil, errors.New("field name is required")
	}

	args := []string{f.Name}

	if f.Alias != "" {
		args = append(args, "AS", f.Alias)
	}

	switch f.Type {
	case db.IndexFieldText:
		args = append(args, "TEXT")
		if f.TextNoStem {
			args = append(args, "NOSTEM")
		}
		if f.TextSuffixTrie {
			args = append(args, "WITHSUFFIXTRIE")
		}

	case db.IndexFieldTag:
		args = append(args, "TAG")
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}

	default:
		return nil, errors.New("unknown field type")
	}

	if f.Sortable {
		args = append(args, "SORTABLE")
	}

	return args, nil
}
