// Package view describes a searchable record set: the backing table, the
// relations a search field may traverse, and the declared search fields.
package view

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
)

// ErrInvalidView signals a malformed view declaration.
var ErrInvalidView = errors.New("invalid view")

// Relation joins the view's table to a related table.
// Many marks a one-to-many relation, which can duplicate base rows.
type Relation struct {
	Name         string
	Table        string
	LocalColumn  string
	RemoteColumn string
	Many         bool
}

// View is an immutable searchable record set.
type View struct {
	name       string
	table      string
	primaryKey string
	columns    []string
	relations  map[string]Relation
	lookups    []lookup.Lookup
	fields     []string
}

// New validates the declaration and builds a View.
func New(
	name, table, primaryKey string,
	columns []string, searchFields []string, relations []Relation,
) (View, error) {
	if name == "" {
		return View{}, fmt.Errorf("%w: name is required", ErrInvalidView)
	}
	if table == "" {
		return View{}, fmt.Errorf("%w: %s: table is required", ErrInvalidView, name)
	}
	if primaryKey == "" {
		primaryKey = "id"
	}

	rels := make(map[string]Relation, len(relations))
	for _, r := range relations {
		if r.Name == "" || r.Table == "" || r.LocalColumn == "" || r.RemoteColumn == "" {
			return View{}, fmt.Errorf("%w: %s: relation %q is incomplete", ErrInvalidView, name, r.Name)
		}
		if _, dup := rels[r.Name]; dup {
			return View{}, fmt.Errorf("%w: %s: duplicate relation %q", ErrInvalidView, name, r.Name)
		}
		rels[r.Name] = r
	}

	lookups := make([]lookup.Lookup, 0, len(searchFields))
	for _, f := range searchFields {
		l, err := lookup.Parse(f)
		if err != nil {
			return View{}, fmt.Errorf("%w: %s: %w", ErrInvalidView, name, err)
		}
		switch l.Depth() {
		case 1:
		case 2:
			if _, ok := rels[l.Relation()]; !ok {
				return View{}, fmt.Errorf("%w: %s: search field %q uses unknown relation %q",
					ErrInvalidView, name, f, l.Relation())
			}
		default:
			return View{}, fmt.Errorf("%w: %s: search field %q traverses more than one relation",
				ErrInvalidView, name, f)
		}
		lookups = append(lookups, l)
	}

	cols := columns
	if len(cols) == 0 {
		cols = []string{primaryKey}
	}

	return View{
		name:       name,
		table:      table,
		primaryKey: primaryKey,
		columns:    append([]string(nil), cols...),
		relations:  rels,
		lookups:    lookups,
		fields:     append([]string(nil), searchFields...),
	}, nil
}

// Name returns the view name used in URLs.
func (v View) Name() string { return v.name }

// Table returns the backing table (or key namespace).
func (v View) Table() string { return v.table }

// PrimaryKey returns the identifying column.
func (v View) PrimaryKey() string { return v.primaryKey }

// Columns returns the columns returned for each record.
func (v View) Columns() []string { return append([]string(nil), v.columns...) }

// SearchFields returns the declared search fields as written.
func (v View) SearchFields() []string { return append([]string(nil), v.fields...) }

// SearchLookups returns the parsed search fields in declaration order.
func (v View) SearchLookups() []lookup.Lookup {
	return append([]lookup.Lookup(nil), v.lookups...)
}

// Relation returns the named relation.
func (v View) Relation(name string) (Relation, bool) {
	r, ok := v.relations[name]
	return r, ok
}

// Relations returns all relations sorted by name.
func (v View) Relations() []Relation {
	out := make([]Relation, 0, len(v.relations))
	for _, r := range v.relations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MustDistinct reports whether filtering on lookups can yield duplicate
// base rows, i.e. whether any of them traverses a to-many relation.
func (v View) MustDistinct(lookups []lookup.Lookup) bool {
	for _, l := range lookups {
		if r, ok := v.relations[l.Relation()]; ok && r.Many {
			return true
		}
	}
	return false
}
