package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
)

var (
	cityRel = Relation{Name: "city", Table: "cities", LocalColumn: "city_id", RemoteColumn: "id"}
	tagsRel = Relation{Name: "tags", Table: "place_tags", LocalColumn: "id", RemoteColumn: "place_id", Many: true}
)

func newPlaces(t *testing.T, fields ...string) View {
	t.Helper()
	v, err := New("places", "places", "id", []string{"id", "name"}, fields, []Relation{cityRel, tagsRel})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return v
}

func TestNew_Valid(t *testing.T) {
	v := newPlaces(t, "name", "=code", "city.name", "tags.label")
	if v.Name() != "places" || v.Table() != "places" || v.PrimaryKey() != "id" {
		t.Errorf("view = %+v", v)
	}
	ls := v.SearchLookups()
	if len(ls) != 4 {
		t.Fatalf("lookups = %d, want 4", len(ls))
	}
	if ls[1].Mode() != lookup.IExact {
		t.Errorf("lookups[1].Mode() = %q", ls[1].Mode())
	}
	if got := v.SearchFields(); got[2] != "city.name" {
		t.Errorf("SearchFields()[2] = %q", got[2])
	}
	if rels := v.Relations(); len(rels) != 2 || rels[0].Name != "city" {
		t.Errorf("Relations() = %+v", rels)
	}
}

func TestNew_DefaultsPrimaryKeyAndColumns(t *testing.T) {
	v, err := New("people", "people", "", nil, []string{"name"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.PrimaryKey() != "id" {
		t.Errorf("PrimaryKey() = %q, want id", v.PrimaryKey())
	}
	if cols := v.Columns(); len(cols) != 1 || cols[0] != "id" {
		t.Errorf("Columns() = %v", cols)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		build   func() (View, error)
		wantMsg string
	}{
		{"no name", func() (View, error) { return New("", "t", "id", nil, nil, nil) }, "name is required"},
		{"no table", func() (View, error) { return New("v", "", "id", nil, nil, nil) }, "table is required"},
		{"bad field", func() (View, error) { return New("v", "t", "id", nil, []string{""}, nil) }, "empty field"},
		{"unknown relation", func() (View, error) {
			return New("v", "t", "id", nil, []string{"owner.name"}, nil)
		}, "unknown relation"},
		{"too deep", func() (View, error) {
			return New("v", "t", "id", nil, []string{"city.region.name"}, []Relation{cityRel})
		}, "more than one relation"},
		{"incomplete relation", func() (View, error) {
			return New("v", "t", "id", nil, nil, []Relation{{Name: "x"}})
		}, "incomplete"},
		{"duplicate relation", func() (View, error) {
			return New("v", "t", "id", nil, nil, []Relation{cityRel, cityRel})
		}, "duplicate relation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidView) {
				t.Errorf("error = %v, want ErrInvalidView", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err, tt.wantMsg)
			}
		})
	}
}

func TestMustDistinct(t *testing.T) {
	v := newPlaces(t, "name", "city.name", "tags.label")
	ls := v.SearchLookups()

	if v.MustDistinct(ls[:2]) {
		t.Error("local and to-one lookups must not require distinct")
	}
	if !v.MustDistinct(ls) {
		t.Error("to-many lookup must require distinct")
	}
	if v.MustDistinct(nil) {
		t.Error("no lookups must not require distinct")
	}
}

func TestRegistry(t *testing.T) {
	a := newPlaces(t, "name")
	b, _ := New("cities", "cities", "id", nil, []string{"name"}, nil)

	reg, err := NewRegistry(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := reg.Get("places"); !ok {
		t.Error("places not found")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("missing view found")
	}
	list := reg.List()
	if len(list) != 2 || list[0].Name() != "cities" {
		t.Errorf("List() = %v", list)
	}

	if _, err := NewRegistry(a, a); !errors.Is(err, ErrInvalidView) {
		t.Errorf("duplicate error = %v", err)
	}
}
