package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/scriptsearch/internal/db"
	"github.com/kailas-cloud/scriptsearch/internal/domain"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/condition"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
)

const fixtures = `
tables:
  cities:
    - {id: 1, name: Москва}
    - {id: 2, name: Kazan}
  places:
    - {id: 10, name: Красная площадь, city_id: 1}
    - {id: 2, name: Kremlin, city_id: 1, code: KRM}
    - {id: 3, name: Кул Шариф, city_id: 2, code: null}
  place_tags:
    - {place_id: 10, label: landmark}
    - {place_id: 10, label: Landmark square}
    - {place_id: 2, label: landmark}
`

func placesTable() db.Table {
	return db.Table{
		Name:       "places",
		PrimaryKey: "id",
		Columns:    []string{"name", "code"},
		Relations: []db.Relation{
			{Name: "city", Table: "cities", LocalColumn: "city_id", RemoteColumn: "id"},
			{Name: "tags", Table: "place_tags", LocalColumn: "id", RemoteColumn: "place_id", Many: true},
		},
	}
}

func leaf(field, term string) condition.Leaf {
	return condition.Leaf{Lookup: lookup.Construct(field), Term: term}
}

func mustLoad(t *testing.T) *Store {
	t.Helper()
	s, err := Load([]byte(fixtures))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func ids(res *db.Result) []string {
	out := make([]string, len(res.Rows))
	for i, r := range res.Rows {
		out[i] = r["id"]
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLoad(t *testing.T) {
	s := mustLoad(t)
	if got := s.Tables(); !equal(got, []string{"cities", "place_tags", "places"}) {
		t.Errorf("Tables = %v", got)
	}
}

func TestLoad_RejectsNested(t *testing.T) {
	_, err := Load([]byte("tables:\n  t:\n    - {id: 1, tags: [a, b]}\n"))
	if err == nil {
		t.Fatal("expected error for nested value")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	if err := os.WriteFile(path, []byte(fixtures), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(s.Tables()) != 3 {
		t.Errorf("Tables = %v", s.Tables())
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFind(t *testing.T) {
	s := mustLoad(t)
	tests := []struct {
		name  string
		where condition.Node
		want  []string
	}{
		{"unfiltered orders numerically", nil, []string{"2", "3", "10"}},
		{"cyrillic icontains", leaf("name", "КРАСНАЯ"), []string{"10"}},
		{"related to-one", leaf("city.name", "москва"), []string{"2", "10"}},
		{"to-many yields base row once", leaf("tags.label", "landmark"), []string{"2", "10"}},
		{"regex", leaf("$name", "^k"), []string{"2"}},
		{"either script", condition.Or{Left: leaf("city.name", "Kazan"), Right: leaf("city.name", "Казан")}, []string{"3"}},
		{"no match", leaf("name", "nowhere"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Find(context.Background(), &db.Query{Table: placesTable(), Where: tt.where})
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if got := ids(res); !equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
			if res.Total != len(tt.want) {
				t.Errorf("Total = %d, want %d", res.Total, len(tt.want))
			}
		})
	}
}

func TestFind_Pagination(t *testing.T) {
	s := mustLoad(t)
	res, err := s.Find(context.Background(), &db.Query{Table: placesTable(), Offset: 1, Limit: 1})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res.Total != 3 || !equal(ids(res), []string{"3"}) {
		t.Errorf("res = %+v", res)
	}
	if _, ok := res.Rows[0]["code"]; ok {
		t.Errorf("null column should be absent: %v", res.Rows[0])
	}

	res, err = s.Find(context.Background(), &db.Query{Table: placesTable(), Offset: 10, Limit: 5})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res.Total != 3 || len(res.Rows) != 0 {
		t.Errorf("past the end: %+v", res)
	}
}

func TestFind_Errors(t *testing.T) {
	s := mustLoad(t)
	missing := placesTable()
	missing.Name = "nope"

	tests := []struct {
		name string
		q    *db.Query
		want error
	}{
		{"invalid", &db.Query{}, db.ErrInvalidQuery},
		{"unknown relation", &db.Query{Table: placesTable(), Where: leaf("owner.name", "x")}, db.ErrUnknownRelation},
		{"missing table", &db.Query{Table: missing}, db.ErrTableNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Find(context.Background(), tt.q)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFind_CanceledContext(t *testing.T) {
	s := mustLoad(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Find(ctx, &db.Query{Table: placesTable()}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestPut_CopiesRows(t *testing.T) {
	s := New()
	row := db.Row{"id": "1", "name": "Тверь"}
	s.Put("places", row)
	row["name"] = "changed"

	res, err := s.Find(context.Background(), &db.Query{Table: db.Table{Name: "places", PrimaryKey: "id", Columns: []string{"name"}}})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res.Rows[0]["name"] != "Тверь" {
		t.Errorf("name = %q, want Тверь", res.Rows[0]["name"])
	}
}

func TestExport_FlattensRelations(t *testing.T) {
	s := mustLoad(t)
	lookups := []lookup.Lookup{lookup.Construct("city.name"), lookup.Construct("tags.label")}
	key := func(l lookup.Lookup) string { return l.Relation() + "_" + l.Field() }

	docs, err := s.Export(placesTable(), lookups, key, "|")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("docs = %d, want 3", len(docs))
	}
	// ordered by id: 2, 3, 10
	if docs[0]["city_name"] != "Москва" || docs[0]["tags_label"] != "landmark" {
		t.Errorf("docs[0] = %v", docs[0])
	}
	if _, ok := docs[1]["tags_label"]; ok {
		t.Errorf("untagged place should have no tags_label: %v", docs[1])
	}
	if docs[2]["tags_label"] != "landmark|Landmark square" {
		t.Errorf("docs[2] = %v", docs[2])
	}

	missing := placesTable()
	missing.Name = "nope"
	if _, err := s.Export(missing, lookups, key, "|"); !errors.Is(err, db.ErrTableNotFound) {
		t.Errorf("error = %v, want ErrTableNotFound", err)
	}
}

func TestFind_InvalidPattern(t *testing.T) {
	s := mustLoad(t)
	_, err := s.Find(context.Background(), &db.Query{Table: placesTable(), Where: leaf("$name", "(")})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
	if !errors.Is(err, lookup.ErrInvalidPattern) {
		t.Errorf("error = %v, want ErrInvalidPattern", err)
	}
}
