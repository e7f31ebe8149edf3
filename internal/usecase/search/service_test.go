package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/scriptsearch/internal/db/memory"
	"github.com/kailas-cloud/scriptsearch/internal/domain"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/condition"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/request"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/result"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/translit"
	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
	searchrepo "github.com/kailas-cloud/scriptsearch/internal/repository/search"
)

func TestSearch_ViewNotFound(t *testing.T) {
	svc, repo := newTestService(t, mustView(t, "places", []string{"name"}))
	_, err := svc.Search(context.Background(), "nope", mustRequest(t, "x"))
	if !errors.Is(err, domain.ErrViewNotFound) {
		t.Errorf("error = %v, want ErrViewNotFound", err)
	}
	if repo.calls != 0 {
		t.Error("repository must not be called")
	}
}

func TestSearch_PassThrough(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		raw    string
	}{
		{"no terms", []string{"name"}, ""},
		{"blank terms", []string{"name"}, " , "},
		{"no search fields", nil, "Moskva"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t, mustView(t, "places", tt.fields))
			if _, err := svc.Search(context.Background(), "places", mustRequest(t, tt.raw)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.calls != 1 {
				t.Fatalf("calls = %d, want 1", repo.calls)
			}
			if repo.where != nil {
				t.Errorf("where = %s, want nil", condition.String(repo.where))
			}
			if repo.distinct {
				t.Error("pass-through must not request distinct")
			}
		})
	}
}

func TestSearch_Filtered(t *testing.T) {
	svc, repo := newTestService(t, mustView(t, "places", []string{"name", "city.name"}))
	page, err := svc.Search(context.Background(), "places", mustRequest(t, "Moskva"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", page.PageSize)
	}
	if got := len(condition.Leaves(repo.where)); got != 4 {
		t.Errorf("leaves = %d, want 4", got)
	}
	if repo.distinct {
		t.Error("to-one relations must not request distinct")
	}
}

func TestSearch_DistinctForToMany(t *testing.T) {
	svc, repo := newTestService(t, mustView(t, "places", []string{"name", "tags.label"}))
	if _, err := svc.Search(context.Background(), "places", mustRequest(t, "landmark")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.distinct {
		t.Error("to-many lookup should request distinct")
	}
}

func TestSearch_StorageErrorPropagates(t *testing.T) {
	svc, repo := newTestService(t, mustView(t, "places", []string{"$name"}))
	repo.listFn = func(context.Context, view.View, condition.Node, bool, request.Request) (result.Page, error) {
		return result.Page{}, domain.NewLookupError("iregex", "sqlite")
	}
	_, err := svc.Search(context.Background(), "places", mustRequest(t, "^M"))
	if !errors.Is(err, domain.ErrUnsupportedLookup) {
		t.Errorf("error = %v, want ErrUnsupportedLookup", err)
	}
}

const fixtures = `
tables:
  cities:
    - {id: 1, name: Москва}
    - {id: 2, name: Moskva-on-Hudson}
    - {id: 3, name: Kazan}
  places:
    - {id: 1, name: Red Square, city_id: 1}
    - {id: 2, name: Diner, city_id: 2}
    - {id: 3, name: Кремль, city_id: 3}
    - {id: 4, name: Кремль, city_id: 1}
`

func TestSearch_EndToEnd(t *testing.T) {
	store, err := memory.Load([]byte(fixtures))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	v := mustView(t, "places", []string{"name", "city.name"})
	reg, err := view.NewRegistry(v)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	svc := New(reg, searchrepo.New(store))

	tests := []struct {
		raw  string
		want []string
	}{
		// Latin input finds the Cyrillic city and the Latin one
		{"moskva", []string{"1", "2", "4"}},
		// Cyrillic input finds both as well
		{"МОСКВА", []string{"1", "2", "4"}},
		// terms are AND-ed
		{"moskva kreml", []string{"4"}},
		{"Kreml", []string{"3", "4"}},
		{"", []string{"1", "2", "3", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			page, err := svc.Search(context.Background(), "places", mustRequest(t, tt.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.Total != len(tt.want) {
				t.Errorf("Total = %d, want %d", page.Total, len(tt.want))
			}
			got := make([]string, len(page.Results))
			for i := range page.Results {
				got[i] = page.Results[i].ID()
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestExplain(t *testing.T) {
	svc, repo := newTestService(t, mustView(t, "places", []string{"name", "tags.label"}))
	e, err := svc.Explain("places", mustRequest(t, "Moskva Кремль"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 0 {
		t.Error("explain must not touch storage")
	}
	if e.View != "places" || e.PassThrough || !e.Distinct {
		t.Errorf("explanation = %+v", e)
	}
	if e.Leaves != 8 {
		t.Errorf("Leaves = %d, want 8", e.Leaves)
	}
	// ь has no single-letter Latin counterpart and passes through
	if e.Latin[1] != "Kremlь" || e.Cyrillic[0] != "Москва" {
		t.Errorf("Latin = %q, Cyrillic = %q", e.Latin, e.Cyrillic)
	}
	if e.Scripts[0] != translit.DetectedLatin || e.Scripts[1] != translit.DetectedCyrillic {
		t.Errorf("Scripts = %v", e.Scripts)
	}
	if len(e.Fields) != 2 || e.Fields[1] != "tags__label__icontains" {
		t.Errorf("Fields = %v", e.Fields)
	}
}

func TestExplain_PassThrough(t *testing.T) {
	e := Explain(nil, []string{"x"})
	if !e.PassThrough || e.Leaves != 0 || e.Where != "<nil>" {
		t.Errorf("explanation = %+v", e)
	}
	if len(e.Latin) != 1 || e.Latin[0] != "x" {
		t.Errorf("Latin = %q", e.Latin)
	}
}

func TestExplain_ViewNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Explain("nope", mustRequest(t, "x")); !errors.Is(err, domain.ErrViewNotFound) {
		t.Errorf("error = %v, want ErrViewNotFound", err)
	}
}
