package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/scriptsearch/internal/db"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/request"
	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	findFn func(ctx context.Context, q *db.Query) (*db.Result, error)
}

func (m *mockStore) Find(ctx context.Context, q *db.Query) (*db.Result, error) {
	if m.findFn != nil {
		return m.findFn(ctx, q)
	}
	return &db.Result{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms)
	return repo, ms
}

func placesView(t *testing.T) view.View {
	t.Helper()
	v, err := view.New("places", "places", "id", []string{"id", "name"},
		[]string{"name", "city.name", "tags.label"},
		[]view.Relation{
			{Name: "tags", Table: "place_tags", LocalColumn: "id", RemoteColumn: "place_id", Many: true},
			{Name: "city", Table: "cities", LocalColumn: "city_id", RemoteColumn: "id"},
		})
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	return v
}

func mustRequest(t *testing.T, raw string, page, pageSize int) request.Request {
	t.Helper()
	r, err := request.New(raw, page, pageSize, request.Limits{})
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return r
}
