package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/scriptsearch/internal/domain/search/condition"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/request"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/result"
	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
)

// mockRepo records the last List call.
type mockRepo struct {
	listFn func(ctx context.Context, v view.View, where condition.Node, distinct bool, req request.Request) (result.Page, error)

	calls    int
	where    condition.Node
	distinct bool
}

func (m *mockRepo) List(
	ctx context.Context, v view.View, where condition.Node, distinct bool, req request.Request,
) (result.Page, error) {
	m.calls++
	m.where = where
	m.distinct = distinct
	if m.listFn != nil {
		return m.listFn(ctx, v, where, distinct, req)
	}
	return result.Page{Page: req.Page(), PageSize: req.PageSize()}, nil
}

func mustView(t *testing.T, name string, fields []string) view.View {
	t.Helper()
	v, err := view.New(name, name, "id", []string{"id", "name"}, fields, []view.Relation{
		{Name: "city", Table: "cities", LocalColumn: "city_id", RemoteColumn: "id"},
		{Name: "tags", Table: "place_tags", LocalColumn: "id", RemoteColumn: "place_id", Many: true},
	})
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	return v
}

func newTestService(t *testing.T, views ...view.View) (*Service, *mockRepo) {
	t.Helper()
	reg, err := view.NewRegistry(views...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	repo := &mockRepo{}
	return New(reg, repo), repo
}

func mustRequest(t *testing.T, raw string) request.Request {
	t.Helper()
	r, err := request.New(raw, 1, 10, request.Limits{})
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return r
}
