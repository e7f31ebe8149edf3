package health

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockViews struct {
	views []view.View
}

func (m *mockViews) List() []view.View { return m.views }

func oneView(t *testing.T) *mockViews {
	t.Helper()
	v, err := view.New("places", "places", "id", nil, []string{"name"}, nil)
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	return &mockViews{views: []view.View{v}}
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, oneView(t))
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["views"] != CheckOK {
		t.Errorf("expected views %q, got %q", CheckOK, r.Checks["views"])
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")}, oneView(t))
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
}

func TestCheck_NoViews(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockViews{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["views"] != CheckError {
		t.Errorf("expected views %q, got %q", CheckError, r.Checks["views"])
	}
}

func TestCheck_NilViews(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["views"]; ok {
		t.Error("views check should be absent")
	}
}
