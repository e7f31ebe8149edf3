package health

import (
	"context"

	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// ViewLister lists the declared views.
type ViewLister interface {
	List() []view.View
}
