package search

import (
	"context"

	"github.com/kailas-cloud/scriptsearch/internal/domain/search/condition"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/request"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/result"
	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	List(
		ctx context.Context, v view.View,
		where condition.Node, distinct bool, req request.Request,
	) (result.Page, error)
}

// ViewReader resolves views by name.
type ViewReader interface {
	Get(name string) (view.View, bool)
}
