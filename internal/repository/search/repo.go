package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/scriptsearch/internal/db"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/condition"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/request"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/result"
	"github.com/kailas-cloud/scriptsearch/internal/domain/view"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Find(ctx context.Context, q *db.Query) (*db.Result, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// List returns one page of v's records restricted by where.
// distinct removes duplicates introduced by to-many relations.
func (r *Repo) List(
	ctx context.Context, v view.View,
	where condition.Node, distinct bool, req request.Request,
) (result.Page, error) {
	q := &db.Query{
		Table:    Table(v),
		Where:    where,
		Distinct: distinct,
		Offset:   req.Offset(),
		Limit:    req.PageSize(),
	}

	res, err := r.store.Find(ctx, q)
	if err != nil {
		return result.Page{}, fmt.Errorf("list %s: %w", v.Name(), err)
	}

	return toPage(res, v.PrimaryKey(), req), nil
}

// Table maps a view onto the storage description the backends consume.
func Table(v view.View) db.Table {
	rels := v.Relations()
	out := db.Table{
		Name:       v.Table(),
		PrimaryKey: v.PrimaryKey(),
		Columns:    v.Columns(),
		Relations:  make([]db.Relation, len(rels)),
	}
	for i, rel := range rels {
		out.Relations[i] = db.Relation{
			Name:         rel.Name,
			Table:        rel.Table,
			LocalColumn:  rel.LocalColumn,
			RemoteColumn: rel.RemoteColumn,
			Many:         rel.Many,
		}
	}
	return out
}

func toPage(res *db.Result, pk string, req request.Request) result.Page {
	page := result.Page{
		Results:  make([]result.Result, 0),
		Page:     req.Page(),
		PageSize: req.PageSize(),
	}
	if res == nil {
		return page
	}

	page.Total = res.Total
	page.Results = make([]result.Result, 0, len(res.Rows))
	for _, row := range res.Rows {
		fields := make(map[string]string, len(row))
		for k, v := range row {
			fields[k] = v
		}
		page.Results = append(page.Results, result.New(row[pk], fields))
	}
	return page
}
