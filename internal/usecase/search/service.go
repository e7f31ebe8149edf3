package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/scriptsearch/internal/domain"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/condition"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/lookup"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/request"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/result"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/translit"
	"github.com/kailas-cloud/scriptsearch/internal/logger"
	"github.com/kailas-cloud/scriptsearch/internal/metrics"
)

// Service filters view listings by script-agnostic search terms.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	views ViewReader
	repo  Repository
}

// New creates a search service.
func New(views ViewReader, repo Repository) *Service {
	return &Service{views: views, repo: repo}
}

// Search lists one page of the named view, restricted by req's terms matched
// against the view's search fields in both scripts. With no terms or no search
// fields the view is listed unfiltered.
func (s *Service) Search(ctx context.Context, viewName string, req request.Request) (result.Page, error) {
	v, ok := s.views.Get(viewName)
	if !ok {
		return result.Page{}, fmt.Errorf("%w: %s", domain.ErrViewNotFound, viewName)
	}

	lookups := v.SearchLookups()
	where, filtered := Filter(lookups, req.Terms())

	outcome := metrics.OutcomePassThrough
	distinct := false
	if filtered {
		outcome = metrics.OutcomeFiltered
		distinct = v.MustDistinct(lookups)
		leaves := len(condition.Leaves(where))
		metrics.SearchConditionLeaves.WithLabelValues(viewName).Observe(float64(leaves))
		logger.FromContext(ctx).Debug("search condition built",
			zap.String("view", viewName),
			zap.Int("terms", len(req.Terms())),
			zap.Int("leaves", leaves),
			zap.Bool("distinct", distinct),
		)
	}

	start := time.Now()
	page, err := s.repo.List(ctx, v, where, distinct, req)
	metrics.SearchStorageDuration.WithLabelValues(viewName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(viewName, metrics.OutcomeError).Inc()
		return result.Page{}, fmt.Errorf("search %s: %w", viewName, err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(viewName, outcome).Inc()
	return page, nil
}

// Explanation describes the condition a search would run, without running it.
type Explanation struct {
	View        string              `json:"view,omitempty"`
	Terms       []string            `json:"terms"`
	Scripts     []translit.Detected `json:"scripts"`
	Latin       []string            `json:"latin"`
	Cyrillic    []string            `json:"cyrillic"`
	Fields      []string            `json:"fields"`
	Where       string              `json:"where"`
	Leaves      int                 `json:"leaves"`
	Distinct    bool                `json:"distinct"`
	PassThrough bool                `json:"pass_through"`
}

// Explain resolves the view and describes the search for req.
func (s *Service) Explain(viewName string, req request.Request) (Explanation, error) {
	v, ok := s.views.Get(viewName)
	if !ok {
		return Explanation{}, fmt.Errorf("%w: %s", domain.ErrViewNotFound, viewName)
	}

	lookups := v.SearchLookups()
	e := Explain(lookups, req.Terms())
	e.View = viewName
	if !e.PassThrough {
		e.Distinct = v.MustDistinct(lookups)
	}
	return e, nil
}

// Explain describes the condition built for terms over lookups.
func Explain(lookups []lookup.Lookup, terms []string) Explanation {
	e := Explanation{
		Terms:    append([]string{}, terms...),
		Scripts:  make([]translit.Detected, len(terms)),
		Latin:    translit.Expand(translit.NewProcessor(translit.Latin), terms),
		Cyrillic: translit.Expand(translit.NewProcessor(translit.Cyrillic), terms),
		Fields:   make([]string, len(lookups)),
	}
	for i, t := range terms {
		e.Scripts[i] = translit.DetectScript(t)
	}
	for i, l := range lookups {
		e.Fields[i] = l.String()
	}

	where, ok := Filter(lookups, terms)
	e.PassThrough = !ok
	e.Where = condition.String(where)
	e.Leaves = len(condition.Leaves(where))
	return e
}
