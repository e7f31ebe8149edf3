package scriptsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/scriptsearch/internal/domain/search/request"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/translit"
)

// Record is one listed row: its primary key and selected columns.
type Record struct {
	ID     string
	Fields map[string]string
}

// Page is one page of a view listing.
type Page struct {
	Records  []Record
	Total    int
	Page     int
	PageSize int
	HasNext  bool
}

// Explanation describes the condition a search builds.
type Explanation struct {
	Terms       []string
	Latin       []string
	Cyrillic    []string
	Where       string
	Leaves      int
	Distinct    bool
	PassThrough bool
}

// Search lists one page of the named view filtered by the search string.
// An empty search lists the view unfiltered. page and pageSize of zero use
// the defaults.
func (c *Client) Search(ctx context.Context, viewName, search string, page, pageSize int) (_ Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err, "view", viewName) }()

	req, err := request.New(search, page, pageSize, c.limits)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	p, err := c.searchSvc.Search(ctx, viewName, req)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}

	out := Page{
		Records:  make([]Record, len(p.Results)),
		Total:    p.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
		HasNext:  p.HasNext(),
	}
	for i := range p.Results {
		out.Records[i] = Record{ID: p.Results[i].ID(), Fields: p.Results[i].Fields()}
	}
	return out, nil
}

// Explain describes the search without running it.
func (c *Client) Explain(viewName, search string) (_ Explanation, err error) {
	start := time.Now()
	defer func() { c.obs.observe("explain", start, err, "view", viewName) }()

	req, err := request.New(search, 1, 0, c.limits)
	if err != nil {
		return Explanation{}, fmt.Errorf("explain: %w", err)
	}
	e, err := c.searchSvc.Explain(viewName, req)
	if err != nil {
		return Explanation{}, fmt.Errorf("explain: %w", err)
	}
	return Explanation{
		Terms:       e.Terms,
		Latin:       e.Latin,
		Cyrillic:    e.Cyrillic,
		Where:       e.Where,
		Leaves:      e.Leaves,
		Distinct:    e.Distinct,
		PassThrough: e.PassThrough,
	}, nil
}

// ToLatin rewrites Cyrillic letters of s into Latin ones.
func ToLatin(s string) string {
	return translit.NewProcessor(translit.Latin).Process(s)
}

// ToCyrillic rewrites Latin letters of s into Cyrillic ones.
func ToCyrillic(s string) string {
	return translit.NewProcessor(translit.Cyrillic).Process(s)
}
