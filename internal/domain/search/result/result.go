package result

// Result is a single record returned by a view listing.
type Result struct {
	id     string
	fields map[string]string
}

// New creates a result. fields is owned by the result afterwards.
func New(id string, fields map[string]string) Result {
	return Result{id: id, fields: fields}
}

// ID returns the record primary key.
func (r *Result) ID() string { return r.id }

// Fields returns the record columns.
func (r *Result) Fields() map[string]string { return r.fields }

// Field returns a single column value.
func (r *Result) Field(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Page is one page of a filtered listing.
type Page struct {
	Results  []Result
	Total    int
	Page     int
	PageSize int
}

// HasNext reports whether records remain after this page.
func (p Page) HasNext() bool {
	return p.Page*p.PageSize < p.Total
}

// HasPrevious reports whether this is not the first page.
func (p Page) HasPrevious() bool {
	return p.Page > 1
}
