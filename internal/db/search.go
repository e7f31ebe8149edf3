package db

import "github.com/kailas-cloud/scriptsearch/internal/domain/search/condition"

// Relation joins Table to a related table: related.RemoteColumn = base.LocalColumn.
type Relation struct {
	Name         string
	Table        string
	LocalColumn  string
	RemoteColumn string
	Many         bool
}

// Table describes the record set a query runs against.
type Table struct {
	Name       string
	PrimaryKey string
	Columns    []string
	Relations  []Relation
}

// Relation returns the named relation.
func (t *Table) Relation(name string) (Relation, bool) {
	for _, r := range t.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// SelectColumns returns the primary key followed by the other columns, without duplicates.
func (t *Table) SelectColumns() []string {
	cols := []string{t.PrimaryKey}
	for _, c := range t.Columns {
		if c != t.PrimaryKey {
			cols = append(cols, c)
		}
	}
	return cols
}

// Query is the input for a filtered listing.
type Query struct {
	Table Table
	// Where restricts the rows; nil lists the table unfiltered.
	Where condition.Node
	// Distinct removes duplicate base rows introduced by to-many joins.
	Distinct bool
	Offset   int
	// Limit of 0 returns every matching row.
	Limit int
}

// Result is the output of Find: one page of rows plus the total match count.
type Result struct {
	Total int
	Rows  []Row
}

// Row maps column names to values.
type Row map[string]string
