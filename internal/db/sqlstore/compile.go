package sqlstore

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/scriptsearch/internal/db"
	"github.com/kailas-cloud/scriptsearch/internal/domain/search/condition"
)

const baseAlias = "t"

// Statement is a compiled listing: a page query and a total count query.
type Statement struct {
	List     string
	ListArgs []any
	Count    string
	Args     []any
}

type compiler struct {
	d     Dialect
	table *db.Table
	args  []any
	joins []db.Relation
}

// Compile renders q for dialect d.
func Compile(d Dialect, q *db.Query) (*Statement, error) {
	if q.Table.Name == "" || q.Table.PrimaryKey == "" {
		return nil, fmt.Errorf("%w: table name and primary key are required", db.ErrInvalidQuery)
	}
	if q.Offset < 0 || q.Limit < 0 {
		return nil, fmt.Errorf("%w: negative offset or limit", db.ErrInvalidQuery)
	}

	c := &compiler{d: d, table: &q.Table}

	where := ""
	if q.Where != nil {
		if err := c.collectJoins(q.Where); err != nil {
			return nil, err
		}
		w, err := c.node(q.Where)
		if err != nil {
			return nil, err
		}
		where = " WHERE " + w
	}

	from := c.from()
	pk := column(baseAlias, q.Table.PrimaryKey)

	cols := q.Table.SelectColumns()
	selected := make([]string, len(cols))
	for i, col := range cols {
		selected[i] = column(baseAlias, col)
	}

	var list strings.Builder
	list.WriteString("SELECT ")
	if q.Distinct {
		list.WriteString("DISTINCT ")
	}
	list.WriteString(strings.Join(selected, ", "))
	list.WriteString(from)
	list.WriteString(where)
	list.WriteString(" ORDER BY ")
	list.WriteString(pk)

	listArgs := append([]any(nil), c.args...)
	if q.Limit > 0 {
		n := len(listArgs)
		list.WriteString(" LIMIT " + d.Placeholder(n+1) + " OFFSET " + d.Placeholder(n+2))
		listArgs = append(listArgs, q.Limit, q.Offset)
	}

	count := "SELECT COUNT(*)"
	if q.Distinct {
		count = "SELECT COUNT(DISTINCT " + pk + ")"
	}
	count += from + where

	return &Statement{
		List:     list.String(),
		ListArgs: listArgs,
		Count:    count,
		Args:     c.args,
	}, nil
}

// collectJoins records every relation the tree references, first-seen order.
func (c *compiler) collectJoins(n condition.Node) error {
	seen := make(map[string]bool)
	for _, l := range condition.Lookups(n) {
		name := l.Relation()
		if l.Depth() > 2 {
			return fmt.Errorf("%w: %s traverses more than one relation", db.ErrInvalidQuery, l)
		}
		if name == "" || seen[name] {
			continue
		}
		rel, ok := c.table.Relation(name)
		if !ok {
			return fmt.Errorf("%w: %q on %s", db.ErrUnknownRelation, name, c.table.Name)
		}
		seen[name] = true
		c.joins = append(c.joins, rel)
	}
	return nil
}

func (c *compiler) from() string {
	var b strings.Builder
	b.WriteString(" FROM ")
	b.WriteString(QuoteIdent(c.table.Name))
	b.WriteString(" AS ")
	b.WriteString(QuoteIdent(baseAlias))
	for _, r := range c.joins {
		alias := relationAlias(r.Name)
		b.WriteString(" LEFT JOIN ")
		b.WriteString(QuoteIdent(r.Table))
		b.WriteString(" AS ")
		b.WriteString(QuoteIdent(alias))
		b.WriteString(" ON ")
		b.WriteString(column(alias, r.RemoteColumn))
		b.WriteString(" = ")
		b.WriteString(column(baseAlias, r.LocalColumn))
	}
	return b.String()
}

func (c *compiler) node(n condition.Node) (string, error) {
	switch v := n.(type) {
	case condition.Leaf:
		alias := baseAlias
		if rel := v.Lookup.Relation(); rel != "" {
			alias = relationAlias(rel)
		}
		return c.d.Predicate(column(alias, v.Lookup.Field()), v.Lookup.Mode(), v.Term, c.bind)
	case condition.And:
		return c.binary(v.Left, v.Right, "AND")
	case condition.Or:
		return c.binary(v.Left, v.Right, "OR")
	default:
		return "", fmt.Errorf("%w: unexpected node %T", db.ErrInvalidQuery, n)
	}
}

func (c *compiler) binary(l, r condition.Node, op string) (string, error) {
	left, err := c.node(l)
	if err != nil {
		return "", err
	}
	right, err := c.node(r)
	if err != nil {
		return "", err
	}
	return "(" + left + " " + op + " " + right + ")", nil
}

func (c *compiler) bind(v any) string {
	c.args = append(c.args, v)
	return c.d.Placeholder(len(c.args))
}

func relationAlias(name string) string { return "r_" + name }

func column(alias, name string) string {
	return QuoteIdent(alias) + "." + QuoteIdent(name)
}
