package valkey

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/scriptsearch/internal/db"
)

// maxResults is the server's default MAXSEARCHRESULTS; an unlimited query
// fetches at most this many documents.
const maxResults = 10000

// Find runs the compiled tree through FT.SEARCH, ordered by primary key.
// Each base record is one hash, so results never repeat and Distinct is moot.
func (s *Store) Find(ctx context.Context, q *db.Query) (*db.Result, error) {
	if q.Table.Name == "" || q.Table.PrimaryKey == "" {
		return nil, fmt.Errorf("%w: table name and primary key are required", db.ErrInvalidQuery)
	}
	if q.Offset < 0 || q.Limit < 0 {
		return nil, fmt.Errorf("%w: negative offset or limit", db.ErrInvalidQuery)
	}

	query, err := compileQuery(&q.Table, q.Where)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit == 0 {
		limit = maxResults
	}

	index := s.IndexName(q.Table.Name)
	cols := q.Table.SelectColumns()
	args := []string{index, query, "RETURN", strconv.Itoa(len(cols))}
	args = append(args, cols...)
	args = append(args,
		"SORTBY", q.Table.PrimaryKey, "ASC",
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(limit),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isMissingIndex(err) {
			return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("%w: %s", db.ErrIndexNotFound, index)}
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseListResult(raw, s.DocumentPrefix(q.Table.Name), q.Table.PrimaryKey)
}

func parseListResult(raw []rueidis.RedisMessage, prefix, pk string) (*db.Result, error) {
	if len(raw) == 0 {
		return &db.Result{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.Result{}, nil
	}

	rows := make([]db.Row, 0, (len(raw)-1)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		row := parseFieldPairs(fields)
		if _, ok := row[pk]; !ok {
			row[pk] = strings.TrimPrefix(key, prefix)
		}
		rows = append(rows, row)
	}

	return &db.Result{Total: int(total), Rows: rows}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) db.Row {
	m := make(db.Row, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}
