package valkey

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/scriptsearch/internal/db"
)

// Put stores docs as hashes under the table's document prefix in a single
// DoMulti round-trip. Every doc must carry the primary key.
func (s *Store) Put(ctx context.Context, t db.Table, docs []db.Row) error {
	if len(docs) == 0 {
		return nil
	}

	prefix := s.DocumentPrefix(t.Name)
	cmds := make([]rueidis.Completed, 0, len(docs))
	for i, doc := range docs {
		id, ok := doc[t.PrimaryKey]
		if !ok || id == "" {
			return fmt.Errorf("%w: document %d has no %s", db.ErrInvalidQuery, i, t.PrimaryKey)
		}
		cmd := s.b().Hset().Key(prefix + id).FieldValue()
		for k, v := range doc {
			cmd = cmd.FieldValue(k, v)
		}
		cmds = append(cmds, cmd.Build())
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s%s: %w", prefix, docs[i][t.PrimaryKey], err)}
		}
	}
	return nil
}
