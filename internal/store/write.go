package store

import (
	"context"
	"fmt"

	"github.com/roach88/arbor/internal/ir"
)

// RecordCommit inserts a commit and its changes in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: a commit already in the
// store is left untouched and its changes are not written again.
//
// A different commit for a (session, generation) pair that is already
// recorded is an error.
func (s *Store) RecordCommit(ctx context.Context, rec ir.CommitRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("record commit: empty id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record commit: begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO commits
		(id, session, generation, units, yields, layout_effects, passive_effects, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Session,
		rec.Generation,
		rec.Units,
		rec.Yields,
		rec.Layout,
		rec.Passive,
		rec.EngineVersion,
		rec.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("record commit: insert: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("record commit: rows affected: %w", err)
	}
	if rows == 0 {
		return nil
	}

	for i, c := range rec.Changes {
		set, err := marshalNames(c.Set)
		if err != nil {
			return fmt.Errorf("record commit: change %d: %w", i, err)
		}
		cleared, err := marshalNames(c.Cleared)
		if err != nil {
			return fmt.Errorf("record commit: change %d: %w", i, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO changes
			(commit_id, ordinal, tag, type, key, depth, set_attrs, cleared)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			rec.ID,
			i,
			c.Tag,
			c.Type,
			c.Key,
			c.Depth,
			set,
			cleared,
		)
		if err != nil {
			return fmt.Errorf("record commit: change %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record commit: commit: %w", err)
	}
	return nil
}
