package store

import (
	"context"
	"fmt"

	"github.com/roach88/arbor/internal/ir"
	"github.com/roach88/arbor/internal/queryir"
	"github.com/roach88/arbor/internal/querysql"
)

// changeQuery joins every commit with its changes. The column order is
// the scan order in QueryChanges.
func changeQuery(filter queryir.Predicate) queryir.Join {
	return queryir.Join{
		Left: queryir.Select{
			From:   queryir.TableCommits,
			Fields: []string{"id", "session", "generation", "units", "yields", "layout_effects", "passive_effects", "engine_version", "ir_version"},
		},
		Right: queryir.Select{
			From:   queryir.TableChanges,
			Fields: []string{"tag", "type", "key", "depth", "set_attrs", "cleared"},
		},
		On:     queryir.FieldEquals{Left: "changes.commit_id", Right: "commits.id"},
		Filter: filter,
	}
}

// QueryChanges returns the commits holding a change that matches filter,
// each carrying only its matching changes. Columns in filter are qualified
// ("changes.tag", "commits.session"); see queryir.ParseWhere. Results are
// ordered by session, generation and change order.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) QueryChanges(ctx context.Context, filter queryir.Predicate) ([]ir.CommitRecord, error) {
	query, params, err := querysql.NewSQLCompiler().Compile(changeQuery(filter))
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	commits := []ir.CommitRecord{}
	for rows.Next() {
		var (
			rec               ir.CommitRecord
			c                 ir.Change
			setJSON, clearedJ string
		)
		if err := rows.Scan(
			&rec.ID, &rec.Session, &rec.Generation, &rec.Units, &rec.Yields,
			&rec.Layout, &rec.Passive, &rec.EngineVersion, &rec.IRVersion,
			&c.Tag, &c.Type, &c.Key, &c.Depth, &setJSON, &clearedJ,
		); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		if c.Set, err = unmarshalNames(setJSON); err != nil {
			return nil, err
		}
		if c.Cleared, err = unmarshalNames(clearedJ); err != nil {
			return nil, err
		}

		if n := len(commits); n > 0 && commits[n-1].ID == rec.ID {
			commits[n-1].Changes = append(commits[n-1].Changes, c)
			continue
		}
		rec.Changes = []ir.Change{c}
		commits = append(commits, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}
	return commits, nil
}
