package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/arbor/internal/ir"
)

// Session summarises the commits recorded under one session token.
type Session struct {
	Token   string
	Commits int64
	// Last is the highest recorded generation.
	Last int64
}

// ListSessions returns every session with at least one commit, ordered by
// token.
//
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session, COUNT(*), MAX(generation)
		FROM commits
		GROUP BY session
		ORDER BY session COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var ses Session
		if err := rows.Scan(&ses.Token, &ses.Commits, &ses.Last); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, ses)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ListCommits returns the commits of a session with their changes.
// Results are ordered by generation ASC, id ASC COLLATE BINARY. An empty
// session returns every commit in the store, ordered by session first.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListCommits(ctx context.Context, session string) ([]ir.CommitRecord, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if session == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, session, generation, units, yields, layout_effects, passive_effects, engine_version, ir_version
			FROM commits
			ORDER BY session COLLATE BINARY ASC, generation ASC, id COLLATE BINARY ASC
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, session, generation, units, yields, layout_effects, passive_effects, engine_version, ir_version
			FROM commits
			WHERE session = ?
			ORDER BY generation ASC, id COLLATE BINARY ASC
		`, session)
	}
	if err != nil {
		return nil, fmt.Errorf("query commits: %w", err)
	}

	commits := []ir.CommitRecord{}
	for rows.Next() {
		rec, err := scanCommit(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		commits = append(commits, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate commits: %w", err)
	}
	rows.Close()

	// Changes are read after the commit cursor is closed: the store holds a
	// single connection.
	for i := range commits {
		changes, err := s.readChanges(ctx, commits[i].ID)
		if err != nil {
			return nil, err
		}
		commits[i].Changes = changes
	}
	return commits, nil
}

// ReadCommit retrieves a single commit by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadCommit(ctx context.Context, id string) (ir.CommitRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session, generation, units, yields, layout_effects, passive_effects, engine_version, ir_version
		FROM commits
		WHERE id = ?
	`, id)

	rec, err := scanCommit(row)
	if err != nil {
		return ir.CommitRecord{}, err
	}
	rec.Changes, err = s.readChanges(ctx, id)
	if err != nil {
		return ir.CommitRecord{}, err
	}
	return rec, nil
}

// CountCommits returns the number of commits in a session, or in the whole
// store when session is empty.
func (s *Store) CountCommits(ctx context.Context, session string) (int64, error) {
	var count int64
	var err error
	if session == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM commits`).Scan(&count)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM commits WHERE session = ?`, session).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("count commits: %w", err)
	}
	return count, nil
}

// readChanges returns a commit's changes in the order they were applied.
func (s *Store) readChanges(ctx context.Context, commitID string) ([]ir.Change, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag, type, key, depth, set_attrs, cleared
		FROM changes
		WHERE commit_id = ?
		ORDER BY ordinal ASC
	`, commitID)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	changes := []ir.Change{}
	for rows.Next() {
		var (
			c                 ir.Change
			setJSON, clearedJ string
		)
		if err := rows.Scan(&c.Tag, &c.Type, &c.Key, &c.Depth, &setJSON, &clearedJ); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		if c.Set, err = unmarshalNames(setJSON); err != nil {
			return nil, err
		}
		if c.Cleared, err = unmarshalNames(clearedJ); err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}
	return changes, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCommit(s scanner) (ir.CommitRecord, error) {
	var rec ir.CommitRecord
	err := s.Scan(
		&rec.ID,
		&rec.Session,
		&rec.Generation,
		&rec.Units,
		&rec.Yields,
		&rec.Layout,
		&rec.Passive,
		&rec.EngineVersion,
		&rec.IRVersion,
	)
	if err == sql.ErrNoRows {
		return ir.CommitRecord{}, err
	}
	if err != nil {
		return ir.CommitRecord{}, fmt.Errorf("scan commit: %w", err)
	}
	return rec, nil
}
