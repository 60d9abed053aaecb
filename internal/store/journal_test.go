package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/ir"
)

func TestRecordCommit_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := createTestCommit("ses-a", 1,
		ir.Change{Tag: "create", Type: "div", Depth: 1, Set: []string{"class", "id"}},
		ir.Change{Tag: "update", Type: "span", Key: "k", Depth: 2, Set: []string{"title"}, Cleared: []string{"role"}},
		ir.Change{Tag: "remove", Type: "Counter", Depth: 1},
	)
	require.NoError(t, s.RecordCommit(ctx, rec))

	got, err := s.ReadCommit(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestRecordCommit_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := createTestCommit("ses-a", 1, ir.Change{Tag: "create", Type: "p", Depth: 1})
	require.NoError(t, s.RecordCommit(ctx, rec))
	require.NoError(t, s.RecordCommit(ctx, rec))

	n, err := s.CountCommits(ctx, "ses-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var changes int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM changes").Scan(&changes))
	assert.Equal(t, 1, changes)
}

func TestRecordCommit_GenerationConflict(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordCommit(ctx, createTestCommit("ses-a", 1)))

	other := createTestCommit("ses-a", 1, ir.Change{Tag: "create", Type: "p"})
	err := s.RecordCommit(ctx, other)
	require.Error(t, err)

	n, err := s.CountCommits(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "failed commit left no rows")
}

func TestRecordCommit_EmptyID(t *testing.T) {
	s := createTestStore(t)
	err := s.RecordCommit(context.Background(), ir.CommitRecord{Session: "x"})
	assert.Error(t, err)
}

func TestReadCommit_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadCommit(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListCommits_Ordering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Written out of order on purpose.
	for _, rec := range []ir.CommitRecord{
		createTestCommit("ses-b", 2),
		createTestCommit("ses-a", 3),
		createTestCommit("ses-b", 1),
		createTestCommit("ses-a", 1),
		createTestCommit("ses-a", 2),
	} {
		require.NoError(t, s.RecordCommit(ctx, rec))
	}

	commits, err := s.ListCommits(ctx, "ses-a")
	require.NoError(t, err)
	require.Len(t, commits, 3)
	for i, c := range commits {
		assert.Equal(t, int64(i+1), c.Generation)
		assert.Equal(t, "ses-a", c.Session)
		assert.NotNil(t, c.Changes)
	}

	all, err := s.ListCommits(ctx, "")
	require.NoError(t, err)
	var order []string
	for _, c := range all {
		order = append(order, c.Session+"/"+string(rune('0'+c.Generation)))
	}
	assert.Equal(t, []string{"ses-a/1", "ses-a/2", "ses-a/3", "ses-b/1", "ses-b/2"}, order)
}

func TestListCommits_Empty(t *testing.T) {
	s := createTestStore(t)

	commits, err := s.ListCommits(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, commits)
	assert.Empty(t, commits)
}

func TestListSessions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	for _, rec := range []ir.CommitRecord{
		createTestCommit("zeta", 1),
		createTestCommit("alpha", 1),
		createTestCommit("alpha", 2),
	} {
		require.NoError(t, s.RecordCommit(ctx, rec))
	}

	sessions, err = s.ListSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Session{
		{Token: "alpha", Commits: 2, Last: 2},
		{Token: "zeta", Commits: 1, Last: 1},
	}, sessions)
}

func TestCountCommits(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordCommit(ctx, createTestCommit("a", 1)))
	require.NoError(t, s.RecordCommit(ctx, createTestCommit("b", 1)))
	require.NoError(t, s.RecordCommit(ctx, createTestCommit("b", 2)))

	n, err := s.CountCommits(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.CountCommits(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestNamesEncoding(t *testing.T) {
	data, err := marshalNames(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", data)

	data, err = marshalNames([]string{"b", "a"})
	require.NoError(t, err)
	assert.Equal(t, `["b","a"]`, data, "order is preserved")

	names, err := unmarshalNames(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, names)

	names, err = unmarshalNames("[]")
	require.NoError(t, err)
	assert.Nil(t, names)

	_, err = unmarshalNames("{")
	assert.Error(t, err)
}
