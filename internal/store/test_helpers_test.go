package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestCommit builds a commit record with a content-addressed ID.
func createTestCommit(session string, gen int64, changes ...ir.Change) ir.CommitRecord {
	if changes == nil {
		changes = []ir.Change{}
	}
	return ir.CommitRecord{
		ID:            ir.MustCommitID(session, gen, changes),
		Session:       session,
		Generation:    gen,
		Units:         gen * 2,
		Yields:        gen - 1,
		Layout:        1,
		Passive:       2,
		Changes:       changes,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
}
