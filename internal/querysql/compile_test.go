package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/queryir"
)

func TestCompile_SimpleSelect(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(queryir.Select{
		From:   "changes",
		Fields: []string{"tag", "type"},
		Filter: queryir.Equals{Field: "tag", Value: "move"},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT changes.tag, changes.type FROM changes WHERE changes.tag = ? "+
			"ORDER BY changes.commit_id ASC COLLATE BINARY, changes.ordinal ASC",
		sql)
	assert.Equal(t, []any{"move"}, params)
}

func TestCompile_SelectAllColumns(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(queryir.Select{From: "commits"})
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT commits.id, commits.session, commits.generation,")
	assert.Contains(t, sql, "commits.ir_version FROM commits ORDER BY")
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, params)
}

func TestCompile_ValuesAreNeverInterpolated(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(queryir.Select{
		From:   "commits",
		Filter: queryir.Equals{Field: "session", Value: "x'; DROP TABLE commits; --"},
	})
	require.NoError(t, err)
	assert.NotContains(t, sql, "DROP")
	assert.Equal(t, []any{"x'; DROP TABLE commits; --"}, params)
}

func TestCompile_AndKeepsParamOrder(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(queryir.Select{
		From: "changes",
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.Equals{Field: "tag", Value: "create"},
			queryir.Equals{Field: "depth", Value: int64(2)},
			queryir.And{},
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE (changes.tag = ? AND changes.depth = ? AND 1 = 1)")
	assert.Equal(t, []any{"create", int64(2)}, params)
}

func TestCompile_Join(t *testing.T) {
	sql, params, err := NewSQLCompiler().Compile(queryir.Join{
		Left:  queryir.Select{From: "commits", Fields: []string{"session", "generation"}, Filter: queryir.Equals{Field: "session", Value: "s-1"}},
		Right: queryir.Select{From: "changes", Fields: []string{"tag"}},
		On:    queryir.FieldEquals{Left: "changes.commit_id", Right: "commits.id"},
		Filter: queryir.And{Predicates: []queryir.Predicate{
			queryir.Equals{Field: "changes.tag", Value: "move"},
			queryir.Equals{Field: "commits.generation", Value: int64(3)},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT commits.session, commits.generation, changes.tag FROM commits INNER JOIN changes "+
			"ON changes.commit_id = commits.id "+
			"WHERE commits.session = ? AND (changes.tag = ? AND commits.generation = ?) "+
			"ORDER BY commits.session ASC COLLATE BINARY, commits.generation ASC, commits.id ASC COLLATE BINARY, "+
			"changes.commit_id ASC COLLATE BINARY, changes.ordinal ASC",
		sql)
	assert.Equal(t, []any{"s-1", "move", int64(3)}, params)
}

func TestCompile_OrderByMandatory(t *testing.T) {
	queries := []queryir.Query{
		queryir.Select{From: "commits"},
		queryir.Select{From: "changes", Filter: queryir.Equals{Field: "tag", Value: "remove"}},
		queryir.Join{
			Left:  queryir.Select{From: "changes"},
			Right: queryir.Select{From: "commits"},
			On:    queryir.FieldEquals{Left: "changes.commit_id", Right: "commits.id"},
		},
	}
	for _, q := range queries {
		sql, _, err := NewSQLCompiler().Compile(q)
		require.NoError(t, err)
		assert.Contains(t, sql, " ORDER BY ")
		assert.Contains(t, sql, "COLLATE BINARY")
	}
}

func TestCompile_BoolBindsAsInt(t *testing.T) {
	_, params, err := NewSQLCompiler().Compile(queryir.Select{
		From:   "changes",
		Filter: queryir.Equals{Field: "depth", Value: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1)}, params)
}

func TestCompile_RejectsInvalidQuery(t *testing.T) {
	_, _, err := NewSQLCompiler().Compile(queryir.Select{From: "nodes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query")

	_, _, err = NewSQLCompiler().Compile(nil)
	require.Error(t, err)
}
