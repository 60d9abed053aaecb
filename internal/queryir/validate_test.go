package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Select(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantErr string
	}{
		{
			name:  "bare columns",
			query: Select{From: "changes", Fields: []string{"tag", "type"}, Filter: Equals{Field: "tag", Value: "move"}},
		},
		{
			name:  "qualified column in its own table",
			query: Select{From: "commits", Filter: Equals{Field: "commits.generation", Value: int64(2)}},
		},
		{
			name:    "unknown table",
			query:   Select{From: "nodes"},
			wantErr: `select.from: unknown table "nodes"`,
		},
		{
			name:    "unknown field",
			query:   Select{From: "changes", Fields: []string{"colour"}},
			wantErr: `select.fields[0]: unknown column "colour" in table changes`,
		},
		{
			name:    "column from another table",
			query:   Select{From: "changes", Filter: Equals{Field: "commits.session", Value: "s"}},
			wantErr: "table commits is not part of the query",
		},
		{
			name:    "kind mismatch",
			query:   Select{From: "changes", Filter: Equals{Field: "depth", Value: "deep"}},
			wantErr: "column depth: string value for int column",
		},
		{
			name:    "float",
			query:   Select{From: "changes", Filter: Equals{Field: "depth", Value: 1.5}},
			wantErr: "float values are not supported",
		},
		{
			name:    "null",
			query:   Select{From: "changes", Filter: Equals{Field: "tag", Value: nil}},
			wantErr: "NULL comparisons are not supported",
		},
		{
			name:    "nested and",
			query:   Select{From: "changes", Filter: And{Predicates: []Predicate{Equals{Field: "tag", Value: "move"}, Equals{Field: "key", Value: int64(1)}}}},
			wantErr: "select.filter[1]",
		},
		{
			name:    "nil query",
			query:   nil,
			wantErr: "nil query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.query)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Join(t *testing.T) {
	base := Join{
		Left:  Select{From: "commits", Fields: []string{"id", "session"}},
		Right: Select{From: "changes", Fields: []string{"tag"}},
		On:    FieldEquals{Left: "changes.commit_id", Right: "commits.id"},
	}
	require.NoError(t, Validate(base))

	missingOn := base
	missingOn.On = nil
	assert.ErrorContains(t, Validate(missingOn), "join.on: join condition is required")

	unqualified := base
	unqualified.Filter = Equals{Field: "tag", Value: "move"}
	assert.ErrorContains(t, Validate(unqualified), `column "tag" must be qualified`)

	mismatched := base
	mismatched.On = FieldEquals{Left: "changes.depth", Right: "commits.id"}
	assert.ErrorContains(t, Validate(mismatched), "cannot compare int column changes.depth with text column commits.id")

	self := base
	self.Right = Select{From: "commits"}
	assert.ErrorContains(t, Validate(self), "self join")
}

func TestValidate_CollectsEveryError(t *testing.T) {
	err := Validate(Select{
		From:   "changes",
		Fields: []string{"nope"},
		Filter: Equals{Field: "depth", Value: "x"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select.fields[0]")
	assert.Contains(t, err.Error(), "select.filter")

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestConjoin(t *testing.T) {
	eq := Equals{Field: "tag", Value: "move"}
	assert.Nil(t, Conjoin())
	assert.Nil(t, Conjoin(nil, nil))
	assert.Equal(t, eq, Conjoin(nil, eq))
	assert.Equal(t, And{Predicates: []Predicate{eq, eq}}, Conjoin(eq, nil, eq))
}
