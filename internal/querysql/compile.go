// Package querysql compiles journal queries to parameterised SQLite SQL.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/arbor/internal/queryir"
)

// orderKeys is the stable ordering of each table. Every compiled query
// ends in an ORDER BY built from these so results never depend on SQLite's
// scan order. Text keys use COLLATE BINARY.
var orderKeys = map[string][]string{
	queryir.TableCommits: {"session ASC COLLATE BINARY", "generation ASC", "id ASC COLLATE BINARY"},
	queryir.TableChanges: {"commit_id ASC COLLATE BINARY", "ordinal ASC"},
}

// SQLCompiler compiles queryir queries to SQL for SQLite. Values are
// always bound as ? parameters, never interpolated.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile validates q and converts it to SQL and its parameters. Every
// column in the output is qualified with its table.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if err := queryir.Validate(q); err != nil {
		return "", nil, fmt.Errorf("invalid query: %w", err)
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case queryir.Join:
		return c.compileJoin(query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", columnList(q), q.From)

	where, params, err := c.compilePredicate(q.From, q.Filter)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy(q.From))
	return sb.String(), params, nil
}

// compileJoin compiles an inner join. Side filters and the join filter
// are and-ed into one WHERE clause, in left, right, join order.
func (c *SQLCompiler) compileJoin(j queryir.Join) (string, []any, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s, %s FROM %s INNER JOIN %s",
		columnList(j.Left), columnList(j.Right), j.Left.From, j.Right.From)

	on, params, err := c.compilePredicate("", j.On)
	if err != nil {
		return "", nil, fmt.Errorf("compile join on: %w", err)
	}
	sb.WriteString(" ON ")
	sb.WriteString(on)

	var (
		clauses []string
		scopes  = []struct {
			table string
			pred  queryir.Predicate
			name  string
		}{
			{j.Left.From, j.Left.Filter, "left filter"},
			{j.Right.From, j.Right.Filter, "right filter"},
			{"", j.Filter, "join filter"},
		}
	)
	for _, s := range scopes {
		sql, p, err := c.compilePredicate(s.table, s.pred)
		if err != nil {
			return "", nil, fmt.Errorf("compile %s: %w", s.name, err)
		}
		if sql != "" {
			clauses = append(clauses, sql)
			params = append(params, p...)
		}
	}
	if len(clauses) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(clauses, " AND "))
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy(j.Left.From))
	sb.WriteString(", ")
	sb.WriteString(orderBy(j.Right.From))
	return sb.String(), params, nil
}

// compilePredicate compiles p with bare columns resolved in table. A nil
// predicate compiles to "".
func (c *SQLCompiler) compilePredicate(table string, p queryir.Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "", nil, nil

	case queryir.Equals:
		col, err := qualify(table, pred.Field)
		if err != nil {
			return "", nil, err
		}
		return col + " = ?", []any{param(pred.Value)}, nil

	case queryir.FieldEquals:
		l, err := qualify(table, pred.Left)
		if err != nil {
			return "", nil, err
		}
		r, err := qualify(table, pred.Right)
		if err != nil {
			return "", nil, err
		}
		return l + " = " + r, nil, nil

	case queryir.And:
		if len(pred.Predicates) == 0 {
			return "1 = 1", nil, nil
		}
		var (
			parts  []string
			params []any
		)
		for _, sub := range pred.Predicates {
			sql, p, err := c.compilePredicate(table, sub)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, sql)
			params = append(params, p...)
		}
		if len(parts) == 1 {
			return parts[0], params, nil
		}
		return "(" + strings.Join(parts, " AND ") + ")", params, nil

	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func qualify(table, ref string) (string, error) {
	t, col, err := queryir.LookupColumn(table, ref)
	if err != nil {
		return "", err
	}
	return t + "." + col.Name, nil
}

func columnList(q queryir.Select) string {
	fields := q.Fields
	if len(fields) == 0 {
		fields = queryir.Columns(q.From)
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		// Fields were validated, so qualify cannot fail here.
		parts[i], _ = qualify(q.From, f)
	}
	return strings.Join(parts, ", ")
}

func orderBy(table string) string {
	keys := orderKeys[table]
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = table + "." + k
	}
	return strings.Join(parts, ", ")
}

// param converts a literal to its SQLite parameter form.
func param(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return v
}
