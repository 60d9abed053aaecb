package queryir

import (
	"fmt"
	"strconv"
	"strings"
)

// whereTables is the lookup order for bare column names in ParseWhere.
var whereTables = []string{TableChanges, TableCommits}

// ParseWhere parses "field=value" expressions into a conjunction of
// qualified Equals predicates. A bare field is looked up in changes, then
// commits. Values of int columns are parsed as integers. No expressions
// yield a nil predicate.
//
//	ParseWhere([]string{"tag=move", "generation=2"})
//	// And{Equals{"changes.tag", "move"}, Equals{"commits.generation", int64(2)}}
func ParseWhere(exprs []string) (Predicate, error) {
	var preds []Predicate
	for _, expr := range exprs {
		field, raw, ok := strings.Cut(expr, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid where %q: want field=value", expr)
		}
		table, col, err := resolveWhereField(field)
		if err != nil {
			return nil, fmt.Errorf("invalid where %q: %w", expr, err)
		}
		var value any = raw
		if col.Kind == KindInt {
			n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid where %q: %s is an int column", expr, col.Name)
			}
			value = n
		}
		preds = append(preds, Equals{Field: table + "." + col.Name, Value: value})
	}
	if len(preds) == 0 {
		return nil, nil
	}
	return Conjoin(preds...), nil
}

func resolveWhereField(field string) (string, Column, error) {
	if strings.Contains(field, ".") {
		return LookupColumn("", field)
	}
	for _, t := range whereTables {
		if table, col, err := LookupColumn(t, field); err == nil {
			return table, col, nil
		}
	}
	return "", Column{}, fmt.Errorf("unknown column %q", field)
}
