package queryir

import (
	"fmt"
	"strings"
)

// Kind is a column's value type.
type Kind int

const (
	KindText Kind = iota
	KindInt
)

func (k Kind) String() string {
	if k == KindInt {
		return "int"
	}
	return "text"
}

// Column is one journal column.
type Column struct {
	Name string
	Kind Kind
}

// Table names.
const (
	TableCommits = "commits"
	TableChanges = "changes"
)

// Tables lists the queryable journal columns, in schema order.
var Tables = map[string][]Column{
	TableCommits: {
		{"id", KindText},
		{"session", KindText},
		{"generation", KindInt},
		{"units", KindInt},
		{"yields", KindInt},
		{"layout_effects", KindInt},
		{"passive_effects", KindInt},
		{"engine_version", KindText},
		{"ir_version", KindText},
	},
	TableChanges: {
		{"commit_id", KindText},
		{"ordinal", KindInt},
		{"tag", KindText},
		{"type", KindText},
		{"key", KindText},
		{"depth", KindInt},
		{"set_attrs", KindText},
		{"cleared", KindText},
	},
}

// LookupColumn resolves a column reference. A bare name is looked up in
// table; a qualified "t.col" name in t.
func LookupColumn(table, ref string) (string, Column, error) {
	t, name := table, ref
	if i := strings.IndexByte(ref, '.'); i >= 0 {
		t, name = ref[:i], ref[i+1:]
	}
	if t == "" {
		return "", Column{}, fmt.Errorf("column %q must be qualified as table.column", ref)
	}
	cols, ok := Tables[t]
	if !ok {
		return "", Column{}, fmt.Errorf("unknown table %q", t)
	}
	for _, c := range cols {
		if c.Name == name {
			return t, c, nil
		}
	}
	return "", Column{}, fmt.Errorf("unknown column %q in table %s", name, t)
}

// Columns returns the column names of table.
func Columns(table string) []string {
	cols := Tables[table]
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}
