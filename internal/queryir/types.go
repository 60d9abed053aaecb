package queryir

// Query is a journal query. Sealed: only Select and Join implement it.
type Query interface {
	queryNode()
}

// Predicate is a filter condition. Sealed: only Equals, FieldEquals and
// And implement it.
type Predicate interface {
	predicateNode()
}

// Select reads rows from one journal table.
//
//	Select{
//	  From:   "changes",
//	  Fields: []string{"tag", "type"},
//	  Filter: Equals{Field: "tag", Value: "move"},
//	}
//
// translates to
//
//	SELECT changes.tag, changes.type FROM changes
//	WHERE changes.tag = ? ORDER BY changes.commit_id ASC COLLATE BINARY, changes.ordinal ASC
type Select struct {
	From   string    // table name, a key of Tables
	Fields []string  // columns in result order; empty selects every column
	Filter Predicate // nil selects every row
}

func (Select) queryNode() {}

// Join is an inner join of two selects. The result columns are the left
// fields followed by the right fields. Filter applies to the joined row
// and must use qualified columns.
type Join struct {
	Left   Select
	Right  Select
	On     Predicate // required
	Filter Predicate
}

func (Join) queryNode() {}

// Equals compares a column to a literal.
type Equals struct {
	Field string
	Value any // string, int64 or bool
}

func (Equals) predicateNode() {}

// FieldEquals compares two columns, as in a join condition.
type FieldEquals struct {
	Left  string
	Right string
}

func (FieldEquals) predicateNode() {}

// And is a conjunction. An empty And is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Conjoin ands the non-nil predicates together. It returns nil when none
// remain and the predicate itself when only one does.
func Conjoin(preds ...Predicate) Predicate {
	var out []Predicate
	for _, p := range preds {
		if p != nil {
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return And{Predicates: out}
}
