// Package queryir is the query representation for reading the commit
// journal.
//
// Queries are built from two node kinds: Select reads one journal table
// and Join combines two selects with an inner join. Filters are
// predicates: Equals compares a column to a literal, FieldEquals compares
// two columns and And is a conjunction. OR, NULL comparisons and
// aggregation are not expressible.
//
// Query and Predicate are sealed interfaces: only this package implements
// them, so backends can switch over every node type.
//
//	switch q := query.(type) {
//	case Select:
//	    // one table
//	case Join:
//	    // commits joined with changes
//	}
//
// Literal values are string, int64 or bool. Floats are rejected, like
// everywhere else in the journal.
//
// Columns are named against Tables. A bare column name inside a Select
// refers to that select's table; inside a Join it must be qualified as
// "table.column". ParseWhere turns "field=value" expressions from the
// command line into a qualified predicate.
package queryir
