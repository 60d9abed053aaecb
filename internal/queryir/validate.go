package queryir

import (
	"errors"
	"fmt"
	"slices"
)

// ValidationError is one problem found in a query.
type ValidationError struct {
	Path    string // e.g. "join.left.filter"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks a query against Tables. It returns every problem found,
// joined, or nil.
//
// Validate is a pure function with no side effects.
func Validate(q Query) error {
	v := &validator{}
	switch query := q.(type) {
	case Select:
		v.validateSelect("select", query)
	case Join:
		v.validateJoin(query)
	case nil:
		v.addError("query", "nil query")
	default:
		v.addError("query", "unsupported query type %T", q)
	}
	return errors.Join(v.errs...)
}

// validator accumulates errors during traversal.
type validator struct {
	errs []error
}

func (v *validator) addError(path, format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) validateSelect(path string, sel Select) {
	if _, ok := Tables[sel.From]; !ok {
		v.addError(path+".from", "unknown table %q", sel.From)
		return
	}
	for i, f := range sel.Fields {
		v.validateColumn(fmt.Sprintf("%s.fields[%d]", path, i), []string{sel.From}, sel.From, f)
	}
	if sel.Filter != nil {
		v.validatePredicate(path+".filter", []string{sel.From}, sel.From, sel.Filter)
	}
}

func (v *validator) validateJoin(j Join) {
	v.validateSelect("join.left", j.Left)
	v.validateSelect("join.right", j.Right)
	if j.Left.From == j.Right.From {
		v.addError("join", "self join on %q is not supported", j.Left.From)
		return
	}
	scope := []string{j.Left.From, j.Right.From}
	if j.On == nil {
		v.addError("join.on", "join condition is required")
	} else {
		v.validatePredicate("join.on", scope, "", j.On)
	}
	if j.Filter != nil {
		v.validatePredicate("join.filter", scope, "", j.Filter)
	}
}

// validateColumn resolves ref and checks its table is in scope. It returns
// the column, or false after recording an error.
func (v *validator) validateColumn(path string, scope []string, table, ref string) (Column, bool) {
	t, col, err := LookupColumn(table, ref)
	if err != nil {
		v.addError(path, "%v", err)
		return Column{}, false
	}
	if !slices.Contains(scope, t) {
		v.addError(path, "table %s is not part of the query", t)
		return Column{}, false
	}
	return col, true
}

func (v *validator) validatePredicate(path string, scope []string, table string, p Predicate) {
	switch pred := p.(type) {
	case Equals:
		col, ok := v.validateColumn(path, scope, table, pred.Field)
		if !ok {
			return
		}
		if err := checkValue(col, pred.Value); err != nil {
			v.addError(path, "%v", err)
		}
	case FieldEquals:
		l, lok := v.validateColumn(path+".left", scope, table, pred.Left)
		r, rok := v.validateColumn(path+".right", scope, table, pred.Right)
		if lok && rok && l.Kind != r.Kind {
			v.addError(path, "cannot compare %s column %s with %s column %s", l.Kind, pred.Left, r.Kind, pred.Right)
		}
	case And:
		for i, sub := range pred.Predicates {
			v.validatePredicate(fmt.Sprintf("%s[%d]", path, i), scope, table, sub)
		}
	case nil:
		v.addError(path, "nil predicate")
	default:
		v.addError(path, "unsupported predicate type %T", p)
	}
}

// checkValue reports whether v is a literal of the column's kind.
func checkValue(col Column, v any) error {
	switch v.(type) {
	case string:
		if col.Kind == KindText {
			return nil
		}
	case int64:
		if col.Kind == KindInt {
			return nil
		}
	case bool:
		if col.Kind == KindInt {
			return nil
		}
	case float32, float64:
		return fmt.Errorf("column %s: float values are not supported", col.Name)
	case nil:
		return fmt.Errorf("column %s: NULL comparisons are not supported", col.Name)
	default:
		return fmt.Errorf("column %s: unsupported value type %T", col.Name, v)
	}
	return fmt.Errorf("column %s: %T value for %s column", col.Name, v, col.Kind)
}
