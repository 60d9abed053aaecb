package fiber

import "reflect"

// Deps is a dependency list for memo, callback and effect hooks.
//
// A nil Deps means "no list supplied": the hook recomputes or re-runs on
// every render. An empty, non-nil Deps never changes after the first
// render.
type Deps []any

// DepsOf builds a dependency list. DepsOf() returns an empty, non-nil list.
func DepsOf(values ...any) Deps {
	if values == nil {
		return Deps{}
	}
	return Deps(values)
}

// DepsChanged reports whether next must be treated as a change from prev:
// no list supplied, no previous list, a different length, or any element
// differing by Same.
func DepsChanged(prev, next Deps) bool {
	if next == nil || prev == nil {
		return true
	}
	if len(prev) != len(next) {
		return true
	}
	for i := range next {
		if !Same(prev[i], next[i]) {
			return true
		}
	}
	return false
}

// Same compares comparable values by value and maps, slices, pointers and
// channels by identity. Func values are never Same: Go cannot tell two
// closures of the same literal apart, so a func is always treated as new.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Func:
		return false
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	}
	if !ta.Comparable() {
		return false
	}
	return equal(a, b)
}

// equal guards against comparable types holding incomparable dynamic
// values, such as a struct with a func inside an interface field.
func equal(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
