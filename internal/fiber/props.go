package fiber

import (
	"fmt"
	"strconv"
)

const childrenAttr = "children"

// Attr is one named property.
type Attr struct {
	Name  string
	Value any
}

// A builds an attribute list from name/value pairs:
//
//	fiber.A("class", "app", "id", "main")
//
// It panics on an odd argument count or a non-string name.
func A(pairs ...any) []Attr {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("fiber.A: odd number of arguments (%d)", len(pairs)))
	}
	attrs := make([]Attr, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("fiber.A: attribute name at %d is %T, not string", i, pairs[i]))
		}
		attrs = append(attrs, Attr{Name: name, Value: pairs[i+1]})
	}
	return attrs
}

// Props is the ordered property set of an element. Attribute order is
// declaration order. Children are kept apart from attributes and are never
// passed to the host as an attribute.
type Props struct {
	Attrs    []Attr
	Children []Element
}

// Get returns the value of the named attribute.
func (p Props) Get(name string) (any, bool) {
	for _, a := range p.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// Value returns the named attribute, or nil.
func (p Props) Value(name string) any {
	v, _ := p.Get(name)
	return v
}

// String returns the named attribute formatted as a string, or "".
func (p Props) String(name string) string {
	v, ok := p.Get(name)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the named attribute as an int, or fallback when it is
// missing or not numeric.
func (p Props) Int(name string, fallback int) int {
	v, ok := p.Get(name)
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return fallback
}

// Has reports whether the named attribute is present.
func (p Props) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Len returns the number of attributes.
func (p Props) Len() int {
	return len(p.Attrs)
}

// Names returns the attribute names in order.
func (p Props) Names() []string {
	names := make([]string, len(p.Attrs))
	for i, a := range p.Attrs {
		names[i] = a.Name
	}
	return names
}

// With returns a copy of p with the named attribute set. An existing
// attribute keeps its position.
func (p Props) With(name string, value any) Props {
	if name == childrenAttr {
		return p
	}
	attrs := make([]Attr, 0, len(p.Attrs)+1)
	replaced := false
	for _, a := range p.Attrs {
		if a.Name == name {
			a.Value = value
			replaced = true
		}
		attrs = append(attrs, a)
	}
	if !replaced {
		attrs = append(attrs, Attr{Name: name, Value: value})
	}
	p.Attrs = attrs
	return p
}

// DiffAttrs computes the attribute changes turning prev into next.
// cleared lists names present in prev but not in next, in prev order;
// set lists attributes of next that are new or whose value differs, in
// next order.
func DiffAttrs(prev, next Props) (set []Attr, cleared []string) {
	for _, a := range prev.Attrs {
		if !next.Has(a.Name) {
			cleared = append(cleared, a.Name)
		}
	}
	for _, a := range next.Attrs {
		old, ok := prev.Get(a.Name)
		if !ok || !Same(old, a.Value) {
			set = append(set, a)
		}
	}
	return set, cleared
}
