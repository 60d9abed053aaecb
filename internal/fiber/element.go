package fiber

// TextTag is the host tag of normalised raw children.
const TextTag = "text"

// ValueAttr is the attribute carrying a text leaf's content.
const ValueAttr = "value"

// Type identifies what a node renders as: a host tag, a text leaf, or a
// component. Types are comparable; two component types are equal only when
// they refer to the same *Component.
type Type struct {
	tag       string
	component *Component
}

// TextType is the type of text leaves.
var TextType = Type{tag: TextTag}

// Tag returns the host type for the given tag name.
func Tag(name string) Type {
	return Type{tag: name}
}

// ComponentType returns the type of elements rendered by comp.
func ComponentType(comp *Component) Type {
	return Type{component: comp}
}

// IsZero reports whether t is the empty type of a missing child.
func (t Type) IsZero() bool {
	return t.tag == "" && t.component == nil
}

// IsComponent reports whether t refers to a render function.
func (t Type) IsComponent() bool {
	return t.component != nil
}

// IsText reports whether t is the text leaf type.
func (t Type) IsText() bool {
	return t.component == nil && t.tag == TextTag
}

// IsHost reports whether t is materialised by the host (tags and text).
func (t Type) IsHost() bool {
	return t.component == nil && t.tag != ""
}

// Tag returns the host tag, or "" for components and the zero type.
func (t Type) Tag() string {
	return t.tag
}

// Component returns the component, or nil for host types.
func (t Type) Component() *Component {
	return t.component
}

func (t Type) String() string {
	switch {
	case t.component != nil:
		return t.component.Name
	case t.tag == "":
		return "<empty>"
	default:
		return t.tag
	}
}

// RenderFunc renders a component. It must call hooks only through c and
// only while it runs.
type RenderFunc func(c *Context, props Props) Element

// Component is a named render function. Its pointer is its identity.
type Component struct {
	Name   string
	Render RenderFunc
}

// NewComponent creates a component.
func NewComponent(name string, render RenderFunc) *Component {
	return &Component{Name: name, Render: render}
}

// Element is the declarative description of one node and its subtree.
type Element struct {
	Type  Type
	Key   string
	Props Props
}

// IsEmpty reports whether e describes a missing child.
func (e Element) IsEmpty() bool {
	return e.Type.IsZero()
}

// WithKey returns a copy of e carrying the reconciliation key.
func (e Element) WithKey(key string) Element {
	e.Key = key
	return e
}

// El builds an element of type t. Children are normalised with Children.
func El(t Type, attrs []Attr, children ...any) Element {
	return Element{
		Type: t,
		Props: Props{
			Attrs:    cleanAttrs(attrs),
			Children: Children(children...),
		},
	}
}

// H builds a host element.
func H(tag string, attrs []Attr, children ...any) Element {
	return El(Tag(tag), attrs, children...)
}

// C builds a component element.
func C(comp *Component, attrs []Attr, children ...any) Element {
	return El(ComponentType(comp), attrs, children...)
}

// Text builds a text leaf holding value.
func Text(value any) Element {
	return Element{
		Type: TextType,
		Props: Props{
			Attrs:    []Attr{{Name: ValueAttr, Value: value}},
			Children: []Element{},
		},
	}
}

// Children normalises raw child values into elements. Elements pass
// through, []Element is flattened, nil becomes an empty element and any
// other value becomes a text leaf.
func Children(values ...any) []Element {
	out := make([]Element, 0, len(values))
	for _, v := range values {
		switch c := v.(type) {
		case nil:
			out = append(out, Element{})
		case Element:
			out = append(out, c)
		case *Element:
			if c == nil {
				out = append(out, Element{})
			} else {
				out = append(out, *c)
			}
		case []Element:
			out = append(out, c...)
		default:
			out = append(out, Text(c))
		}
	}
	return out
}

// cleanAttrs drops the reserved children attribute.
func cleanAttrs(attrs []Attr) []Attr {
	out := make([]Attr, 0, len(attrs))
	for _, a := range attrs {
		if a.Name == childrenAttr {
			continue
		}
		out = append(out, a)
	}
	return out
}
