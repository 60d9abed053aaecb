package compiler

import (
	"fmt"
	"sort"
	"strconv"

	"cuelang.org/go/cue/token"

	"github.com/roach88/arbor/internal/fiber"
)

// ElementFromValue builds an element from a decoded YAML or JSON value of
// the same shape as a CUE view. A bare scalar is a text leaf. Decoded maps
// carry no field order, so props are applied in name order.
func ElementFromValue(v any, r Resolver) (fiber.Element, error) {
	child, err := childFromValue(v, r, "element")
	if err != nil {
		return fiber.Element{}, err
	}
	switch c := child.(type) {
	case fiber.Element:
		return c, nil
	case nil:
		return fiber.Element{}, nil
	default:
		return fiber.Text(c), nil
	}
}

func elementFromMap(m map[string]any, r Resolver, path string) (fiber.Element, error) {
	for name := range m {
		switch name {
		case fieldType, fieldKey, fieldProps, fieldChildren:
		default:
			return fiber.Element{}, &CompileError{
				Code:    ErrCodeUnknownField,
				Field:   path + "." + name,
				Message: "elements have only type, key, props and children",
			}
		}
	}

	name, ok := m[fieldType].(string)
	if !ok {
		return fiber.Element{}, &CompileError{
			Code:    ErrCodeMissingType,
			Field:   path + ".type",
			Message: "type is required and must be a string",
		}
	}
	typ, err := resolveType(name, r, path+".type", token.NoPos)
	if err != nil {
		return fiber.Element{}, err
	}

	var key string
	switch k := m[fieldKey].(type) {
	case nil:
	case string:
		key = k
	case int:
		key = strconv.Itoa(k)
	default:
		return fiber.Element{}, &CompileError{
			Code:    ErrCodeBadKey,
			Field:   path + ".key",
			Message: "key must be a string or int",
		}
	}

	var attrs []fiber.Attr
	switch p := m[fieldProps].(type) {
	case nil:
	case map[string]any:
		names := make([]string, 0, len(p))
		for n := range p {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			val, err := scalarFromValue(p[n], path+".props."+n)
			if err != nil {
				return fiber.Element{}, err
			}
			attrs = append(attrs, fiber.Attr{Name: n, Value: val})
		}
	default:
		return fiber.Element{}, &CompileError{
			Code:    ErrCodeBadProp,
			Field:   path + ".props",
			Message: "props must be a mapping",
		}
	}

	var children []any
	switch list := m[fieldChildren].(type) {
	case nil:
	case []any:
		for i, c := range list {
			child, err := childFromValue(c, r, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return fiber.Element{}, err
			}
			children = append(children, child)
		}
	default:
		return fiber.Element{}, &CompileError{
			Code:    ErrCodeBadChild,
			Field:   path + ".children",
			Message: "children must be a list",
		}
	}

	return fiber.El(typ, attrs, children...).WithKey(key), nil
}

func childFromValue(v any, r Resolver, path string) (any, error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return elementFromMap(c, r, path)
	case string, int, bool:
		return c, nil
	default:
		return nil, &CompileError{
			Code:    ErrCodeBadChild,
			Field:   path,
			Message: fmt.Sprintf("child must be an element, string, int, bool or null, got %T", v),
		}
	}
}

func scalarFromValue(v any, path string) (any, error) {
	switch c := v.(type) {
	case string, int, bool:
		return c, nil
	case int64:
		return int(c), nil
	case float64:
		return nil, &CompileError{
			Code:    ErrCodeBadProp,
			Field:   path,
			Message: "float values are not supported, use int",
		}
	default:
		return nil, &CompileError{
			Code:    ErrCodeBadProp,
			Field:   path,
			Message: fmt.Sprintf("value must be a string, int or bool, got %T", v),
		}
	}
}
