package compiler

import (
	"fmt"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"

	"github.com/roach88/arbor/internal/fiber"
)

// ViewField is the top-level field holding a file's root element.
const ViewField = "view"

// Element fields.
const (
	fieldType     = "type"
	fieldKey      = "key"
	fieldProps    = "props"
	fieldChildren = "children"
)

// Resolver maps component names to components.
type Resolver interface {
	Component(name string) (*fiber.Component, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (*fiber.Component, bool)

// Component implements Resolver.
func (f ResolverFunc) Component(name string) (*fiber.Component, bool) {
	return f(name)
}

// LoadView reads a CUE file and compiles its view field.
func LoadView(path string, r Resolver) (fiber.Element, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return fiber.Element{}, fmt.Errorf("read view: %w", err)
	}
	return CompileSource(path, src, r)
}

// CompileSource compiles CUE source holding a view field. filename is used
// for error positions only.
func CompileSource(filename string, src []byte, r Resolver) (fiber.Element, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return fiber.Element{}, formatCUEError(err)
	}
	view := v.LookupPath(cue.ParsePath(ViewField))
	if !view.Exists() {
		return fiber.Element{}, &CompileError{
			Code:    ErrCodeMissingView,
			Field:   ViewField,
			Message: "view is required",
			Pos:     v.Pos(),
		}
	}
	return CompileView(view, r)
}

// CompileView compiles a CUE element struct. Uses the CUE SDK's Go API
// directly:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`view: {type: "p", children: ["hi"]}`)
//	el, err := CompileView(v.LookupPath(cue.ParsePath("view")), resolver)
func CompileView(v cue.Value, r Resolver) (fiber.Element, error) {
	if err := v.Err(); err != nil {
		return fiber.Element{}, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fiber.Element{}, formatCUEError(err)
	}
	return compileElement(v, r, "view")
}

func compileElement(v cue.Value, r Resolver, path string) (fiber.Element, error) {
	iter, err := v.Fields()
	if err != nil {
		return fiber.Element{}, formatCUEError(err)
	}
	for iter.Next() {
		switch iter.Label() {
		case fieldType, fieldKey, fieldProps, fieldChildren:
		default:
			return fiber.Element{}, &CompileError{
				Code:    ErrCodeUnknownField,
				Field:   path + "." + iter.Label(),
				Message: "elements have only type, key, props and children",
				Pos:     iter.Value().Pos(),
			}
		}
	}

	typeVal := v.LookupPath(cue.ParsePath(fieldType))
	if !typeVal.Exists() {
		return fiber.Element{}, &CompileError{
			Code:    ErrCodeMissingType,
			Field:   path + ".type",
			Message: "type is required",
			Pos:     v.Pos(),
		}
	}
	name, err := typeVal.String()
	if err != nil {
		return fiber.Element{}, &CompileError{
			Code:    ErrCodeMissingType,
			Field:   path + ".type",
			Message: "type must be a string",
			Pos:     typeVal.Pos(),
		}
	}
	typ, err := resolveType(name, r, path+".type", typeVal.Pos())
	if err != nil {
		return fiber.Element{}, err
	}

	var key string
	if keyVal := v.LookupPath(cue.ParsePath(fieldKey)); keyVal.Exists() {
		key, err = cueKey(keyVal, path+".key")
		if err != nil {
			return fiber.Element{}, err
		}
	}

	var attrs []fiber.Attr
	if propsVal := v.LookupPath(cue.ParsePath(fieldProps)); propsVal.Exists() {
		attrs, err = compileProps(propsVal, path+".props")
		if err != nil {
			return fiber.Element{}, err
		}
	}

	var children []any
	if kidsVal := v.LookupPath(cue.ParsePath(fieldChildren)); kidsVal.Exists() {
		list, err := kidsVal.List()
		if err != nil {
			return fiber.Element{}, &CompileError{
				Code:    ErrCodeBadChild,
				Field:   path + ".children",
				Message: "children must be a list",
				Pos:     kidsVal.Pos(),
			}
		}
		for i := 0; list.Next(); i++ {
			child, err := compileChild(list.Value(), r, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return fiber.Element{}, err
			}
			children = append(children, child)
		}
	}

	return fiber.El(typ, attrs, children...).WithKey(key), nil
}

func compileChild(v cue.Value, r Resolver, path string) (any, error) {
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.StructKind:
		return compileElement(v, r, path)
	case cue.StringKind, cue.IntKind, cue.BoolKind:
		return cueScalar(v, path)
	default:
		return nil, &CompileError{
			Code:    ErrCodeBadChild,
			Field:   path,
			Message: fmt.Sprintf("child must be an element, string, int, bool or null, got %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// compileProps keeps declaration order.
func compileProps(v cue.Value, path string) ([]fiber.Attr, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, &CompileError{
			Code:    ErrCodeBadProp,
			Field:   path,
			Message: "props must be a struct",
			Pos:     v.Pos(),
		}
	}
	var attrs []fiber.Attr
	for iter.Next() {
		val, err := cueScalar(iter.Value(), path+"."+iter.Label())
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, fiber.Attr{Name: iter.Label(), Value: val})
	}
	return attrs, nil
}

func cueScalar(v cue.Value, path string) (any, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		return s, err
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return int(n), nil
	case cue.BoolKind:
		b, err := v.Bool()
		return b, err
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Code:    ErrCodeBadProp,
			Field:   path,
			Message: "float values are not supported, use int",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Code:    ErrCodeBadProp,
			Field:   path,
			Message: fmt.Sprintf("value must be a string, int or bool, got %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

func cueKey(v cue.Value, path string) (string, error) {
	switch v.Kind() {
	case cue.StringKind:
		return v.String()
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return "", formatCUEError(err)
		}
		return strconv.FormatInt(n, 10), nil
	default:
		return "", &CompileError{
			Code:    ErrCodeBadKey,
			Field:   path,
			Message: "key must be a string or int",
			Pos:     v.Pos(),
		}
	}
}

// resolveType maps a type name to a host tag or a registered component.
func resolveType(name string, r Resolver, path string, pos token.Pos) (fiber.Type, error) {
	if name == "" {
		return fiber.Type{}, &CompileError{
			Code:    ErrCodeMissingType,
			Field:   path,
			Message: "type must not be empty",
			Pos:     pos,
		}
	}
	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) {
		return fiber.Tag(name), nil
	}
	if r != nil {
		if comp, ok := r.Component(name); ok {
			return fiber.ComponentType(comp), nil
		}
	}
	return fiber.Type{}, &CompileError{
		Code:    ErrCodeUnknownComponent,
		Field:   path,
		Message: fmt.Sprintf("unknown component %q", name),
		Pos:     pos,
	}
}
