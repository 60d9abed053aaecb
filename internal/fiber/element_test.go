package fiber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildren_Normalisation(t *testing.T) {
	span := H("span", nil)
	kids := Children("hi", 3, nil, span, &span, []Element{H("a", nil), H("b", nil)})

	require.Len(t, kids, 7)
	assert.Equal(t, Text("hi"), kids[0])
	assert.Equal(t, TextType, kids[1].Type)
	assert.Equal(t, 3, kids[1].Props.Value(ValueAttr))
	assert.True(t, kids[2].IsEmpty())
	assert.Equal(t, span, kids[3])
	assert.Equal(t, span, kids[4])
	assert.Equal(t, "a", kids[5].Type.Tag())
	assert.Equal(t, "b", kids[6].Type.Tag())
}

func TestText_HasNoChildren(t *testing.T) {
	el := Text("x")
	assert.True(t, el.Type.IsText())
	assert.True(t, el.Type.IsHost())
	assert.NotNil(t, el.Props.Children)
	assert.Empty(t, el.Props.Children)
}

func TestElementBuildersDropChildrenAttr(t *testing.T) {
	el := H("div", A("children", "nope", "id", "main"), "text")
	assert.Equal(t, []string{"id"}, el.Props.Names())
	assert.Len(t, el.Props.Children, 1)
}

func TestTypeIdentity(t *testing.T) {
	render := func(c *Context, p Props) Element { return Element{} }
	a := NewComponent("Same", render)
	b := NewComponent("Same", render)

	assert.Equal(t, ComponentType(a), ComponentType(a))
	assert.NotEqual(t, ComponentType(a), ComponentType(b), "components compare by pointer")
	assert.Equal(t, Tag("div"), Tag("div"))
	assert.True(t, Type{}.IsZero())
	assert.Equal(t, "<empty>", Type{}.String())
	assert.Equal(t, "Same", C(a, nil).Type.String())
	assert.True(t, C(a, nil).Type.IsComponent())
	assert.False(t, C(a, nil).Type.IsHost())
}

func TestNodeName(t *testing.T) {
	n := &Node{Type: Tag("li"), Key: "7"}
	assert.Equal(t, "li#7", n.Name())
	n.Key = ""
	assert.Equal(t, "li", n.Name())
}

func TestEffectTagString(t *testing.T) {
	assert.Equal(t, "none", EffectNone.String())
	assert.Equal(t, "create", EffectCreate.String())
	assert.Equal(t, "update", EffectUpdate.String())
	assert.Equal(t, "remove", EffectRemove.String())
}
