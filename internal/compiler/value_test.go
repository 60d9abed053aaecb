package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/arbor/internal/fiber"
)

func decodeYAML(t *testing.T, src string) any {
	t.Helper()
	var v any
	require.NoError(t, yaml.Unmarshal([]byte(src), &v))
	return v
}

func TestElementFromValue(t *testing.T) {
	v := decodeYAML(t, `
type: ul
props: {z: 1, a: "x"}
children:
  - {type: li, key: 1, children: [one]}
  - {type: Counter, key: c, props: {start: 3}}
  - null
`)

	el, err := ElementFromValue(v, testResolver())
	require.NoError(t, err)

	assert.Equal(t, "ul", el.Type.Tag())
	assert.Equal(t, []string{"a", "z"}, el.Props.Names(), "props sorted by name")
	require.Len(t, el.Props.Children, 3)
	li := el.Props.Children[0]
	assert.Equal(t, "1", li.Key)
	assert.Equal(t, []fiber.Element{fiber.Text("one")}, li.Props.Children)
	assert.Same(t, counter, el.Props.Children[1].Type.Component())
	assert.Equal(t, 3, el.Props.Children[1].Props.Value("start"))
	assert.True(t, el.Props.Children[2].IsEmpty())
}

func TestElementFromValueScalars(t *testing.T) {
	el, err := ElementFromValue("hello", nil)
	require.NoError(t, err)
	assert.Equal(t, fiber.Text("hello"), el)

	el, err = ElementFromValue(nil, nil)
	require.NoError(t, err)
	assert.True(t, el.IsEmpty())
}

func TestElementFromValueErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"missing type", `{props: {a: 1}}`, ErrCodeMissingType},
		{"unknown component", `{type: Ghost}`, ErrCodeUnknownComponent},
		{"float prop", `{type: p, props: {w: 1.5}}`, ErrCodeBadProp},
		{"props not a mapping", `{type: p, props: [1]}`, ErrCodeBadProp},
		{"children not a list", `{type: p, children: x}`, ErrCodeBadChild},
		{"float child", `{type: p, children: [1.5]}`, ErrCodeBadChild},
		{"unknown field", `{type: p, colour: red}`, ErrCodeUnknownField},
		{"bad key", `{type: p, key: [1]}`, ErrCodeBadKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ElementFromValue(decodeYAML(t, tt.src), testResolver())
			requireCode(t, err, tt.code)
		})
	}
}
