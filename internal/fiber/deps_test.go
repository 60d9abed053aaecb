package fiber

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepsChanged(t *testing.T) {
	tests := []struct {
		name string
		prev Deps
		next Deps
		want bool
	}{
		{"no list supplied", Deps{1}, nil, true},
		{"no previous list", nil, Deps{1}, true},
		{"both empty", DepsOf(), DepsOf(), false},
		{"length differs", Deps{1}, Deps{1, 2}, true},
		{"same values", Deps{1, "a", true}, Deps{1, "a", true}, false},
		{"value differs", Deps{1, "a"}, Deps{1, "b"}, true},
		{"type differs", Deps{1}, Deps{int64(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DepsChanged(tt.prev, tt.next))
		})
	}
}

func TestSame(t *testing.T) {
	type point struct{ X, Y int }
	m := map[string]int{"a": 1}
	s := []int{1, 2, 3}
	p := &point{1, 2}
	f := func() {}

	assert.True(t, Same(nil, nil))
	assert.False(t, Same(nil, 0))
	assert.True(t, Same(point{1, 2}, point{1, 2}), "comparable structs by value")
	assert.True(t, Same(m, m), "maps by identity")
	assert.False(t, Same(m, map[string]int{"a": 1}))
	assert.True(t, Same(s, s), "slices by identity")
	assert.False(t, Same(s, s[:2]), "same backing array, different length")
	assert.False(t, Same(s, []int{1, 2, 3}))
	assert.True(t, Same(p, p))
	assert.False(t, Same(p, &point{1, 2}))
	assert.False(t, Same(f, f), "funcs are never the same")
}

func TestSameIncomparableDynamicValue(t *testing.T) {
	type holder struct{ V any }
	a := holder{V: []int{1}}
	assert.False(t, Same(a, a))
}

func TestDepsOf(t *testing.T) {
	assert.NotNil(t, DepsOf())
	assert.Len(t, DepsOf(), 0)
	assert.Equal(t, Deps{1, "x"}, DepsOf(1, "x"))
}
