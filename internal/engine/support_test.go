package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/fiber"
)

func TestSequencer(t *testing.T) {
	s := NewSequencer()
	assert.Equal(t, int64(0), s.Current())
	assert.Equal(t, int64(1), s.Next())
	assert.Equal(t, int64(2), s.Next())
	assert.Equal(t, int64(2), s.Current())

	assert.Equal(t, int64(11), NewSequencerAt(10).Next())
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b, "UUIDv7 tokens sort by creation time")
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("s1", "s2")
	assert.Equal(t, "s1", gen.Generate())
	assert.Equal(t, "s2", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestRenderError_Classification(t *testing.T) {
	n := &fiber.Node{Type: fiber.Tag("div")}

	hook := newRenderError(n, 3, &fiber.HookOrderViolation{Component: "div", Hook: "UseRef"})
	assert.Equal(t, ErrCodeHookOrder, hook.Code)
	assert.True(t, IsHookOrderError(fmt.Errorf("wrapped: %w", hook)))

	dispatch := newRenderError(n, 3, &fiber.DispatchContextError{Hook: "UseState"})
	assert.True(t, IsDispatchContextError(dispatch))
	assert.False(t, IsHookOrderError(dispatch))

	plain := newRenderError(n, 3, errors.New("bad"))
	assert.Equal(t, ErrCodeRenderPanic, plain.Code)
	assert.Equal(t, "RENDER_PANIC: bad (component=div)", plain.Error())

	eff := newEffectError(nil, 0, "oops")
	assert.True(t, IsEffectError(eff))
	assert.Equal(t, "EFFECT_PANIC: oops", eff.Error())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "building", Building.String())
	assert.Equal(t, "committing", Committing.String())
}
