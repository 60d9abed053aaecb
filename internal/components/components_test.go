package components

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/engine"
	"github.com/roach88/arbor/internal/fiber"
	"github.com/roach88/arbor/internal/host"
	"github.com/roach88/arbor/internal/reconcile"
	"github.com/roach88/arbor/internal/testutil"
)

type fixture struct {
	eng      *engine.Engine
	mem      *host.Memory
	controls *Controls
	reg      *Registry
}

func newFixture(t *testing.T, opts ...engine.Option) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := host.NewMemory()
	mem.SetLogger(logger)
	controls := NewControls()
	base := []engine.Option{
		engine.WithLogger(logger),
		engine.WithSessionGenerator(testutil.NewFixedSessionGenerator("components")),
		engine.WithScheduler(testutil.NewUnitScheduler(0)),
	}
	return &fixture{
		eng:      engine.New(mem, append(base, opts...)...),
		mem:      mem,
		controls: controls,
		reg:      Default(controls),
	}
}

func (f *fixture) render(t *testing.T, el fiber.Element) {
	t.Helper()
	require.True(t, f.eng.Render(el, f.mem.Container()))
	require.NoError(t, f.eng.Flush(context.Background()))
}

func (f *fixture) invoke(t *testing.T, action string) {
	t.Helper()
	var err error
	require.True(t, f.eng.Dispatch(func() { err = f.controls.Invoke(action) }))
	require.NoError(t, f.eng.Flush(context.Background()))
	require.NoError(t, err)
}

func (f *fixture) component(t *testing.T, name string) *fiber.Component {
	t.Helper()
	c, ok := f.reg.Component(name)
	require.True(t, ok, "component %q", name)
	return c
}

func TestCounter_MountPublishesActions(t *testing.T) {
	f := newFixture(t)

	f.render(t, fiber.C(f.component(t, "Counter"), nil))

	assert.Equal(t,
		`<div class="counter" data-name="counter"><span class="count">0</span><span class="doubled">0</span>`+
			`<span class="total">0</span><button data-action="counter.increment">+1</button></div>`,
		f.mem.HTML())
	assert.Equal(t, []string{"counter.increment", "counter.reset"}, f.controls.Names())
}

func TestCounter_IncrementAndReset(t *testing.T) {
	f := newFixture(t)
	f.render(t, fiber.C(f.component(t, "Counter"), fiber.A("name", "c", "start", 1, "step", 5)))

	f.invoke(t, "c.increment")
	f.invoke(t, "c.increment")

	assert.Equal(t,
		`<div class="counter" data-name="c"><span class="count">11</span><span class="doubled">22</span>`+
			`<span class="total">10</span><button data-action="c.increment">+5</button></div>`,
		f.mem.HTML())

	f.invoke(t, "c.reset")

	assert.Contains(t, f.mem.HTML(), `<span class="count">1</span><span class="doubled">2</span>`)
	assert.Contains(t, f.mem.HTML(), `<span class="total">10</span>`, "the running total survives a reset")
	assert.Equal(t, int64(4), f.eng.Generation())
}

func TestCounter_ActionsBatchIntoOneCommit(t *testing.T) {
	f := newFixture(t)
	f.render(t, fiber.C(f.component(t, "Counter"), nil))

	require.True(t, f.eng.Dispatch(func() {
		require.NoError(t, f.controls.Invoke("counter.increment"))
		require.NoError(t, f.controls.Invoke("counter.increment"))
		require.NoError(t, f.controls.Invoke("counter.increment"))
	}))
	require.NoError(t, f.eng.Flush(context.Background()))

	assert.Contains(t, f.mem.HTML(), `<span class="count">3</span>`)
	assert.Equal(t, int64(2), f.eng.Generation())
}

func TestCounter_DumpShowsSlotsAndDebugValue(t *testing.T) {
	f := newFixture(t)
	f.render(t, fiber.C(f.component(t, "Counter"), fiber.A("start", 7)))

	dump := f.eng.Dump()

	assert.Contains(t, dump, "Counter")
	assert.Contains(t, dump, "[count=7]")
	assert.Contains(t, dump, "0 state=7")
	assert.Contains(t, dump, "1 reducer=0")
	assert.Contains(t, dump, "3 memo=14")
}

func TestCounter_TwoInstancesKeepSeparateState(t *testing.T) {
	f := newFixture(t)
	counter := f.component(t, "Counter")
	f.render(t, fiber.H("main", nil,
		fiber.C(counter, fiber.A("name", "a")),
		fiber.C(counter, fiber.A("name", "b")),
	))

	f.invoke(t, "b.increment")

	html := f.mem.HTML()
	assert.Contains(t, html, `data-name="a"><span class="count">0</span>`)
	assert.Contains(t, html, `data-name="b"><span class="count">1</span>`)
}

func TestList_KeyedActions(t *testing.T) {
	f := newFixture(t, engine.WithReconcileMode(reconcile.Keyed))
	f.render(t, fiber.C(f.component(t, "List"), fiber.A("items", "a, b,c")))

	assert.Equal(t, `<ul class="list" data-name="list"><li>a</li><li>b</li><li>c</li></ul>`, f.mem.HTML())

	f.invoke(t, "list.rotate")
	assert.Equal(t, `<ul class="list" data-name="list"><li>b</li><li>c</li><li>a</li></ul>`, f.mem.HTML())

	f.invoke(t, "list.reverse")
	assert.Equal(t, `<ul class="list" data-name="list"><li>a</li><li>c</li><li>b</li></ul>`, f.mem.HTML())

	f.invoke(t, "list.push")
	f.invoke(t, "list.pop")
	f.invoke(t, "list.pop")
	assert.Equal(t, `<ul class="list" data-name="list"><li>a</li><li>c</li></ul>`, f.mem.HTML())
}

func TestList_KeyedMoveKeepsHostNodes(t *testing.T) {
	f := newFixture(t, engine.WithReconcileMode(reconcile.Keyed))
	f.render(t, fiber.C(f.component(t, "List"), fiber.A("items", "x,y")))
	before := f.mem.Size()
	f.mem.Drain()

	f.invoke(t, "list.rotate")

	assert.Equal(t, before, f.mem.Size(), "rotation creates no host nodes")
	for _, m := range f.mem.Drain() {
		assert.NotEqual(t, "create", m.Op)
	}
}

func TestGreeting(t *testing.T) {
	f := newFixture(t)
	f.render(t, fiber.C(f.component(t, "Greeting"), fiber.A("name", "arbor")))
	assert.Equal(t, `<p class="greeting">hello, arbor</p>`, f.mem.HTML())
}

func TestControls_UnknownAction(t *testing.T) {
	c := NewControls()
	err := c.Invoke("nope")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestRegistry(t *testing.T) {
	r := Default(NewControls())

	assert.Equal(t, []string{"Counter", "Greeting", "List"}, r.Names())
	assert.Error(t, r.Register(Greeting()), "duplicate names are rejected")
	assert.Error(t, r.Register(nil))
	assert.Panics(t, func() { r.MustRegister(List(NewControls())) })

	_, ok := r.Component("Missing")
	assert.False(t, ok)
}

func TestListHelpers(t *testing.T) {
	assert.Equal(t, []string{}, SplitItems(" , "))
	assert.Equal(t, []string{"a", "b"}, SplitItems("a,,b"))
	assert.Equal(t, []string{"b", "c", "a"}, Rotate([]string{"a", "b", "c"}))
	assert.Equal(t, []string{"a"}, Rotate([]string{"a"}))
	assert.Equal(t, []string{"c", "b", "a"}, Reverse([]string{"a", "b", "c"}))
}
