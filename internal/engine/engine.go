package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/arbor/internal/fiber"
	"github.com/roach88/arbor/internal/host"
	"github.com/roach88/arbor/internal/ir"
	"github.com/roach88/arbor/internal/reconcile"
)

// Journal receives one record per commit.
// Implemented by store.Store.
type Journal interface {
	RecordCommit(ctx context.Context, rec ir.CommitRecord) error
}

// RootTag is the type tag of the root node that holds the container
// handle.
const RootTag = "#root"

// DefaultTimeBudget is the time slice requested from the scheduler per
// work tick.
const DefaultTimeBudget = 5 * time.Millisecond

// yieldThreshold: the work loop yields once less than this is left in the
// slice.
const yieldThreshold = time.Millisecond

// State is the work loop state.
type State int

const (
	// Idle: no work in progress.
	Idle State = iota
	// Building: a work in progress tree is being built.
	Building
	// Committing: the commit phase is running.
	Committing
)

func (s State) String() string {
	switch s {
	case Building:
		return "building"
	case Committing:
		return "committing"
	default:
		return "idle"
	}
}

// Stats counts engine activity since construction.
type Stats struct {
	Builds   int64
	Discards int64
	Commits  int64
	Units    int64
	Yields   int64
	Effects  int64
}

// Engine is the single-writer render loop for one render root.
//
// Thread-safety model:
//   - Render(), Dispatch(), ScheduleUpdate(): safe from any goroutine
//   - Run(), Flush(), Step(): drive the loop; call from one goroutine at a time
//   - accessors (Current, NextUnit, Arena, ...): driver goroutine only
//
// State setters returned by hooks must run on the driver goroutine: inside
// a render, an effect or a Dispatch callback.
type Engine struct {
	host      host.Host
	arena     *fiber.Arena
	rec       *reconcile.Reconciler
	queue     *taskQueue
	scheduler host.Scheduler
	budget    time.Duration
	mode      reconcile.Mode
	journal   Journal
	sessions  SessionGenerator
	session   string
	seq       *Sequencer
	logger    *slog.Logger

	// Render root.
	current         fiber.NodeID
	wip             fiber.NodeID
	nextUnit        fiber.NodeID
	pendingRemovals []fiber.NodeID
	effects         effectQueue
	state           State
	deferredUpdate  bool

	// Per-build counters reported in the commit record.
	buildUnits  int64
	buildYields int64

	mu              sync.Mutex
	updateScheduled bool
	workScheduled   bool

	statsMu sync.Mutex
	stats   Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeBudget sets the time slice requested per work tick.
//
// Default: 5ms (DefaultTimeBudget). The loop yields when less than 1ms of
// the slice remains.
func WithTimeBudget(d time.Duration) Option {
	return func(e *Engine) {
		e.budget = d
	}
}

// WithScheduler sets the scheduling primitive consulted after every unit.
// Default: host.WallClock.
func WithScheduler(s host.Scheduler) Option {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// WithReconcileMode selects positional (default) or keyed child matching.
func WithReconcileMode(m reconcile.Mode) Option {
	return func(e *Engine) {
		e.mode = m
	}
}

// WithJournal records every commit in j.
func WithJournal(j Journal) Option {
	return func(e *Engine) {
		e.journal = j
	}
}

// WithSession fixes the session token instead of generating one.
func WithSession(session string) Option {
	return func(e *Engine) {
		e.session = session
	}
}

// WithSessionGenerator sets the generator used for the session token.
// Default: UUIDv7Generator.
func WithSessionGenerator(g SessionGenerator) Option {
	return func(e *Engine) {
		e.sessions = g
	}
}

// WithSequencer sets the generation sequencer, to continue numbering from
// an earlier run.
func WithSequencer(s *Sequencer) Option {
	return func(e *Engine) {
		e.seq = s
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine that renders into h.
func New(h host.Host, opts ...Option) *Engine {
	e := &Engine{
		host:      h,
		arena:     fiber.NewArena(),
		queue:     newTaskQueue(),
		scheduler: host.WallClock{},
		budget:    DefaultTimeBudget,
		mode:      reconcile.Positional,
		sessions:  UUIDv7Generator{},
		seq:       NewSequencer(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.rec = reconcile.New(e.arena, e.mode)
	return e
}

// Render schedules a build of el into container. Calling Render again
// with the same container diffs el against the committed tree.
// Thread-safe: may be called from any goroutine.
//
// Returns false if the engine has been stopped.
func (e *Engine) Render(el fiber.Element, container fiber.Handle) bool {
	return e.queue.Enqueue(task{kind: taskMount, element: el, container: container})
}

// Dispatch runs fn on the driver goroutine. State setters called from fn
// are batched into one update.
// Thread-safe: may be called from any goroutine.
func (e *Engine) Dispatch(fn func()) bool {
	return e.queue.Enqueue(task{kind: taskCall, fn: fn})
}

// ScheduleUpdate requests a re-render of the whole root. Calls made before
// the update task runs collapse into one.
// Thread-safe: may be called from any goroutine.
func (e *Engine) ScheduleUpdate() {
	e.mu.Lock()
	if e.updateScheduled {
		e.mu.Unlock()
		return
	}
	e.updateScheduled = true
	e.mu.Unlock()

	if !e.queue.Enqueue(task{kind: taskUpdate}) {
		e.mu.Lock()
		e.updateScheduled = false
		e.mu.Unlock()
	}
}

// Run drives the task loop.
// Blocks until context is cancelled or Stop() is called.
//
// ERROR HANDLING: a failed task is logged and the loop continues. A failed
// render leaves the current tree in place; the next update retries it.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine starting", "session", e.session)

	for {
		t, ok := e.queue.TryDequeue()
		if ok {
			if err := e.process(ctx, t); err != nil {
				e.logger.Error("task failed", "task", t.kind.String(), "error", err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			// The signal channel closes with the queue, so a closed and
			// empty queue ends the loop.
			if e.queue.Closed() && e.queue.Len() == 0 {
				e.logger.Info("engine stopping: queue closed")
				return nil
			}
		}
	}
}

// Flush runs queued tasks until the queue is empty, including the tasks
// those tasks enqueue. It returns every task error joined.
func (e *Engine) Flush(ctx context.Context) error {
	var errs []error
	for {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		ran, err := e.Step(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		if !ran {
			return errors.Join(errs...)
		}
	}
}

// Step runs a single queued task. It reports false when the queue was
// empty.
func (e *Engine) Step(ctx context.Context) (bool, error) {
	t, ok := e.queue.TryDequeue()
	if !ok {
		return false, nil
	}
	return true, e.process(ctx, t)
}

// Stop closes the task queue, which causes Run() to return.
func (e *Engine) Stop() {
	e.queue.Close()
}

// Pending returns the number of queued tasks.
func (e *Engine) Pending() int {
	return e.queue.Len()
}

// process routes a task to its handler.
// Called only from the driver goroutine.
func (e *Engine) process(ctx context.Context, t task) error {
	switch t.kind {
	case taskMount:
		return e.mount(t.element, t.container)
	case taskUpdate:
		return e.update()
	case taskWork:
		return e.work(ctx)
	case taskCall:
		return e.call(t.fn)
	default:
		return fmt.Errorf("unknown task kind: %d", t.kind)
	}
}

// mount starts a build of el into container, diffed against the committed
// tree.
func (e *Engine) mount(el fiber.Element, container fiber.Handle) error {
	if cur := e.arena.Get(e.current); cur != nil && !fiber.Same(cur.Handle, container) {
		return fmt.Errorf("render into %v: engine already renders into %v", container, cur.Handle)
	}
	e.discard()

	id := e.arena.Alloc(fiber.Element{
		Type:  fiber.Tag(RootTag),
		Props: fiber.Props{Children: []fiber.Element{el}},
	})
	root := e.arena.Get(id)
	root.Handle = container
	root.Alternate = e.current
	root.FirstRender = false

	e.start(id)
	return nil
}

// update starts a build rooted at a copy of the current root. An update
// during a build restarts that build from its own root description; an
// update during the very first build waits for that build to commit.
func (e *Engine) update() error {
	e.mu.Lock()
	e.updateScheduled = false
	e.mu.Unlock()

	src := e.current
	if e.wip != fiber.None {
		if e.current == fiber.None {
			e.deferredUpdate = true
			return nil
		}
		src = e.wip
	}
	if src == fiber.None {
		return nil
	}

	from := e.arena.Get(src)
	el := fiber.Element{Type: from.Type, Key: from.Key, Props: from.Props}
	handle := from.Handle
	e.discard()

	id := e.arena.Alloc(el)
	root := e.arena.Get(id)
	root.Handle = handle
	root.Alternate = e.current
	root.FirstRender = false

	e.start(id)
	return nil
}

// call runs a Dispatch callback, recovering a panic into an error.
func (e *Engine) call(fn func()) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch callback panicked: %v", r)
		}
	}()
	fn()
	return nil
}

// start makes root the work in progress and schedules the first tick.
func (e *Engine) start(root fiber.NodeID) {
	e.wip = root
	e.nextUnit = root
	e.state = Building
	e.buildUnits = 0
	e.buildYields = 0
	e.count(func(s *Stats) { s.Builds++ })
	e.logger.Debug("build started", "root", root, "alternate", e.arena.Get(root).Alternate)
	e.scheduleWork()
}

// discard drops the work in progress wholesale.
func (e *Engine) discard() {
	if e.wip == fiber.None {
		return
	}
	freed := e.arena.FreeTree(e.wip)
	for _, id := range e.pendingRemovals {
		if n := e.arena.Get(id); n != nil {
			n.Effect = fiber.EffectNone
		}
	}
	e.pendingRemovals = nil
	e.effects.reset()
	e.wip = fiber.None
	e.nextUnit = fiber.None
	e.state = Idle
	e.count(func(s *Stats) { s.Discards++ })
	e.logger.Debug("work in progress discarded", "nodes", freed)
}

func (e *Engine) scheduleWork() {
	e.mu.Lock()
	if e.workScheduled {
		e.mu.Unlock()
		return
	}
	e.workScheduled = true
	e.mu.Unlock()

	if !e.queue.Enqueue(task{kind: taskWork}) {
		e.mu.Lock()
		e.workScheduled = false
		e.mu.Unlock()
	}
}

// Session returns the session token, generating it on first use.
func (e *Engine) Session() string {
	if e.session == "" {
		e.session = e.sessions.Generate()
	}
	return e.session
}

// State returns the work loop state.
func (e *Engine) State() State {
	return e.state
}

// NextUnit returns the node the next work tick starts at, or fiber.None.
func (e *Engine) NextUnit() fiber.NodeID {
	return e.nextUnit
}

// Current returns the root of the committed tree, or fiber.None.
func (e *Engine) Current() fiber.NodeID {
	return e.current
}

// WorkInProgress returns the root of the tree under construction, or
// fiber.None.
func (e *Engine) WorkInProgress() fiber.NodeID {
	return e.wip
}

// PendingRemovals returns the nodes slated for detachment by the next
// commit.
func (e *Engine) PendingRemovals() []fiber.NodeID {
	return append([]fiber.NodeID(nil), e.pendingRemovals...)
}

// Arena returns the node arena.
func (e *Engine) Arena() *fiber.Arena {
	return e.arena
}

// Generation returns the generation of the last commit, 0 before the
// first.
func (e *Engine) Generation() int64 {
	return e.seq.Current()
}

// Mode returns the reconcile mode.
func (e *Engine) Mode() reconcile.Mode {
	return e.mode
}

// Stats returns activity counters. Safe from any goroutine.
func (e *Engine) Stats() Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.stats
}

func (e *Engine) count(f func(*Stats)) {
	e.statsMu.Lock()
	f(&e.stats)
	e.statsMu.Unlock()
}

// effectQueue collects the effects queued during one build.
type effectQueue struct {
	layout  []fiber.QueuedEffect
	passive []fiber.QueuedEffect
}

// QueueEffect implements fiber.EffectSink.
func (q *effectQueue) QueueEffect(eff fiber.QueuedEffect) {
	if eff.Layout {
		q.layout = append(q.layout, eff)
	} else {
		q.passive = append(q.passive, eff)
	}
}

func (q *effectQueue) reset() {
	q.layout = nil
	q.passive = nil
}
