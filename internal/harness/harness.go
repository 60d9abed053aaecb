package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/arbor/internal/compiler"
	"github.com/roach88/arbor/internal/components"
	"github.com/roach88/arbor/internal/engine"
	"github.com/roach88/arbor/internal/fiber"
	"github.com/roach88/arbor/internal/host"
	"github.com/roach88/arbor/internal/reconcile"
	"github.com/roach88/arbor/internal/store"
	"github.com/roach88/arbor/internal/testutil"
)

// Harness holds the per-scenario fixtures.
type Harness struct {
	store    *store.Store
	engine   *engine.Engine
	host     *host.Memory
	controls *components.Controls
	registry *components.Registry
	logger   *slog.Logger
}

// Option configures a harness run.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes engine and host logs to logger. Logs are discarded by
// default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory host and database for
// isolation.
//
// Execution flow:
// 1. Create the in-memory journal, host and engine
// 2. Execute steps, flushing the engine after each
// 3. Collect the trace, HTML and journal
// 4. Evaluate assertions
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	mode, err := reconcile.ParseMode(scenario.Mode)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	mem := host.NewMemory()
	mem.SetLogger(o.logger)
	controls := components.NewControls()

	eng := engine.New(mem,
		engine.WithLogger(o.logger),
		engine.WithJournal(st),
		engine.WithSessionGenerator(testutil.NewFixedSessionGenerator(scenario.Session)),
		engine.WithScheduler(testutil.NewUnitScheduler(scenario.Units)),
		engine.WithReconcileMode(mode),
	)
	defer eng.Stop()

	h := &Harness{
		store:    st,
		engine:   eng,
		host:     mem,
		controls: controls,
		registry: components.Default(controls),
		logger:   o.logger,
	}

	ctx := context.Background()
	result := NewResult()
	result.Session = eng.Session()

	for i, step := range scenario.Steps {
		err := h.executeStep(ctx, scenario, step)
		switch {
		case err != nil && step.ExpectError == "":
			result.AddError(fmt.Sprintf("steps[%d]: %v", i, err))
		case err == nil && step.ExpectError != "":
			result.AddError(fmt.Sprintf("steps[%d]: expected error containing %q, got none", i, step.ExpectError))
		case err != nil && !strings.Contains(err.Error(), step.ExpectError):
			result.AddError(fmt.Sprintf("steps[%d]: expected error containing %q, got: %v", i, step.ExpectError, err))
		}
	}

	result.Trace = mem.Log()
	result.HTML = mem.HTML()
	result.Commits = eng.Stats().Commits
	journal, err := st.ListCommits(ctx, result.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	result.Journal = journal

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// executeStep runs one step and flushes the engine.
func (h *Harness) executeStep(ctx context.Context, scenario *Scenario, step Step) error {
	switch {
	case step.Render != nil:
		el, err := compiler.ElementFromValue(step.Render, h.registry)
		if err != nil {
			return err
		}
		return h.mount(ctx, el)

	case step.View != "":
		el, err := compiler.LoadView(scenario.viewPath(step.View), h.registry)
		if err != nil {
			return err
		}
		return h.mount(ctx, el)

	default:
		return h.invoke(ctx, step)
	}
}

func (h *Harness) mount(ctx context.Context, el fiber.Element) error {
	if !h.engine.Render(el, h.host.Container()) {
		return fmt.Errorf("engine stopped")
	}
	return h.engine.Flush(ctx)
}

// invoke runs a component action on the engine's driver. Unbatched calls
// are flushed one at a time so each commits on its own.
func (h *Harness) invoke(ctx context.Context, step Step) error {
	times := step.Times
	if times == 0 {
		times = 1
	}
	calls := 1
	per := times
	if !step.Batch {
		calls, per = times, 1
	}

	var errs []error
	for i := 0; i < calls; i++ {
		var invokeErr error
		h.engine.Dispatch(func() {
			for j := 0; j < per && invokeErr == nil; j++ {
				invokeErr = h.controls.Invoke(step.Invoke)
			}
		})
		if err := h.engine.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
		if invokeErr != nil {
			errs = append(errs, invokeErr)
			break
		}
	}
	return errors.Join(errs...)
}
