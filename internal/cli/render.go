package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/arbor/internal/compiler"
	"github.com/roach88/arbor/internal/components"
	"github.com/roach88/arbor/internal/engine"
	"github.com/roach88/arbor/internal/host"
	"github.com/roach88/arbor/internal/metrics"
	"github.com/roach88/arbor/internal/reconcile"
	"github.com/roach88/arbor/internal/store"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	DBPath  string        // optional commit journal
	Budget  time.Duration // time slice per work tick
	Keyed   bool          // keyed child matching
	Session string        // session token; continues an existing session
	Invoke  []string      // component actions run after the mount
	Fibers  bool          // print the fiber tree instead of the host tree
	Metrics bool          // print engine metrics
}

// RenderResult is the JSON payload of the render command.
type RenderResult struct {
	HTML       string             `json:"html"`
	Session    string             `json:"session"`
	Generation int64              `json:"generation"`
	Commits    int64              `json:"commits"`
	Units      int64              `json:"units"`
	Yields     int64              `json:"yields"`
	Actions    []string           `json:"actions"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <view.cue>",
		Short: "Render a CUE view into the in-memory host",
		Long: `Compile a CUE view, render it with the built-in components and print
the resulting host tree.

With --db every commit is journaled to SQLite. Passing --session with an
existing token continues that session's generations.

Examples:
  arbor render ./views/app.cue
  arbor render ./views/app.cue --invoke hits.increment --invoke hits.increment
  arbor render ./views/app.cue --db arbor.db --keyed
  arbor render ./views/app.cue --fibers --metrics
  arbor render ./views/app.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite commit journal")
	cmd.Flags().DurationVar(&opts.Budget, "budget", engine.DefaultTimeBudget, "time slice per work tick")
	cmd.Flags().BoolVar(&opts.Keyed, "keyed", false, "match children by key")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token (default: new UUIDv7)")
	cmd.Flags().StringArrayVar(&opts.Invoke, "invoke", nil, "component action to run after mounting (repeatable)")
	cmd.Flags().BoolVar(&opts.Fibers, "fibers", false, "print the fiber tree with hook slots")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print engine metrics")

	return cmd
}

func runRender(ctx context.Context, opts *RenderOptions, viewPath string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(viewPath); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("view not found: %s", viewPath), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("view not found: %s", viewPath))
	}

	controls := components.NewControls()
	registry := components.Default(controls)

	el, err := compiler.LoadView(viewPath, registry)
	if err != nil {
		_ = formatter.Error(ErrCodeCompile, err.Error(), compileDetails(err))
		return WrapExitError(ExitFailure, "compile failed", err)
	}

	mode := reconcile.Positional
	if opts.Keyed {
		mode = reconcile.Keyed
	}

	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())
	mem := host.NewMemory()
	mem.SetLogger(logger)

	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithTimeBudget(opts.Budget),
		engine.WithReconcileMode(mode),
	}
	if opts.Session != "" {
		engineOpts = append(engineOpts, engine.WithSession(opts.Session))
	}

	if opts.DBPath != "" {
		st, err := store.Open(opts.DBPath)
		if err != nil {
			_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		if opts.Session != "" {
			last, err := lastGeneration(ctx, st, opts.Session)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read journal", err)
			}
			formatter.VerboseLog("Continuing session %s after generation %d", opts.Session, last)
			engineOpts = append(engineOpts, engine.WithSequencer(engine.NewSequencerAt(last)))
		}
		engineOpts = append(engineOpts, engine.WithJournal(st))
	}

	eng := engine.New(mem, engineOpts...)
	defer eng.Stop()

	eng.Render(el, mem.Container())
	if err := eng.Flush(ctx); err != nil {
		_ = formatter.Error(ErrCodeRender, err.Error(), nil)
		return WrapExitError(ExitFailure, "render failed", err)
	}

	for _, action := range opts.Invoke {
		var invokeErr error
		eng.Dispatch(func() {
			invokeErr = controls.Invoke(action)
		})
		flushErr := eng.Flush(ctx)
		if err := errors.Join(invokeErr, flushErr); err != nil {
			_ = formatter.Error(ErrCodeRender, err.Error(), map[string]string{"action": action})
			return WrapExitError(ExitFailure, fmt.Sprintf("invoke %s failed", action), err)
		}
		formatter.VerboseLog("Invoked %s", action)
	}

	var snapshot map[string]float64
	if opts.Metrics {
		reg, err := metrics.NewRegistry(metrics.NewCollector(eng, eng.Session()))
		if err != nil {
			return WrapExitError(ExitFailure, "metrics", err)
		}
		if snapshot, err = metrics.Snapshot(reg); err != nil {
			return WrapExitError(ExitFailure, "metrics", err)
		}
	}

	stats := eng.Stats()
	if formatter.IsJSON() {
		return formatter.Success(RenderResult{
			HTML:       mem.HTML(),
			Session:    eng.Session(),
			Generation: eng.Generation(),
			Commits:    stats.Commits,
			Units:      stats.Units,
			Yields:     stats.Yields,
			Actions:    controls.Names(),
			Metrics:    snapshot,
		})
	}

	w := formatter.Writer
	if opts.Fibers {
		fmt.Fprint(w, eng.Dump())
	} else {
		fmt.Fprint(w, mem.Tree())
	}
	fmt.Fprintf(w, "session %s, generation %d, %d commit(s), %d unit(s), %d yield(s)\n",
		eng.Session(), eng.Generation(), stats.Commits, stats.Units, stats.Yields)
	if snapshot != nil {
		return metrics.WriteText(w, snapshot)
	}
	return nil
}

// lastGeneration returns the highest generation journaled for session, or
// 0 when the session is new.
func lastGeneration(ctx context.Context, st *store.Store, session string) (int64, error) {
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return 0, err
	}
	for _, s := range sessions {
		if s.Token == session {
			return s.Last, nil
		}
	}
	return 0, nil
}

// compileDetails returns the position of a compile error for JSON output.
func compileDetails(err error) map[string]any {
	var ce *compiler.CompileError
	if !errors.As(err, &ce) {
		return nil
	}
	details := map[string]any{"code": ce.Code, "field": ce.Field}
	if ce.Pos.IsValid() {
		details["file"] = ce.Pos.Filename()
		details["line"] = ce.Pos.Line()
		details["column"] = ce.Pos.Column()
	}
	return details
}
