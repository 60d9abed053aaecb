package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/roach88/arbor/internal/ir"
	"github.com/roach88/arbor/internal/queryir"
	"github.com/roach88/arbor/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	DBPath  string
	Session string
	Where   []string // field=value change filters
}

// TraceSession is one session in the JSON trace output.
type TraceSession struct {
	Session string            `json:"session"`
	Commits []ir.CommitRecord `json:"commits"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show journaled commits",
		Long: `Print the commits recorded in a journal database, grouped by session,
with the changes each commit applied.

--where keeps only matching changes. Fields are journal columns: tag,
type, key and depth of a change, or session and generation of its commit.

Examples:
  arbor trace --db ./arbor.db
  arbor trace --db ./arbor.db --session 0192f6d2-...
  arbor trace --db ./arbor.db --where tag=move --where type=li
  arbor trace --db ./arbor.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite commit journal")
	cmd.Flags().StringVar(&opts.Session, "session", "", "only show this session")
	cmd.Flags().StringArrayVar(&opts.Where, "where", nil, "change filter field=value (repeatable)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(ctx context.Context, opts *TraceOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	// store.Open would create a missing database.
	if _, err := os.Stat(opts.DBPath); err != nil {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.DBPath), nil)
		return WrapExitError(ExitCommandError, "database not found", err)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	where, err := queryir.ParseWhere(opts.Where)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid --where", err)
	}

	sessions, err := traceSessions(ctx, st, opts.Session, where)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	if opts.Session != "" && where == nil && len(sessions) == 0 {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("no commits for session %s", opts.Session), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("no commits for session %s", opts.Session))
	}

	if formatter.IsJSON() {
		return formatter.Success(sessions)
	}

	switch {
	case len(sessions) == 0 && where != nil:
		fmt.Fprintln(formatter.Writer, "No matching changes.")
		return nil
	case len(sessions) == 0:
		fmt.Fprintln(formatter.Writer, "No commits recorded.")
		return nil
	}
	fmt.Fprint(formatter.Writer, traceTree(opts.DBPath, sessions))
	return nil
}

// traceSessions groups the journal by session. An empty session returns
// every session. With a where predicate only matching changes are kept.
func traceSessions(ctx context.Context, st *store.Store, session string, where queryir.Predicate) ([]TraceSession, error) {
	var (
		commits []ir.CommitRecord
		err     error
	)
	if where == nil {
		commits, err = st.ListCommits(ctx, session)
	} else {
		if session != "" {
			where = queryir.Conjoin(queryir.Equals{Field: "commits.session", Value: session}, where)
		}
		commits, err = st.QueryChanges(ctx, where)
	}
	if err != nil {
		return nil, err
	}
	out := []TraceSession{}
	for _, c := range commits {
		if n := len(out); n == 0 || out[n-1].Session != c.Session {
			out = append(out, TraceSession{Session: c.Session})
		}
		last := &out[len(out)-1]
		last.Commits = append(last.Commits, c)
	}
	return out, nil
}

func traceTree(root string, sessions []TraceSession) string {
	t := treeprint.NewWithRoot(root)
	for _, s := range sessions {
		sb := t.AddMetaBranch("session", s.Session)
		for _, c := range s.Commits {
			cb := sb.AddMetaBranch(fmt.Sprintf("gen %d", c.Generation), commitLabel(c))
			for _, ch := range c.Changes {
				cb.AddMetaNode(ch.Tag, changeLabel(ch))
			}
		}
	}
	return t.String()
}

func commitLabel(c ir.CommitRecord) string {
	id := c.ID
	if len(id) > 12 {
		id = id[:12]
	}
	return fmt.Sprintf("%s units=%d yields=%d layout=%d passive=%d",
		id, c.Units, c.Yields, c.Layout, c.Passive)
}

func changeLabel(ch ir.Change) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", int(ch.Depth)))
	sb.WriteString(ch.Type)
	if ch.Key != "" {
		fmt.Fprintf(&sb, " key=%s", ch.Key)
	}
	if len(ch.Set) > 0 {
		fmt.Fprintf(&sb, " set=%s", strings.Join(ch.Set, ","))
	}
	if len(ch.Cleared) > 0 {
		fmt.Fprintf(&sb, " cleared=%s", strings.Join(ch.Cleared, ","))
	}
	return sb.String()
}
