package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/arbor/internal/store"
)

func executeRender(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRenderMissingArgs(t *testing.T) {
	_, err := executeRender(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestRenderViewNotFound(t *testing.T) {
	_, err := executeRender(t, "text", "/nonexistent/app.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "view not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRenderTextTree(t *testing.T) {
	view := writeFile(t, t.TempDir(), "app.cue", testView)

	out, err := executeRender(t, "text", view, "--session", "s-text")
	require.NoError(t, err)
	assert.Contains(t, out, `main #2 id="app"`)
	assert.Contains(t, out, `p #`)
	assert.Contains(t, out, `class="greeting"`)
	assert.Contains(t, out, `data-name="hits"`)
	assert.Contains(t, out, "session s-text, generation 1, 1 commit(s)")
}

func TestRenderFiberDump(t *testing.T) {
	view := writeFile(t, t.TempDir(), "app.cue", testView)

	out, err := executeRender(t, "text", view, "--fibers")
	require.NoError(t, err)
	assert.Contains(t, out, "Counter")
	assert.Contains(t, out, "[count=3]")
	assert.Contains(t, out, "0 state=3")
}

func TestRenderJSONWithInvoke(t *testing.T) {
	view := writeFile(t, t.TempDir(), "app.cue", testView)

	out, err := executeRender(t, "json", view,
		"--session", "s-json",
		"--invoke", "hits.increment",
		"--invoke", "hits.increment",
	)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "s-json", resp.Data.Session)
	assert.Equal(t, int64(3), resp.Data.Generation)
	assert.Equal(t, int64(3), resp.Data.Commits)
	assert.Contains(t, resp.Data.HTML, `<p class="greeting">hello, arbor</p>`)
	assert.Contains(t, resp.Data.HTML, `<span class="count">5</span>`)
	assert.Contains(t, resp.Data.HTML, `<span class="total">2</span>`)
	assert.Equal(t, []string{"hits.increment", "hits.reset"}, resp.Data.Actions)
}

func TestRenderUnknownAction(t *testing.T) {
	view := writeFile(t, t.TempDir(), "app.cue", testView)

	_, err := executeRender(t, "text", view, "--invoke", "nope.increment")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoke nope.increment failed")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRenderCompileError(t *testing.T) {
	view := writeFile(t, t.TempDir(), "bad.cue", `view: {type: "Missing"}`)

	out, err := executeRender(t, "json", view)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeCompile, resp.Error.Code)
}

func TestRenderJournalsAndContinuesSession(t *testing.T) {
	dir := t.TempDir()
	view := writeFile(t, dir, "app.cue", testView)
	dbPath := filepath.Join(dir, "arbor.db")

	_, err := executeRender(t, "text", view, "--db", dbPath, "--session", "s-db")
	require.NoError(t, err)
	out, err := executeRender(t, "text", view, "--db", dbPath, "--session", "s-db",
		"--invoke", "hits.increment")
	require.NoError(t, err)
	assert.Contains(t, out, "generation 3")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	commits, err := st.ListCommits(context.Background(), "s-db")
	require.NoError(t, err)
	require.Len(t, commits, 3)
	for i, c := range commits {
		assert.Equal(t, int64(i+1), c.Generation)
	}
	assert.Equal(t, int64(2), commits[1].Layout, "mount runs the handle and registration effects")
}

func TestRenderMetrics(t *testing.T) {
	view := writeFile(t, t.TempDir(), "app.cue", testView)

	out, err := executeRender(t, "json", view, "--metrics", "--invoke", "hits.increment")
	require.NoError(t, err)

	var resp struct {
		Data RenderResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2.0, resp.Data.Metrics["arbor_engine_commits_total"])
	assert.Equal(t, 2.0, resp.Data.Metrics["arbor_engine_generation"])
	assert.Equal(t, float64(resp.Data.Units), resp.Data.Metrics["arbor_engine_units_total"])

	text, err := executeRender(t, "text", view, "--metrics")
	require.NoError(t, err)
	assert.Contains(t, text, "arbor_engine_commits_total 1\n")
}
