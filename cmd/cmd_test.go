package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
)

// resetFlags restores every flag to its default so commands can run
// repeatedly in one process.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TASKBOARD_OUTPUT", "")
	t.Setenv("TASKBOARD_LOG_LEVEL", "")
	t.Setenv("NO_COLOR", "1")

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return out.String(), err
}

func newBoardDir(t *testing.T, extra ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "board")
	_, err := run(t, append([]string{"--dir", dir, "init", "--name", "test"}, extra...)...)
	require.NoError(t, err)
	return dir
}

func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := run(t, append(args, "--json")...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func taskIDs(tasks []board.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func TestInitAndListSeed(t *testing.T) {
	dir := newBoardDir(t)
	assert.FileExists(t, filepath.Join(dir, "config.yml"))

	var tasks []board.Task
	runJSON(t, &tasks, "--dir", dir, "list")
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"101", "201", "301"}, taskIDs(tasks))
	assert.Equal(t, "todo", tasks[0].Stage)
	assert.Equal(t, "completed", tasks[2].Stage)

	out, err := run(t, "--dir", dir, "list", "--compact")
	require.NoError(t, err)
	assert.Contains(t, out, "Design project wireframe")
}

func TestInitTwice(t *testing.T) {
	dir := newBoardDir(t)
	_, err := run(t, "--dir", dir, "init")
	assert.True(t, clierr.HasCode(err, clierr.BoardAlreadyExists))
}

func TestInitCustomColumns(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "board")
	_, err := run(t, "--dir", dir, "init", "--name", "c", "--columns", "backlog:Backlog,done")
	require.NoError(t, err)

	out, err := run(t, "--dir", dir, "config", "get", "columns")
	require.NoError(t, err)
	assert.Equal(t, "backlog, done\n", out)
}

func TestTaskLifecycle(t *testing.T) {
	dir := newBoardDir(t)

	var created board.Task
	runJSON(t, &created, "--dir", dir, "create", "Write docs",
		"--desc", "**bold** body", "--date", "2024-06-01", "--stage", "In Progress")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "in_progress", created.Stage)
	assert.Equal(t, 1, created.Position)
	assert.Equal(t, "**bold** body", created.Description)
	require.NotNil(t, created.Date)
	assert.Equal(t, "2024-06-01", created.Date.String())

	var shown board.Task
	runJSON(t, &shown, "--dir", dir, "show", created.ID)
	assert.Equal(t, created, shown)

	var edited board.Task
	runJSON(t, &edited, "--dir", dir, "edit", created.ID, "--title", "Write more docs", "--clear-date")
	assert.Equal(t, created.ID, edited.ID)
	assert.Equal(t, "in_progress", edited.Stage)
	assert.Equal(t, "Write more docs", edited.Title)
	assert.Equal(t, "**bold** body", edited.Description)
	assert.Nil(t, edited.Date)

	_, err := run(t, "--dir", dir, "delete", created.ID)
	assert.True(t, clierr.HasCode(err, clierr.ConfirmationReq))

	_, err = run(t, "--dir", dir, "delete", created.ID, "--yes")
	require.NoError(t, err)

	_, err = run(t, "--dir", dir, "show", created.ID)
	assert.True(t, clierr.HasCode(err, clierr.TaskNotFound))
}

func TestCreateValidation(t *testing.T) {
	dir := newBoardDir(t)

	_, err := run(t, "--dir", dir, "create", "  ")
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))

	_, err = run(t, "--dir", dir, "create", "x", "--date", "06/01/2024")
	assert.True(t, clierr.HasCode(err, clierr.InvalidDate))

	_, err = run(t, "--dir", dir, "create", "x", "--stage", "later")
	assert.True(t, clierr.HasCode(err, clierr.ColumnNotFound))

	_, err = run(t, "--dir", dir, "edit", "101")
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))

	_, err = run(t, "--dir", dir, "edit", "nope", "--title", "x")
	assert.True(t, clierr.HasCode(err, clierr.TaskNotFound))
}

func TestMove(t *testing.T) {
	dir := newBoardDir(t)

	_, err := run(t, "--dir", dir, "move", "101", "completed", "--position", "0")
	require.NoError(t, err)

	var tasks []board.Task
	runJSON(t, &tasks, "--dir", dir, "list", "--stage", "Completed")
	assert.Equal(t, []string{"101", "301"}, taskIDs(tasks))

	_, err = run(t, "--dir", dir, "move", "201", "completed")
	require.NoError(t, err)
	runJSON(t, &tasks, "--dir", dir, "list", "--stage", "completed")
	assert.Equal(t, []string{"101", "301", "201"}, taskIDs(tasks))

	_, err = run(t, "--dir", dir, "move", "101", "todo", "--position", "-1")
	assert.True(t, clierr.HasCode(err, clierr.InvalidPosition))

	_, err = run(t, "--dir", dir, "move", "nope", "todo")
	assert.True(t, clierr.HasCode(err, clierr.TaskNotFound))

	_, err = run(t, "--dir", dir, "move", "101", "later")
	assert.True(t, clierr.HasCode(err, clierr.ColumnNotFound))
}

func TestListFilters(t *testing.T) {
	dir := newBoardDir(t)
	_, err := run(t, "--dir", dir, "create", "Dated", "--date", "2020-01-01")
	require.NoError(t, err)

	var tasks []board.Task
	runJSON(t, &tasks, "--dir", dir, "list", "--dated")
	require.Len(t, tasks, 1)
	assert.Equal(t, "Dated", tasks[0].Title)

	runJSON(t, &tasks, "--dir", dir, "list", "--search", "MOBILE")
	assert.Equal(t, []string{"301"}, taskIDs(tasks))

	runJSON(t, &tasks, "--dir", dir, "list", "--sort", "title", "--limit", "2")
	require.Len(t, tasks, 2)
	assert.Equal(t, "Dated", tasks[0].Title)

	_, err = run(t, "--dir", dir, "list", "--sort", "priority")
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))
}

func TestExportImport(t *testing.T) {
	dir := newBoardDir(t)
	file := filepath.Join(t.TempDir(), "export.json")

	_, err := run(t, "--dir", dir, "export", file)
	require.NoError(t, err)
	_, err = run(t, "--dir", dir, "create", "Extra")
	require.NoError(t, err)

	_, err = run(t, "--dir", dir, "import", file)
	assert.True(t, clierr.HasCode(err, clierr.ConfirmationReq))

	_, err = run(t, "--dir", dir, "import", file, "--yes")
	require.NoError(t, err)

	var tasks []board.Task
	runJSON(t, &tasks, "--dir", dir, "list")
	assert.Equal(t, []string{"101", "201", "301"}, taskIDs(tasks))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad,
		[]byte(`[{"id":"1","title":"x","description":"","date":null,"stage":"later"}]`), 0o600))
	_, err = run(t, "--dir", dir, "import", bad, "--yes")
	assert.True(t, clierr.HasCode(err, clierr.ColumnNotFound))
}

func TestExportRaw(t *testing.T) {
	dir := newBoardDir(t)
	out, err := run(t, "--dir", dir, "export", "--raw")
	require.NoError(t, err)

	var cols []board.Column
	require.NoError(t, json.Unmarshal([]byte(out), &cols))
	require.Len(t, cols, 3)
	assert.Equal(t, "todo", cols[0].ID)
	assert.Equal(t, "Design project wireframe", cols[0].Items[0].Content)
}

func TestSQLiteBackend(t *testing.T) {
	dir := newBoardDir(t, "--backend", "sqlite")
	assert.FileExists(t, filepath.Join(dir, "board.sqlite"))

	_, err := run(t, "--dir", dir, "create", "Stored in sqlite")
	require.NoError(t, err)

	var tasks []board.Task
	runJSON(t, &tasks, "--dir", dir, "list", "--stage", "todo")
	require.Len(t, tasks, 2)
	assert.Equal(t, "Stored in sqlite", tasks[1].Title)
}

func TestHistory(t *testing.T) {
	dir := newBoardDir(t)
	_, err := run(t, "--dir", dir, "create", "Logged")
	require.NoError(t, err)
	_, err = run(t, "--dir", dir, "move", "101", "completed")
	require.NoError(t, err)

	var entries []board.LogEntry
	runJSON(t, &entries, "--dir", dir, "history")
	require.Len(t, entries, 2)
	assert.Equal(t, board.ActionCreate, entries[0].Action)
	assert.Equal(t, board.ActionMove, entries[1].Action)
	assert.Equal(t, "101", entries[1].TaskID)
}

func TestBoardSummary(t *testing.T) {
	dir := newBoardDir(t)

	var ov board.Overview
	runJSON(t, &ov, "--dir", dir, "board")
	assert.Equal(t, "test", ov.BoardName)
	assert.Equal(t, 3, ov.TotalTasks)
	require.Len(t, ov.Columns, 3)
	assert.Equal(t, "To Do", ov.Columns[0].Name)
}

func TestConfigGetSet(t *testing.T) {
	dir := newBoardDir(t)

	_, err := run(t, "--dir", dir, "config", "set", "tui.body_lines", "3")
	require.NoError(t, err)
	out, err := run(t, "--dir", dir, "config", "get", "tui.body_lines")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	_, err = run(t, "--dir", dir, "config", "set", "store.key", "other")
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))

	_, err = run(t, "--dir", dir, "config", "set", "tui.body_lines", "9")
	assert.True(t, clierr.HasCode(err, clierr.ValidationFailed))

	_, err = run(t, "--dir", dir, "config", "get", "nope")
	assert.True(t, clierr.HasCode(err, clierr.InvalidInput))
}

func TestReportError(t *testing.T) {
	t.Setenv("TASKBOARD_OUTPUT", "")
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	code := reportError(&stdout, &stderr, clierr.New(clierr.TaskNotFound, "task \"x\" not found"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "task \"x\" not found")

	flagJSON = true
	defer func() { flagJSON = false }()

	stdout.Reset()
	code = reportError(&stdout, &stderr, errors.New("disk on fire"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stdout.String(), clierr.InternalError)

	assert.Equal(t, 3, reportError(&stdout, &stderr, &clierr.SilentError{Code: 3}))
}
