package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/handlers"
	"todolist/internal/store"
	"todolist/internal/todo"
)

// setupWorkspace points the file backend at a fresh temp directory.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TODO_CONFIG", "")
	t.Setenv("TODO_STORAGE", "file")
	t.Setenv("TODO_DATA", dir)
	t.Setenv("TODO_SLOT", "")
	return dir
}

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return out.String(), err
}

// createdID pulls the task id out of the add command's output.
func createdID(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if id, ok := strings.CutPrefix(line, "✓ Task created: "); ok {
			return strings.TrimSpace(id)
		}
	}
	t.Fatalf("no task id in output %q", output)
	return ""
}

func TestAddAndList(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := run(t, "add", "  buy", "milk  ")
	require.NoError(t, err)
	assert.Contains(t, out, "Text: buy milk")

	_, err = os.Stat(filepath.Join(dir, "todos.json"))
	assert.NoError(t, err, "the list is written to the slot file")

	_, err = run(t, "add", "walk dog")
	require.NoError(t, err)

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "walk dog"), strings.Index(out, "buy milk"), "newest first")
	assert.Contains(t, out, "2 items left")
}

func TestAddBlankText(t *testing.T) {
	setupWorkspace(t)

	_, err := run(t, "add", "   ")
	assert.Error(t, err)

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks yet")
}

func TestToggleAndFilter(t *testing.T) {
	setupWorkspace(t)

	out, err := run(t, "add", "done soon")
	require.NoError(t, err)
	id := createdID(t, out)
	_, err = run(t, "add", "still open")
	require.NoError(t, err)

	out, err = run(t, "toggle", id)
	require.NoError(t, err)
	assert.Contains(t, out, "is now completed")

	out, err = run(t, "list", "--filter", "completed")
	require.NoError(t, err)
	assert.Contains(t, out, "done soon")
	assert.NotContains(t, out, "still open")
	assert.Contains(t, out, "1 item left")

	out, err = run(t, "list", "-f", "active")
	require.NoError(t, err)
	assert.Contains(t, out, "still open")
	assert.NotContains(t, out, "done soon")

	out, err = run(t, "toggle", id)
	require.NoError(t, err)
	assert.Contains(t, out, "is now active")
}

func TestListInvalidFilter(t *testing.T) {
	setupWorkspace(t)

	_, err := run(t, "list", "--filter", "someday")
	assert.Error(t, err)
}

func TestUnknownID(t *testing.T) {
	setupWorkspace(t)

	_, err := run(t, "toggle", "nope")
	assert.ErrorContains(t, err, "task not found")

	_, err = run(t, "rm", "nope")
	assert.ErrorContains(t, err, "task not found")
}

func TestRemoveAndClearCompleted(t *testing.T) {
	setupWorkspace(t)

	ids := make([]string, 0, 3)
	for _, text := range []string{"one", "two", "three"} {
		out, err := run(t, "add", text)
		require.NoError(t, err)
		ids = append(ids, createdID(t, out))
	}

	out, err := run(t, "rm", ids[0])
	require.NoError(t, err)
	assert.Contains(t, out, "Task deleted")

	_, err = run(t, "toggle", ids[1])
	require.NoError(t, err)

	out, err = run(t, "clear-completed")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1 completed")

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "three")
	assert.NotContains(t, out, "one")
	assert.NotContains(t, out, "two")
}

func TestConfigFile(t *testing.T) {
	setupWorkspace(t)
	t.Setenv("TODO_STORAGE", "")
	t.Setenv("TODO_DATA", "")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "todo.yaml")
	cfg := "storage:\n  backend: file\n  path: " + dir + "\n  slot: work\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, err := run(t, "--config", cfgPath, "add", "from config")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "work.json"))
	assert.NoError(t, err)
}

func TestMixedCaseBackendCreatesDataDir(t *testing.T) {
	dir := setupWorkspace(t)
	dbPath := filepath.Join(dir, "nested", "todos.db")
	t.Setenv("TODO_STORAGE", "SQLite")
	t.Setenv("TODO_DATA", dbPath)

	_, err := run(t, "add", "in sqlite")
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "in sqlite")
}

func TestSaveFailureIsReported(t *testing.T) {
	dir := setupWorkspace(t)

	// A directory where the slot file should be makes every save fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "todos.json"), 0o755))

	_, err := run(t, "add", "lost")
	assert.ErrorContains(t, err, "could not be saved")
}

func TestParseTemplates(t *testing.T) {
	tmpl, err := parseTemplates()
	require.NoError(t, err)
	assert.NotNil(t, tmpl.Lookup("index.html"))
	assert.NotNil(t, tmpl.Lookup("task_item.html"))
}

func TestHomePageRenders(t *testing.T) {
	tmpl, err := parseTemplates()
	require.NoError(t, err)

	list := todo.Open(context.Background(), store.NewMemoryStore(), todo.WithLogger(log.New(io.Discard, "", 0)))
	router := handlers.New(list, tmpl).Router()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No tasks yet")
	assert.Contains(t, rec.Body.String(), "0 items left")

	list.Add(context.Background(), "<script>x</script>")

	req = httptest.NewRequest(http.MethodGet, "/?filter=active", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "&lt;script&gt;x&lt;/script&gt;", "task text is escaped")
	assert.Contains(t, body, "1 item left")
	assert.Contains(t, body, `class="active">active</a>`)
}
