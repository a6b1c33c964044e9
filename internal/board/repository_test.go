package board

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/kvstore"
)

const key = config.DefaultStoreKey

func newRepo(t *testing.T, store kvstore.Store) *Repository {
	t.Helper()
	if store == nil {
		store = kvstore.NewMemoryStore()
	}
	r, err := Open(context.Background(), store, key, DefaultColumnIDs())
	require.NoError(t, err)
	n := 0
	r.NewID = func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
	return r
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestEmptyStoreYieldsSeed(t *testing.T) {
	store := kvstore.NewMemoryStore()
	r := newRepo(t, store)

	assert.True(t, r.Seeded())
	assert.Equal(t, 0, store.Writes, "loading must not write")
	assert.Equal(t, []string{"101"}, ids(r.Items(config.StageTodo)))
	assert.Equal(t, []string{"201"}, ids(r.Items(config.StageInProgress)))
	assert.Equal(t, []string{"301"}, ids(r.Items(config.StageCompleted)))

	tasks := r.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "Design project wireframe", tasks[0].Title)
	assert.Equal(t, config.StageTodo, tasks[0].Stage)
}

func TestAddAppendsToEndOfStage(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	r := newRepo(t, store)

	created, err := r.Add(ctx, Task{Title: "Write docs", Stage: config.StageTodo})
	require.NoError(t, err)
	assert.Equal(t, "id-1", created.ID)
	assert.Equal(t, 1, created.Position)
	assert.Equal(t, 1, store.Writes)

	var inStages int
	for _, col := range r.Columns() {
		for i, it := range col.Items {
			if it.ID == created.ID {
				inStages++
				assert.Equal(t, config.StageTodo, col.ID)
				assert.Equal(t, len(col.Items)-1, i)
			}
		}
	}
	assert.Equal(t, 1, inStages)
}

func TestAddUnknownStage(t *testing.T) {
	r := newRepo(t, nil)
	_, err := r.Add(context.Background(), Task{Title: "x", Stage: "later"})
	assert.True(t, clierr.HasCode(err, clierr.ColumnNotFound))
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	r := newRepo(t, store)

	d := date.New(2025, time.June, 1)
	_, err := r.Add(ctx, Task{Title: "A", Description: "first", Date: &d, Stage: config.StageInProgress})
	require.NoError(t, err)
	_, err = r.Add(ctx, Task{Title: "B", Stage: config.StageInProgress})
	require.NoError(t, err)

	reloaded, err := Open(ctx, store, key, DefaultColumnIDs())
	require.NoError(t, err)
	assert.False(t, reloaded.Seeded())
	assert.Equal(t, r.Columns(), reloaded.Columns())
	assert.Equal(t, r.Tasks(), reloaded.Tasks())
}

func TestStoredLayout(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	r := newRepo(t, store)
	require.NoError(t, r.Save(ctx))

	raw, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[
		{"id":"todo","items":[{"id":"101","content":"Design project wireframe"}]},
		{"id":"in_progress","items":[{"id":"201","content":"Develop authentication system"}]},
		{"id":"completed","items":[{"id":"301","content":"Test responsiveness on mobile"}]}
	]`, string(raw))
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	r := newRepo(t, store)

	found, err := r.Remove(ctx, "201")
	require.NoError(t, err)
	assert.True(t, found)
	before := r.Columns()
	writes := store.Writes

	found, err = r.Remove(ctx, "201")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, before, r.Columns())
	assert.Equal(t, writes, store.Writes)
}

func TestUpdateNeverChangesIDOrStage(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, nil)

	d := date.New(2024, time.January, 2)
	found, err := r.Update(ctx, "201", TaskPatch{Title: ptr("Auth v2"), Date: &d})
	require.NoError(t, err)
	assert.True(t, found)

	got, ok := r.FindByID("201")
	require.True(t, ok)
	assert.Equal(t, "201", got.ID)
	assert.Equal(t, config.StageInProgress, got.Stage)
	assert.Equal(t, "Auth v2", got.Title)
	assert.Equal(t, "", got.Description, "absent patch fields stay untouched")
	require.NotNil(t, got.Date)
	assert.Equal(t, "2024-01-02", got.Date.String())

	found, err = r.Update(ctx, "201", TaskPatch{ClearDate: true})
	require.NoError(t, err)
	assert.True(t, found)
	got, _ = r.FindByID("201")
	assert.Nil(t, got.Date)
}

func TestUpdateMissingIsBenign(t *testing.T) {
	store := kvstore.NewMemoryStore()
	r := newRepo(t, store)
	found, err := r.Update(context.Background(), "nope", TaskPatch{Title: ptr("x")})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, store.Writes)
}

func TestUpdateItemMovesToPosition(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, nil)
	a, err := r.AddItem(ctx, config.StageCompleted, "A")
	require.NoError(t, err)
	_, err = r.AddItem(ctx, config.StageCompleted, "B")
	require.NoError(t, err)
	// completed: 301, id-1, id-2

	_, err = r.UpdateItem(ctx, "101", ItemPatch{ColumnID: ptr(config.StageCompleted), Position: ptr(1)})
	require.NoError(t, err)

	assert.Empty(t, r.Items(config.StageTodo))
	assert.Equal(t, []string{"301", "101", a.ID, "id-2"}, ids(r.Items(config.StageCompleted)))
}

func TestUpdateItemWithinColumn(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, nil)
	_, _ = r.AddItem(ctx, config.StageTodo, "second")
	_, _ = r.AddItem(ctx, config.StageTodo, "third")

	_, err := r.UpdateItem(ctx, "id-2", ItemPatch{Position: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, []string{"id-2", "101", "id-1"}, ids(r.Items(config.StageTodo)))

	_, err = r.UpdateItem(ctx, "id-2", ItemPatch{Position: ptr(99)})
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "id-1", "id-2"}, ids(r.Items(config.StageTodo)))

	_, err = r.UpdateItem(ctx, "id-2", ItemPatch{Position: ptr(-5)})
	require.NoError(t, err)
	assert.Equal(t, []string{"id-2", "101", "id-1"}, ids(r.Items(config.StageTodo)))
}

func TestUpdateItemColumnWithoutPositionAppends(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, nil)
	_, err := r.UpdateItem(ctx, "101", ItemPatch{ColumnID: ptr(config.StageInProgress)})
	require.NoError(t, err)
	assert.Equal(t, []string{"201", "101"}, ids(r.Items(config.StageInProgress)))
}

func TestPerColumnNotFound(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, nil)

	assert.Empty(t, r.Items("nowhere"))

	_, err := r.AddItem(ctx, "nowhere", "x")
	assert.True(t, clierr.HasCode(err, clierr.ColumnNotFound))

	_, err = r.UpdateItem(ctx, "missing", ItemPatch{Content: ptr("x")})
	assert.True(t, clierr.HasCode(err, clierr.TaskNotFound))

	_, err = r.UpdateItem(ctx, "101", ItemPatch{ColumnID: ptr("nowhere")})
	assert.True(t, clierr.HasCode(err, clierr.ColumnNotFound))
	assert.Equal(t, []string{"101"}, ids(r.Items(config.StageTodo)), "failed move leaves item in place")

	err = r.DeleteItem(ctx, "missing")
	assert.True(t, clierr.IsNotFound(err))
}

func TestMoveNeverDuplicatesOrDrops(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, nil)
	for i := range 4 {
		_, err := r.AddItem(ctx, config.StageTodo, "t"+strconv.Itoa(i))
		require.NoError(t, err)
	}
	total := len(r.Tasks())

	moved, err := r.Move(ctx, "id-3", config.StageCompleted, 0)
	require.NoError(t, err)
	assert.Equal(t, config.StageCompleted, moved.Stage)
	assert.Equal(t, 0, moved.Position)
	assert.Len(t, r.Tasks(), total)

	seen := map[string]int{}
	for _, tk := range r.Tasks() {
		seen[tk.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestReconcileColumns(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	doc := `[{"id":"archive","items":[{"id":"x","content":"old"}]},{"id":"todo","items":null}]`
	require.NoError(t, store.Set(ctx, key, []byte(doc)))

	r, err := Open(ctx, store, key, DefaultColumnIDs())
	require.NoError(t, err)
	assert.Equal(t, []string{"todo", "in_progress", "completed", "archive"}, r.ColumnIDs())
	assert.NotNil(t, r.Items("todo"))
	assert.Equal(t, []string{"x"}, ids(r.Items("archive")))
}

func TestCorruptDocument(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, key, []byte(`{not json`)))
	_, err := Open(ctx, store, key, DefaultColumnIDs())
	assert.Error(t, err)
}

func TestDocumentFailsSchema(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, key, []byte(`[{"id":"todo","items":[{"id":"1"}]}]`)))
	_, err := Open(ctx, store, key, DefaultColumnIDs())
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "/0/items/0", se.Path)
}

func TestColumnsIsACopy(t *testing.T) {
	r := newRepo(t, nil)
	cols := r.Columns()
	cols[0].Items[0].Content = "mutated"
	got, _ := r.FindByID("101")
	assert.Equal(t, "Design project wireframe", got.Title)
}

func TestTaskJSON(t *testing.T) {
	r := newRepo(t, nil)
	got, _ := r.FindByID("301")
	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"301","title":"Test responsiveness on mobile","description":"","date":null,"stage":"completed","position":0}`, string(data))
}

// brokenStore reads from an embedded store but refuses every write.
type brokenStore struct {
	*kvstore.MemoryStore
}

func (brokenStore) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestFailedSaveLeavesBoardUnchanged(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t, brokenStore{kvstore.NewMemoryStore()})
	before := r.Columns()

	_, err := r.Add(ctx, Task{Title: "ghost", Stage: "todo"})
	require.ErrorContains(t, err, "disk full")

	_, err = r.AddItem(ctx, "todo", "ghost")
	require.Error(t, err)

	title := "renamed"
	_, err = r.Update(ctx, "101", TaskPatch{Title: &title})
	require.Error(t, err)

	_, err = r.Move(ctx, "101", "completed", 0)
	require.Error(t, err)

	_, err = r.Remove(ctx, "101")
	require.Error(t, err)

	assert.Equal(t, before, r.Columns())
	assert.True(t, r.Seeded())
}
