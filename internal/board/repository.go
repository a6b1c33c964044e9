package board

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/kvstore"
)

// Repository is the in-session owner of the board document. Every mutation is
// written through to the store before it returns. Not safe for concurrent use.
type Repository struct {
	store     kvstore.Store
	key       string
	columnIDs []string
	columns   []Column
	seeded    bool

	// NewID generates item ids. Replaced in tests.
	NewID func() string
}

// Open loads the document stored under key. When nothing is stored yet the
// seed document is used. Configured columns missing from a stored document
// are appended empty; stored columns that are no longer configured are kept.
func Open(ctx context.Context, store kvstore.Store, key string, columnIDs []string) (*Repository, error) {
	r := &Repository{
		store:     store,
		key:       key,
		columnIDs: append([]string(nil), columnIDs...),
		NewID:     uuid.NewString,
	}
	if err := r.Reload(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload replaces the in-memory document with the stored one.
func (r *Repository) Reload(ctx context.Context) error {
	data, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return fmt.Errorf("loading board: %w", err)
	}
	if !ok {
		r.columns = Seed(r.columnIDs)
		r.seeded = true
		return nil
	}

	if err := validate(documentValidator, data); err != nil {
		return fmt.Errorf("decoding %s: %w", r.key, err)
	}
	var cols []Column
	if err := json.Unmarshal(data, &cols); err != nil {
		return fmt.Errorf("decoding %s: %w", r.key, err)
	}
	r.columns = reconcile(cols, r.columnIDs)
	r.seeded = false
	return nil
}

func reconcile(stored []Column, configured []string) []Column {
	have := make(map[string]bool, len(stored))
	for i := range stored {
		have[stored[i].ID] = true
		if stored[i].Items == nil {
			stored[i].Items = []Item{}
		}
	}
	out := make([]Column, 0, len(configured)+len(stored))
	byID := make(map[string]Column, len(stored))
	for _, c := range stored {
		byID[c.ID] = c
	}
	for _, id := range configured {
		if c, ok := byID[id]; ok {
			out = append(out, c)
			delete(byID, id)
			continue
		}
		out = append(out, Column{ID: id, Items: []Item{}})
	}
	for _, c := range stored {
		if _, extra := byID[c.ID]; extra {
			out = append(out, c)
		}
	}
	return out
}

// Seeded reports whether the document came from the seed rather than the store.
func (r *Repository) Seeded() bool { return r.seeded }

// Key returns the store key the document is saved under.
func (r *Repository) Key() string { return r.key }

// Save writes the whole document to the store.
func (r *Repository) Save(ctx context.Context) error {
	return r.commit(ctx, r.columns)
}

// commit stores next and only then makes it the in-memory document, so a
// failed write leaves the board as it was.
func (r *Repository) commit(ctx context.Context, next []Column) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding board: %w", err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	r.columns = next
	r.seeded = false
	return nil
}

// Replace swaps in a whole new document and saves it.
func (r *Repository) Replace(ctx context.Context, cols []Column) error {
	return r.commit(ctx, reconcile(cloneColumns(cols), r.columnIDs))
}

// Columns returns a deep copy of the document.
func (r *Repository) Columns() []Column {
	return cloneColumns(r.columns)
}

// ColumnIDs returns the ids of every column in document order.
func (r *Repository) ColumnIDs() []string {
	ids := make([]string, len(r.columns))
	for i, c := range r.columns {
		ids[i] = c.ID
	}
	return ids
}

func (r *Repository) columnIndex(id string) int {
	for i := range r.columns {
		if r.columns[i].ID == id {
			return i
		}
	}
	return -1
}

// locate returns the column and item index of itemID, or -1, -1.
func (r *Repository) locate(itemID string) (int, int) {
	for ci := range r.columns {
		for ii := range r.columns[ci].Items {
			if r.columns[ci].Items[ii].ID == itemID {
				return ci, ii
			}
		}
	}
	return -1, -1
}

func columnNotFound(id string) error {
	return clierr.Newf(clierr.ColumnNotFound, "column %q not found", id).
		WithDetails(map[string]any{"column": id})
}

func itemNotFound(id string) error {
	return clierr.Newf(clierr.TaskNotFound, "item %q not found", id).
		WithDetails(map[string]any{"id": id})
}

// --- Per-column operations ---

// Items returns a copy of the items in columnID, or an empty list when the
// column does not exist.
func (r *Repository) Items(columnID string) []Item {
	ci := r.columnIndex(columnID)
	if ci < 0 {
		return []Item{}
	}
	out := make([]Item, len(r.columns[ci].Items))
	for i, it := range r.columns[ci].Items {
		out[i] = it.clone()
	}
	return out
}

// AddItem appends a new item with the given content to columnID.
func (r *Repository) AddItem(ctx context.Context, columnID, content string) (Item, error) {
	ci := r.columnIndex(columnID)
	if ci < 0 {
		return Item{}, columnNotFound(columnID)
	}
	it := Item{ID: r.NewID(), Content: content}
	next := cloneColumns(r.columns)
	next[ci].Items = append(next[ci].Items, it)
	if err := r.commit(ctx, next); err != nil {
		return Item{}, err
	}
	return it.clone(), nil
}

// ItemPatch lists the fields UpdateItem changes. Nil fields are left alone.
type ItemPatch struct {
	Content     *string
	Description *string
	Date        *date.Date
	ClearDate   bool

	// ColumnID moves the item to another column. Without Position the item
	// goes to the end of that column.
	ColumnID *string
	// Position is the target index, clamped to the target column's bounds.
	Position *int
}

func (p ItemPatch) moves() bool {
	return p.ColumnID != nil || p.Position != nil
}

// UpdateItem applies patch to itemID. A move removes the item from its
// current column and inserts it at the target position.
func (r *Repository) UpdateItem(ctx context.Context, itemID string, patch ItemPatch) (Item, error) {
	ci, ii := r.locate(itemID)
	if ci < 0 {
		return Item{}, itemNotFound(itemID)
	}

	target := ci
	if patch.ColumnID != nil {
		target = r.columnIndex(*patch.ColumnID)
		if target < 0 {
			return Item{}, columnNotFound(*patch.ColumnID)
		}
	}

	it := r.columns[ci].Items[ii]
	if patch.Content != nil {
		it.Content = *patch.Content
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.ClearDate {
		it.Date = nil
	}
	if patch.Date != nil {
		it.Date = cloneDate(patch.Date)
	}

	next := cloneColumns(r.columns)
	if patch.moves() {
		next[ci].Items = removeAt(next[ci].Items, ii)
		pos := len(next[target].Items)
		if patch.Position != nil {
			pos = clamp(*patch.Position, 0, len(next[target].Items))
		}
		next[target].Items = insertAt(next[target].Items, pos, it)
	} else {
		next[ci].Items[ii] = it
	}
	if err := r.commit(ctx, next); err != nil {
		return Item{}, err
	}
	return it.clone(), nil
}

// DeleteItem removes itemID.
func (r *Repository) DeleteItem(ctx context.Context, itemID string) error {
	ci, ii := r.locate(itemID)
	if ci < 0 {
		return itemNotFound(itemID)
	}
	next := cloneColumns(r.columns)
	next[ci].Items = removeAt(next[ci].Items, ii)
	return r.commit(ctx, next)
}

// --- Whole-collection view ---

// Tasks returns every item as a Task, in column order then item order.
func (r *Repository) Tasks() []Task {
	var out []Task
	for _, c := range r.columns {
		for i, it := range c.Items {
			out = append(out, it.task(c.ID, i))
		}
	}
	return out
}

// FindByID returns the task with the given id.
func (r *Repository) FindByID(id string) (Task, bool) {
	ci, ii := r.locate(id)
	if ci < 0 {
		return Task{}, false
	}
	return r.columns[ci].Items[ii].task(r.columns[ci].ID, ii), true
}

// Add appends t to the end of its stage. An empty id is filled in; ids are
// not checked for duplicates. The stored task is returned.
func (r *Repository) Add(ctx context.Context, t Task) (Task, error) {
	ci := r.columnIndex(t.Stage)
	if ci < 0 {
		return Task{}, columnNotFound(t.Stage)
	}
	if t.ID == "" {
		t.ID = r.NewID()
	}
	it := Item{ID: t.ID, Content: t.Title, Description: t.Description, Date: cloneDate(t.Date)}
	next := cloneColumns(r.columns)
	next[ci].Items = append(next[ci].Items, it)
	if err := r.commit(ctx, next); err != nil {
		return Task{}, err
	}
	return it.task(t.Stage, len(next[ci].Items)-1), nil
}

// TaskPatch lists the content fields Update may change. Id and stage are
// never touched by an edit.
type TaskPatch struct {
	Title       *string
	Description *string
	Date        *date.Date
	ClearDate   bool
}

// Update applies patch to the task with id. A missing id is not an error;
// found reports whether anything was changed.
func (r *Repository) Update(ctx context.Context, id string, patch TaskPatch) (found bool, err error) {
	if ci, _ := r.locate(id); ci < 0 {
		return false, nil
	}
	_, err = r.UpdateItem(ctx, id, ItemPatch{
		Content:     patch.Title,
		Description: patch.Description,
		Date:        patch.Date,
		ClearDate:   patch.ClearDate,
	})
	return true, err
}

// Remove deletes the task with id. Removing a missing id does nothing.
func (r *Repository) Remove(ctx context.Context, id string) (found bool, err error) {
	err = r.DeleteItem(ctx, id)
	if clierr.HasCode(err, clierr.TaskNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Move places the task at position in stage. It is the commit step of a drag.
func (r *Repository) Move(ctx context.Context, id, stage string, position int) (Task, error) {
	if _, err := r.UpdateItem(ctx, id, ItemPatch{ColumnID: &stage, Position: &position}); err != nil {
		return Task{}, err
	}
	t, _ := r.FindByID(id)
	return t, nil
}

func removeAt(items []Item, i int) []Item {
	out := make([]Item, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func insertAt(items []Item, i int, it Item) []Item {
	out := make([]Item, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, it)
	return append(out, items[i:]...)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
