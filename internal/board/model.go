// Package board owns the task board document: ordered columns of items,
// persisted as one value in a kvstore.Store.
package board

import (
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
)

// Item is one card. Content is the title.
type Item struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Description string     `json:"description,omitempty"`
	Date        *date.Date `json:"date,omitempty"`
}

// Column is an ordered list of items. Item order is the visual order.
type Column struct {
	ID    string `json:"id"`
	Items []Item `json:"items"`
}

// Task is the whole-collection view of an item: its fields plus the
// column it lives in and its index there.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *date.Date `json:"date"`
	Stage       string     `json:"stage"`
	Position    int        `json:"position"`
}

func (it Item) task(stage string, pos int) Task {
	return Task{
		ID:          it.ID,
		Title:       it.Content,
		Description: it.Description,
		Date:        cloneDate(it.Date),
		Stage:       stage,
		Position:    pos,
	}
}

func (it Item) clone() Item {
	it.Date = cloneDate(it.Date)
	return it
}

func cloneDate(d *date.Date) *date.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneColumns(cols []Column) []Column {
	out := make([]Column, len(cols))
	for i, c := range cols {
		items := make([]Item, len(c.Items))
		for j, it := range c.Items {
			items[j] = it.clone()
		}
		out[i] = Column{ID: c.ID, Items: items}
	}
	return out
}

// seedItems is the starter set shown on an empty board, one per stage.
var seedItems = []Item{
	{ID: "101", Content: "Design project wireframe"},
	{ID: "201", Content: "Develop authentication system"},
	{ID: "301", Content: "Test responsiveness on mobile"},
}

// Seed returns the starter document for the given column ids. Seed items are
// assigned positionally to the first columns.
func Seed(columnIDs []string) []Column {
	cols := emptyColumns(columnIDs)
	for i := range cols {
		if i < len(seedItems) {
			cols[i].Items = append(cols[i].Items, seedItems[i])
		}
	}
	return cols
}

func emptyColumns(ids []string) []Column {
	cols := make([]Column, len(ids))
	for i, id := range ids {
		cols[i] = Column{ID: id, Items: []Item{}}
	}
	return cols
}

// DefaultColumnIDs are the stages of a board created with default config.
func DefaultColumnIDs() []string {
	ids := make([]string, len(config.DefaultColumns))
	for i, c := range config.DefaultColumns {
		ids[i] = c.ID
	}
	return ids
}
