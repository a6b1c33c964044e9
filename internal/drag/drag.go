// Package drag tracks a single drag-and-drop gesture over board columns and
// computes where the dragged card would land.
package drag

import (
	"math"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
)

// Sibling is the vertical extent of a card in the zone under the pointer.
type Sibling struct {
	ID     string
	Top    int
	Height int
}

// Mid returns the vertical midpoint of the card.
func (s Sibling) Mid() float64 {
	return float64(s.Top) + float64(s.Height)/2
}

// NearestInsertion returns the index of the sibling the dragged card goes
// before: among mids, the one with the greatest strictly negative offset
// y-mid. It returns len(mids) when no sibling lies below the pointer.
func NearestInsertion(y float64, mids []float64) int {
	best, bestOffset := len(mids), math.Inf(-1)
	for i, m := range mids {
		offset := y - m
		if offset < 0 && offset > bestOffset {
			best, bestOffset = i, offset
		}
	}
	return best
}

// Gesture is the state of one drag, from pick-up to drop.
type Gesture struct {
	ItemID       string
	OriginColumn string
	OriginIndex  int
	// Column is the zone under the pointer; empty when outside every zone.
	Column string
	// Index is the insertion index among the zone's other cards.
	Index int
}

// Drop is the result of a completed gesture.
type Drop struct {
	ItemID   string
	Column   string
	Position int
	// Moved is false when the card was dropped where it started.
	Moved bool
}

// Coordinator holds at most one active gesture.
type Coordinator struct {
	active *Gesture
}

// Start begins dragging itemID from column at index, replacing any gesture
// already in progress.
func (c *Coordinator) Start(itemID, column string, index int) {
	c.active = &Gesture{
		ItemID:       itemID,
		OriginColumn: column,
		OriginIndex:  index,
		Column:       column,
		Index:        index,
	}
}

// Active returns the gesture in progress.
func (c *Coordinator) Active() (Gesture, bool) {
	if c.active == nil {
		return Gesture{}, false
	}
	return *c.active, true
}

// Dragging reports whether a gesture is in progress.
func (c *Coordinator) Dragging() bool { return c.active != nil }

// Over moves the preview into column at the insertion point for pointer
// height y. The dragged card itself is ignored among siblings.
func (c *Coordinator) Over(column string, y float64, siblings []Sibling) {
	if c.active == nil {
		return
	}
	mids := make([]float64, 0, len(siblings))
	for _, s := range siblings {
		if s.ID == c.active.ItemID {
			continue
		}
		mids = append(mids, s.Mid())
	}
	c.active.Column = column
	c.active.Index = NearestInsertion(y, mids)
}

// Place sets the preview position directly, clamped to [0, n] where n is
// the number of other cards in column. Used by keyboard dragging.
func (c *Coordinator) Place(column string, index, n int) {
	if c.active == nil {
		return
	}
	c.active.Column = column
	c.active.Index = max(0, min(index, n))
}

// Leave records that the pointer is outside every zone.
func (c *Coordinator) Leave() {
	if c.active != nil {
		c.active.Column = ""
	}
}

// End finishes the gesture. ok is false when the pointer ended outside any
// zone, in which case the card stays where it started.
func (c *Coordinator) End() (Drop, bool) {
	g := c.active
	c.active = nil
	if g == nil || g.Column == "" {
		return Drop{}, false
	}
	return Drop{ItemID: g.ItemID, Column: g.Column, Position: g.Index, Moved: g.Changed()}, true
}

// Cancel abandons the gesture without a drop.
func (c *Coordinator) Cancel() {
	c.active = nil
}

// Changed reports whether the drop differs from where the card started.
func (g Gesture) Changed() bool {
	return g.Column != g.OriginColumn || g.Index != g.OriginIndex
}

// Preview returns cols with the dragged card shown at its current preview
// position. When the pointer is outside every zone the card is shown at its
// origin. cols is not modified.
func (c *Coordinator) Preview(cols []board.Column) []board.Column {
	if c.active == nil || c.active.Column == "" {
		return cols
	}
	g := c.active

	var (
		dragged board.Item
		found   bool
	)
	out := make([]board.Column, len(cols))
	for i, col := range cols {
		items := make([]board.Item, 0, len(col.Items)+1)
		for _, it := range col.Items {
			if it.ID == g.ItemID {
				dragged, found = it, true
				continue
			}
			items = append(items, it)
		}
		out[i] = board.Column{ID: col.ID, Items: items}
	}
	if !found {
		return cols
	}
	for i := range out {
		if out[i].ID != g.Column {
			continue
		}
		pos := max(0, min(g.Index, len(out[i].Items)))
		items := append([]board.Item{}, out[i].Items[:pos]...)
		items = append(items, dragged)
		out[i].Items = append(items, out[i].Items[pos:]...)
		return out
	}
	return cols
}
