package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/twiced-technology-gmbh/taskboard/internal/drag"
)

// hit is what lies under a screen cell.
type hit struct {
	col    int  // column index, -1 outside every column
	header bool // the column header line
	add    bool // the "+" glyph of the header
	row    int  // card row, -1 when no card is under the pointer
	edit   bool // the card's edit glyph
	remove bool // the card's delete glyph
}

// hitTest maps a screen cell to the board. Rows at or below the status area
// are outside every column.
func (b *Board) hitTest(x, y int) hit {
	h := hit{col: -1, row: -1}
	colWidth := b.columnWidth()
	if x < 0 || y < 0 || colWidth <= 0 {
		return h
	}
	ci := x / colWidth
	if ci >= len(b.columns) || (b.height > 0 && y >= b.boardHeight()) {
		return h
	}
	h.col = ci

	if y < headerLines {
		h.header = true
		h.add = x-ci*colWidth >= colWidth-3 //nolint:mnd // "+" and its padding
		return h
	}

	col := &b.columns[ci]
	start, end := b.visibleRange(col, colWidth)
	for _, box := range b.cardBoxes(col, colWidth) {
		if box.row < start || box.row >= end {
			continue
		}
		if y >= box.top && y < box.top+box.height {
			h.row = box.row
			if y == box.top {
				h.edit, h.remove = cardAction(x-ci*colWidth, colWidth)
			}
			break
		}
	}
	return h
}

// handleMouse drives selection and drag gestures. A press on a card arms a
// drag, motion starts and steers it, release drops it.
func (b *Board) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if b.view != viewBoard {
		return b, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return b, nil
		}
		if b.drag.Dragging() {
			// A keyboard drag is dropped by clicking a destination.
			b.steer(msg.X, msg.Y)
			b.drop()
			return b, nil
		}
		return b.handlePress(msg.X, msg.Y)
	case tea.MouseActionMotion:
		if b.press != nil && !b.drag.Dragging() {
			b.drag.Start(b.press.itemID, b.columns[b.press.col].id, b.press.row)
		}
		if b.press != nil && b.drag.Dragging() {
			b.steer(msg.X, msg.Y)
		}
	case tea.MouseActionRelease:
		p := b.press
		b.press = nil
		if p != nil && b.drag.Dragging() {
			b.steer(msg.X, msg.Y)
			b.drop()
		} else {
			b.settle()
		}
	}
	return b, nil
}

func (b *Board) handlePress(x, y int) (tea.Model, tea.Cmd) {
	b.err = nil
	h := b.hitTest(x, y)
	if h.col < 0 {
		return b, nil
	}

	b.activeCol = h.col
	if h.add {
		return b, b.openCreate(b.columns[h.col].id)
	}
	if h.row < 0 {
		b.clampRow()
		return b, nil
	}

	now := b.now()
	isDoubleClick := h.col == b.lastClickCol &&
		h.row == b.lastClickRow &&
		now.Sub(b.lastClickTime) < doubleClickWindow

	b.activeRow = h.row
	b.lastClickCol = h.col
	b.lastClickRow = h.row
	b.lastClickTime = now
	b.ensureVisible()

	it := b.columns[h.col].items[h.row]
	switch {
	case h.remove:
		b.handleDeleteStart()
		return b, nil
	case h.edit:
		return b, b.openEdit(it)
	}
	if isDoubleClick {
		b.lastClickTime = time.Time{}
		return b, b.openEdit(it)
	}
	b.press = &press{itemID: it.ID, col: h.col, row: h.row}
	return b, nil
}

// steer feeds the pointer position into the drag coordinator.
func (b *Board) steer(x, y int) {
	h := b.hitTest(x, y)
	if h.col < 0 {
		b.drag.Leave()
		b.rebuild()
		return
	}

	// Siblings are measured where they are drawn; Over skips the dragged card.
	col := &b.columns[h.col]
	boxes := b.cardBoxes(col, b.columnWidth())
	siblings := make([]drag.Sibling, len(boxes))
	for i, box := range boxes {
		siblings[i] = drag.Sibling{ID: col.items[i].ID, Top: box.top, Height: box.height}
	}
	b.drag.Over(col.id, float64(y), siblings)
	b.rebuild()
}
