// Package tui implements the interactive kanban board.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/drag"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewModal
	viewConfirmDelete
)

const (
	keyEsc   = "esc"
	keyEnter = "enter"

	doubleClickWindow = 500 * time.Millisecond
)

// Board is the top-level bubbletea model.
type Board struct {
	ctx       context.Context
	cfg       *config.Config
	repo      *board.Repository
	logger    *log.Logger
	columns   []column
	activeCol int
	activeRow int
	view      view
	width     int
	height    int
	err       error
	now       func() time.Time

	drag drag.Coordinator
	// press is a mouse press on a card that has not moved yet.
	press *press
	// pendingReload defers an external change until the user is done
	// dragging or editing.
	pendingReload bool

	modal *modal

	deleteID    string
	deleteTitle string

	lastClickCol  int
	lastClickRow  int
	lastClickTime time.Time
}

type press struct {
	itemID string
	col    int
	row    int
}

// NewBoard creates a Board over an opened repository.
func NewBoard(ctx context.Context, cfg *config.Config, repo *board.Repository, logger *log.Logger) *Board {
	b := &Board{ctx: ctx, cfg: cfg, repo: repo, logger: logger, now: time.Now}
	b.rebuild()
	return b
}

// SetNow overrides the clock used for overdue dates and double clicks.
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.MouseMsg:
		return b.handleMouse(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		if b.modal != nil {
			b.modal.resize(b.width)
		}
		b.rebuild()
		return b, nil
	case ReloadMsg:
		if b.busy() {
			b.pendingReload = true
			return b, nil
		}
		b.reload()
		return b, nil
	case errMsg:
		b.err = msg.err
		return b, nil
	}

	if b.view == viewModal && b.modal != nil {
		return b, b.modal.update(msg)
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewModal:
		return b.center(b.modal.view())
	case viewConfirmDelete:
		return b.viewDeleteConfirm()
	default:
		return b.viewBoard()
	}
}

// busy reports whether an external reload would disturb the user.
func (b *Board) busy() bool {
	return b.drag.Dragging() || b.press != nil || b.view != viewBoard
}

func (b *Board) reload() {
	b.pendingReload = false
	if err := b.repo.Reload(b.ctx); err != nil {
		b.fail("reloading board", err)
	}
	b.rebuild()
}

// settle applies a reload deferred while the user was busy.
func (b *Board) settle() {
	if b.pendingReload && !b.busy() {
		b.reload()
	}
}

func (b *Board) fail(what string, err error) {
	b.logger.Error(what, "err", err)
	b.err = fmt.Errorf("%s: %w", what, err)
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return b, tea.Quit
	}

	switch b.view {
	case viewModal:
		return b.handleModalKey(msg)
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	}
	if b.drag.Dragging() {
		return b.handleDragKey(msg)
	}
	return b.handleBoardKey(msg)
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b.err = nil
	switch msg.String() {
	case "q":
		return b, tea.Quit
	case "h", "left":
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case "l", "right":
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case "j", "down":
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.items)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case "k", "up":
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case "n", "a":
		if col := b.currentColumn(); col != nil {
			return b, b.openCreate(col.id)
		}
	case "e", keyEnter:
		if it := b.selectedItem(); it != nil {
			return b, b.openEdit(*it)
		}
	case "d":
		b.handleDeleteStart()
	case "m", " ":
		b.pickUp()
	case "r":
		b.reload()
	}
	return b, nil
}

func (b *Board) handleDeleteStart() {
	it := b.selectedItem()
	if it == nil {
		return
	}
	b.deleteID = it.ID
	b.deleteTitle = it.Content
	if !b.cfg.ConfirmDelete() {
		b.executeDelete()
		return
	}
	b.view = viewConfirmDelete
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		b.executeDelete()
	case "n", "N", keyEsc, "q":
		b.view = viewBoard
		b.settle()
	}
	return b, nil
}

func (b *Board) executeDelete() {
	b.view = viewBoard
	found, err := b.repo.Remove(b.ctx, b.deleteID)
	if err != nil {
		b.fail("deleting task", err)
	} else if found {
		b.logger.Info("deleted task", "id", b.deleteID)
		board.LogMutation(b.cfg.Dir(), board.ActionDelete, b.deleteID, b.deleteTitle)
	}
	b.deleteID, b.deleteTitle = "", ""
	b.rebuild()
	b.settle()
}

// pickUp starts a keyboard drag of the selected card.
func (b *Board) pickUp() {
	it := b.selectedItem()
	if it == nil {
		return
	}
	b.drag.Start(it.ID, b.columns[b.activeCol].id, b.activeRow)
	b.rebuild()
}

// handleDragKey moves the held card between columns and rows.
func (b *Board) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g, _ := b.drag.Active()
	ci := max(b.columnIndex(g.Column), 0)

	switch msg.String() {
	case "h", "left":
		if ci > 0 {
			b.placeIn(ci-1, g.Index)
		}
	case "l", "right":
		if ci < len(b.columns)-1 {
			b.placeIn(ci+1, g.Index)
		}
	case "j", "down":
		b.placeIn(ci, g.Index+1)
	case "k", "up":
		b.placeIn(ci, g.Index-1)
	case "m", " ", keyEnter:
		b.drop()
	case keyEsc:
		b.drag.Cancel()
		b.rebuild()
		b.settle()
	case "q":
		b.drag.Cancel()
		return b, tea.Quit
	}
	return b, nil
}

// placeIn moves the preview to index in the column at ci.
func (b *Board) placeIn(ci, index int) {
	g, _ := b.drag.Active()
	id := b.columns[ci].id
	b.drag.Place(id, index, b.othersIn(id, g.ItemID))
	b.rebuild()
}

// othersIn counts the stored cards of a column other than itemID.
func (b *Board) othersIn(columnID, itemID string) int {
	n := 0
	for _, it := range b.repo.Items(columnID) {
		if it.ID != itemID {
			n++
		}
	}
	return n
}

// drop ends the active gesture and commits it when the card moved.
func (b *Board) drop() {
	d, ok := b.drag.End()
	switch {
	case !ok:
		b.logger.Debug("drag cancelled outside columns")
	case d.Moved:
		t, err := b.repo.Move(b.ctx, d.ItemID, d.Column, d.Position)
		if err != nil {
			b.fail("moving task", err)
			break
		}
		b.logger.Info("moved task", "id", t.ID, "stage", t.Stage, "position", t.Position)
		board.LogMutation(b.cfg.Dir(), board.ActionMove, t.ID,
			fmt.Sprintf("%s #%d", t.Stage, t.Position))
	}
	b.rebuild()
	b.settle()
}

func (b *Board) columnIndex(id string) int {
	for i, c := range b.columns {
		if c.id == id {
			return i
		}
	}
	return -1
}

func (b *Board) currentColumn() *column {
	if b.activeCol < 0 || b.activeCol >= len(b.columns) {
		return nil
	}
	return &b.columns[b.activeCol]
}

func (b *Board) selectedItem() *board.Item {
	col := b.currentColumn()
	if col == nil || b.activeRow < 0 || b.activeRow >= len(col.items) {
		return nil
	}
	return &col.items[b.activeRow]
}

func (b *Board) clampRow() {
	if b.activeCol >= len(b.columns) {
		b.activeCol = max(len(b.columns)-1, 0)
	}
	col := b.currentColumn()
	if col == nil {
		b.activeRow = 0
		return
	}
	b.activeRow = max(min(b.activeRow, len(col.items)-1), 0)
	b.ensureVisible()
}

// ensureVisible adjusts scrollOff so the active row is in view.
func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil || len(col.items) == 0 {
		return
	}
	if b.activeRow < col.scrollOff {
		col.scrollOff = b.activeRow
		return
	}
	width := b.columnWidth()
	for col.scrollOff < b.activeRow {
		_, end := b.visibleRange(col, width)
		if b.activeRow < end {
			return
		}
		col.scrollOff++
	}
}

// WatchPaths returns the paths whose changes should reload the board.
func (b *Board) WatchPaths() []string {
	return []string{b.cfg.WatchPath()}
}

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

type errMsg struct{ err error }

// ErrorMsg wraps a background failure, such as a watcher error, for display
// in the status bar.
func ErrorMsg(err error) tea.Msg {
	return errMsg{err: err}
}
