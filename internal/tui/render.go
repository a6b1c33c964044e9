package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
)

const (
	boardChrome = 2 // blank line + status bar below the column area
	errorChrome = 1 // extra line when an error is displayed
	headerLines = 1
	cardBorders = 2
	cardChrome  = 4 // border (2) + padding (2)
	titleLines  = 2
	addGlyph    = "+"
	maxColWidth = 75

	// cardActions is drawn into a card's top border: edit, then delete.
	cardActions     = " ✎ ✕ "
	minActionsWidth = 14
)

// column is one rendered zone: a board column plus its scroll state.
type column struct {
	id        string
	label     string
	color     string
	items     []board.Item
	scrollOff int
}

// rebuild re-creates every column from the repository, substituting the drag
// preview while a gesture is active.
func (b *Board) rebuild() {
	cols := b.repo.Columns()
	if b.drag.Dragging() {
		cols = b.drag.Preview(cols)
	}

	scroll := make(map[string]int, len(b.columns))
	for _, c := range b.columns {
		scroll[c.id] = c.scrollOff
	}

	b.columns = make([]column, len(cols))
	for i, c := range cols {
		col := column{id: c.ID, label: c.ID, items: c.Items, scrollOff: scroll[c.ID]}
		if cc, ok := b.cfg.Column(c.ID); ok {
			col.label = cc.Label()
			col.color = cc.Color
		}
		col.scrollOff = min(col.scrollOff, max(len(col.items)-1, 0))
		b.columns[i] = col
	}

	if b.drag.Dragging() {
		b.followDragged()
	}
	b.clampRow()
}

// followDragged moves the selection onto the dragged card's preview slot.
func (b *Board) followDragged() {
	g, _ := b.drag.Active()
	for ci := range b.columns {
		for ri, it := range b.columns[ci].items {
			if it.ID == g.ItemID {
				b.activeCol, b.activeRow = ci, ri
				return
			}
		}
	}
}

func (b *Board) viewBoard() string {
	if len(b.columns) == 0 {
		return "No columns configured."
	}

	colWidth := b.columnWidth()
	renderedCols := make([]string, len(b.columns))
	for i := range b.columns {
		renderedCols[i] = b.renderColumn(i, &b.columns[i], colWidth)
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, renderedCols...)

	// Clamp from the bottom (keeping headers at the top) and pad if needed.
	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			viewLines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(viewLines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	return min(b.width/len(b.columns), maxColWidth)
}

// boardHeight is the number of screen rows the columns may use.
func (b *Board) boardHeight() int {
	return b.height - b.chromeHeight()
}

func (b *Board) chromeHeight() int {
	h := boardChrome
	if b.err != nil {
		h += errorChrome
	}
	return h
}

func (b *Board) renderHeader(colIdx int, col *column, width int) string {
	const headerPad = 2
	inner := width - headerPad
	text := truncate(fmt.Sprintf("%s (%d)", col.label, len(col.items)), inner-lipgloss.Width(addGlyph)-1)
	gap := max(inner-lipgloss.Width(text)-lipgloss.Width(addGlyph), 1)
	text += strings.Repeat(" ", gap) + addGlyph

	if colIdx == b.activeCol {
		return activeColumnHeaderStyle.Width(width).Render(text)
	}
	return columnHeaderStyle.Width(width).Render(text)
}

func (b *Board) renderColumn(colIdx int, col *column, width int) string {
	parts := []string{b.renderHeader(colIdx, col, width)}

	start, end := b.visibleRange(col, width)
	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↑ %d more", start), width)))
	}

	if len(col.items) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	} else {
		dragID := ""
		if g, ok := b.drag.Active(); ok {
			dragID = g.ItemID
		}
		for row := start; row < end; row++ {
			it := col.items[row]
			active := colIdx == b.activeCol && row == b.activeRow
			parts = append(parts, b.renderCard(it, col, active, it.ID == dragID, width))
		}
	}

	if end < len(col.items) {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↓ %d more", len(col.items)-end), width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(it board.Item, col *column, active, dragging bool, width int) string {
	content := strings.Join(b.cardContentLines(it, col, width), "\n")
	card := cardStyleFor(col.color, active, dragging).Width(width - cardBorders).Render(content)
	if dragging || width < minActionsWidth {
		return card
	}
	return withActions(card, width)
}

// withActions overlays cardActions on the top border, keeping the corner.
func withActions(card string, width int) string {
	top, rest, _ := strings.Cut(card, "\n")
	start := width - lipgloss.Width(cardActions) - 1
	top = ansi.Truncate(top, start, "") + dimStyle.Render(cardActions) + ansi.Cut(top, width-1, width)
	return top + "\n" + rest
}

// cardAction reports which glyph of cardActions sits at offset x of a card
// of the given width.
func cardAction(x, width int) (edit, remove bool) {
	if width < minActionsWidth {
		return false, false
	}
	start := width - lipgloss.Width(cardActions) - 1
	switch x - start {
	case 0, 1:
		return true, false
	case 2, 3, 4: //nolint:mnd // " ✕ "
		return false, true
	}
	return false, false
}

func (b *Board) cardHeight(it board.Item, col *column, width int) int {
	return len(b.cardContentLines(it, col, width)) + cardBorders
}

// cardContentLines lays out a card: title, then the description when it is
// not empty, then the date when one is set.
func (b *Board) cardContentLines(it board.Item, col *column, width int) []string {
	cardWidth := max(width-cardChrome, 1)

	lines := wrapText(it.Content, cardWidth, titleLines)

	if n := b.cfg.BodyLines(); n > 0 && strings.TrimSpace(it.Description) != "" {
		for _, line := range wrapText(strings.Join(strings.Fields(it.Description), " "), cardWidth, n) {
			lines = append(lines, dimStyle.Render(line))
		}
	}

	if it.Date != nil {
		style := dimStyle
		if b.isOverdue(*it.Date, col.id) {
			style = overdueStyle
		}
		lines = append(lines, style.Render(truncate(it.Date.String(), cardWidth)))
	}
	return lines
}

func (b *Board) isOverdue(d date.Date, columnID string) bool {
	ids := b.cfg.ColumnIDs()
	if len(ids) > 0 && ids[len(ids)-1] == columnID {
		return false
	}
	today := b.now()
	return d.Before(date.New(today.Year(), today.Month(), today.Day()).Time)
}

// visibleRange returns the half-open range of rows drawn for col.
func (b *Board) visibleRange(col *column, width int) (int, int) {
	start := min(col.scrollOff, len(col.items))
	end := min(start+b.visibleCardsForColumn(col, width), len(col.items))
	return start, end
}

// visibleCardsForColumn returns the number of cards that fit in the column,
// accounting for scroll indicator lines that consume vertical space.
func (b *Board) visibleCardsForColumn(col *column, width int) int {
	budget := b.boardHeight()
	if budget < 1 {
		return 1
	}

	avail := budget - headerLines
	if col.scrollOff > 0 {
		avail--
	}

	n := b.fitCardsInHeight(col, avail, width)
	if col.scrollOff+n < len(col.items) {
		n = max(b.fitCardsInHeight(col, avail-1, width), 1)
	}
	return n
}

func (b *Board) fitCardsInHeight(col *column, avail, width int) int {
	if len(col.items) == 0 || avail < 1 {
		return 1
	}

	used, count := 0, 0
	for i := col.scrollOff; i < len(col.items); i++ {
		h := b.cardHeight(col.items[i], col, width)
		if count > 0 && used+h > avail {
			break
		}
		count++
		used += h
		if used >= avail {
			break
		}
	}
	return max(count, 1)
}

// cardBox is the screen extent of one card in a column.
type cardBox struct {
	row    int
	top    int
	height int
}

// cardBoxes returns the vertical extent of every card in col. Cards scrolled
// off the top get negative tops so midpoints stay ordered.
func (b *Board) cardBoxes(col *column, width int) []cardBox {
	y := headerLines
	if col.scrollOff > 0 {
		y++
	}
	for i := col.scrollOff - 1; i >= 0; i-- {
		y -= b.cardHeight(col.items[i], col, width)
	}

	boxes := make([]cardBox, len(col.items))
	for i, it := range col.items {
		h := b.cardHeight(it, col, width)
		boxes[i] = cardBox{row: i, top: y, height: h}
		y += h
	}
	return boxes
}

func (b *Board) renderStatusBar() string {
	var status string
	if g, ok := b.drag.Active(); ok {
		target := g.Column
		if target == "" {
			target = "(outside: drop cancels)"
		}
		status = fmt.Sprintf(" moving %s → %s | enter:drop esc:cancel", g.ItemID, target)
	} else {
		status = fmt.Sprintf(" %s | %d tasks | n:new e:edit d:del m:move r:reload q:quit",
			b.cfg.Board.Name, len(b.repo.Tasks()))
	}
	status = truncate(status, b.width)

	if b.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+b.err.Error(), b.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}
	return statusBarStyle.Render(status)
}

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		"  " + b.deleteTitle + "\n\n" +
		dimStyle.Render("y:yes  n:no")
	return b.center(dialogStyle.Render(content))
}

func (b *Board) center(s string) string {
	if b.width == 0 || b.height == 0 {
		return s
	}
	return lipgloss.Place(b.width, b.height, lipgloss.Center, lipgloss.Center, s)
}

// wrapText splits s across maxLines lines, word-wrapping at word boundaries.
// The last line is truncated when the text does not fit.
func wrapText(s string, maxWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if lipgloss.Width(s) <= maxWidth || maxLines == 1 {
		return []string{truncate(s, maxWidth)}
	}

	words := strings.Fields(s)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if lipgloss.Width(current.String())+1+lipgloss.Width(word) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
			continue
		}
		lines = append(lines, truncate(current.String(), maxWidth))
		current.Reset()
		current.WriteString(word)
		if len(lines) == maxLines-1 {
			// Last line: append all remaining words.
			for _, w := range words[i+1:] {
				current.WriteByte(' ')
				current.WriteString(w)
			}
			break
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	return lines
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	return ansi.Truncate(s, maxLen, "...")
}
