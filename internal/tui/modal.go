package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
)

type modalMode int

const (
	modalCreate modalMode = iota
	modalEdit
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDate
	fieldCount

	modalMaxWidth    = 60
	descriptionLines = 5
	titleLimit       = 200
)

// modal is the create/edit form.
type modal struct {
	mode     modalMode
	columnID string
	itemID   string

	title       textinput.Model
	description textarea.Model
	date        textinput.Model
	focus       int

	badDate bool
}

func newModal(mode modalMode, width int) *modal {
	m := &modal{mode: mode}

	m.title = textinput.New()
	m.title.Placeholder = "Title"
	m.title.CharLimit = titleLimit
	m.title.Prompt = ""

	m.description = textarea.New()
	m.description.Placeholder = "Description (optional)"
	m.description.ShowLineNumbers = false
	m.description.SetHeight(descriptionLines)

	m.date = textinput.New()
	m.date.Placeholder = date.Layout
	m.date.CharLimit = len(date.Layout)
	m.date.Prompt = ""

	m.resize(width)
	return m
}

func (m *modal) resize(width int) {
	w := modalMaxWidth
	if width > 0 {
		w = min(w, width-2*dialogPadX-4) //nolint:mnd // dialog border and margin
	}
	w = max(w, 10) //nolint:mnd // usable minimum
	m.title.Width = w
	m.description.SetWidth(w)
	m.date.Width = w
}

// setFocus moves keyboard focus to field i.
func (m *modal) setFocus(i int) tea.Cmd {
	m.focus = (i + fieldCount) % fieldCount
	m.title.Blur()
	m.description.Blur()
	m.date.Blur()
	switch m.focus {
	case fieldDescription:
		return m.description.Focus()
	case fieldDate:
		return m.date.Focus()
	default:
		return m.title.Focus()
	}
}

// update forwards msg to the focused field.
func (m *modal) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case fieldDescription:
		m.description, cmd = m.description.Update(msg)
	case fieldDate:
		m.date, cmd = m.date.Update(msg)
		if _, typed := msg.(tea.KeyMsg); typed {
			m.badDate = false
		}
	default:
		m.title, cmd = m.title.Update(msg)
	}
	return cmd
}

// values validates the form. ok is false for an empty title or a malformed
// date, in which case the form stays open.
func (m *modal) values() (title, description string, d *date.Date, ok bool) {
	title = strings.TrimSpace(m.title.Value())
	if title == "" {
		return "", "", nil, false
	}
	d, err := date.ParseOptional(m.date.Value())
	if err != nil {
		m.badDate = true
		return "", "", nil, false
	}
	return title, m.description.Value(), d, true
}

func (m *modal) view() string {
	heading := "New task"
	if m.mode == modalEdit {
		heading = "Edit task"
	}

	dateLabel := labelStyle.Render("Date")
	if m.badDate {
		dateLabel = errorStyle.Render("Date")
	}

	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(heading),
		"",
		labelStyle.Render("Title"),
		m.title.View(),
		"",
		labelStyle.Render("Description"),
		m.description.View(),
		"",
		dateLabel,
		m.date.View(),
		"",
		dimStyle.Render("tab:next field  ctrl+s:save  esc:cancel"),
	))
}

func (b *Board) openCreate(columnID string) tea.Cmd {
	m := newModal(modalCreate, b.width)
	m.columnID = columnID
	b.modal = m
	b.view = viewModal
	return m.setFocus(fieldTitle)
}

func (b *Board) openEdit(it board.Item) tea.Cmd {
	b.press = nil
	m := newModal(modalEdit, b.width)
	m.itemID = it.ID
	m.title.SetValue(it.Content)
	m.description.SetValue(it.Description)
	m.date.SetValue(date.Format(it.Date, ""))
	b.modal = m
	b.view = viewModal
	return m.setFocus(fieldTitle)
}

func (b *Board) closeModal() {
	b.modal = nil
	b.view = viewBoard
	b.rebuild()
	b.settle()
}

func (b *Board) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m := b.modal
	switch msg.String() {
	case keyEsc:
		b.closeModal()
		return b, nil
	case "tab":
		return b, m.setFocus(m.focus + 1)
	case "shift+tab":
		return b, m.setFocus(m.focus - 1)
	case "ctrl+s":
		b.submitModal()
		return b, nil
	case keyEnter:
		if m.focus != fieldDescription {
			b.submitModal()
			return b, nil
		}
	}
	return b, m.update(msg)
}

// submitModal saves the form. Invalid input leaves the form open.
func (b *Board) submitModal() {
	m := b.modal
	title, description, d, ok := m.values()
	if !ok {
		return
	}

	switch m.mode {
	case modalCreate:
		t, err := b.repo.Add(b.ctx, board.Task{
			Title:       title,
			Description: description,
			Date:        d,
			Stage:       m.columnID,
		})
		if err != nil {
			b.fail("creating task", err)
			break
		}
		b.logger.Info("created task", "id", t.ID, "stage", t.Stage)
		board.LogMutation(b.cfg.Dir(), board.ActionCreate, t.ID, t.Title)
		b.closeModal()
		b.selectItem(t.ID)
		return
	case modalEdit:
		patch := board.TaskPatch{Title: &title, Description: &description, Date: d, ClearDate: d == nil}
		found, err := b.repo.Update(b.ctx, m.itemID, patch)
		if err != nil {
			b.fail("editing task", err)
			break
		}
		if found {
			b.logger.Info("edited task", "id", m.itemID)
			board.LogMutation(b.cfg.Dir(), board.ActionEdit, m.itemID, title)
		}
	}
	b.closeModal()
}

// selectItem moves the selection onto the card with id.
func (b *Board) selectItem(id string) {
	for ci := range b.columns {
		for ri, it := range b.columns[ci].items {
			if it.ID == id {
				b.activeCol, b.activeRow = ci, ri
				b.ensureVisible()
				return
			}
		}
	}
}
