package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	overdue     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	colored     = true
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	overdue = lipgloss.NewStyle()
	colored = false
	plainMarkdown()
}

// stageStyle colors a column id with its configured color.
func stageStyle(cfg *config.Config, stage string) lipgloss.Style {
	if !colored {
		return lipgloss.NewStyle()
	}
	if c, ok := cfg.Column(stage); ok && c.Color != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color))
	}
	return lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []board.Task, cfg *config.Config) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, stageW, titleW := 4, 7, 5
	for _, t := range tasks {
		idW = max(idW, min(lipgloss.Width(t.ID), 36)+pad) //nolint:mnd // uuid width
		stageW = max(stageW, lipgloss.Width(t.Stage)+pad)
		titleW = max(titleW, min(lipgloss.Width(t.Title)+pad, 50)) //nolint:mnd // max title column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %s",
		idW, "ID", stageW, "STAGE", 4, "POS", titleW, "TITLE", "DATE") //nolint:mnd // POS width
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		const maxTitle = 48
		title := truncate(t.Title, maxTitle)
		dateStr := dimStyle.Render("--")
		if t.Date != nil {
			dateStr = t.Date.String()
		}
		row := fmt.Sprintf("%s %s %-4d %s %s",
			padRight(t.ID, idW),
			padRight(stageStyle(cfg, t.Stage).Render(t.Stage), stageW),
			t.Position,
			padRight(title, titleW),
			dateStr)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with its description as markdown.
func TaskDetail(w io.Writer, t board.Task, cfg *config.Config) {
	titleLine := "Task " + t.ID + ": " + t.Title
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", min(lipgloss.Width(titleLine), 80))) //nolint:mnd // rule width

	stage := t.Stage
	if c, ok := cfg.Column(t.Stage); ok {
		stage = c.Label() + " (" + t.Stage + ")"
	}
	printField(w, "Stage", stageStyle(cfg, t.Stage).Render(stage))
	printField(w, "Position", fmt.Sprint(t.Position))
	if t.Date != nil {
		printField(w, "Date", dateLabel(*t.Date, cfg, t.Stage))
	} else {
		printField(w, "Date", dimStyle.Render("--"))
	}

	if t.Description != "" {
		fmt.Fprintln(w)
		const wrap = 80
		fmt.Fprintln(w, Markdown(t.Description, wrap))
	}
}

func dateLabel(d date.Date, cfg *config.Config, stage string) string {
	ids := cfg.ColumnIDs()
	last := len(ids) > 0 && ids[len(ids)-1] == stage
	if !last && d.Before(date.Today().Time) {
		return overdue.Render(d.String() + " (overdue)")
	}
	return d.String()
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview, cfg *config.Config) {
	fmt.Fprintln(w, titleStyle.Render(s.BoardName))
	fmt.Fprintf(w, "Total: %d tasks\n\n", s.TotalTasks)

	const nameW = 20
	header := fmt.Sprintf("%-*s %6s %6s %8s", nameW, "COLUMN", "COUNT", "DATED", "OVERDUE")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, cs := range s.Columns {
		fmt.Fprintf(w, "%s %6d %6d %8d\n",
			padRight(stageStyle(cfg, cs.ID).Render(cs.Name), nameW),
			cs.Count, cs.Dated, cs.Overdue)
	}
}

// HistoryTable renders activity journal entries.
func HistoryTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	header := fmt.Sprintf("%-16s %-7s %-12s %s", "TIME", "ACTION", "TASK", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, e := range entries {
		fmt.Fprintf(w, "%s %-7s %s %s\n",
			dimStyle.Render(e.Timestamp.Local().Format("2006-01-02 15:04")),
			e.Action,
			padRight(truncate(e.TaskID, 12), 12), //nolint:mnd // id column width
			e.Detail)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-10s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	const ellipsis = 3
	return string(runes[:max(maxLen-ellipsis, 1)]) + "..."
}
