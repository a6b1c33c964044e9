package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []board.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with its raw description.
func TaskDetailCompact(w io.Writer, t board.Task) {
	fmt.Fprintln(w, formatTaskLine(t))
	if t.Description != "" {
		for _, line := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks)\n", s.BoardName, s.TotalTasks)
	for _, cs := range s.Columns {
		line := "  " + cs.ID + ": " + strconv.Itoa(cs.Count)
		if cs.Overdue > 0 {
			line += " (" + strconv.Itoa(cs.Overdue) + " overdue)"
		}
		fmt.Fprintln(w, line)
	}
}

// HistoryCompact renders journal entries one per line.
func HistoryCompact(w io.Writer, entries []board.LogEntry) {
	for _, e := range entries {
		line := e.Timestamp.Local().Format("2006-01-02T15:04:05") + " " + e.Action
		if e.TaskID != "" {
			line += " " + e.TaskID
		}
		if e.Detail != "" {
			line += " " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}

func formatTaskLine(t board.Task) string {
	line := t.ID + " [" + t.Stage + "#" + strconv.Itoa(t.Position) + "] " + t.Title
	if t.Date != nil {
		line += " date:" + t.Date.String()
	}
	return line
}
