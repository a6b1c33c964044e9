package board

import (
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
)

// ColumnSummary holds metrics for a single column.
type ColumnSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Dated   int    `json:"dated"`
	Overdue int    `json:"overdue"`
}

// Overview is the aggregate board overview.
type Overview struct {
	BoardName  string          `json:"board_name"`
	TotalTasks int             `json:"total_tasks"`
	Columns    []ColumnSummary `json:"columns"`
}

// Summary computes per-column counts. A task is overdue when its date is
// before today and it is not in the last column.
func Summary(cfg *config.Config, cols []Column, today date.Date) Overview {
	ov := Overview{BoardName: cfg.Board.Name, Columns: make([]ColumnSummary, 0, len(cols))}
	for i, c := range cols {
		cs := ColumnSummary{ID: c.ID, Name: c.ID, Count: len(c.Items)}
		if cc, ok := cfg.Column(c.ID); ok {
			cs.Name = cc.Label()
		}
		last := i == len(cols)-1
		for _, it := range c.Items {
			if it.Date == nil {
				continue
			}
			cs.Dated++
			if !last && it.Date.Before(today.Time) {
				cs.Overdue++
			}
		}
		ov.TotalTasks += cs.Count
		ov.Columns = append(ov.Columns, cs)
	}
	return ov
}
