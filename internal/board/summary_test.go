package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
)

func TestSummary(t *testing.T) {
	cfg := config.NewDefault("demo")
	past := date.New(2020, time.January, 1)
	cols := Seed(DefaultColumnIDs())
	cols[0].Items = append(cols[0].Items, Item{ID: "x", Content: "late", Date: &past})
	cols[2].Items = append(cols[2].Items, Item{ID: "y", Content: "done late", Date: &past})

	ov := Summary(cfg, cols, date.New(2024, time.June, 1))
	assert.Equal(t, "demo", ov.BoardName)
	assert.Equal(t, 5, ov.TotalTasks)
	assert.Equal(t, ColumnSummary{ID: "todo", Name: "To Do", Count: 2, Dated: 1, Overdue: 1}, ov.Columns[0])
	assert.Equal(t, ColumnSummary{ID: "completed", Name: "Completed", Count: 2, Dated: 1, Overdue: 0}, ov.Columns[2])
}
