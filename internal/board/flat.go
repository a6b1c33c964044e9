package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
)

// FlatTask is one record of the flat whole-collection layout:
// a single JSON array of {id, title, description, date, stage}.
type FlatTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Stage       string `json:"stage"`
}

// FlatTasks renders the document in the flat layout.
func FlatTasks(cols []Column) []FlatTask {
	out := []FlatTask{}
	for _, c := range cols {
		for _, it := range c.Items {
			out = append(out, FlatTask{
				ID:          it.ID,
				Title:       it.Content,
				Description: it.Description,
				Date:        date.Format(it.Date, ""),
				Stage:       c.ID,
			})
		}
	}
	return out
}

// MarshalFlat encodes the document in the flat layout.
func MarshalFlat(cols []Column) ([]byte, error) {
	return json.MarshalIndent(FlatTasks(cols), "", "  ")
}

// UnmarshalFlat decodes a flat layout into a per-column document over
// columnIDs. Records keep their relative order within a stage. A record whose
// stage is not one of columnIDs fails with COLUMN_NOT_FOUND; duplicate ids
// fail with INVALID_INPUT.
func UnmarshalFlat(data []byte, columnIDs []string) ([]Column, error) {
	if err := validate(flatValidator, data); err != nil {
		cliErr := clierr.Newf(clierr.InvalidInput, "decoding task list: %v", err)
		var se *SchemaError
		if errors.As(err, &se) {
			cliErr = cliErr.WithDetails(map[string]any{"path": se.Path})
		}
		return nil, cliErr
	}
	var flat []FlatTask
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, clierr.Newf(clierr.InvalidInput, "decoding task list: %v", err)
	}

	cols := emptyColumns(columnIDs)
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c.ID] = i
	}
	seen := make(map[string]bool, len(flat))

	for n, ft := range flat {
		ci, ok := index[ft.Stage]
		if !ok {
			return nil, columnNotFound(ft.Stage)
		}
		if ft.ID == "" || seen[ft.ID] {
			return nil, clierr.Newf(clierr.InvalidInput, "record %d: missing or duplicate id %q", n, ft.ID)
		}
		seen[ft.ID] = true
		d, err := date.ParseOptional(ft.Date)
		if err != nil {
			return nil, clierr.Newf(clierr.InvalidDate, "record %d: %v", n, err)
		}
		cols[ci].Items = append(cols[ci].Items, Item{
			ID:          ft.ID,
			Content:     ft.Title,
			Description: ft.Description,
			Date:        d,
		})
	}
	return cols, nil
}

// Import replaces the document with a flat task list.
func (r *Repository) Import(ctx context.Context, data []byte) (int, error) {
	cols, err := UnmarshalFlat(data, r.ColumnIDs())
	if err != nil {
		return 0, err
	}
	if err := r.Replace(ctx, cols); err != nil {
		return 0, fmt.Errorf("importing: %w", err)
	}
	n := 0
	for _, c := range cols {
		n += len(c.Items)
	}
	return n, nil
}
