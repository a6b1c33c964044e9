package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/taskboard/internal/date"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Stages []string
	Search string // case-insensitive substring match across title and description
	Dated  *bool  // nil=no filter, true=only with a date, false=only without
	// DueBefore keeps dated tasks whose date is strictly before this day.
	DueBefore *date.Date
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []Task, opts FilterOptions) []Task {
	var result []Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t Task, opts FilterOptions) bool {
	if len(opts.Stages) > 0 && !slices.Contains(opts.Stages, t.Stage) {
		return false
	}
	if opts.Dated != nil && (t.Date != nil) != *opts.Dated {
		return false
	}
	if opts.DueBefore != nil && (t.Date == nil || !t.Date.Before(opts.DueBefore.Time)) {
		return false
	}
	if opts.Search != "" {
		q := strings.ToLower(opts.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
}

// List filters, sorts and limits the repository's tasks.
func (r *Repository) List(opts ListOptions) []Task {
	tasks := Filter(r.Tasks(), opts.Filter)
	Sort(tasks, opts.SortBy, opts.Reverse, r.ColumnIDs())
	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}
	return tasks
}
