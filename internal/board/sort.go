package board

import (
	"slices"
	"sort"
	"strings"
)

// Sort fields accepted by Sort.
const (
	SortBoard = "board"
	SortTitle = "title"
	SortDate  = "date"
)

// SortFields lists the accepted --sort values.
func SortFields() []string {
	return []string{SortBoard, SortTitle, SortDate}
}

// Sort sorts tasks by the given field. The board order (stage order from
// stageIDs, then position) is the default and the tie breaker.
func Sort(tasks []Task, field string, reverse bool, stageIDs []string) {
	sort.SliceStable(tasks, func(i, j int) bool {
		less := compareTasks(tasks[i], tasks[j], field, stageIDs)
		if reverse {
			return !less
		}
		return less
	})
}

func compareTasks(a, b Task, field string, stageIDs []string) bool {
	switch field {
	case SortTitle:
		if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
			return c < 0
		}
	case SortDate:
		if a.Date != nil || b.Date != nil {
			switch {
			case a.Date == nil:
				return false // nil sorts last
			case b.Date == nil:
				return true
			case !a.Date.Equal(*b.Date):
				return a.Date.Before(b.Date.Time)
			}
		}
	}
	return boardLess(a, b, stageIDs)
}

func boardLess(a, b Task, stageIDs []string) bool {
	ai, bi := slices.Index(stageIDs, a.Stage), slices.Index(stageIDs, b.Stage)
	if ai != bi {
		return ai < bi
	}
	return a.Position < b.Position
}
