package board

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
)

func titles(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func listFixture(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()
	r := newRepo(t, nil)
	early := date.New(2024, time.January, 10)
	late := date.New(2024, time.March, 1)
	_, err := r.Add(ctx, Task{Title: "beta release", Description: "ship it", Date: &late, Stage: config.StageTodo})
	require.NoError(t, err)
	_, err = r.Add(ctx, Task{Title: "Alpha notes", Date: &early, Stage: config.StageCompleted})
	require.NoError(t, err)
	return r
}

func TestListDefaultIsBoardOrder(t *testing.T) {
	r := listFixture(t)
	assert.Equal(t, []string{
		"Design project wireframe", "beta release",
		"Develop authentication system",
		"Test responsiveness on mobile", "Alpha notes",
	}, titles(r.List(ListOptions{})))
}

func TestListFilters(t *testing.T) {
	r := listFixture(t)

	got := r.List(ListOptions{Filter: FilterOptions{Stages: []string{config.StageCompleted}}})
	assert.Equal(t, []string{"Test responsiveness on mobile", "Alpha notes"}, titles(got))

	got = r.List(ListOptions{Filter: FilterOptions{Search: "SHIP"}})
	assert.Equal(t, []string{"beta release"}, titles(got))

	dated := true
	got = r.List(ListOptions{Filter: FilterOptions{Dated: &dated}})
	assert.Equal(t, []string{"beta release", "Alpha notes"}, titles(got))

	cutoff := date.New(2024, time.February, 1)
	got = r.List(ListOptions{Filter: FilterOptions{DueBefore: &cutoff}})
	assert.Equal(t, []string{"Alpha notes"}, titles(got))
}

func TestListSortAndLimit(t *testing.T) {
	r := listFixture(t)

	got := r.List(ListOptions{SortBy: SortDate, Limit: 2})
	assert.Equal(t, []string{"Alpha notes", "beta release"}, titles(got))

	got = r.List(ListOptions{SortBy: SortTitle})
	assert.Equal(t, "Alpha notes", got[0].Title)
	assert.Equal(t, "Test responsiveness on mobile", got[len(got)-1].Title)

	got = r.List(ListOptions{Reverse: true, Limit: 1})
	assert.Equal(t, []string{"Alpha notes"}, titles(got))
}
