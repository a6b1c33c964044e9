package cmd

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long:    `Lists tasks in board order with optional filtering, sorting, and output format control.`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringSlice("stage", nil, "filter by stage id or name (comma-separated)")
	listCmd.Flags().StringP("search", "s", "", "search title and description (case-insensitive)")
	listCmd.Flags().String("sort", board.SortBoard, "sort field ("+strings.Join(board.SortFields(), ", ")+")")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit number of results")
	listCmd.Flags().Bool("dated", false, "show only tasks with a date")
	listCmd.Flags().Bool("undated", false, "show only tasks without a date")
	listCmd.Flags().String("due-before", "", "show only tasks dated before YYYY-MM-DD")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	stages, _ := cmd.Flags().GetStringSlice("stage")
	search, _ := cmd.Flags().GetString("search")
	sortBy, _ := cmd.Flags().GetString("sort")
	reverse, _ := cmd.Flags().GetBool("reverse")
	limit, _ := cmd.Flags().GetInt("limit")
	dated, _ := cmd.Flags().GetBool("dated")
	undated, _ := cmd.Flags().GetBool("undated")
	dueBefore, _ := cmd.Flags().GetString("due-before")

	if !slices.Contains(board.SortFields(), sortBy) {
		return clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(board.SortFields(), ", "))
	}
	if dated && undated {
		return clierr.New(clierr.InvalidInput, "--dated and --undated are mutually exclusive")
	}

	filter := board.FilterOptions{Search: search}
	for _, st := range stages {
		id, err := resolveStage(s.cfg, st)
		if err != nil {
			return err
		}
		filter.Stages = append(filter.Stages, id)
	}
	switch {
	case dated:
		filter.Dated = &dated
	case undated:
		no := false
		filter.Dated = &no
	}
	if dueBefore != "" {
		d, err := date.Parse(dueBefore)
		if err != nil {
			return clierr.Wrap(clierr.InvalidDate, err)
		}
		filter.DueBefore = &d
	}

	tasks := s.repo.List(board.ListOptions{Filter: filter, SortBy: sortBy, Reverse: reverse, Limit: limit})

	w := cmd.OutOrStdout()
	switch outputFormat() {
	case output.FormatJSON:
		if tasks == nil {
			tasks = []board.Task{}
		}
		return output.JSON(w, tasks)
	case output.FormatCompact:
		output.TaskCompact(w, tasks)
	default:
		output.TaskTable(w, tasks, s.cfg)
	}
	return nil
}
