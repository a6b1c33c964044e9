package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var createCmd = &cobra.Command{
	Use:     "create [TITLE]",
	Aliases: []string{"add"},
	Short:   "Create a task",
	Long: `Appends a task to the end of a stage (the first column by default).
The title comes from the argument or --title; --date takes YYYY-MM-DD.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("title", "", "task title")
	createCmd.Flags().StringP("description", "d", "", "task description (markdown)")
	createCmd.Flags().String("date", "", "task date (YYYY-MM-DD)")
	createCmd.Flags().String("stage", "", "stage id or name (defaults to the first column)")
	createCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(createCmd)
}

// normalizeTaskFlags accepts --desc and --body for --description.
func normalizeTaskFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "desc", "body":
		name = "description"
	}
	return pflag.NormalizedName(name)
}

func runCreate(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	if len(args) > 0 {
		if title != "" {
			return clierr.New(clierr.InvalidInput, "give the title as an argument or with --title, not both")
		}
		title = args[0]
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return clierr.New(clierr.InvalidInput, "title is required")
	}

	description, _ := cmd.Flags().GetString("description")
	rawDate, _ := cmd.Flags().GetString("date")
	d, err := date.ParseOptional(rawDate)
	if err != nil {
		return clierr.Wrap(clierr.InvalidDate, err)
	}

	s, err := openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	stage := s.cfg.ColumnIDs()[0]
	if st, _ := cmd.Flags().GetString("stage"); st != "" {
		if stage, err = resolveStage(s.cfg, st); err != nil {
			return err
		}
	}

	t, err := s.repo.Add(cmd.Context(), board.Task{
		Title:       title,
		Description: description,
		Date:        d,
		Stage:       stage,
	})
	if err != nil {
		return err
	}
	s.logger.Debug("created task", "id", t.ID, "stage", t.Stage)
	logActivity(s.cfg, board.ActionCreate, t.ID, t.Title)

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, t)
	}
	output.Messagef(w, "Created task %s: %s", t.ID, t.Title)
	return nil
}
