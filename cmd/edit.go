package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a task",
	Long: `Changes the title, description or date of a task. The task keeps its id,
stage and position; use move to change those.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().StringP("description", "d", "", "new description (markdown)")
	editCmd.Flags().String("date", "", "new date (YYYY-MM-DD)")
	editCmd.Flags().Bool("clear-date", false, "remove the date")
	editCmd.Flags().SetNormalizeFunc(normalizeTaskFlags)
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	patch, err := editPatch(cmd)
	if err != nil {
		return err
	}

	s, err := openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	id := args[0]
	found, err := s.repo.Update(cmd.Context(), id, patch)
	if err != nil {
		return err
	}
	if !found {
		_, err = findTask(s.repo, id)
		return err
	}
	t, _ := s.repo.FindByID(id)
	s.logger.Debug("edited task", "id", t.ID)
	logActivity(s.cfg, board.ActionEdit, t.ID, t.Title)

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, t)
	}
	output.Messagef(w, "Updated task %s: %s", t.ID, t.Title)
	return nil
}

// editPatch builds a patch from the flags that were set.
func editPatch(cmd *cobra.Command) (board.TaskPatch, error) {
	var patch board.TaskPatch
	flags := cmd.Flags()
	changed := false

	if flags.Changed("title") {
		title, _ := flags.GetString("title")
		title = strings.TrimSpace(title)
		if title == "" {
			return patch, clierr.New(clierr.InvalidInput, "title cannot be empty")
		}
		patch.Title = &title
		changed = true
	}
	if flags.Changed("description") {
		description, _ := flags.GetString("description")
		patch.Description = &description
		changed = true
	}

	clearDate, _ := flags.GetBool("clear-date")
	if flags.Changed("date") {
		if clearDate {
			return patch, clierr.New(clierr.InvalidInput, "--date and --clear-date are mutually exclusive")
		}
		raw, _ := flags.GetString("date")
		d, err := date.Parse(raw)
		if err != nil {
			return patch, clierr.Wrap(clierr.InvalidDate, err)
		}
		patch.Date = &d
		changed = true
	}
	if clearDate {
		patch.ClearDate = true
		changed = true
	}

	if !changed {
		return patch, clierr.New(clierr.InvalidInput,
			"nothing to change; use --title, --description, --date or --clear-date")
	}
	return patch, nil
}
