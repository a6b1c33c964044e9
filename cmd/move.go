package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var moveCmd = &cobra.Command{
	Use:   "move ID COLUMN",
	Short: "Move a task to a column",
	Long: `Moves a task to a column, given by id or display name. Without --position the
task is appended; positions past the end are clamped. This is the scripted
equivalent of dragging a card in the board.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // id and column
	RunE: runMove,
}

func init() {
	moveCmd.Flags().IntP("position", "p", 0, "zero-based position in the target column")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	s, err := openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	id := args[0]
	from, err := findTask(s.repo, id)
	if err != nil {
		return err
	}
	stage, err := resolveStage(s.cfg, args[1])
	if err != nil {
		return err
	}

	position := len(s.repo.Items(stage))
	if cmd.Flags().Changed("position") {
		position, _ = cmd.Flags().GetInt("position")
		if position < 0 {
			return clierr.Newf(clierr.InvalidPosition, "position must be >= 0, got %d", position)
		}
	}

	t, err := s.repo.Move(cmd.Context(), id, stage, position)
	if err != nil {
		return err
	}

	moved := t.Stage != from.Stage || t.Position != from.Position
	if moved {
		s.logger.Debug("moved task", "id", t.ID, "from", from.Stage, "to", t.Stage, "position", t.Position)
		logActivity(s.cfg, board.ActionMove, t.ID, from.Stage+" -> "+t.Stage)
	}

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, map[string]any{
			"task":  t,
			"from":  from.Stage,
			"moved": moved,
		})
	}
	if !moved {
		output.Messagef(w, "Task %s is already at %s #%d", t.ID, t.Stage, t.Position)
		return nil
	}
	output.Messagef(w, "Moved task %s: %s -> %s #%d", t.ID, from.Stage, t.Stage, t.Position)
	return nil
}
