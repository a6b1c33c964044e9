package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the board from an export",
	Long: `Reads a flat JSON array as written by export and replaces every task on the
board with it. Stages must name configured columns. Use - to read stdin.
Prompts for confirmation in interactive mode.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0]) //nolint:gosec // user-supplied import path
	}
	if err != nil {
		return fmt.Errorf("reading import: %w", err)
	}

	s, err := openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes && args[0] != "-" {
		q := fmt.Sprintf("Replace all %d tasks on %q?", len(s.repo.Tasks()), s.cfg.Board.Name)
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), q)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), "Canceled.")
			return nil
		}
	}

	n, err := s.repo.Import(cmd.Context(), data)
	if err != nil {
		return err
	}
	s.logger.Debug("imported tasks", "count", n)
	logActivity(s.cfg, board.ActionImport, "", fmt.Sprintf("%d tasks", n))

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, map[string]any{"status": "imported", "tasks": n})
	}
	output.Messagef(w, "Imported %d tasks", n)
	return nil
}
