package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

const exportFileMode = 0o600

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export the board as JSON",
	Long: `Writes every task as a flat JSON array of {id, title, description, date, stage}
in board order. With --raw the per-column document is written exactly as stored.
Writes to stdout unless FILE is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Bool("raw", false, "export the stored per-column document")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	raw, _ := cmd.Flags().GetBool("raw")
	var data []byte
	if raw {
		data, err = json.MarshalIndent(s.repo.Columns(), "", "  ")
	} else {
		data, err = board.MarshalFlat(s.repo.Columns())
	}
	if err != nil {
		return fmt.Errorf("encoding board: %w", err)
	}
	data = append(data, '\n')

	if len(args) == 0 || args[0] == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(args[0], data, exportFileMode); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	count := len(s.repo.Tasks())
	if outputFormat() == output.FormatJSON {
		return output.JSON(cmd.OutOrStdout(), map[string]any{"file": args[0], "tasks": count})
	}
	output.Messagef(cmd.OutOrStdout(), "Exported %d tasks to %s", count, args[0])
	return nil
}
