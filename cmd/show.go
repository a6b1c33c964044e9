package cmd

import (
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show task details",
	Long:  `Displays one task with its stage, position, date and rendered description.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := findTask(s.repo, args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(w, t)
	case output.FormatCompact:
		output.TaskDetailCompact(w, t)
	default:
		output.TaskDetail(w, t, s.cfg)
	}
	return nil
}
