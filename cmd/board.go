package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/date"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
	"github.com/twiced-technology-gmbh/taskboard/internal/watcher"
)

var flagWatch bool

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"summary"},
	Short:   "Show board summary",
	Long: `Displays a summary of the board: task counts per column, dated and overdue counts.

Use --watch to keep the display live-updating. The summary re-renders whenever the
board's store changes on disk (e.g., from the TUI in another terminal).
Press Ctrl+C to stop.`,
	RunE: runBoard,
}

func init() {
	boardCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "live-update the summary on store changes")
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, _ []string) error {
	s, err := openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	w := cmd.OutOrStdout()
	if err := renderBoard(w, s); err != nil {
		return err
	}
	if !flagWatch {
		return nil
	}
	return watchBoard(cmd.Context(), w, s)
}

func renderBoard(w io.Writer, s *session) error {
	ov := board.Summary(s.cfg, s.repo.Columns(), date.Today())
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(w, ov)
	case output.FormatCompact:
		output.OverviewCompact(w, ov)
	default:
		output.OverviewTable(w, ov, s.cfg)
	}
	return nil
}

func watchBoard(parent context.Context, w io.Writer, s *session) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.New([]string{s.cfg.WatchPath()}, func() {
		if reloadErr := s.repo.Reload(ctx); reloadErr != nil {
			s.logger.Warn("reloading board", "err", reloadErr)
			return
		}
		clearScreen(w)
		if renderErr := renderBoard(w, s); renderErr != nil {
			s.logger.Warn("rendering board", "err", renderErr)
		}
	})
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer fw.Close()

	fmt.Fprintln(os.Stderr, "Watching for changes... (Ctrl+C to stop)")

	fw.Run(ctx, func(watchErr error) {
		s.logger.Warn("file watcher", "err", watchErr)
	})
	return nil
}

// clearScreen sends ANSI escape codes to clear the terminal and move the
// cursor to the top-left corner.
func clearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}
