package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/logging"
	"github.com/twiced-technology-gmbh/taskboard/internal/tui"
	"github.com/twiced-technology-gmbh/taskboard/internal/watcher"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := openBoard(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	logger, closer, err := logging.OpenFile(s.cfg.LogPath(), logging.ResolveLevel(flagLogLevel, s.cfg.Log.Level))
	if err != nil {
		return fmt.Errorf("opening TUI log: %w", err)
	}
	defer closer.Close()

	model := tui.NewBoard(ctx, s.cfg, s.repo, logger)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	go startTUIWatcher(ctx, model, p)

	logger.Info("tui started", "dir", s.cfg.Dir(), "backend", s.cfg.Store.Backend)
	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Board, p *tea.Program) {
	w, err := watcher.New(model.WatchPaths(), func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		p.Send(tui.ErrorMsg(fmt.Errorf("live reload disabled: %w", err)))
		return
	}
	defer w.Close()
	w.Run(ctx, func(watchErr error) {
		p.Send(tui.ErrorMsg(watchErr))
	})
}
