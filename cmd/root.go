// Package cmd implements the taskboard CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/board"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/kvstore"
	"github.com/twiced-technology-gmbh/taskboard/internal/logging"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON     bool
	flagTable    bool
	flagCompact  bool
	flagDir      string
	flagNoColor  bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Kanban task board for the terminal",
	Long: `taskboard keeps a kanban board of tasks in stages (To Do, In Progress, Completed).
Run taskboard without arguments to open the interactive board; drag cards between
columns with the mouse or with m and the arrow keys. The subcommands script the
same board from the shell.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		output.ConfigureColor(flagNoColor)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to board directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	os.Exit(reportError(os.Stdout, os.Stderr, err))
}

// reportError writes err in the active output mode and returns the exit code.
func reportError(stdout, stderr io.Writer, err error) int {
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		return silent.Code
	}

	e := clierr.From(err)
	if outputFormat() == output.FormatJSON {
		output.JSONError(stdout, e.Code, e.Message, e.Details)
	} else {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return e.ExitCode()
}

// defaultHomeDir returns the path to ~/.config/taskboard.
func defaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", config.DefaultDir), nil
}

// resolveDir returns the board directory. Falls back to ~/.config/taskboard
// when no board is found in the current directory tree.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	dir, err := config.FindDir(cwd)
	if err == nil {
		return dir, nil
	}
	return defaultHomeDir()
}

// loadConfig finds and loads the board config. The home default board is
// created on first use.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, clierr.Wrap(clierr.ValidationFailed, err)
	}

	homeDir, homeErr := defaultHomeDir()
	if homeErr != nil || dir != homeDir {
		return nil, clierr.Newf(clierr.BoardNotFound, "%v: %s", err, dir)
	}
	if err := config.Init(homeDir, config.NewDefault(config.DefaultDir)); err != nil {
		return nil, err
	}
	return config.Load(homeDir)
}

// session is an opened board: config, store and repository.
type session struct {
	cfg    *config.Config
	store  kvstore.Store
	repo   *board.Repository
	logger *log.Logger
}

// openBoard loads the config and opens the board's store.
func openBoard(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	store, err := kvstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	repo, err := board.Open(ctx, store, cfg.Store.Key, cfg.ColumnIDs())
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Debug("opened board", "dir", cfg.Dir(), "backend", cfg.Store.Backend, "seeded", repo.Seeded())
	return &session{cfg: cfg, store: store, repo: repo, logger: logger}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// newLogger returns the CLI logger. It writes to stderr so it never mixes
// with command output.
func newLogger(cfg *config.Config) *log.Logger {
	return logging.New(os.Stderr, logging.ResolveLevel(flagLogLevel, cfg.Log.Level))
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// logActivity appends an entry to the activity log.
func logActivity(cfg *config.Config, action, taskID, detail string) {
	board.LogMutation(cfg.Dir(), action, taskID, detail)
}

// findTask returns the task with id or a TASK_NOT_FOUND error.
func findTask(repo *board.Repository, id string) (board.Task, error) {
	t, ok := repo.FindByID(id)
	if !ok {
		return board.Task{}, clierr.Newf(clierr.TaskNotFound, "task %q not found", id).
			WithDetails(map[string]any{"id": id})
	}
	return t, nil
}

// resolveStage maps a column id or display name to a column id.
func resolveStage(cfg *config.Config, s string) (string, error) {
	id, ok := cfg.ResolveColumn(s)
	if !ok {
		return "", clierr.Newf(clierr.ColumnNotFound, "unknown column %q; columns: %v", s, cfg.ColumnIDs()).
			WithDetails(map[string]any{"column": s})
	}
	return id, nil
}
