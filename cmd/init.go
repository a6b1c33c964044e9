package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/config"
	"github.com/twiced-technology-gmbh/taskboard/internal/kvstore"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new task board",
	Long: `Creates a board directory with config.yml and the store for the chosen backend.
Columns default to To Do, In Progress and Completed; pass --columns id[:Name],...
to choose others.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("name", "", "board name (defaults to current directory name)")
	initCmd.Flags().StringSlice("columns", nil, "comma-separated columns as id or id:Name")
	initCmd.Flags().String("backend", config.BackendFile, "store backend (file, sqlite)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = config.DefaultDir
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.BoardAlreadyExists, "board already initialized in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg := config.NewDefault(name)
	cfg.Store.Backend, _ = cmd.Flags().GetString("backend")
	if columns, _ := cmd.Flags().GetStringSlice("columns"); len(columns) > 0 {
		cfg.Columns = parseColumns(columns)
	}

	if err := config.Init(absDir, cfg); err != nil {
		if errors.Is(err, config.ErrInvalid) {
			return clierr.Wrap(clierr.ValidationFailed, err)
		}
		return err
	}

	// Create the backing store now so a sqlite board has its database file.
	store, err := kvstore.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}

	w := cmd.OutOrStdout()
	if outputFormat() == output.FormatJSON {
		return output.JSON(w, map[string]string{
			"status":  "initialized",
			"dir":     absDir,
			"name":    name,
			"config":  cfg.ConfigPath(),
			"backend": cfg.Store.Backend,
			"columns": strings.Join(cfg.ColumnIDs(), ","),
		})
	}

	output.Messagef(w, "Initialized board %q in %s", name, absDir)
	output.Messagef(w, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(w, "  Store:   %s", cfg.Store.Backend)
	output.Messagef(w, "  Columns: %s", strings.Join(cfg.ColumnIDs(), ", "))
	return nil
}

// parseColumns turns "id" or "id:Name" entries into column configs.
func parseColumns(entries []string) []config.ColumnConfig {
	cols := make([]config.ColumnConfig, 0, len(entries))
	for _, e := range entries {
		id, name, _ := strings.Cut(strings.TrimSpace(e), ":")
		cols = append(cols, config.ColumnConfig{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)})
	}
	return cols
}
