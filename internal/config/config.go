package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
)

const (
	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no task board found (run 'taskboard init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the board configuration.
type Config struct {
	Version int            `yaml:"version"`
	Board   BoardConfig    `yaml:"board"`
	Columns []ColumnConfig `yaml:"columns"`
	Store   StoreConfig    `yaml:"store"`
	TUI     TUIConfig      `yaml:"tui,omitempty"`
	Log     LogConfig      `yaml:"log,omitempty"`

	// dir is the absolute path to the board directory (not serialized).
	dir string `yaml:"-"`
}

// BoardConfig holds board metadata.
type BoardConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// ColumnConfig defines one stage of the board.
type ColumnConfig struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// UnmarshalYAML accepts either a bare id ("todo") or a mapping.
func (c *ColumnConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		c.ID = value.Value
		return nil
	}
	type plain ColumnConfig
	return value.Decode((*plain)(c))
}

// Label returns the display name, falling back to the id.
func (c ColumnConfig) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Key     string `yaml:"key"`
}

// TUIConfig holds TUI display settings.
type TUIConfig struct {
	BodyLines     int   `yaml:"body_lines,omitempty"`
	ConfirmDelete *bool `yaml:"confirm_delete,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// Dir returns the absolute path to the board directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the board directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// StorePath returns the directory used by the file backend.
func (c *Config) StorePath() string {
	return filepath.Join(c.dir, storeDirName)
}

// SQLitePath returns the database file used by the sqlite backend.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.dir, sqliteFileName)
}

// LogPath returns the file the TUI writes its logs to.
func (c *Config) LogPath() string {
	return filepath.Join(c.dir, logFileName)
}

// WatchPath returns the path whose changes signal an external write.
func (c *Config) WatchPath() string {
	if c.Store.Backend == BackendSQLite {
		return c.dir
	}
	return c.StorePath()
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version: CurrentVersion,
		Board:   BoardConfig{Name: name},
		Columns: append([]ColumnConfig{}, DefaultColumns...),
		Store:   StoreConfig{Backend: BackendFile, Key: DefaultStoreKey},
		TUI:     TUIConfig{BodyLines: DefaultBodyLines},
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// ColumnIDs returns the ordered list of column ids.
func (c *Config) ColumnIDs() []string {
	ids := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		ids[i] = col.ID
	}
	return ids
}

// Column returns the column with the given id.
func (c *Config) Column(id string) (ColumnConfig, bool) {
	for _, col := range c.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return ColumnConfig{}, false
}

// ColumnIndex returns the index of a column id in the configured order, or -1.
func (c *Config) ColumnIndex(id string) int {
	return slices.Index(c.ColumnIDs(), id)
}

// ResolveColumn matches an id or a case-sensitive display name.
func (c *Config) ResolveColumn(s string) (string, bool) {
	for _, col := range c.Columns {
		if col.ID == s || col.Name == s {
			return col.ID, true
		}
	}
	return "", false
}

// BodyLines returns the number of description lines shown on cards.
func (c *Config) BodyLines() int {
	return c.TUI.BodyLines
}

// ConfirmDelete reports whether the TUI asks before deleting. Defaults to true.
func (c *Config) ConfirmDelete() bool {
	if c.TUI.ConfirmDelete == nil {
		return true
	}
	return *c.TUI.ConfirmDelete
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Board.Name == "" {
		return fmt.Errorf("%w: board.name is required", ErrInvalid)
	}
	ids := c.ColumnIDs()
	if len(ids) < 1 {
		return fmt.Errorf("%w: at least 1 column is required", ErrInvalid)
	}
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: column id is required", ErrInvalid)
		}
	}
	if hasDuplicates(ids) {
		return fmt.Errorf("%w: columns contain duplicate ids", ErrInvalid)
	}
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("%w: store.backend must be %q or %q", ErrInvalid, BackendFile, BackendSQLite)
	}
	if c.Store.Key == "" {
		return fmt.Errorf("%w: store.key is required", ErrInvalid)
	}
	const maxBodyLines = 4
	if c.TUI.BodyLines < 0 || c.TUI.BodyLines > maxBodyLines {
		return fmt.Errorf("%w: tui.body_lines must be between 0 and %d", ErrInvalid, maxBodyLines)
	}
	if c.Log.Level != "" && !slices.Contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("%w: log.level %q is not one of %v", ErrInvalid, c.Log.Level, LogLevels)
	}
	return nil
}

// Init creates a new board in dir with the given config and writes it.
func Init(dir string, cfg *Config) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	cfg.SetDir(absDir)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return fmt.Errorf("creating board directory: %w", err)
	}
	if cfg.Store.Backend == BackendFile {
		if err := os.MkdirAll(cfg.StorePath(), dirMode); err != nil {
			return fmt.Errorf("creating store directory: %w", err)
		}
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given board directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dir = absDir

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendFile
	}
	if cfg.Store.Key == "" {
		cfg.Store.Key = DefaultStoreKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindDir walks upward from startDir looking for a board directory
// containing config.yml. Returns the absolute path to the board directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the board directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.BoardNotFound, ErrNotFound.Error())
		}
		dir = parent
	}
}

func hasDuplicates(slice []string) bool {
	seen := make(map[string]bool, len(slice))
	for _, s := range slice {
		if seen[s] {
			return true
		}
		seen[s] = true
	}
	return false
}
