// Package config handles taskboard configuration.
package config

const (
	// DefaultDir is the default board directory name.
	DefaultDir = "taskboard"

	// ConfigFileName is the name of the config file within the board directory.
	ConfigFileName = "config.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 1

	// DefaultStoreKey is the key under which the per-column document is stored.
	DefaultStoreKey = "kanban-data"

	// BackendFile stores each key as a JSON file under store/.
	BackendFile = "file"
	// BackendSQLite stores keys in a single SQLite database.
	BackendSQLite = "sqlite"

	// DefaultBodyLines is how many description lines a card shows.
	DefaultBodyLines = 2

	// DefaultLogLevel is used when neither config nor environment set one.
	DefaultLogLevel = "warn"

	storeDirName   = "store"
	sqliteFileName = "board.sqlite"
	logFileName    = "taskboard.log"
)

// Stage identifiers of a new board.
const (
	StageTodo       = "todo"
	StageInProgress = "in_progress"
	StageCompleted  = "completed"
)

// DefaultColumns are the three stages of a new board.
var DefaultColumns = []ColumnConfig{
	{ID: StageTodo, Name: "To Do", Color: "214"},
	{ID: StageInProgress, Name: "In Progress", Color: "33"},
	{ID: StageCompleted, Name: "Completed", Color: "34"},
}

// LogLevels lists the accepted values of log.level.
var LogLevels = []string{"debug", "info", "warn", "error"}
