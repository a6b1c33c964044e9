// Package logging builds the leveled loggers used by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLevel overrides the configured log level.
const EnvLevel = "TASKBOARD_LOG_LEVEL"

const (
	prefix      = "taskboard"
	logFileMode = 0o600
)

// ParseLevel maps a level name to a log.Level. Unknown names yield WarnLevel.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// ResolveLevel picks the first non-empty of flag, $TASKBOARD_LOG_LEVEL and configured.
func ResolveLevel(flag, configured string) log.Level {
	for _, l := range []string{flag, os.Getenv(EnvLevel), configured} {
		if l != "" {
			return ParseLevel(l)
		}
	}
	return log.WarnLevel
}

// New returns a text logger writing to w.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:     level,
		Formatter: log.TextFormatter,
		Prefix:    prefix,
	})
}

// OpenFile returns a timestamped logfmt logger appending to path. The TUI
// logs here so output never lands on the alternate screen.
func OpenFile(path string, level log.Level) (*log.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // path inside the board dir
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	return logger, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
