package board

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/twiced-technology-gmbh/taskboard/internal/filelock"
)

const (
	journalName     = "activity.jsonl"
	journalLockName = ".activity.lock"
	journalMode     = 0o600

	// journalMaxBytes triggers compaction down to journalKeep entries.
	journalMaxBytes = 1 << 20
	journalKeep     = 5000
)

// Activity actions written to the journal.
const (
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionMove   = "move"
	ActionDelete = "delete"
	ActionImport = "import"
)

// LogEntry is one line of the activity journal.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    string    `json:"task_id,omitempty"`
	Detail    string    `json:"detail"`
}

// AppendLog appends entry to the board's activity journal. Writers from
// different processes are serialized by a lock file next to the journal.
func AppendLog(boardDir string, entry LogEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}
	path := filepath.Join(boardDir, journalName)

	return filelock.With(filepath.Join(boardDir, journalLockName), func() error {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, journalMode) //nolint:gosec // path inside the board dir
		if err != nil {
			return fmt.Errorf("opening activity log: %w", err)
		}
		_, werr := f.Write(append(line, '\n'))
		info, serr := f.Stat()
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return fmt.Errorf("writing activity log: %w", werr)
		}
		if serr == nil && info.Size() > journalMaxBytes {
			return compactJournal(path)
		}
		return nil
	})
}

// compactJournal keeps the newest journalKeep entries. The caller holds the lock.
func compactJournal(path string) error {
	entries, err := readJournal(path)
	if err != nil {
		return err
	}
	if len(entries) > journalKeep {
		entries = entries[len(entries)-journalKeep:]
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, journalMode) //nolint:gosec // path inside the board dir
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			_ = f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// readJournal decodes every parseable line of the journal at path.
func readJournal(path string) ([]LogEntry, error) {
	f, err := os.Open(path) //nolint:gosec // path inside the board dir
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		if json.Unmarshal(scanner.Bytes(), &e) == nil {
			entries = append(entries, e)
		}
	}
	return entries, scanner.Err()
}

// ReadLog returns the newest limit entries, oldest first. limit <= 0 means all.
// Unparseable lines are skipped; a board with no journal has no entries.
func ReadLog(boardDir string, limit int) ([]LogEntry, error) {
	entries, err := readJournal(filepath.Join(boardDir, journalName))
	if errors.Is(err, os.ErrNotExist) {
		return []LogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	if entries == nil {
		entries = []LogEntry{}
	}
	return entries, nil
}

// LogMutation records a mutation in the journal. A failure to write the
// journal never fails the mutation itself.
func LogMutation(boardDir, action, taskID, detail string) {
	_ = AppendLog(boardDir, LogEntry{
		Timestamp: time.Now(),
		Action:    action,
		TaskID:    taskID,
		Detail:    detail,
	})
}
