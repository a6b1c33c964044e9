package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{"/b/store/kanban-data.json", fsnotify.Create, true},
		{"/b/store/kanban-data.json", fsnotify.Chmod, false},
		{"/b/store/.lock", fsnotify.Write, false},
		{"/b/store/.kanban-data-123.tmp", fsnotify.Create, false},
		{"/b/taskboard.log", fsnotify.Write, false},
		{"/b/activity.jsonl", fsnotify.Write, false},
		{"/b/board.sqlite-wal", fsnotify.Write, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relevant(fsnotify.Event{Name: tt.name, Op: tt.op}), tt.name)
	}
}

func TestDebouncedCallback(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w, err := New([]string{dir}, func() { calls.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, nil)

	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "kanban-data.json"), []byte{byte('0' + i)}, 0o600))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(3 * debounceDelay)
	assert.LessOrEqual(t, calls.Load(), int32(2))
}
