package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zapret/internal/adapters/watcher"
	"go.trai.ch/zapret/internal/core/domain"
	"go.trai.ch/zapret/internal/core/ports"
)

func TestWatcher_ReportsLogFiles(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "logs")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := watcher.New(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })
	require.NoError(t, w.Start(ctx, root))

	got := make(chan ports.WatchEvent, 16)
	go func() {
		for ev := range w.Events() {
			got <- ev
		}
		close(got)
	}()

	dir := filepath.Join(root, "service")
	require.NoError(t, os.Mkdir(dir, domain.DirPerm))
	// Give the watcher time to register the new category directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.tmp"), []byte("x"), domain.FilePerm))
	path := filepath.Join(dir, "2025-03-01T10-20-30.log")
	require.NoError(t, os.WriteFile(path, []byte("{}\n\nx"), domain.FilePerm))

	select {
	case ev := <-got:
		assert.Equal(t, path, ev.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for the log file")
	}

	cancel()
	for range got {
	}
}

func TestDebouncer_Coalesces(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls [][]string
	)
	done := make(chan struct{}, 1)
	d := watcher.NewDebouncer(30*time.Millisecond, func(paths []string) {
		mu.Lock()
		calls = append(calls, paths)
		mu.Unlock()
		done <- struct{}{}
	})

	d.Add("b.log")
	d.Add("a.log")
	d.Add("b.log")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"a.log", "b.log"}, calls[0])
}

func TestDebouncer_Flush(t *testing.T) {
	t.Parallel()

	var got []string
	d := watcher.NewDebouncer(time.Hour, func(paths []string) { got = paths })

	d.Flush()
	assert.Nil(t, got, "empty flush does not call back")

	d.Add("x.log")
	d.Flush()
	assert.Equal(t, []string{"x.log"}, got)
}
