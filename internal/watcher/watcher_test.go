package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestEventTypeFromOp(t *testing.T) {
	assert.Equal(t, EventTypeCreated, eventType(fsnotify.Create))
	assert.Equal(t, EventTypeModified, eventType(fsnotify.Write))
	assert.Equal(t, EventTypeDeleted, eventType(fsnotify.Remove))
	assert.Equal(t, EventTypeRenamed, eventType(fsnotify.Rename))
	assert.Equal(t, EventTypeModified, eventType(fsnotify.Chmod))
}

func TestDebouncerCoalescesByPath(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Add(ChangeEvent{Type: EventTypeCreated, Path: "b.yaml"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "a.yaml"})
	d.Add(ChangeEvent{Type: EventTypeModified, Path: "b.yaml"})

	select {
	case batch := <-d.Output():
		assert.Equal(t, []ChangeEvent{
			{Type: EventTypeModified, Path: "a.yaml"},
			{Type: EventTypeModified, Path: "b.yaml"},
		}, batch)
	case <-time.After(2 * time.Second):
		t.Fatal("no batch delivered")
	}
}

func TestSameFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "profile.yaml")
	filter := SameFile(target)

	assert.True(t, filter(target))
	assert.True(t, filter(filepath.Join(dir, ".", "profile.yaml")))
	assert.False(t, filter(filepath.Join(dir, "profile.yaml.swp")))
	assert.False(t, filter(filepath.Join(dir, "other.yaml")))
}

func TestFileWatcherDeliversChanges(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(target, []byte("name: a\n"), 0o644))

	fw, err := NewFileWatcher(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	fw.AddFilter(SameFile(target))

	var mu sync.Mutex
	var got []ChangeEvent
	fw.AddHandler(func(events []ChangeEvent) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, events...)
		return nil
	})
	require.NoError(t, fw.AddPath(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(target, []byte("name: b\n"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, 3*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, event := range got {
		assert.Equal(t, "profile.yaml", filepath.Base(event.Path))
	}
}

func TestFileWatcherAddPathMissing(t *testing.T) {
	fw, err := NewFileWatcher(10*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	assert.Error(t, fw.AddPath(filepath.Join(t.TempDir(), "missing")))
}

func TestFileWatcherStopIsIdempotent(t *testing.T) {
	fw, err := NewFileWatcher(10*time.Millisecond, nil)
	require.NoError(t, err)

	assert.NoError(t, fw.Stop())
	assert.NoError(t, fw.Stop())
}
