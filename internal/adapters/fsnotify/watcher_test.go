package fsnotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(target, []byte("x = 1\n"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 8)
	require.NoError(t, w.Watch(target, func(path string) { changed <- path }))

	require.NoError(t, os.WriteFile(target, []byte("x = 2\n"), 0644))

	select {
	case path := <-changed:
		abs, _ := filepath.Abs(target)
		assert.Equal(t, abs, path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event received")
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.py")
	sibling := filepath.Join(dir, "other.py")
	require.NoError(t, os.WriteFile(target, []byte("x = 1\n"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 8)
	require.NoError(t, w.Watch(target, func(path string) { changed <- path }))

	require.NoError(t, os.WriteFile(sibling, []byte("y = 1\n"), 0644))

	select {
	case path := <-changed:
		t.Fatalf("unexpected event for %s", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
