package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".session.json")

	mgr := NewManagerWithPath(path)
	require.NoError(t, mgr.Load())
	require.NoError(t, mgr.Set(BaseURLKey, "https://api.example.com/dev"))

	reloaded := NewManagerWithPath(path)
	require.NoError(t, reloaded.Load())

	value, ok := reloaded.Get(BaseURLKey)
	assert.True(t, ok)
	assert.Equal(t, "https://api.example.com/dev", value)
}

func TestManager_LoadMissingFileUsesDefaults(t *testing.T) {
	mgr := NewManagerWithPath(filepath.Join(t.TempDir(), "missing.json"))

	require.NoError(t, mgr.Load())

	_, ok := mgr.Get(BaseURLKey)
	assert.False(t, ok)
	assert.True(t, mgr.IsHistoryEnabled())
}

func TestManager_LoadRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	err := NewManagerWithPath(path).Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse session file")
}

func TestManager_HistoryToggle(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".session.json")
	mgr := NewManagerWithPath(path)

	require.NoError(t, mgr.SetHistoryEnabled(false))

	reloaded := NewManagerWithPath(path)
	require.NoError(t, reloaded.Load())
	assert.False(t, reloaded.IsHistoryEnabled())
}

func TestManager_SetKeepsPreviousValueOnWriteError(t *testing.T) {
	mgr := NewManagerWithPath(filepath.Join(t.TempDir(), "missing", ".session.json"))
	require.Error(t, mgr.Set(BaseURLKey, "http://new"))

	_, ok := mgr.Get(BaseURLKey)
	assert.False(t, ok, "unsaved key must not appear")

	dir := t.TempDir()
	path := filepath.Join(dir, ".session.json")
	mgr = NewManagerWithPath(path)
	require.NoError(t, mgr.Set(BaseURLKey, "http://old"))

	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))

	require.Error(t, mgr.Set(BaseURLKey, "http://new"))
	value, ok := mgr.Get(BaseURLKey)
	assert.True(t, ok)
	assert.Equal(t, "http://old", value)

	require.Error(t, mgr.SetHistoryEnabled(false))
	assert.True(t, mgr.IsHistoryEnabled())
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get(BaseURLKey)
	assert.False(t, ok)

	require.NoError(t, store.Set(BaseURLKey, "http://x"))
	value, ok := store.Get(BaseURLKey)
	assert.True(t, ok)
	assert.Equal(t, "http://x", value)
}

func TestManager_WatchReportsExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".session.json")
	mgr := NewManagerWithPath(path)
	require.NoError(t, mgr.Save())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 4)
	go func() {
		_ = mgr.Watch(ctx, func(baseURL string) { changes <- baseURL })
	}()

	// Give the watcher a moment to register before writing
	time.Sleep(100 * time.Millisecond)

	other := NewManagerWithPath(path)
	require.NoError(t, other.Set(BaseURLKey, "https://changed.example.com"))

	select {
	case got := <-changes:
		assert.Equal(t, "https://changed.example.com", got)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}
