package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the session whenever its file changes on disk and calls
// onChange with the reloaded base URL. It blocks until ctx is done.
// The parent directory is watched because editors and os.WriteFile may
// replace the file instead of writing in place.
func (m *Manager) Watch(ctx context.Context, onChange func(baseURL string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create session watcher: %w", err)
	}
	defer watcher.Close()

	path := m.Path()
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve session path: %w", err)
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := m.Load(); err != nil {
				// Partial writes fail to parse; the next event carries the full file
				continue
			}
			baseURL, _ := m.Get(BaseURLKey)
			onChange(baseURL)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("session watcher: %w", err)
		}
	}
}
