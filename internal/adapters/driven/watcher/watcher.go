// Package watcher reports file changes in a directory using fsnotify.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/vibecraft/cadbook/internal/core/ports/driven"
	"github.com/vibecraft/cadbook/internal/logger"
)

// Verify interface compliance.
var _ driven.DirectoryWatcher = (*Watcher)(nil)

// Watcher implements driven.DirectoryWatcher for a single, non-recursive
// directory.
type Watcher struct {
	buffer int
}

// New creates a Watcher.
func New() *Watcher {
	return &Watcher{buffer: 64}
}

// Watch starts watching dir. The returned channel is closed when ctx is
// cancelled or the underlying watcher fails.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan string, w.buffer)
	go func() {
		defer close(out)
		defer fsw.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				path, relevant := handleEvent(event)
				if !relevant {
					continue
				}
				select {
				case out <- path:
				case <-ctx.Done():
					return
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error on %s: %v", dir, err)
			}
		}
	}()

	logger.Debug("watching %s", dir)
	return out, nil
}

// handleEvent filters an fsnotify event down to a changed file path.
// Chmod-only events, hidden files and directories are ignored.
func handleEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	if isHidden(event.Name) {
		return "", false
	}
	if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return "", false
		}
	}
	return event.Name, true
}

// isHidden reports whether the file name starts with a dot.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
