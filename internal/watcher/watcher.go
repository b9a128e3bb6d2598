// Package watcher monitors a directory for document changes so new and
// edited files can be ingested automatically.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/askdocs/internal/logger"
)

// ChangeType describes what happened to a watched file.
type ChangeType int

const (
	ChangeCreated ChangeType = iota
	ChangeUpdated
	ChangeRemoved
)

// Change is a single filesystem event on an eligible file.
type Change struct {
	Type ChangeType
	Path string
}

// Watcher emits Change events for files under a directory, filtered to
// a set of extensions. Hidden files are always ignored.
type Watcher struct {
	dir        string
	extensions map[string]struct{}
	fsw        *fsnotify.Watcher
}

// New creates a watcher for dir. Extensions are matched
// case-insensitively with their leading dot ("..txt" style entries are
// normalized); an empty list watches every file.
func New(dir string, extensions []string) *Watcher {
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	return &Watcher{dir: dir, extensions: exts}
}

// Watch starts watching and returns the event channel. The channel is
// closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	info, err := os.Stat(w.dir)
	if err != nil {
		return nil, fmt.Errorf("watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch dir %s: not a directory", w.dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.fsw = fsw

	changes := make(chan Change)
	go w.loop(ctx, changes)

	logger.Info("Watching %s", w.dir)
	return changes, nil
}

func (w *Watcher) loop(ctx context.Context, changes chan<- Change) {
	defer close(changes)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			change, ok := w.translate(event)
			if !ok {
				continue
			}
			select {
			case changes <- change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// translate maps an fsnotify event to a Change, reporting false for
// events on ineligible files and for operations that carry no content
// change (chmod).
func (w *Watcher) translate(event fsnotify.Event) (Change, bool) {
	if !w.eligible(event.Name) {
		return Change{}, false
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		return Change{Type: ChangeCreated, Path: event.Name}, true
	case event.Op.Has(fsnotify.Write):
		return Change{Type: ChangeUpdated, Path: event.Name}, true
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		return Change{Type: ChangeRemoved, Path: event.Name}, true
	default:
		return Change{}, false
	}
}

func (w *Watcher) eligible(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if len(w.extensions) == 0 {
		return true
	}
	_, ok := w.extensions[strings.ToLower(filepath.Ext(base))]
	return ok
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	if w.fsw == nil {
		return nil
	}
	return w.fsw.Close()
}
