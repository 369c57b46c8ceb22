// Package watch triggers rebuilds when content files change. Events are
// debounced so editor save bursts collapse into one rebuild.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/siteforge/internal/logfields"
)

// DefaultDebounce is the quiet period required before a trigger fires.
const DefaultDebounce = 500 * time.Millisecond

// Watcher observes a directory tree and invokes a callback after changes settle.
type Watcher struct {
	root     string
	ignore   []string // directory base names not watched (e.g. the output dir)
	debounce time.Duration
	onChange func()
}

// New creates a watcher over root. ignore lists directory names to skip, so
// generator output does not retrigger builds.
func New(root string, ignore []string, debounce time.Duration, onChange func()) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, ignore: ignore, debounce: debounce, onChange: onChange}
}

// Run watches until the context is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.root); err != nil {
		return err
	}
	slog.Info("Watching for content changes", logfields.Path(w.root))

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(ev.Name) {
				continue
			}
			// New directories must be picked up for future events.
			if ev.Op.Has(fsnotify.Create) {
				_ = w.addRecursive(fsw, ev.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-timerC:
			timer = nil
			timerC = nil
			w.onChange()
		}
	}
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil //nolint:nilerr // transient entries disappear mid-walk; skip them
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && base != "." {
		return true
	}
	for _, ig := range w.ignore {
		if ig == "" {
			continue
		}
		if base == ig || strings.Contains(path, string(filepath.Separator)+ig+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
