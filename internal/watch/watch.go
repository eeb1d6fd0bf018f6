// Package watch reports changes to a single file, debounced.
//
// The parent directory is watched rather than the file itself so editors
// that save by rename-and-replace keep triggering events.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes from a single save.
const DefaultDebounce = 300 * time.Millisecond

// ErrWatch is returned when the file cannot be watched.
var ErrWatch = errors.New("failed to watch file")

// FileWatcher watches one file.
type FileWatcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *FileWatcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a FileWatcher for path.
func New(path string, opts ...Option) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}
	w := &FileWatcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Run blocks until ctx is done, calling onChange after each debounced burst
// of writes, creates or renames of the file. Calls never overlap: a change
// arriving while onChange runs is reported once it returns.
func (w *FileWatcher) Run(ctx context.Context, onChange func(context.Context)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWatch, err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWatch, dir, err)
	}

	w.logger.Info("watching file", "path", w.path, "debounce", w.debounce)

	name := filepath.Base(w.path)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name || !relevant(event.Op) {
				continue
			}
			w.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}
