package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-crosswire"
)

// ChangeFunc receives a freshly loaded File after its content changed.
type ChangeFunc func(ctx context.Context, file *File) error

// AppendTo returns a ChangeFunc that appends changed files to registry.
func AppendTo(registry *crosswire.Registry) ChangeFunc {
	return func(ctx context.Context, file *File) error {
		return registry.Append(ctx, file)
	}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchLogger sets the logger for reload results. Defaults to discard.
func WithWatchLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithDebounce coalesces bursts of events for one file.
func WithDebounce(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		if delay > 0 {
			w.debounce = delay
		}
	}
}

// Watcher reloads configuration files when they change on disk. Directories
// are watched rather than files so editors that replace files atomically are
// still observed.
type Watcher struct {
	paths     map[string]struct{}
	onChange  ChangeFunc
	logger    *slog.Logger
	debounce  time.Duration
	checksums map[string]string
}

// NewWatcher watches paths and calls onChange with each reloaded file.
func NewWatcher(onChange ChangeFunc, paths []string, opts ...WatcherOption) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("source: watcher requires a change callback")
	}
	if len(paths) == 0 {
		return nil, errors.New("source: watcher requires at least one path")
	}
	w := &Watcher{
		paths:     make(map[string]struct{}, len(paths)),
		onChange:  onChange,
		logger:    slog.New(slog.DiscardHandler),
		debounce:  50 * time.Millisecond,
		checksums: make(map[string]string, len(paths)),
	}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("source: watch %q: %w", path, err)
		}
		if _, err := FormatFromPath(abs); err != nil {
			return nil, err
		}
		w.paths[abs] = struct{}{}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Run blocks until ctx is done or the underlying watcher fails. Current
// file contents are recorded first and do not trigger onChange.
func (w *Watcher) Run(ctx context.Context) error {
	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("source: create watcher: %w", err)
	}
	defer notifier.Close()

	dirs := make(map[string]struct{})
	for path := range w.paths {
		if file, err := Load(path); err == nil {
			w.checksums[path] = file.Meta().Checksum
		}
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := notifier.Add(dir); err != nil {
			return fmt.Errorf("source: watch %q: %w", dir, err)
		}
	}

	return w.loop(ctx, notifier.Events, notifier.Errors, make(chan string))
}

// loop serves events until ctx is done or a channel closes. Debounce timers
// deliver on pending and give up once loop has returned.
func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, pending chan string) error {
	done := make(chan struct{})
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, timer := range timers {
			timer.Stop()
		}
		close(done)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return errors.New("source: watcher events channel closed")
			}
			path, tracked := w.tracked(event)
			if !tracked {
				continue
			}
			if timer, ok := timers[path]; ok {
				timer.Reset(w.debounce)
				continue
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				select {
				case pending <- path:
				case <-done:
				}
			})

		case path := <-pending:
			w.reload(ctx, path)

		case err, ok := <-errs:
			if !ok {
				return errors.New("source: watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) tracked(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}
	_, ok := w.paths[path]
	return path, ok
}

func (w *Watcher) reload(ctx context.Context, path string) {
	file, err := Load(path)
	if err != nil {
		w.logger.Warn("configuration reload failed", "path", path, "error", err)
		return
	}
	checksum := file.Meta().Checksum
	if w.checksums[path] == checksum {
		w.logger.Debug("configuration unchanged", "path", path)
		return
	}
	w.checksums[path] = checksum
	if err := w.onChange(ctx, file); err != nil {
		w.logger.Error("configuration change rejected", "path", path, "error", err)
		return
	}
	w.logger.Info("configuration reloaded", "path", path, "settings", len(file.settings))
}
