package reload

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/mesh-intelligence/tokens/internal/theme"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Result reports the outcome of one reload.
type Result struct {
	Path  string
	Table *theme.Table // Nil when Err is set.
	Err   error
}

// Watcher reloads a theme file into a Holder whenever it changes. A file
// that fails to load leaves the previous table in place.
type Watcher struct {
	path     string
	holder   *Holder
	logger   *log.Logger
	debounce time.Duration
	onReload func(Result)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger for reload outcomes.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithCallback registers fn to receive every reload outcome.
func WithCallback(fn func(Result)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher returns a Watcher for the theme file at path.
func NewWatcher(path string, holder *Holder, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		holder:   holder,
		logger:   log.New(io.Discard),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Reload loads the file now and swaps it in on success.
func (w *Watcher) Reload() error {
	tbl, err := theme.LoadFile(w.path)
	if err != nil {
		w.logger.Error("theme reload failed, keeping previous table", "file", w.path, "err", err)
		w.report(Result{Path: w.path, Err: err})
		return err
	}
	w.holder.Swap(tbl)
	w.logger.Info("theme reloaded", "file", w.path, "tokens", tbl.Len())
	w.report(Result{Path: w.path, Table: tbl})
	return nil
}

func (w *Watcher) report(r Result) {
	if w.onReload != nil {
		w.onReload(r)
	}
}

// Run watches the file's directory until ctx is cancelled. Editors often
// replace files by rename, so the directory is watched rather than the
// file itself.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	target, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", w.path, err)
	}
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}
	w.logger.Info("watching theme", "file", w.path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("theme file event", "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "err", err)

		case <-fire:
			fire = nil
			_ = w.Reload()
		}
	}
}
