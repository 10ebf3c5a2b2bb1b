// Package watch re-runs an action whenever a workbook file is saved.
//
// Spreadsheet applications rarely write a file in place: they write a
// temporary file and rename it over the original, producing a burst of
// create, write and rename events. The watcher therefore observes the file's
// directory, keeps only events naming the file, and collapses each burst into
// one handler call once the file has been quiet for the debounce window.
package watch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before the
// handler runs.
const DefaultDebounce = 250 * time.Millisecond

// Handler is called with the watched path after a burst of changes.
type Handler func(ctx context.Context, path string) error

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period; zero means DefaultDebounce.
	Debounce time.Duration

	// RunOnStart calls the handler once before waiting for changes.
	RunOnStart bool

	// Logger receives handler failures. Nil discards them.
	Logger *log.Logger
}

// Watcher watches one file.
type Watcher struct {
	path     string
	handler  Handler
	debounce time.Duration
	onStart  bool
	logger   *log.Logger
	watcher  *fsnotify.Watcher
}

// New starts watching the directory containing path. Call Run to process
// events and Close to release the watcher if Run is never called.
func New(path string, handler Handler, opts *Options) (*Watcher, error) {
	if opts == nil {
		opts = &Options{}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		handler:  handler,
		debounce: opts.Debounce,
		onStart:  opts.RunOnStart,
		logger:   opts.Logger,
		watcher:  fw,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run processes events until ctx is done. Handler calls are serial; a
// failing handler is logged and watching continues. Run closes the watcher
// before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if w.onStart {
		w.call(ctx)
	}

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	stop := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			stop()
			w.call(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// Close stops watching without running.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}

func (w *Watcher) call(ctx context.Context) {
	if err := w.handler(ctx, w.path); err != nil {
		w.logger.Error("handler failed", "path", w.path, "err", err)
	}
}
