package jar

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/noodle/pkg/core"
)

// Watch implements core.Watchable. It reports entries changed out-of-band
// (another process writing the same jar file) as key-level events. pattern
// is a doublestar glob matched against the raw storage key; "**" or
// "noodle_*" observe everything the engine owns.
//
// The returned channel closes when ctx is canceled.
func (j *Jar) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %s", pattern)
	}

	events := make(chan core.Event, 64)
	w := newWatchWorker(j, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return w.Stop(context.Background())
	})

	return events, nil
}

type watchWorker struct {
	*worker.BaseWorker
	jar       *Jar
	pattern   string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(j *Jar, pattern string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("jar-watcher"),
		jar:        j,
		pattern:    pattern,
		events:     events,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory, not the file: atomic renames replace the inode
	// and a file-level watch would silently die on the first write.
	if err := watcher.Add(filepath.Dir(w.jar.config.Path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch jar directory: %w", err)
	}

	snap, err := w.jar.snapshot()
	if err != nil {
		_ = watcher.Close()
		return err
	}
	w.jar.mu.Lock()
	w.jar.lastSnapshot = snap
	w.jar.mu.Unlock()

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)
	w.jar.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}
	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (w *watchWorker) run(ctx context.Context) error {
	defer func() {
		w.debouncer.stopAndWait(5 * time.Second)
		_ = w.watcher.Close()
		w.jar.setWatcherActive(false)
		close(w.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.jar.config.Path) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.debouncer.trigger(func() { w.reconcile(ctx) })

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.jar.config.Logger != nil {
				w.jar.config.Logger.Error("fsnotify error", "error", err)
			}
		}
	}
}

// reconcile diffs the jar's current state against the last observed
// snapshot and emits one event per changed key.
func (w *watchWorker) reconcile(ctx context.Context) {
	current, err := w.jar.snapshot()
	if err != nil {
		if w.jar.config.Logger != nil {
			w.jar.config.Logger.Error("jar reconcile failed", "error", err)
		}
		return
	}

	w.jar.mu.Lock()
	previous := w.jar.lastSnapshot
	w.jar.lastSnapshot = current
	w.jar.mu.Unlock()

	now := time.Now().Unix()

	for key, value := range current {
		prev, existed := previous[key]
		switch {
		case !existed:
			w.emit(ctx, core.Event{Type: core.EventCreate, Key: key, Timestamp: now})
		case prev != value:
			w.emit(ctx, core.Event{Type: core.EventModify, Key: key, Timestamp: now})
		}
	}
	for key := range previous {
		if _, still := current[key]; !still {
			w.emit(ctx, core.Event{Type: core.EventDelete, Key: key, Timestamp: now})
		}
	}
}

func (w *watchWorker) emit(ctx context.Context, e core.Event) {
	if match, err := doublestar.Match(w.pattern, e.Key); err != nil || !match {
		return
	}
	defer func() {
		// Recover if the channel closed during shutdown.
		_ = recover()
	}()
	select {
	case w.events <- e:
	case <-ctx.Done():
	}
}
