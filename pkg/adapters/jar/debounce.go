package jar

import (
	"sync"
	"time"
)

// debouncer coalesces bursts of filesystem events into a single callback.
// Editors and atomic renames produce several events per logical change; the
// watcher only cares that the jar settled into a new state.
type debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	timer   *time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(quiet time.Duration) *debouncer {
	return &debouncer{quiet: quiet}
}

// trigger re-arms the quiet window. fn runs once the window elapses with no
// further triggers. After stopAndWait, triggers are dropped.
func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		if d.timer.Stop() {
			d.wg.Done()
		}
	}
	d.wg.Add(1)
	d.timer = time.AfterFunc(d.quiet, func() {
		defer d.wg.Done()
		d.mu.Lock()
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn()
		}
	})
}

// stopAndWait stops accepting triggers and waits for an in-flight callback
// to complete, up to timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
