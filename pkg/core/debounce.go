package core

import (
	"sync"
	"time"
)

// saveScheduler coalesces rapid edits into a single deferred write per
// storage key. A scheduled save fires once the quiescence window elapses
// without another schedule call for the same key; an explicit save cancels
// the pending timer so it can never fire after the record was flushed.
type saveScheduler struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]*time.Timer
	fns     map[string]func()
}

func newSaveScheduler(window time.Duration) *saveScheduler {
	return &saveScheduler{
		window:  window,
		pending: make(map[string]*time.Timer),
		fns:     make(map[string]func()),
	}
}

// schedule arms (or re-arms) the timer for key. fire runs on the timer
// goroutine once the window elapses.
func (s *saveScheduler) schedule(key string, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[key]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(s.window, func() {
		s.mu.Lock()
		// A cancel or re-schedule that raced the timer firing wins: only
		// the timer still registered for its key may flush.
		if s.pending[key] != timer {
			s.mu.Unlock()
			return
		}
		delete(s.pending, key)
		delete(s.fns, key)
		s.mu.Unlock()
		fire()
	})
	s.fns[key] = fire
	s.pending[key] = timer
}

// cancel stops a pending save for key. It reports whether one was pending.
func (s *saveScheduler) cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.pending[key]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.pending, key)
	delete(s.fns, key)
	return true
}

// flush cancels every pending timer and runs the deferred saves
// immediately on the calling goroutine.
func (s *saveScheduler) flush() {
	s.mu.Lock()
	fires := make([]func(), 0, len(s.fns))
	for key, t := range s.pending {
		t.Stop()
		fires = append(fires, s.fns[key])
		delete(s.pending, key)
		delete(s.fns, key)
	}
	s.mu.Unlock()

	for _, fire := range fires {
		fire()
	}
}

// pendingCount reports how many saves are waiting on their window.
func (s *saveScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
