package snapshot

import (
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/leaptable/internal/store"
)

// Saver debounces snapshot writes: every state change rearms a short window,
// and the snapshot is written once the window goes quiet. Wire Trigger as the
// store's OnChange hook. Flush forces a pending write; call it on shutdown so
// the last burst of edits survives.
type Saver struct {
	mu      sync.Mutex
	store   *store.Store
	sink    *SQLiteStore
	window  time.Duration
	timer   *time.Timer
	pending bool
	logger  *slog.Logger
}

// NewSaver creates a saver writing the store's snapshots into the sink.
// A zero window writes on every change.
func NewSaver(src *store.Store, sink *SQLiteStore, window time.Duration, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Saver{
		store:  src,
		sink:   sink,
		window: window,
		logger: logger,
	}
}

// Trigger marks the state dirty and (re)arms the flush window.
func (s *Saver) Trigger() {
	s.mu.Lock()
	s.pending = true
	if s.window <= 0 {
		s.mu.Unlock()
		s.Flush()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, s.Flush)
	s.mu.Unlock()
}

// Flush writes the current state when dirty.
func (s *Saver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	dirty := s.pending
	s.pending = false
	s.mu.Unlock()

	if !dirty {
		return
	}
	state := s.store.Snapshot()
	if err := s.sink.Save(&state); err != nil {
		s.logger.Error("snapshot save failed", "error", err)
	}
}

// Close flushes any pending write.
func (s *Saver) Close() {
	s.Flush()
}
