package monitor

import (
	"sync"
	"time"

	"vigil/internal/event"
)

// Debouncer rate-limits one active session's observations per kind. It is an
// explicit value owned by the session's ingest state and discarded when the
// session ends, so cooldown windows never leak across sessions. It never
// classifies, only throttles.
type Debouncer struct {
	mu   sync.Mutex
	last map[event.Kind]time.Time
}

func NewDebouncer() *Debouncer {
	return &Debouncer{last: make(map[event.Kind]time.Time)}
}

// Allow reports whether an event of the kind may be forwarded at the given
// time, and if so records it as the kind's last emission. The check and the
// update happen under one lock so two concurrent emits of the same kind cannot
// both slip through a single cooldown window.
func (d *Debouncer) Allow(kind event.Kind, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	last, seen := d.last[kind]
	if seen && now.Sub(last) < kind.Cooldown() {
		return false
	}
	d.last[kind] = now
	return true
}
