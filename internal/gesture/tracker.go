// Package gesture derives pointer state from the normalized event stream:
// the last known pointer position, and drag gestures built from press,
// move and release sequences.
package gesture

import (
	"sync"

	"inputmon/internal/event"
)

// Tracker holds the most recent pointer position and backfills it into
// button and wheel events that arrive without coordinates.
type Tracker struct {
	mu    sync.RWMutex
	x, y  float64
	known bool
}

// NewTracker returns a tracker with no known position.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe records MouseMove positions and fills in zero coordinates on
// button and wheel events. Before the first move, events pass unchanged.
func (t *Tracker) Observe(e *event.Event) {
	switch e.Kind {
	case event.KindMouseMove:
		t.mu.Lock()
		t.x, t.y, t.known = e.X, e.Y, true
		t.mu.Unlock()
	case event.KindButtonPress, event.KindButtonRelease, event.KindWheel:
		if e.HasPosition() {
			return
		}
		t.mu.RLock()
		if t.known {
			e.X, e.Y = t.x, t.y
		}
		t.mu.RUnlock()
	}
}

// Position returns the last observed pointer position.
func (t *Tracker) Position() (x, y float64, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.x, t.y, t.known
}

// Reset forgets the last position.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.x, t.y, t.known = 0, 0, false
	t.mu.Unlock()
}
