package gesture

import (
	"errors"
	"math"
	"sync"
	"time"

	"inputmon/internal/event"
)

// DefaultThreshold is the pointer travel, in screen units, that turns a
// press into a drag.
const DefaultThreshold = 5.0

// ErrInvalidThreshold is returned for non-positive or non-finite thresholds.
var ErrInvalidThreshold = errors.New("drag threshold must be a positive finite number")

// Phase is the stage of a drag gesture.
type Phase uint8

const (
	PhaseStart Phase = iota + 1
	PhaseMove
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "dragstart"
	case PhaseMove:
		return "dragmove"
	case PhaseEnd:
		return "dragend"
	}
	return "unknown"
}

// Point is a pointer position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Drag is a semantic drag event. Start is always the press position.
type Drag struct {
	Phase   Phase        `json:"phase"`
	Button  event.Button `json:"button"`
	Start   Point        `json:"start"`
	Current Point        `json:"current"`
	Time    time.Time    `json:"time"`
}

// State is a snapshot of the machine's gesture state.
type State struct {
	Pressed  bool
	Origin   *Point
	Button   event.Button
	Dragging bool
}

// Machine turns press, move and release events into drag gestures.
// The first button pressed owns the gesture; a second press restarts it
// from the new press without emitting dragend.
type Machine struct {
	mu        sync.Mutex
	threshold float64

	pressed  bool
	dragging bool
	origin   Point
	current  Point
	button   event.Button
}

// NewMachine returns an idle machine using DefaultThreshold.
func NewMachine() *Machine {
	return &Machine{threshold: DefaultThreshold}
}

// SetThreshold changes the drag threshold. A gesture already past the old
// threshold keeps dragging.
func (m *Machine) SetThreshold(threshold float64) error {
	if threshold <= 0 || math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return ErrInvalidThreshold
	}
	m.mu.Lock()
	m.threshold = threshold
	m.mu.Unlock()
	return nil
}

// Threshold returns the current drag threshold.
func (m *Machine) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// Feed advances the machine with one backfilled event and returns the drag
// event it produced, if any.
func (m *Machine) Feed(e event.Event) (Drag, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch e.Kind {
	case event.KindButtonPress:
		m.origin = Point{X: e.X, Y: e.Y}
		m.current = m.origin
		m.button = e.Button
		m.pressed = true
		m.dragging = false

	case event.KindMouseMove:
		if !m.pressed {
			return Drag{}, false
		}
		m.current = Point{X: e.X, Y: e.Y}
		if m.dragging {
			return m.emit(PhaseMove, e.Time), true
		}
		if m.origin.Distance(m.current) >= m.threshold {
			m.dragging = true
			return m.emit(PhaseStart, e.Time), true
		}

	case event.KindButtonRelease:
		if !m.pressed {
			return Drag{}, false
		}
		wasDragging := m.dragging
		if e.HasPosition() {
			m.current = Point{X: e.X, Y: e.Y}
		}
		d := m.emit(PhaseEnd, e.Time)
		m.clear()
		if wasDragging {
			return d, true
		}
	}
	return Drag{}, false
}

func (m *Machine) emit(phase Phase, t time.Time) Drag {
	return Drag{
		Phase:   phase,
		Button:  m.button,
		Start:   m.origin,
		Current: m.current,
		Time:    t,
	}
}

func (m *Machine) clear() {
	m.pressed = false
	m.dragging = false
	m.origin = Point{}
	m.current = Point{}
	m.button = event.ButtonNone
}

// Reset returns the machine to idle. The threshold is kept.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.clear()
	m.mu.Unlock()
}

// State returns a snapshot of the gesture state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := State{Pressed: m.pressed, Dragging: m.dragging}
	if m.pressed {
		origin := m.origin
		s.Origin = &origin
		s.Button = m.button
	}
	return s
}
