// Package event defines the portable input event model shared by every
// platform adapter and consumer.
//
// An Event is one of six kinds:
//   - ButtonPress / ButtonRelease carry a Button and the pointer position
//   - MouseMove carries the new pointer position
//   - Wheel carries scroll deltas (and the pointer position once backfilled)
//   - KeyPress / KeyRelease carry a Key
//
// Coordinates are logical screen units. Platform records never leave the
// hook package; everything downstream sees only this model.
package event

import (
	"fmt"
	"runtime"
	"time"
)

// Kind identifies which of the six event variants an Event holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindButtonPress
	KindButtonRelease
	KindMouseMove
	KindWheel
	KindKeyPress
	KindKeyRelease
)

// String returns the kind name used in logs and the journal.
func (k Kind) String() string {
	switch k {
	case KindButtonPress:
		return "button_press"
	case KindButtonRelease:
		return "button_release"
	case KindMouseMove:
		return "mouse_move"
	case KindWheel:
		return "wheel"
	case KindKeyPress:
		return "key_press"
	case KindKeyRelease:
		return "key_release"
	default:
		return "invalid"
	}
}

// Valid reports whether k is one of the six defined kinds.
func (k Kind) Valid() bool {
	return k >= KindButtonPress && k <= KindKeyRelease
}

// Event is a normalized input event.
type Event struct {
	Kind Kind      `json:"kind"`
	Time time.Time `json:"time"`

	// Button is set for ButtonPress and ButtonRelease.
	Button Button `json:"button,omitempty"`
	// Key is set for KeyPress and KeyRelease.
	Key Key `json:"key,omitempty"`

	// X and Y are the pointer position. Zero on button and wheel events
	// until the position tracker backfills them.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	DeltaX int64 `json:"dx,omitempty"`
	DeltaY int64 `json:"dy,omitempty"`
}

// ButtonPress builds a press event for b. Coordinates are left unset.
func ButtonPress(b Button, t time.Time) Event {
	return Event{Kind: KindButtonPress, Button: b, Time: t}
}

// ButtonRelease builds a release event for b. Coordinates are left unset.
func ButtonRelease(b Button, t time.Time) Event {
	return Event{Kind: KindButtonRelease, Button: b, Time: t}
}

// MouseMove builds a pointer motion event.
func MouseMove(x, y float64, t time.Time) Event {
	return Event{Kind: KindMouseMove, X: x, Y: y, Time: t}
}

// Wheel builds a scroll event.
func Wheel(dx, dy int64, t time.Time) Event {
	return Event{Kind: KindWheel, DeltaX: dx, DeltaY: dy, Time: t}
}

// KeyPress builds a key-down event.
func KeyPress(k Key, t time.Time) Event {
	return Event{Kind: KindKeyPress, Key: k, Time: t}
}

// KeyRelease builds a key-up event.
func KeyRelease(k Key, t time.Time) Event {
	return Event{Kind: KindKeyRelease, Key: k, Time: t}
}

// IsPointer reports whether the event belongs to the mouse half of the stream.
func (e Event) IsPointer() bool {
	switch e.Kind {
	case KindButtonPress, KindButtonRelease, KindMouseMove, KindWheel:
		return true
	}
	return false
}

// IsKey reports whether the event belongs to the keyboard half of the stream.
func (e Event) IsKey() bool {
	return e.Kind == KindKeyPress || e.Kind == KindKeyRelease
}

// HasPosition reports whether the event carries non-zero coordinates.
func (e Event) HasPosition() bool {
	return e.X != 0 || e.Y != 0
}

// Seconds returns the timestamp as fractional seconds since the Unix epoch.
func (e Event) Seconds() float64 {
	return float64(e.Time.UnixNano()) / float64(time.Second)
}

func (e Event) String() string {
	switch e.Kind {
	case KindButtonPress, KindButtonRelease:
		return fmt.Sprintf("%s(%s @ %.1f,%.1f)", e.Kind, e.Button, e.X, e.Y)
	case KindMouseMove:
		return fmt.Sprintf("%s(%.1f,%.1f)", e.Kind, e.X, e.Y)
	case KindWheel:
		return fmt.Sprintf("%s(%d,%d)", e.Kind, e.DeltaX, e.DeltaY)
	case KindKeyPress, KindKeyRelease:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Key.Name())
	default:
		return "invalid"
	}
}

// Platform returns the platform tag attached to events by the bindings.
func Platform() string {
	switch runtime.GOOS {
	case "darwin":
		return "macos"
	case "windows", "linux":
		return runtime.GOOS
	default:
		return "unknown"
	}
}
