package hook

import (
	"time"

	"inputmon/internal/event"
)

// RawEvent is a platform-native record. Concrete types are QuartzEvent,
// Win32Event, EvdevEvent and SyntheticEvent.
type RawEvent interface {
	Platform() string
}

// QuartzEvent is a CGEventTap record (macOS).
type QuartzEvent struct {
	Type         uint32
	Time         time.Time
	X, Y         float64
	Keycode      int64
	Flags        uint64
	ButtonNumber int64
	// ScrollAxis1 is vertical, ScrollAxis2 horizontal.
	ScrollAxis1 int64
	ScrollAxis2 int64
	Subtype     int64
}

func (QuartzEvent) Platform() string { return "macos" }

// Win32Event is a low-level hook record (Windows). Message is the hook's
// wParam; the remaining fields come from MSLLHOOKSTRUCT or KBDLLHOOKSTRUCT.
type Win32Event struct {
	Message   uint32
	Time      time.Time
	X, Y      int32
	MouseData uint32
	VKCode    uint32
	ScanCode  uint32
	Flags     uint32
}

func (Win32Event) Platform() string { return "windows" }

// EvdevEvent is a Linux input_event. The adapter collapses relative and
// absolute motion into the SYN_REPORT record that closes the frame, with
// Moved set and X, Y holding the resulting pointer position.
type EvdevEvent struct {
	Type  uint16
	Code  uint16
	Value int32
	Time  time.Time
	Moved bool
	X, Y  float64
}

func (EvdevEvent) Platform() string { return "linux" }

// SyntheticEvent carries an already-normalized event. It is produced by the
// simulated adapter and by replays, and is still subject to normalization
// so that invalid kinds are dropped.
type SyntheticEvent struct {
	Event event.Event
}

func (SyntheticEvent) Platform() string { return "synthetic" }
