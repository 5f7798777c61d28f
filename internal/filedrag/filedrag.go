// Package filedrag reports files dragged across the screen, either from a
// helper process or from the native drag pasteboard.
package filedrag

import (
	"errors"
	"time"

	"inputmon/internal/event"
	"inputmon/internal/helper"
)

// Event types.
const (
	HoveredFile          = helper.HoveredFile
	DroppedFile          = helper.DroppedFile
	HoveredFileCancelled = helper.HoveredFileCancelled
)

var (
	// ErrNativeUnsupported is returned by NativeSource where the drag
	// pasteboard cannot be observed.
	ErrNativeUnsupported = errors.New("native file drag monitoring not supported on this platform")

	// ErrNoHelperPath is returned when helper mode has no executable.
	ErrNoHelperPath = errors.New("file drag helper path not configured")

	// ErrUnknownMode is returned for a mode other than auto, helper or native.
	ErrUnknownMode = errors.New("unknown file drag mode")
)

// FileEvent is a file drag notification.
type FileEvent struct {
	EventType string  `json:"event_type"`
	FilePath  string  `json:"file_path"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp float64 `json:"timestamp"`
	Platform  string  `json:"platform"`
}

func newFileEvent(eventType, path string, x, y float64, now time.Time) FileEvent {
	return FileEvent{
		EventType: eventType,
		FilePath:  path,
		X:         x,
		Y:         y,
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		Platform:  event.Platform(),
	}
}

// Source produces file drag events while a session is open.
type Source interface {
	// Open starts producing events, calling emit from a goroutine owned
	// by the session.
	Open(emit func(FileEvent)) (Session, error)
}

// Session is an open Source. Close stops it and returns once emit will
// no longer be called.
type Session interface {
	Close() error
}
