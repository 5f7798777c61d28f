package filedrag

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"inputmon/internal/hook"
	"inputmon/internal/logging"
)

// CGEventType values the detector reacts to.
const (
	quartzLeftMouseUp      = 2
	quartzLeftMouseDragged = 6
)

// Pasteboard reports the file currently on the drag pasteboard. ok is
// false when the pasteboard holds no file URL.
type Pasteboard func() (path string, ok bool)

// NativeSource watches left-button drags with a listen-only event tap and
// checks the drag pasteboard for a file URL. It emits hovered_file once
// per drag and hovered_file_cancelled on mouse up.
type NativeSource struct {
	Logger *slog.Logger

	// Adapter and Pasteboard default to the platform implementations.
	Adapter    hook.Adapter
	Pasteboard Pasteboard
}

// detector tracks one drag at a time. It is only used from the hook thread.
type detector struct {
	pasteboard Pasteboard
	dragging   bool
}

func (d *detector) feed(raw hook.RawEvent) (FileEvent, bool) {
	q, ok := raw.(hook.QuartzEvent)
	if !ok {
		return FileEvent{}, false
	}

	switch q.Type {
	case quartzLeftMouseDragged:
		if d.dragging {
			return FileEvent{}, false
		}
		path, ok := d.pasteboard()
		if !ok {
			return FileEvent{}, false
		}
		d.dragging = true
		return newFileEvent(HoveredFile, path, q.X, q.Y, stamp(q.Time)), true

	case quartzLeftMouseUp:
		if !d.dragging {
			return FileEvent{}, false
		}
		d.dragging = false
		return newFileEvent(HoveredFileCancelled, "", q.X, q.Y, stamp(q.Time)), true
	}
	return FileEvent{}, false
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

// Open installs the tap on its own OS thread.
func (s *NativeSource) Open(emit func(FileEvent)) (Session, error) {
	pasteboard := s.Pasteboard
	if pasteboard == nil {
		pasteboard = platformPasteboard()
	}
	adapter := s.Adapter
	if adapter == nil && pasteboard != nil {
		adapter = hook.New()
	}
	if pasteboard == nil || adapter == nil {
		return nil, ErrNativeUnsupported
	}
	logger := logging.OrDiscard(s.Logger)

	det := &detector{pasteboard: pasteboard}
	handler := func(raw hook.RawEvent) hook.Decision {
		if e, ok := det.feed(raw); ok {
			emit(e)
		}
		return hook.Pass
	}

	type installed struct {
		h   hook.Handle
		err error
	}
	ready := make(chan installed, 1)
	sess := &nativeSession{done: make(chan struct{})}

	go func() {
		defer close(sess.done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		h, err := adapter.Install(handler)
		ready <- installed{h, err}
		if err != nil {
			return
		}
		h.Run()
		if err := h.Uninstall(); err != nil {
			logger.Warn("uninstall drag tap", "error", err)
		}
	}()

	r := <-ready
	if r.err != nil {
		<-sess.done
		return nil, r.err
	}
	sess.handle = r.h
	return sess, nil
}

type nativeSession struct {
	handle hook.Handle
	done   chan struct{}
	once   sync.Once
}

func (s *nativeSession) Close() error {
	s.once.Do(s.handle.Interrupt)
	<-s.done
	return nil
}
