// Package monitor wires the platform hook, the gesture layer and the
// subscriber registries into start/stop-able monitors.
package monitor

import (
	"log/slog"
	"runtime"
	"sync"

	"inputmon/internal/event"
	"inputmon/internal/gesture"
	"inputmon/internal/hook"
	"inputmon/internal/lifecycle"
	"inputmon/internal/logging"
	"inputmon/internal/metrics"
	"inputmon/internal/registry"
)

// InputOptions configures an Input monitor. Zero fields get defaults.
type InputOptions struct {
	// Adapter installs the hook. Defaults to hook.New().
	Adapter hook.Adapter

	// Tracker is shared with other monitors that need the pointer position.
	Tracker *gesture.Tracker

	Logger  *slog.Logger
	Metrics *metrics.InputMetrics
}

// Input is the unified pointer and keyboard monitor. Listeners run on the
// hook thread, in delivery order.
type Input struct {
	adapter hook.Adapter
	tracker *gesture.Tracker
	machine *gesture.Machine
	logger  *slog.Logger
	metrics *metrics.InputMetrics

	events *registry.Registry[event.Event]
	drags  *registry.Registry[gesture.Drag]

	life lifecycle.Lifecycle

	grabMu sync.RWMutex
	grab   map[event.Key]bool
}

// NewInput creates a stopped Input monitor.
func NewInput(opts InputOptions) *Input {
	if opts.Adapter == nil {
		opts.Adapter = hook.New()
	}
	if opts.Tracker == nil {
		opts.Tracker = gesture.NewTracker()
	}
	logger := logging.OrDiscard(opts.Logger)

	return &Input{
		adapter: opts.Adapter,
		tracker: opts.Tracker,
		machine: gesture.NewMachine(),
		logger:  logger,
		metrics: opts.Metrics,
		events:  registry.New[event.Event]("input", logger, opts.Metrics),
		drags:   registry.New[gesture.Drag]("drag", logger, opts.Metrics),
	}
}

// Start installs the hook on a dedicated OS thread. It returns once the
// hook is installed, or with the *hook.HookError that prevented it.
// Starting a running monitor does nothing.
func (i *Input) Start() error {
	return i.life.Start(i.launch)
}

func (i *Input) launch(stop <-chan struct{}) (<-chan struct{}, error) {
	ready := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		h, err := i.adapter.Install(i.handle)
		i.metrics.RecordInstall(err)
		if err != nil {
			ready <- err
			return
		}
		i.metrics.MonitorStarted()
		defer i.metrics.MonitorStopped()
		ready <- nil
		i.logger.Info("input hook installed")

		exited := make(chan struct{})
		go func() {
			select {
			case <-stop:
				h.Interrupt()
			case <-exited:
			}
		}()

		h.Run()
		close(exited)

		if err := h.Uninstall(); err != nil {
			i.logger.Warn("uninstall input hook", "error", err)
		}
		i.logger.Info("input hook removed")
	}()

	if err := <-ready; err != nil {
		<-done
		i.logger.Error("install input hook", "error", err)
		return nil, err
	}
	return done, nil
}

// handle runs on the hook thread for every raw record.
func (i *Input) handle(raw hook.RawEvent) hook.Decision {
	e, ok := hook.Normalize(raw)
	i.metrics.RecordRaw(ok)
	if !ok {
		return hook.Pass
	}

	i.tracker.Observe(&e)
	i.events.Dispatch(e)

	if d, ok := i.machine.Feed(e); ok {
		if d.Phase == gesture.PhaseEnd {
			i.metrics.RecordDrag()
		}
		i.drags.Dispatch(d)
	}

	if e.IsKey() && i.grabbed(e.Key) {
		return hook.Swallow
	}
	return hook.Pass
}

// Stop removes the hook and waits for the hook thread to exit. Listeners,
// the pointer position and any gesture in progress are cleared. Stopping
// a stopped monitor only clears that state. Listeners run on the hook
// thread and must call RequestStop instead.
func (i *Input) Stop() error {
	err := i.life.Stop()

	i.events.Clear()
	i.drags.Clear()
	i.tracker.Reset()
	i.machine.Reset()
	return err
}

// RequestStop asks the hook thread to remove the hook and returns without
// waiting. Listeners are kept until Stop or the next Start.
func (i *Input) RequestStop() {
	i.life.Request()
}

// IsRunning reports whether the hook is installed.
func (i *Input) IsRunning() bool {
	return i.life.Active()
}

// OnEvent registers a listener for every normalized event. Listeners run
// on the hook thread; see RequestStop.
func (i *Input) OnEvent(sub registry.Subscriber[event.Event]) uint32 {
	return i.events.Register(sub)
}

// RemoveEventListener removes an OnEvent listener.
func (i *Input) RemoveEventListener(id uint32) bool {
	return i.events.Unregister(id)
}

// OnDrag registers a listener for drag gestures.
func (i *Input) OnDrag(sub registry.Subscriber[gesture.Drag]) uint32 {
	return i.drags.Register(sub)
}

// RemoveDragListener removes an OnDrag listener.
func (i *Input) RemoveDragListener(id uint32) bool {
	return i.drags.Unregister(id)
}

// SetDragThreshold changes the drag distance threshold.
func (i *Input) SetDragThreshold(threshold float64) error {
	return i.machine.SetThreshold(threshold)
}

// DragThreshold returns the current drag distance threshold.
func (i *Input) DragThreshold() float64 {
	return i.machine.Threshold()
}

// Position returns the last observed pointer position.
func (i *Input) Position() (x, y float64, ok bool) {
	return i.tracker.Position()
}

// SetGrabKeys replaces the set of keys whose events are swallowed. Only
// the Windows hook can suppress events; elsewhere the set has no effect.
func (i *Input) SetGrabKeys(keys []event.Key) {
	grab := make(map[event.Key]bool, len(keys))
	for _, k := range keys {
		grab[k] = true
	}
	i.grabMu.Lock()
	i.grab = grab
	i.grabMu.Unlock()
}

func (i *Input) grabbed(k event.Key) bool {
	i.grabMu.RLock()
	defer i.grabMu.RUnlock()
	return i.grab[k]
}
