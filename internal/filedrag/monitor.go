package filedrag

import (
	"fmt"
	"log/slog"
	"strings"

	"inputmon/internal/gesture"
	"inputmon/internal/lifecycle"
	"inputmon/internal/logging"
	"inputmon/internal/metrics"
	"inputmon/internal/registry"
)

// Mode selects the event source.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeHelper Mode = "helper"
	ModeNative Mode = "native"
)

// ParseMode parses a configured mode. The empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeHelper:
		return ModeHelper, nil
	case ModeNative:
		return ModeNative, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Options configures a Monitor.
type Options struct {
	Mode       Mode
	HelperPath string
	HelperEnv  []string

	// Tracker places the helper at the pointer position.
	Tracker *gesture.Tracker

	// Source overrides Mode and HelperPath.
	Source Source

	Logger  *slog.Logger
	Metrics *metrics.InputMetrics
}

// SelectSource returns the source for opts. Auto mode uses the helper
// when a helper path is configured and the native pasteboard otherwise.
func SelectSource(opts Options) (Source, error) {
	if opts.Source != nil {
		return opts.Source, nil
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeAuto
	}
	if mode == ModeAuto {
		mode = ModeNative
		if opts.HelperPath != "" {
			mode = ModeHelper
		}
	}

	switch mode {
	case ModeHelper:
		if opts.HelperPath == "" {
			return nil, ErrNoHelperPath
		}
		return &HelperSource{
			Path:    opts.HelperPath,
			Tracker: opts.Tracker,
			Logger:  opts.Logger,
			Metrics: opts.Metrics,
			Env:     opts.HelperEnv,
		}, nil
	case ModeNative:
		return &NativeSource{Logger: opts.Logger}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// Monitor delivers file drag events to registered listeners.
type Monitor struct {
	opts    Options
	logger  *slog.Logger
	metrics *metrics.InputMetrics

	listeners *registry.Registry[FileEvent]
	life      lifecycle.Lifecycle
}

// NewMonitor creates a stopped Monitor. The source is chosen on Start.
func NewMonitor(opts Options) *Monitor {
	logger := logging.OrDiscard(opts.Logger)
	opts.Logger = logger
	return &Monitor{
		opts:      opts,
		logger:    logger,
		metrics:   opts.Metrics,
		listeners: registry.New[FileEvent]("filedrag", logger, opts.Metrics),
	}
}

// Start opens the source. A helper that cannot be spawned leaves the
// monitor stopped and returns the *helper.SpawnError. The monitor keeps
// running after a helper exits on its own, until Stop.
func (m *Monitor) Start() error {
	return m.life.Start(m.launch)
}

func (m *Monitor) launch(stop <-chan struct{}) (<-chan struct{}, error) {
	source, err := SelectSource(m.opts)
	if err != nil {
		return nil, err
	}
	session, err := source.Open(m.dispatch)
	if err != nil {
		m.logger.Error("open file drag source", "error", err)
		return nil, err
	}
	m.metrics.MonitorStarted()
	m.logger.Info("file drag monitor started", "source", fmt.Sprintf("%T", source))

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer m.metrics.MonitorStopped()
		<-stop
		if err := session.Close(); err != nil {
			m.logger.Warn("close file drag source", "error", err)
		}
		m.logger.Info("file drag monitor stopped")
	}()
	return done, nil
}

func (m *Monitor) dispatch(e FileEvent) {
	m.metrics.RecordFileDrag()
	m.logger.Debug("file drag", "type", e.EventType, "x", e.X, "y", e.Y)
	m.listeners.Dispatch(e)
}

// Stop closes the source, waits for it and removes every listener. It must
// not be called from a listener; use RequestStop there.
func (m *Monitor) Stop() error {
	err := m.life.Stop()
	m.listeners.Clear()
	return err
}

// RequestStop asks the monitor to close its source and returns without
// waiting. Listeners are kept until Stop.
func (m *Monitor) RequestStop() {
	m.life.Request()
}

// IsRunning reports whether a source is open.
func (m *Monitor) IsRunning() bool {
	return m.life.Active()
}

// OnEvent registers a listener.
func (m *Monitor) OnEvent(sub registry.Subscriber[FileEvent]) uint32 {
	return m.listeners.Register(sub)
}

// RemoveListener removes a listener registered with OnEvent.
func (m *Monitor) RemoveListener(id uint32) bool {
	return m.listeners.Unregister(id)
}
