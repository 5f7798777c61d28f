package metrics

import (
	"time"
)

// InputMetrics holds the inputmon-specific metrics. A nil *InputMetrics is
// valid and records nothing.
type InputMetrics struct {
	registry *Registry

	RawEventsTotal        *Counter
	DiscardedEventsTotal  *Counter
	DispatchedTotal       *Counter
	DragGesturesTotal     *Counter
	FileDragEventsTotal   *Counter
	CallbackFailuresTotal *Counter
	HelperMalformedTotal  *Counter
	HookInstallsTotal     *Counter
	HookFailuresTotal     *Counter

	Subscribers     *Gauge
	MonitorsRunning *Gauge
	UptimeSeconds   *Gauge

	DispatchDuration *Histogram
}

var startTime = time.Now()

// NewInputMetrics registers the inputmon metrics in registry, or in the
// default registry when registry is nil.
func NewInputMetrics(registry *Registry) *InputMetrics {
	if registry == nil {
		registry = Default()
	}

	return &InputMetrics{
		registry: registry,

		RawEventsTotal: registry.RegisterCounter(
			"raw_events_total",
			"Raw platform records received from the hook",
			nil,
		),
		DiscardedEventsTotal: registry.RegisterCounter(
			"discarded_events_total",
			"Raw records outside the monitored event kinds",
			nil,
		),
		DispatchedTotal: registry.RegisterCounter(
			"dispatched_total",
			"Subscriber invocations",
			nil,
		),
		DragGesturesTotal: registry.RegisterCounter(
			"drag_gestures_total",
			"Completed drag gestures",
			nil,
		),
		FileDragEventsTotal: registry.RegisterCounter(
			"file_drag_events_total",
			"File drag-and-drop events",
			nil,
		),
		CallbackFailuresTotal: registry.RegisterCounter(
			"callback_failures_total",
			"Subscriber invocations that returned an error or panicked",
			nil,
		),
		HelperMalformedTotal: registry.RegisterCounter(
			"helper_malformed_lines_total",
			"Helper output lines that were not valid protocol messages",
			nil,
		),
		HookInstallsTotal: registry.RegisterCounter(
			"hook_installs_total",
			"Successful global hook installations",
			nil,
		),
		HookFailuresTotal: registry.RegisterCounter(
			"hook_failures_total",
			"Failed global hook installations",
			nil,
		),

		Subscribers: registry.RegisterGauge(
			"subscribers",
			"Registered subscribers across all registries",
			nil,
		),
		MonitorsRunning: registry.RegisterGauge(
			"monitors_running",
			"Monitors currently running",
			nil,
		),
		UptimeSeconds: registry.RegisterGauge(
			"uptime_seconds",
			"Seconds since the process started",
			nil,
		),

		DispatchDuration: registry.RegisterHistogram(
			"dispatch_duration_seconds",
			"Time to fan one event out to every subscriber",
			nil,
			LatencyBuckets,
		),
	}
}

// Registry returns the registry the metrics live in.
func (m *InputMetrics) Registry() *Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRaw records one raw record and whether it was kept.
func (m *InputMetrics) RecordRaw(kept bool) {
	if m == nil {
		return
	}
	m.RawEventsTotal.Inc()
	if !kept {
		m.DiscardedEventsTotal.Inc()
	}
}

// RecordDispatch records a fan-out to n subscribers, failed of which failed.
func (m *InputMetrics) RecordDispatch(n, failed int, started time.Time) {
	if m == nil {
		return
	}
	m.DispatchedTotal.Add(uint64(n))
	m.CallbackFailuresTotal.Add(uint64(failed))
	m.DispatchDuration.Since(started)
}

func (m *InputMetrics) RecordDrag() {
	if m != nil {
		m.DragGesturesTotal.Inc()
	}
}

func (m *InputMetrics) RecordFileDrag() {
	if m != nil {
		m.FileDragEventsTotal.Inc()
	}
}

func (m *InputMetrics) RecordMalformedLine() {
	if m != nil {
		m.HelperMalformedTotal.Inc()
	}
}

// RecordInstall records a hook installation attempt.
func (m *InputMetrics) RecordInstall(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.HookFailuresTotal.Inc()
		return
	}
	m.HookInstallsTotal.Inc()
}

// SubscribersChanged adjusts the live subscriber gauge by delta.
func (m *InputMetrics) SubscribersChanged(delta int) {
	if m != nil {
		m.Subscribers.Add(int64(delta))
	}
}

// MonitorStarted and MonitorStopped track the running-monitor gauge.
func (m *InputMetrics) MonitorStarted() {
	if m != nil {
		m.MonitorsRunning.Inc()
	}
}

func (m *InputMetrics) MonitorStopped() {
	if m != nil {
		m.MonitorsRunning.Dec()
	}
}

// UpdateUptime refreshes the uptime gauge.
func (m *InputMetrics) UpdateUptime() {
	if m != nil {
		m.UptimeSeconds.Set(int64(time.Since(startTime).Seconds()))
	}
}
