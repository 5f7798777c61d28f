package monitor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inputmon/internal/event"
	"inputmon/internal/gesture"
	"inputmon/internal/hook"
	"inputmon/internal/metrics"
	"inputmon/internal/registry"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func inject(t *testing.T, sim *hook.Simulated, e event.Event) hook.Decision {
	t.Helper()
	d, ok := sim.Inject(hook.SyntheticEvent{Event: e})
	require.True(t, ok, "hook not running")
	return d
}

type collector[T any] struct {
	mu  sync.Mutex
	got []T
}

func (c *collector[T]) Invoke(v T) error {
	c.mu.Lock()
	c.got = append(c.got, v)
	c.mu.Unlock()
	return nil
}

func (c *collector[T]) values() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.got...)
}

func newTestInput(t *testing.T) (*Input, *hook.Simulated, *metrics.InputMetrics) {
	t.Helper()
	sim := hook.NewSimulated()
	m := metrics.NewInputMetrics(metrics.NewRegistry("test"))
	in := NewInput(InputOptions{Adapter: sim, Metrics: m})
	t.Cleanup(func() { in.Stop() })
	return in, sim, m
}

func TestInputStartStopIdempotent(t *testing.T) {
	in, sim, m := newTestInput(t)

	require.NoError(t, in.Start())
	require.NoError(t, in.Start())
	assert.True(t, in.IsRunning())
	assert.Equal(t, 1, sim.Installs())
	assert.Equal(t, int64(1), m.MonitorsRunning.Value())

	require.NoError(t, in.Stop())
	require.NoError(t, in.Stop())
	assert.False(t, in.IsRunning())
	assert.False(t, sim.Installed())
	assert.Equal(t, int64(0), m.MonitorsRunning.Value())

	require.NoError(t, in.Start())
	assert.Equal(t, 2, sim.Installs())
}

func TestInputDispatchesBackfilledEvents(t *testing.T) {
	in, sim, m := newTestInput(t)
	events := &collector[event.Event]{}
	drags := &collector[gesture.Drag]{}
	in.OnEvent(events)
	in.OnDrag(drags)
	require.NoError(t, in.Start())

	inject(t, sim, event.MouseMove(100, 100, t0))
	inject(t, sim, event.ButtonPress(event.ButtonLeft, t0))
	inject(t, sim, event.MouseMove(110, 100, t0))
	inject(t, sim, event.ButtonRelease(event.ButtonLeft, t0))

	got := events.values()
	require.Len(t, got, 4)
	assert.Equal(t, 100.0, got[1].X, "press backfilled from last move")
	assert.Equal(t, 110.0, got[3].X, "release backfilled from last move")

	d := drags.values()
	require.Len(t, d, 2)
	assert.Equal(t, gesture.PhaseStart, d[0].Phase)
	assert.Equal(t, gesture.PhaseEnd, d[1].Phase)
	assert.Equal(t, gesture.Point{X: 100, Y: 100}, d[1].Start)

	x, y, ok := in.Position()
	assert.True(t, ok)
	assert.Equal(t, 110.0, x)
	assert.Equal(t, 100.0, y)

	assert.Equal(t, uint64(4), m.RawEventsTotal.Value())
	assert.Equal(t, uint64(1), m.DragGesturesTotal.Value())
}

func TestInputDiscardsUnknownRecords(t *testing.T) {
	in, sim, m := newTestInput(t)
	events := &collector[event.Event]{}
	in.OnEvent(events)
	require.NoError(t, in.Start())

	// Quartz special event, any subtype.
	_, ok := sim.Inject(hook.QuartzEvent{Type: 14, Subtype: 7})
	require.True(t, ok)

	assert.Empty(t, events.values())
	assert.Equal(t, uint64(1), m.DiscardedEventsTotal.Value())
}

func TestInputNoCallbacksAfterStop(t *testing.T) {
	in, sim, _ := newTestInput(t)
	events := &collector[event.Event]{}
	id := in.OnEvent(events)
	require.NoError(t, in.Start())

	inject(t, sim, event.KeyPress(event.KeyA, t0))
	require.NoError(t, in.Stop())

	_, ok := sim.Inject(hook.SyntheticEvent{Event: event.KeyRelease(event.KeyA, t0)})
	assert.False(t, ok)
	assert.Len(t, events.values(), 1)

	assert.False(t, in.RemoveEventListener(id), "stop clears listeners")
	_, _, ok = in.Position()
	assert.False(t, ok)
}

func TestInputListenerIDs(t *testing.T) {
	in, _, _ := newTestInput(t)
	noop := registry.Listen(func(event.Event) {})

	a := in.OnEvent(noop)
	b := in.OnEvent(noop)
	assert.Equal(t, uint32(1), a)
	assert.Equal(t, uint32(2), b)
	assert.True(t, in.RemoveEventListener(a))
	assert.False(t, in.RemoveEventListener(a))
	assert.False(t, in.RemoveDragListener(99))
}

func TestInputInstallFailure(t *testing.T) {
	in, sim, m := newTestInput(t)
	sim.FailNextInstall(&hook.HookError{Device: hook.DeviceKey, Code: 5, Err: hook.ErrPermissionDenied})

	err := in.Start()
	var hookErr *hook.HookError
	require.ErrorAs(t, err, &hookErr)
	assert.Equal(t, hook.DeviceKey, hookErr.Device)
	assert.ErrorIs(t, err, hook.ErrPermissionDenied)
	assert.False(t, in.IsRunning())
	assert.Equal(t, uint64(1), m.HookFailuresTotal.Value())

	require.NoError(t, in.Start())
	assert.True(t, in.IsRunning())
}

func TestInputGrabKeys(t *testing.T) {
	in, sim, _ := newTestInput(t)
	in.SetGrabKeys([]event.Key{event.KeyF12})
	require.NoError(t, in.Start())

	assert.Equal(t, hook.Swallow, inject(t, sim, event.KeyPress(event.KeyF12, t0)))
	assert.Equal(t, hook.Pass, inject(t, sim, event.KeyPress(event.KeyA, t0)))
	assert.Equal(t, hook.Pass, inject(t, sim, event.MouseMove(1, 1, t0)))
}

func TestInputDragThreshold(t *testing.T) {
	in, sim, _ := newTestInput(t)
	drags := &collector[gesture.Drag]{}
	in.OnDrag(drags)
	require.NoError(t, in.SetDragThreshold(50))
	assert.Equal(t, 50.0, in.DragThreshold())
	assert.ErrorIs(t, in.SetDragThreshold(-1), gesture.ErrInvalidThreshold)
	require.NoError(t, in.Start())

	inject(t, sim, event.MouseMove(0, 0, t0))
	inject(t, sim, event.ButtonPress(event.ButtonLeft, t0))
	inject(t, sim, event.MouseMove(20, 0, t0))
	inject(t, sim, event.ButtonRelease(event.ButtonLeft, t0))
	assert.Empty(t, drags.values())
}

func TestInputRequestStopFromListener(t *testing.T) {
	in, sim, m := newTestInput(t)
	events := &collector[event.Event]{}
	in.OnEvent(events)
	in.OnEvent(registry.Listen(func(e event.Event) {
		if e.Kind == event.KindKeyPress && e.Key == event.KeyEscape {
			in.RequestStop()
		}
	}))
	require.NoError(t, in.Start())

	inject(t, sim, event.KeyPress(event.KeyEscape, t0))
	assert.Eventually(t, func() bool { return !in.IsRunning() }, time.Second, time.Millisecond)
	assert.False(t, sim.Installed())
	assert.Equal(t, int64(0), m.MonitorsRunning.Value())

	// Listeners survive a requested stop and the monitor can be restarted.
	require.NoError(t, in.Start())
	assert.Equal(t, 2, sim.Installs())
	inject(t, sim, event.KeyPress(event.KeyA, t0))
	assert.Len(t, events.values(), 2)

	require.NoError(t, in.Stop())
	assert.False(t, sim.Installed())
}
