package gesture

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inputmon/internal/event"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func feedAll(m *Machine, tr *Tracker, events ...event.Event) []Drag {
	var out []Drag
	for _, e := range events {
		tr.Observe(&e)
		if d, ok := m.Feed(e); ok {
			out = append(out, d)
		}
	}
	return out
}

func TestTrackerBackfill(t *testing.T) {
	tr := NewTracker()

	press := event.ButtonPress(event.ButtonLeft, t0)
	tr.Observe(&press)
	assert.False(t, press.HasPosition(), "no move seen yet")

	move := event.MouseMove(12, 34, t0)
	tr.Observe(&move)

	for _, e := range []event.Event{
		event.ButtonPress(event.ButtonRight, t0),
		event.ButtonRelease(event.ButtonRight, t0),
		event.Wheel(0, 1, t0),
	} {
		tr.Observe(&e)
		assert.Equal(t, 12.0, e.X, e.Kind.String())
		assert.Equal(t, 34.0, e.Y, e.Kind.String())
	}

	key := event.KeyPress(event.KeyA, t0)
	tr.Observe(&key)
	assert.False(t, key.HasPosition())

	x, y, ok := tr.Position()
	assert.True(t, ok)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 34.0, y)

	tr.Reset()
	_, _, ok = tr.Position()
	assert.False(t, ok)
}

func TestTrackerKeepsExistingCoordinates(t *testing.T) {
	tr := NewTracker()
	move := event.MouseMove(1, 1, t0)
	tr.Observe(&move)

	press := event.ButtonPress(event.ButtonLeft, t0)
	press.X, press.Y = 50, 60
	tr.Observe(&press)
	assert.Equal(t, 50.0, press.X)
	assert.Equal(t, 60.0, press.Y)
}

func TestShortMoveIsClick(t *testing.T) {
	m, tr := NewMachine(), NewTracker()
	drags := feedAll(m, tr,
		event.MouseMove(100, 100, t0),
		event.ButtonPress(event.ButtonLeft, t0),
		event.MouseMove(103, 100, t0),
		event.ButtonRelease(event.ButtonLeft, t0),
	)
	assert.Empty(t, drags)
	assert.False(t, m.State().Pressed)
}

func TestLongMoveIsDrag(t *testing.T) {
	m, tr := NewMachine(), NewTracker()
	drags := feedAll(m, tr,
		event.MouseMove(100, 100, t0),
		event.ButtonPress(event.ButtonLeft, t0),
		event.MouseMove(110, 100, t0),
		event.ButtonRelease(event.ButtonLeft, t0),
	)
	require.Len(t, drags, 2)
	assert.Equal(t, PhaseStart, drags[0].Phase)
	assert.Equal(t, PhaseEnd, drags[1].Phase)
	for _, d := range drags {
		assert.Equal(t, Point{100, 100}, d.Start)
		assert.Equal(t, Point{110, 100}, d.Current)
		assert.Equal(t, event.ButtonLeft, d.Button)
	}
}

func TestDragMovesKeepStart(t *testing.T) {
	m, tr := NewMachine(), NewTracker()
	drags := feedAll(m, tr,
		event.MouseMove(0, 10, t0),
		event.ButtonPress(event.ButtonRight, t0),
		event.MouseMove(0, 20, t0),
		event.MouseMove(0, 11, t0), // back under the threshold
		event.MouseMove(5, 40, t0),
		event.ButtonRelease(event.ButtonRight, t0),
	)
	require.Len(t, drags, 4)
	phases := []Phase{PhaseStart, PhaseMove, PhaseMove, PhaseEnd}
	for i, d := range drags {
		assert.Equal(t, phases[i], d.Phase)
		assert.Equal(t, Point{0, 10}, d.Start)
	}
	assert.Equal(t, Point{0, 11}, drags[1].Current)
	assert.Equal(t, Point{5, 40}, drags[3].Current)
}

func TestSecondPressRestartsGesture(t *testing.T) {
	m, tr := NewMachine(), NewTracker()
	drags := feedAll(m, tr,
		event.MouseMove(10, 10, t0),
		event.ButtonPress(event.ButtonLeft, t0),
		event.MouseMove(30, 10, t0),
		event.ButtonPress(event.ButtonMiddle, t0),
	)
	require.Len(t, drags, 1)

	st := m.State()
	assert.True(t, st.Pressed)
	assert.False(t, st.Dragging)
	assert.Equal(t, event.ButtonMiddle, st.Button)
	require.NotNil(t, st.Origin)
	assert.Equal(t, Point{30, 10}, *st.Origin)
}

func TestMovesWithoutPressIgnored(t *testing.T) {
	m := NewMachine()
	_, ok := m.Feed(event.MouseMove(500, 500, t0))
	assert.False(t, ok)
	_, ok = m.Feed(event.ButtonRelease(event.ButtonLeft, t0))
	assert.False(t, ok)
}

func TestSetThreshold(t *testing.T) {
	m, tr := NewMachine(), NewTracker()
	require.NoError(t, m.SetThreshold(20))
	assert.Equal(t, 20.0, m.Threshold())

	drags := feedAll(m, tr,
		event.MouseMove(0, 0, t0),
		event.ButtonPress(event.ButtonLeft, t0),
		event.MouseMove(10, 0, t0),
		event.ButtonRelease(event.ButtonLeft, t0),
	)
	assert.Empty(t, drags)

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, m.SetThreshold(bad), ErrInvalidThreshold)
	}
	assert.Equal(t, 20.0, m.Threshold())
}

func TestReset(t *testing.T) {
	m := NewMachine()
	m.Feed(event.ButtonPress(event.ButtonLeft, t0))
	m.Reset()
	assert.Equal(t, State{}, m.State())
	assert.Equal(t, DefaultThreshold, m.Threshold())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "dragstart", PhaseStart.String())
	assert.Equal(t, "dragmove", PhaseMove.String())
	assert.Equal(t, "dragend", PhaseEnd.String())
}
