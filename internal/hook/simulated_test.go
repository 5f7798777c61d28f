package hook

import (
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inputmon/internal/event"
)

func runSimulated(t *testing.T, s *Simulated, handler Handler) (Handle, chan struct{}) {
	t.Helper()
	h, err := s.Install(handler)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(done)

		h.Run()
		assert.NoError(t, h.Uninstall())
	}()
	return h, done
}

func TestSimulatedDelivers(t *testing.T) {
	s := NewSimulated()
	var got []RawEvent
	h, done := runSimulated(t, s, func(raw RawEvent) Decision {
		got = append(got, raw)
		return Swallow
	})

	d, ok := s.Inject(SyntheticEvent{Event: event.KeyPress(event.KeyA, fixtureTime)})
	assert.True(t, ok)
	assert.Equal(t, Swallow, d)

	h.Interrupt()
	<-done

	_, ok = s.Inject(SyntheticEvent{})
	assert.False(t, ok)
	assert.Len(t, got, 1)
	assert.False(t, s.Installed())
	assert.Equal(t, 1, s.Installs())
}

func TestSimulatedInterruptBeforeRun(t *testing.T) {
	s := NewSimulated()
	h, err := s.Install(func(RawEvent) Decision { return Pass })
	require.NoError(t, err)

	h.Interrupt()
	h.Run()
	require.NoError(t, h.Uninstall())
	assert.False(t, s.Installed())
}

func TestSimulatedSingleInstall(t *testing.T) {
	s := NewSimulated()
	h, err := s.Install(func(RawEvent) Decision { return Pass })
	require.NoError(t, err)
	defer h.Uninstall()

	_, err = s.Install(func(RawEvent) Decision { return Pass })
	var hookErr *HookError
	require.ErrorAs(t, err, &hookErr)
	assert.ErrorIs(t, err, ErrAlreadyInstalled)
}

func TestSimulatedFailNextInstall(t *testing.T) {
	s := NewSimulated()
	want := &HookError{Device: DeviceKey, Code: 5}
	s.FailNextInstall(want)

	_, err := s.Install(func(RawEvent) Decision { return Pass })
	assert.Same(t, want, err)
	assert.Equal(t, 0, s.Installs())

	h, err := s.Install(func(RawEvent) Decision { return Pass })
	require.NoError(t, err)
	require.NoError(t, h.Uninstall())
}

func TestHookErrorFormatting(t *testing.T) {
	err := &HookError{Device: DeviceMouse, Code: 5, Err: ErrPermissionDenied}
	assert.True(t, strings.Contains(err.Error(), "mouse"))
	assert.True(t, errors.Is(err, ErrPermissionDenied))

	assert.Equal(t, "install key hook (code 7)", (&HookError{Device: DeviceKey, Code: 7}).Error())
}
