package lifecycle

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func worker(started *atomic.Int32) Launch {
	return func(stop <-chan struct{}) (<-chan struct{}, error) {
		started.Add(1)
		done := make(chan struct{})
		go func() {
			defer close(done)
			<-stop
		}()
		return done, nil
	}
}

func TestStartIsIdempotent(t *testing.T) {
	var l Lifecycle
	var started atomic.Int32

	require.NoError(t, l.Start(worker(&started)))
	require.NoError(t, l.Start(worker(&started)))
	assert.True(t, l.Running())
	assert.Equal(t, int32(1), started.Load())

	require.NoError(t, l.Stop())
	require.NoError(t, l.Stop())
	assert.False(t, l.Running())

	require.NoError(t, l.Start(worker(&started)))
	assert.Equal(t, int32(2), started.Load())
	require.NoError(t, l.Stop())
}

func TestStopWaitsForWorker(t *testing.T) {
	var l Lifecycle
	var unwound atomic.Bool

	require.NoError(t, l.Start(func(stop <-chan struct{}) (<-chan struct{}, error) {
		done := make(chan struct{})
		go func() {
			<-stop
			unwound.Store(true)
			close(done)
		}()
		return done, nil
	}))

	require.NoError(t, l.Stop())
	assert.True(t, unwound.Load())
}

func TestFailedLaunchStaysStopped(t *testing.T) {
	var l Lifecycle
	want := errors.New("install failed")

	err := l.Start(func(<-chan struct{}) (<-chan struct{}, error) {
		return nil, want
	})
	assert.ErrorIs(t, err, want)
	assert.False(t, l.Running())
	assert.NoError(t, l.Stop())
}

func TestConcurrentStartStop(t *testing.T) {
	var l Lifecycle
	var started atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Start(worker(&started)))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Stop())
		}()
	}
	wg.Wait()

	require.NoError(t, l.Stop())
	assert.False(t, l.Running())
}

func TestExited(t *testing.T) {
	var l Lifecycle
	assert.False(t, l.Exited())

	require.NoError(t, l.Start(func(<-chan struct{}) (<-chan struct{}, error) {
		done := make(chan struct{})
		close(done)
		return done, nil
	}))
	assert.True(t, l.Running())
	assert.True(t, l.Exited())
	assert.False(t, l.Active())
	require.NoError(t, l.Stop())
}

func TestRequestFromWorker(t *testing.T) {
	var l Lifecycle
	var started atomic.Int32
	trigger := make(chan struct{})

	require.NoError(t, l.Start(func(stop <-chan struct{}) (<-chan struct{}, error) {
		started.Add(1)
		done := make(chan struct{})
		go func() {
			defer close(done)
			<-trigger
			l.Request()
			l.Request()
			<-stop
		}()
		return done, nil
	}))
	assert.True(t, l.Active())

	close(trigger)
	assert.Eventually(t, func() bool { return !l.Active() }, time.Second, time.Millisecond)

	// The exited worker is replaced rather than treated as running.
	require.NoError(t, l.Start(worker(&started)))
	assert.Equal(t, int32(2), started.Load())
	assert.True(t, l.Active())

	require.NoError(t, l.Stop())
	require.NoError(t, l.Stop())
	assert.False(t, l.Running())
}

func TestRequestThenStop(t *testing.T) {
	var l Lifecycle
	l.Request()

	var started atomic.Int32
	require.NoError(t, l.Start(worker(&started)))
	l.Request()
	assert.Eventually(t, l.Exited, time.Second, time.Millisecond)
	assert.NoError(t, l.Stop())
	assert.False(t, l.Running())
}
