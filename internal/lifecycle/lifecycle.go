// Package lifecycle controls the start and stop of a single background
// worker.
package lifecycle

import (
	"sync"
)

// Launch starts a worker. It must return once the worker is ready, handing
// back a channel closed when the worker has fully unwound. stop is closed
// when the worker should shut down. A non-nil error means nothing was
// started.
type Launch func(stop <-chan struct{}) (done <-chan struct{}, err error)

// Lifecycle owns at most one running worker.
//
// Start and Stop are serialized and idempotent. Stop waits for the worker,
// so code running on the worker must use Request instead. Running, Active,
// Exited and Request never wait on a Start or Stop in progress.
type Lifecycle struct {
	op sync.Mutex

	mu     sync.Mutex
	stop   chan struct{}
	signal func()
	done   <-chan struct{}
}

// Start launches the worker unless one is already active. A worker that
// exited on its own is replaced.
func (l *Lifecycle) Start(launch Launch) error {
	l.op.Lock()
	defer l.op.Unlock()

	if l.Active() {
		return nil
	}

	stop := make(chan struct{})
	done, err := launch(stop)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if l.signal != nil {
		l.signal()
	}
	l.stop, l.done = stop, done
	l.signal = sync.OnceFunc(func() { close(stop) })
	l.mu.Unlock()
	return nil
}

// Request signals the worker to stop without waiting for it. It is safe to
// call from the worker and from callbacks the worker runs. A later Stop
// completes the shutdown.
func (l *Lifecycle) Request() {
	l.mu.Lock()
	signal := l.signal
	l.mu.Unlock()
	if signal != nil {
		signal()
	}
}

// Stop signals the worker and blocks until it has unwound. Stopping an
// idle lifecycle does nothing.
func (l *Lifecycle) Stop() error {
	l.op.Lock()
	defer l.op.Unlock()

	l.mu.Lock()
	signal, done := l.signal, l.done
	l.mu.Unlock()
	if signal == nil {
		return nil
	}

	signal()
	if done != nil {
		<-done
	}

	l.mu.Lock()
	l.stop, l.done, l.signal = nil, nil, nil
	l.mu.Unlock()
	return nil
}

// Running reports whether a worker has been started and not yet stopped.
func (l *Lifecycle) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stop != nil && l.done != nil
}

// Active reports whether a worker is running and has not unwound.
func (l *Lifecycle) Active() bool {
	return l.Running() && !l.Exited()
}

// Exited reports whether the running worker has unwound on its own.
func (l *Lifecycle) Exited() bool {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return true
	default:
		return false
	}
}
