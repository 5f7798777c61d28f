// Package registry maps subscription ids to subscribers and fans values out
// to every live subscriber.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"inputmon/internal/logging"
	"inputmon/internal/metrics"
)

// ErrQueueFull is returned by a Queue subscriber whose buffer is full.
var ErrQueueFull = errors.New("subscriber queue full")

// Subscriber receives dispatched values.
type Subscriber[T any] interface {
	Invoke(v T) error
}

// Func adapts a plain function to Subscriber.
type Func[T any] func(v T) error

// Invoke calls f.
func (f Func[T]) Invoke(v T) error {
	return f(v)
}

// Listen adapts a function that cannot fail.
func Listen[T any](f func(T)) Func[T] {
	return func(v T) error {
		f(v)
		return nil
	}
}

// Queue hands values off to a bounded channel so slow consumers never
// block the capture thread.
type Queue[T any] struct {
	ch chan T
}

// NewQueue returns a queue holding up to size values.
func NewQueue[T any](size int) *Queue[T] {
	if size < 1 {
		size = 1
	}
	return &Queue[T]{ch: make(chan T, size)}
}

// Invoke enqueues v, or returns ErrQueueFull.
func (q *Queue[T]) Invoke(v T) error {
	select {
	case q.ch <- v:
		return nil
	default:
		return ErrQueueFull
	}
}

// C returns the receive side of the queue.
func (q *Queue[T]) C() <-chan T {
	return q.ch
}

type entry[T any] struct {
	id  uint32
	sub Subscriber[T]
}

// Registry is a set of subscribers keyed by id. Ids start at 1, increase
// strictly and are never reused, even across Clear.
type Registry[T any] struct {
	name    string
	logger  *slog.Logger
	metrics *metrics.InputMetrics

	mu     sync.Mutex
	nextID uint32
	subs   map[uint32]Subscriber[T]
}

// New creates an empty registry. logger and m may be nil.
func New[T any](name string, logger *slog.Logger, m *metrics.InputMetrics) *Registry[T] {
	return &Registry[T]{
		name:    name,
		logger:  logging.OrDiscard(logger).With("registry", name),
		metrics: m,
		nextID:  1,
		subs:    make(map[uint32]Subscriber[T]),
	}
}

// Register adds sub and returns its id.
func (r *Registry[T]) Register(sub Subscriber[T]) uint32 {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = sub
	r.mu.Unlock()

	r.metrics.SubscribersChanged(1)
	return id
}

// Unregister removes the subscriber with id and reports whether it existed.
func (r *Registry[T]) Unregister(id uint32) bool {
	r.mu.Lock()
	_, ok := r.subs[id]
	delete(r.subs, id)
	r.mu.Unlock()

	if ok {
		r.metrics.SubscribersChanged(-1)
	}
	return ok
}

// Clear removes every subscriber. The id counter keeps counting.
func (r *Registry[T]) Clear() {
	r.mu.Lock()
	n := len(r.subs)
	clear(r.subs)
	r.mu.Unlock()

	if n > 0 {
		r.metrics.SubscribersChanged(-n)
	}
}

// Len returns the number of live subscribers.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

func (r *Registry[T]) snapshot() []entry[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entry[T], 0, len(r.subs))
	for id, sub := range r.subs {
		out = append(out, entry[T]{id: id, sub: sub})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Dispatch invokes every subscriber registered at the time of the call, in
// id order, without holding the lock. Errors and panics are logged and
// counted; they never stop the remaining subscribers. It returns the
// number of failed invocations.
func (r *Registry[T]) Dispatch(v T) int {
	subs := r.snapshot()
	if len(subs) == 0 {
		return 0
	}

	started := time.Now()
	failed := 0
	for _, e := range subs {
		if err := r.invoke(e.sub, v); err != nil {
			failed++
			r.logger.Warn("subscriber failed", "id", e.id, "error", err)
		}
	}
	r.metrics.RecordDispatch(len(subs), failed, started)
	return failed
}

func (r *Registry[T]) invoke(sub Subscriber[T], v T) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return sub.Invoke(v)
}
