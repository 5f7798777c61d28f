package hook

import (
	"sync"
)

// Simulated is an in-memory Adapter. Raw records are fed with Inject and
// delivered to the handler on the goroutine blocked in Run, the same way a
// platform hook delivers them on its owning thread.
type Simulated struct {
	mu       sync.Mutex
	active   *simulatedHandle
	installs int
	failNext error
}

// NewSimulated returns an idle simulated adapter.
func NewSimulated() *Simulated {
	return &Simulated{}
}

type injection struct {
	raw  RawEvent
	done chan Decision
}

type simulatedHandle struct {
	owner   *Simulated
	handler Handler
	events  chan injection
	quit    chan struct{}
	exited  chan struct{}
	once    sync.Once
}

// Install implements Adapter.
func (s *Simulated) Install(handler Handler) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failNext; err != nil {
		s.failNext = nil
		return nil, err
	}
	if s.active != nil {
		return nil, &HookError{Device: DeviceMouse, Err: ErrAlreadyInstalled}
	}

	h := &simulatedHandle{
		owner:   s,
		handler: handler,
		events:  make(chan injection),
		quit:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	s.active = h
	s.installs++
	return h, nil
}

// FailNextInstall makes the next Install return err.
func (s *Simulated) FailNextInstall(err error) {
	s.mu.Lock()
	s.failNext = err
	s.mu.Unlock()
}

// Installs reports how many times a hook has been installed.
func (s *Simulated) Installs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installs
}

// Installed reports whether a hook is currently installed.
func (s *Simulated) Installed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

// Inject delivers raw to the installed handler and waits until the handler
// has returned. It reports false when no hook is installed or the hook was
// interrupted before the record could be delivered.
func (s *Simulated) Inject(raw RawEvent) (Decision, bool) {
	s.mu.Lock()
	h := s.active
	s.mu.Unlock()
	if h == nil {
		return Pass, false
	}

	inj := injection{raw: raw, done: make(chan Decision, 1)}
	select {
	case h.events <- inj:
	case <-h.quit:
		return Pass, false
	}

	select {
	case d := <-inj.done:
		return d, true
	case <-h.exited:
		return Pass, false
	}
}

func (h *simulatedHandle) Run() {
	defer close(h.exited)
	for {
		select {
		case <-h.quit:
			return
		case inj := <-h.events:
			inj.done <- h.handler(inj.raw)
		}
	}
}

func (h *simulatedHandle) Interrupt() {
	h.once.Do(func() { close(h.quit) })
}

func (h *simulatedHandle) Uninstall() error {
	h.Interrupt()
	h.owner.mu.Lock()
	if h.owner.active == h {
		h.owner.active = nil
	}
	h.owner.mu.Unlock()
	return nil
}
