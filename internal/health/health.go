// Package health reports whether the monitors and the journal are up.
//
// Checks run on demand when the HTTP endpoint is queried; there is no
// background polling.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Status is the health of one component or of the whole process.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// DefaultTimeout bounds a single check.
const DefaultTimeout = 2 * time.Second

// Result is the outcome of a check.
type Result struct {
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Check inspects one component.
type Check func(ctx context.Context) Result

type component struct {
	name     string
	critical bool
	check    Check
}

// Checker runs registered checks and aggregates them.
type Checker struct {
	mu         sync.RWMutex
	components []component
	ready      bool
	started    time.Time
	timeout    time.Duration
}

// NewChecker returns a checker that is not ready.
func NewChecker() *Checker {
	return &Checker{started: time.Now(), timeout: DefaultTimeout}
}

// Register adds a check. A failing critical check makes the process
// unhealthy; a failing non-critical check only degrades it.
func (c *Checker) Register(name string, critical bool, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components = append(c.components, component{name: name, critical: critical, check: check})
}

// SetReady marks the process as started.
func (c *Checker) SetReady(ready bool) {
	c.mu.Lock()
	c.ready = ready
	c.mu.Unlock()
}

// IsReady reports the value last passed to SetReady.
func (c *Checker) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Run executes every check concurrently.
func (c *Checker) Run(ctx context.Context) map[string]Result {
	c.mu.RLock()
	components := append([]component(nil), c.components...)
	timeout := c.timeout
	c.mu.RUnlock()

	results := make(map[string]Result, len(components))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, comp := range components {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := runOne(ctx, comp.check, timeout)
			mu.Lock()
			results[comp.name] = r
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}

func runOne(ctx context.Context, check Check, timeout time.Duration) (r Result) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan Result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- Result{Status: StatusUnhealthy, Message: "check panicked", Error: fmt.Sprint(p)}
			}
		}()
		done <- check(ctx)
	}()

	select {
	case r = <-done:
	case <-ctx.Done():
		r = Result{Status: StatusUnhealthy, Message: "check timed out", Error: ctx.Err().Error()}
	}
	r.Duration = time.Since(start)
	return r
}

// Overall folds results into one status.
func (c *Checker) Overall(results map[string]Result) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := StatusHealthy
	for _, comp := range c.components {
		r, ok := results[comp.name]
		if !ok || r.Status == StatusHealthy {
			continue
		}
		if r.Status == StatusUnhealthy && comp.critical {
			return StatusUnhealthy
		}
		status = StatusDegraded
	}
	return status
}

// Report is the JSON body served by Handler.
type Report struct {
	Status     Status            `json:"status"`
	Ready      bool              `json:"ready"`
	Uptime     string            `json:"uptime"`
	Components map[string]Result `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Report runs the checks and builds a Report.
func (c *Checker) Report(ctx context.Context) Report {
	results := c.Run(ctx)
	c.mu.RLock()
	uptime := time.Since(c.started).Round(time.Second)
	c.mu.RUnlock()

	return Report{
		Status:     c.Overall(results),
		Ready:      c.IsReady(),
		Uptime:     uptime.String(),
		Components: results,
		Timestamp:  time.Now(),
	}
}

// Handler serves the report. Unhealthy or not-ready processes answer 503.
func (c *Checker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := c.Report(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if !report.Ready || report.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(report)
	})
}

// Names returns the registered component names, sorted.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.components))
	for _, comp := range c.components {
		names = append(names, comp.name)
	}
	sort.Strings(names)
	return names
}

// RunningCheck reports healthy while running returns true.
func RunningCheck(running func() bool) Check {
	return func(context.Context) Result {
		if running() {
			return Result{Status: StatusHealthy, Message: "running"}
		}
		return Result{Status: StatusUnhealthy, Message: "stopped"}
	}
}

// PingCheck reports healthy while ping succeeds.
func PingCheck(ping func(ctx context.Context) error) Check {
	return func(ctx context.Context) Result {
		if err := ping(ctx); err != nil {
			return Result{Status: StatusUnhealthy, Message: "ping failed", Error: err.Error()}
		}
		return Result{Status: StatusHealthy}
	}
}
