package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverall(t *testing.T) {
	var inputUp, journalUp atomic.Bool
	inputUp.Store(true)
	journalUp.Store(true)

	c := NewChecker()
	c.Register("input", true, RunningCheck(inputUp.Load))
	c.Register("journal", false, PingCheck(func(context.Context) error {
		if journalUp.Load() {
			return nil
		}
		return errors.New("database is locked")
	}))
	assert.Equal(t, []string{"input", "journal"}, c.Names())

	ctx := context.Background()
	assert.Equal(t, StatusHealthy, c.Overall(c.Run(ctx)))

	journalUp.Store(false)
	results := c.Run(ctx)
	assert.Equal(t, StatusDegraded, c.Overall(results))
	assert.Equal(t, "database is locked", results["journal"].Error)

	inputUp.Store(false)
	assert.Equal(t, StatusUnhealthy, c.Overall(c.Run(ctx)))
}

func TestCheckPanicAndTimeout(t *testing.T) {
	c := NewChecker()
	c.timeout = 20 * time.Millisecond
	c.Register("panics", false, func(context.Context) Result { panic("boom") })
	c.Register("slow", false, func(ctx context.Context) Result {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return Result{Status: StatusHealthy}
	})

	results := c.Run(context.Background())
	assert.Equal(t, StatusUnhealthy, results["panics"].Status)
	assert.Equal(t, "boom", results["panics"].Error)
	assert.Equal(t, StatusUnhealthy, results["slow"].Status)
	assert.Equal(t, "check timed out", results["slow"].Message)
	assert.Equal(t, StatusDegraded, c.Overall(results))
}

func TestHandler(t *testing.T) {
	var up atomic.Bool
	c := NewChecker()
	c.Register("input", true, RunningCheck(up.Load))

	get := func() (int, Report) {
		rec := httptest.NewRecorder()
		c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		var report Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		return rec.Code, report
	}

	code, report := get()
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, report.Ready)
	assert.False(t, c.IsReady())

	up.Store(true)
	c.SetReady(true)
	assert.True(t, c.IsReady())
	code, report = get()
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, report.Ready)
	assert.Equal(t, StatusHealthy, report.Status)
	assert.Equal(t, "running", report.Components["input"].Message)

	// Draining: healthy components but no longer ready.
	c.SetReady(false)
	code, report = get()
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, report.Ready)
	assert.Equal(t, StatusHealthy, report.Status)
}
