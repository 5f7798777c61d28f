package metrics

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryReusesMetrics(t *testing.T) {
	r := NewRegistry("test")
	c1 := r.RegisterCounter("events_total", "events", nil)
	c2 := r.RegisterCounter("events_total", "events", nil)
	assert.Same(t, c1, c2)
	assert.Equal(t, "test_events_total", c1.Name())
	assert.Same(t, c1, r.GetCounter("events_total"))
	assert.Nil(t, r.GetGauge("missing"))
}

func TestWritePrometheus(t *testing.T) {
	r := NewRegistry("test")
	r.RegisterCounter("b_total", "second", nil).Add(3)
	r.RegisterCounter("a_total", "first", Labels{"os": "linux"}).Inc()
	r.RegisterGauge("subscribers", "subs", nil).Set(2)
	h := r.RegisterHistogram("latency_seconds", "lat", nil, []float64{0.1, 1})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(5)

	var b strings.Builder
	require.NoError(t, r.WritePrometheus(&b))
	out := b.String()

	assert.Contains(t, out, `test_a_total{os="linux"} 1`)
	assert.Contains(t, out, "test_b_total 3")
	assert.Less(t, strings.Index(out, "test_a_total"), strings.Index(out, "test_b_total"))
	assert.Contains(t, out, "test_subscribers 2")
	assert.Contains(t, out, `test_latency_seconds_bucket{le="0.1"} 1`)
	assert.Contains(t, out, `test_latency_seconds_bucket{le="1"} 2`)
	assert.Contains(t, out, `test_latency_seconds_bucket{le="+Inf"} 3`)
	assert.Contains(t, out, "test_latency_seconds_count 3")
}

func TestHistogramBoundaryIsInclusive(t *testing.T) {
	h := NewHistogram("h", "", nil, []float64{1, 2})
	h.Observe(1)
	h.Observe(2)
	assert.Equal(t, []uint64{1, 2, 2}, h.cumulative())
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *InputMetrics
	m.RecordRaw(false)
	m.RecordDispatch(3, 1, time.Now())
	m.RecordInstall(errors.New("x"))
	m.SubscribersChanged(1)
	m.MonitorStarted()
	assert.Nil(t, m.Registry())

	var c *Counter
	c.Inc()
	assert.Equal(t, uint64(0), c.Value())
}

func TestInputMetrics(t *testing.T) {
	m := NewInputMetrics(NewRegistry("t"))
	m.RecordRaw(true)
	m.RecordRaw(false)
	m.RecordDispatch(4, 1, time.Now())
	m.RecordInstall(nil)
	m.RecordInstall(errors.New("denied"))
	m.MonitorStarted()
	m.MonitorStarted()
	m.MonitorStopped()

	assert.Equal(t, uint64(2), m.RawEventsTotal.Value())
	assert.Equal(t, uint64(1), m.DiscardedEventsTotal.Value())
	assert.Equal(t, uint64(4), m.DispatchedTotal.Value())
	assert.Equal(t, uint64(1), m.CallbackFailuresTotal.Value())
	assert.Equal(t, uint64(1), m.HookInstallsTotal.Value())
	assert.Equal(t, uint64(1), m.HookFailuresTotal.Value())
	assert.Equal(t, int64(1), m.MonitorsRunning.Value())
	assert.Equal(t, uint64(1), m.DispatchDuration.Count())
}

func TestHTTPHandler(t *testing.T) {
	r := NewRegistry("h")
	r.RegisterCounter("x_total", "x", nil).Inc()

	rec := httptest.NewRecorder()
	r.HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "h_x_total 1")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	r.HTTPHandler().ServeHTTP(rec, req)

	var snap map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 1.0, snap["h_x_total"])
}
