package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inputmon/internal/config"
	"inputmon/internal/event"
	"inputmon/internal/filedrag"
	"inputmon/internal/health"
	"inputmon/internal/hook"
	"inputmon/internal/journal"
	"inputmon/internal/metrics"
)

type stubSource struct {
	mu      sync.Mutex
	emit    func(filedrag.FileEvent)
	openErr error
}

func (s *stubSource) Open(emit func(filedrag.FileEvent)) (filedrag.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return nil, s.openErr
	}
	s.emit = emit
	return s, nil
}

func (s *stubSource) Close() error {
	s.mu.Lock()
	s.emit = nil
	s.mu.Unlock()
	return nil
}

func (s *stubSource) send(e filedrag.FileEvent) {
	s.mu.Lock()
	emit := s.emit
	s.mu.Unlock()
	if emit != nil {
		emit(e)
	}
}

func newTestService(t *testing.T, cfg *config.Config, src filedrag.Source) (*Service, *hook.Simulated) {
	t.Helper()
	sim := hook.NewSimulated()
	s, err := NewService(ServiceOptions{
		Config:         cfg,
		Adapter:        sim,
		FileDragSource: src,
		Metrics:        metrics.NewInputMetrics(metrics.NewRegistry("test")),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, sim
}

func TestServiceAppliesConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Monitor.DragThreshold = 12
	cfg.Monitor.GrabKeys = []string{"F1"}

	s, sim := newTestService(t, cfg, nil)
	assert.Equal(t, 12.0, s.Input().DragThreshold())
	assert.Nil(t, s.Journal())

	require.NoError(t, s.Start())
	assert.True(t, s.Input().IsRunning())
	assert.False(t, s.FileDrag().IsRunning(), "file drag disabled by default")
	assert.Equal(t, hook.Swallow, inject(t, sim, event.KeyPress(event.KeyF1, t0)))

	next := cfg.Clone()
	next.Monitor.DragThreshold = 30
	next.Monitor.GrabKeys = nil
	require.NoError(t, s.ApplyConfig(next))
	assert.Equal(t, 30.0, s.Input().DragThreshold())
	assert.Equal(t, hook.Pass, inject(t, sim, event.KeyPress(event.KeyF1, t0)))
	assert.Equal(t, 30.0, s.Config().Monitor.DragThreshold)

	bad := next.Clone()
	bad.Monitor.DragThreshold = -1
	assert.Error(t, s.ApplyConfig(bad))
	assert.Equal(t, 30.0, s.Input().DragThreshold())
}

func TestServiceRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Monitor.DragThreshold = 0
	_, err := NewService(ServiceOptions{Config: cfg, Adapter: hook.NewSimulated()})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestServiceJournalsEvents(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Journal.Enabled = true
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")
	cfg.FileDrag.Enabled = true
	src := &stubSource{}

	s, sim := newTestService(t, cfg, src)
	require.NotNil(t, s.Journal())

	// Restarting must not register the journal twice.
	require.NoError(t, s.Start())
	require.NoError(t, s.Stop())
	require.NoError(t, s.Start())
	assert.True(t, s.FileDrag().IsRunning())

	inject(t, sim, event.MouseMove(100, 100, t0))
	inject(t, sim, event.ButtonPress(event.ButtonLeft, t0))
	inject(t, sim, event.MouseMove(120, 100, t0))
	inject(t, sim, event.ButtonRelease(event.ButtonLeft, t0))
	src.send(filedrag.FileEvent{EventType: filedrag.DroppedFile, FilePath: "/tmp/x", Timestamp: 1})

	ctx := context.Background()
	require.NoError(t, s.Journal().Flush(ctx))

	inputs, err := s.Journal().Count(ctx, journal.SourceInput)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inputs, "moves are not journaled by default")

	drags, err := s.Journal().Count(ctx, journal.SourceDrag)
	require.NoError(t, err)
	assert.Equal(t, int64(2), drags, "dragstart and dragend")

	files, err := s.Journal().Count(ctx, journal.SourceFile)
	require.NoError(t, err)
	assert.Equal(t, int64(1), files)
}

func TestServiceRestartAfterRequestStop(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Journal.Enabled = true
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")

	s, sim := newTestService(t, cfg, nil)
	require.NoError(t, s.Start())

	s.Input().RequestStop()
	assert.Eventually(t, func() bool { return !s.Input().IsRunning() }, time.Second, time.Millisecond)

	require.NoError(t, s.Start())
	inject(t, sim, event.ButtonPress(event.ButtonLeft, t0))

	ctx := context.Background()
	require.NoError(t, s.Journal().Flush(ctx))
	n, err := s.Journal().Count(ctx, journal.SourceInput)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "journal registered once")
}

func TestServiceInstallFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Journal.Enabled = true
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")

	s, sim := newTestService(t, cfg, nil)
	sim.FailNextInstall(&hook.HookError{Device: hook.DeviceMouse, Code: 5, Err: hook.ErrPermissionDenied})

	err := s.Start()
	var hookErr *hook.HookError
	require.ErrorAs(t, err, &hookErr)
	assert.ErrorIs(t, err, hook.ErrPermissionDenied)
	assert.False(t, s.Input().IsRunning())

	require.NoError(t, s.Start())
	inject(t, sim, event.ButtonPress(event.ButtonLeft, t0))
	ctx := context.Background()
	require.NoError(t, s.Journal().Flush(ctx))
	n, err := s.Journal().Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "journal registered once")
}

func TestServiceFileDragFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FileDrag.Enabled = true

	t.Run("unsupported", func(t *testing.T) {
		s, _ := newTestService(t, cfg, &stubSource{openErr: filedrag.ErrNativeUnsupported})
		require.NoError(t, s.Start())
		assert.True(t, s.Input().IsRunning())
		assert.False(t, s.FileDrag().IsRunning())
	})

	t.Run("spawn", func(t *testing.T) {
		spawnErr := errors.New("exec: no such file")
		s, _ := newTestService(t, cfg, &stubSource{openErr: spawnErr})
		err := s.Start()
		assert.ErrorIs(t, err, spawnErr)
		assert.True(t, s.Input().IsRunning())
		assert.False(t, s.FileDrag().IsRunning())
	})
}

func TestServiceStopIdempotent(t *testing.T) {
	s, sim := newTestService(t, nil, nil)
	require.NoError(t, s.Start())
	inject(t, sim, event.MouseMove(5, 5, t0))
	_, _, ok := s.Tracker().Position()
	assert.True(t, ok)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.False(t, s.Input().IsRunning())
	_, _, ok = s.Tracker().Position()
	assert.False(t, ok)
}

func TestServiceHealth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Journal.Enabled = true
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")
	cfg.FileDrag.Enabled = true

	s, _ := newTestService(t, cfg, &stubSource{openErr: filedrag.ErrNativeUnsupported})
	c := health.NewChecker()
	s.RegisterHealth(c)
	assert.Equal(t, []string{"file_drag", "input", "journal"}, c.Names())

	ctx := context.Background()
	assert.Equal(t, health.StatusUnhealthy, c.Overall(c.Run(ctx)))

	require.NoError(t, s.Start())
	results := c.Run(ctx)
	assert.Equal(t, health.StatusHealthy, results["input"].Status)
	assert.Equal(t, health.StatusHealthy, results["journal"].Status)
	assert.Equal(t, health.StatusUnhealthy, results["file_drag"].Status)
	assert.Equal(t, health.StatusDegraded, c.Overall(results))
}
