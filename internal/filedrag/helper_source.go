package filedrag

import (
	"log/slog"
	"time"

	"inputmon/internal/gesture"
	"inputmon/internal/helper"
	"inputmon/internal/logging"
	"inputmon/internal/metrics"
)

// HelperSource runs the helper executable, placing it at the last known
// pointer position.
type HelperSource struct {
	Path    string
	Tracker *gesture.Tracker
	Logger  *slog.Logger
	Metrics *metrics.InputMetrics

	// Env is appended to the helper's environment.
	Env []string
}

// Open spawns the helper. A spawn failure is returned as *helper.SpawnError.
func (s *HelperSource) Open(emit func(FileEvent)) (Session, error) {
	if s.Path == "" {
		return nil, ErrNoHelperPath
	}

	var x, y float64
	if s.Tracker != nil {
		x, y, _ = s.Tracker.Position()
	}

	logger := logging.OrDiscard(s.Logger)
	proc, err := helper.Spawn(s.Path, x, y, func(msg helper.Message) {
		eventType, ok := helper.Translate(msg.EventType)
		if !ok {
			return
		}
		emit(newFileEvent(eventType, msg.FilePath(), msg.X, msg.Y, time.Now()))
	}, helper.Options{Logger: logger, Metrics: s.Metrics, Env: s.Env})
	if err != nil {
		return nil, err
	}
	return helperSession{proc}, nil
}

type helperSession struct {
	proc *helper.Process
}

func (s helperSession) Close() error {
	return s.proc.Shutdown()
}
