package monitor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"inputmon/internal/config"
	"inputmon/internal/filedrag"
	"inputmon/internal/gesture"
	"inputmon/internal/health"
	"inputmon/internal/hook"
	"inputmon/internal/journal"
	"inputmon/internal/logging"
	"inputmon/internal/metrics"
)

// ServiceOptions configures a Service.
type ServiceOptions struct {
	Config *config.Config

	// Adapter overrides the platform hook.
	Adapter hook.Adapter

	// FileDragSource overrides the configured file drag mode.
	FileDragSource filedrag.Source

	Logger  *slog.Logger
	Metrics *metrics.InputMetrics
}

// Service owns the input monitor, the file drag monitor, the pointer
// tracker they share and the optional journal.
type Service struct {
	mu      sync.Mutex
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.InputMetrics

	tracker *gesture.Tracker
	input   *Input
	files   *filedrag.Monitor
	journal *journal.Journal

	// Journal subscriptions, kept so a restart after RequestStop does not
	// register them twice.
	inputIDs [2]uint32
	fileID   uint32
}

// NewService validates opts.Config and builds a stopped service. The
// journal, when enabled, is opened here.
func NewService(opts ServiceOptions) (*Service, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()
	logger := logging.OrDiscard(opts.Logger)

	mode, err := filedrag.ParseMode(cfg.FileDrag.Mode)
	if err != nil {
		return nil, err
	}

	tracker := gesture.NewTracker()
	s := &Service{
		cfg:     cfg,
		logger:  logger.With("component", "monitor"),
		metrics: opts.Metrics,
		tracker: tracker,
		input: NewInput(InputOptions{
			Adapter: opts.Adapter,
			Tracker: tracker,
			Logger:  logger.With("component", "hook"),
			Metrics: opts.Metrics,
		}),
		files: filedrag.NewMonitor(filedrag.Options{
			Mode:       mode,
			HelperPath: cfg.FileDrag.HelperPath,
			Tracker:    tracker,
			Source:     opts.FileDragSource,
			Logger:     logger.With("component", "filedrag"),
			Metrics:    opts.Metrics,
		}),
	}
	if err := s.input.SetDragThreshold(cfg.Monitor.DragThreshold); err != nil {
		return nil, err
	}
	s.input.SetGrabKeys(cfg.Monitor.GrabKeyValues())

	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path, journal.Options{
			RecordKeys:  cfg.Journal.RecordKeys,
			RecordMoves: cfg.Journal.RecordMoves,
			Logger:      logger.With("component", "journal"),
		})
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		s.journal = j
	}
	return s, nil
}

// Start starts the input monitor and, when enabled, the file drag
// monitor. A platform without native file drag support only logs a
// warning. Any other file drag failure is returned with the input monitor
// left running.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.input.IsRunning() {
		s.input.RemoveEventListener(s.inputIDs[0])
		s.input.RemoveDragListener(s.inputIDs[1])
		s.inputIDs = [2]uint32{}
		if s.journal != nil {
			s.inputIDs[0] = s.input.OnEvent(s.journal.Events())
			s.inputIDs[1] = s.input.OnDrag(s.journal.Drags())
		}
		if err := s.input.Start(); err != nil {
			return fmt.Errorf("start input monitor: %w", err)
		}
	}

	if !s.cfg.FileDrag.Enabled || s.files.IsRunning() {
		return nil
	}
	s.files.RemoveListener(s.fileID)
	s.fileID = 0
	if s.journal != nil {
		s.fileID = s.files.OnEvent(s.journal.FileDrags())
	}
	err := s.files.Start()
	if err == nil {
		return nil
	}
	if errors.Is(err, filedrag.ErrNativeUnsupported) {
		s.logger.Warn("file drag monitoring unavailable", "error", err)
		return nil
	}
	return fmt.Errorf("start file drag monitor: %w", err)
}

// Stop stops both monitors. Their listeners are removed, including the
// journal's; Start registers the journal again.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.files.Stop(), s.input.Stop())
}

// Close stops the service and closes the journal.
func (s *Service) Close() error {
	err := s.Stop()
	if s.journal != nil {
		err = errors.Join(err, s.journal.Close())
	}
	return err
}

// ApplyConfig applies the settings that can change while running: the
// drag threshold and the grabbed keys. File drag and journal settings
// are kept until the service is rebuilt.
func (s *Service) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.input.SetDragThreshold(cfg.Monitor.DragThreshold); err != nil {
		return err
	}
	s.input.SetGrabKeys(cfg.Monitor.GrabKeyValues())

	if cfg.FileDrag != s.cfg.FileDrag || cfg.Journal != s.cfg.Journal {
		s.logger.Info("file drag and journal changes apply after restart")
	}
	s.cfg.Monitor = cfg.Monitor
	s.cfg.Monitor.GrabKeys = append([]string(nil), cfg.Monitor.GrabKeys...)
	s.logger.Info("configuration applied",
		"drag_threshold", cfg.Monitor.DragThreshold,
		"grab_keys", len(cfg.Monitor.GrabKeys))
	return nil
}

// RegisterHealth adds checks for the input monitor, which is critical,
// and for the file drag monitor and journal when they are enabled.
func (s *Service) RegisterHealth(c *health.Checker) {
	c.Register("input", true, health.RunningCheck(s.input.IsRunning))
	if s.cfg.FileDrag.Enabled {
		c.Register("file_drag", false, health.RunningCheck(s.files.IsRunning))
	}
	if s.journal != nil {
		c.Register("journal", false, health.PingCheck(s.journal.Ping))
	}
}

// Config returns a copy of the active configuration.
func (s *Service) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

func (s *Service) Input() *Input { return s.input }

func (s *Service) FileDrag() *filedrag.Monitor { return s.files }

// Journal returns the open journal, or nil when disabled.
func (s *Service) Journal() *journal.Journal { return s.journal }

func (s *Service) Tracker() *gesture.Tracker { return s.tracker }
