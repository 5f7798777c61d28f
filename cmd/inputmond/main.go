// inputmond - global pointer, keyboard and file drag monitor
//
//	inputmond run       Monitor input until interrupted
//	inputmond recent    Print the newest journal records
//	inputmond config    Show or create the configuration file
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inputmon/internal/config"
	"inputmon/internal/event"
	"inputmon/internal/filedrag"
	"inputmon/internal/gesture"
	"inputmon/internal/health"
	"inputmon/internal/journal"
	"inputmon/internal/logging"
	"inputmon/internal/metrics"
	"inputmon/internal/monitor"
	"inputmon/internal/registry"
)

func main() {
	cmd := "run"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var args []string
	if len(os.Args) > 2 {
		args = os.Args[2:]
	}

	switch cmd {
	case "run":
		cmdRun(args)
	case "recent":
		cmdRecent(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`inputmond - Global input monitor

USAGE:
    inputmond <command> [options]

COMMANDS:
    run                 Monitor input until interrupted (default)
    recent              Print the newest journal records
    config              Show the active configuration
    help                Show this help message

OPTIONS:
    -config <path>      Configuration file (TOML, JSON or YAML). Defaults to
                        the first config.<ext> in the working directory,
                        then in the configuration directory.

PRIVACY NOTE:
    Key identities are redacted from logs and left out of the journal
    unless logging.redact_keys is false or journal.record_keys is true.`)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file")
	verbose := fs.Bool("v", false, "Log every dispatched event")
	fs.Parse(args)

	loader := config.NewLoader(*configPath)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
		os.Exit(1)
	}

	logCfg, err := cfg.Logging.LoggerConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in logging config: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		logCfg.Level = logging.LevelDebug
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	logging.SetDefault(logger)

	if err := run(loader, cfg, logger); err != nil {
		logger.Error("inputmond failed", "error", err)
		logger.Close()
		os.Exit(1)
	}
}

func run(loader *config.Loader, cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.NewInputMetrics(metrics.Default())
	svc, err := monitor.NewService(monitor.ServiceOptions{
		Config:  cfg,
		Logger:  logger.Logger,
		Metrics: m,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("close service", "error", err)
		}
	}()

	if err := svc.Start(); err != nil {
		return err
	}
	watchEvents(svc, logger.Component("events"))

	loader.OnChange(func(next *config.Config) {
		if err := svc.ApplyConfig(next); err != nil {
			logger.Warn("apply configuration", "error", err)
		}
	})
	if err := loader.Watch(); err != nil {
		logger.Warn("configuration hot reload disabled", "error", err)
	}
	defer loader.Close()

	checker := health.NewChecker()
	svc.RegisterHealth(checker)
	checker.SetReady(true)

	var srv *http.Server
	if cfg.Metrics.Enabled {
		srv = serveMetrics(cfg.Metrics, m, checker, logger.Component("metrics"))
	}

	logger.Info("inputmond running",
		"config", loader.Path(),
		"drag_threshold", svc.Input().DragThreshold(),
		"file_drag", svc.FileDrag().IsRunning(),
		"journal", svc.Journal() != nil)

	uptime := time.NewTicker(10 * time.Second)
	defer uptime.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			checker.SetReady(false)
			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				srv.Shutdown(shutdownCtx)
				cancel()
			}
			return nil
		case err := <-loader.Errors():
			logger.Warn("configuration reload rejected", "error", err)
		case <-uptime.C:
			m.UpdateUptime()
			if checker.IsReady() && !svc.Input().IsRunning() {
				logger.Warn("input monitor is not running")
			}
		}
	}
}

// watchEvents logs everything the service dispatches at debug level.
func watchEvents(svc *monitor.Service, logger *slog.Logger) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	svc.Input().OnEvent(registry.Listen(func(e event.Event) {
		attrs := []any{"kind", e.Kind.String(), "x", e.X, "y", e.Y}
		switch {
		case e.IsKey():
			attrs = append(attrs, "key", e.Key.Name(), "modifiers", e.Key.Modifiers())
		case e.Kind == event.KindWheel:
			attrs = append(attrs, "dx", e.DeltaX, "dy", e.DeltaY)
		case e.Kind != event.KindMouseMove:
			attrs = append(attrs, "button", e.Button.String())
		}
		logger.Debug("input", attrs...)
	}))
	svc.Input().OnDrag(registry.Listen(func(d gesture.Drag) {
		logger.Debug("drag", "phase", d.Phase.String(), "button", d.Button.String(),
			"start_x", d.Start.X, "start_y", d.Start.Y, "x", d.Current.X, "y", d.Current.Y)
	}))
	svc.FileDrag().OnEvent(registry.Listen(func(e filedrag.FileEvent) {
		logger.Debug("file drag", "type", e.EventType, "path", e.FilePath, "x", e.X, "y", e.Y)
	}))
}

func serveMetrics(cfg config.MetricsConfig, m *metrics.InputMetrics, checker *health.Checker, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, m.Registry().HTTPHandler())
	mux.Handle("/healthz", checker.Handler())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "addr", cfg.ListenAddr, "path", cfg.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	return srv
}

func cmdRecent(args []string) {
	fs := flag.NewFlagSet("recent", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file")
	limit := fs.Int("n", 20, "Number of records")
	fs.Parse(args)

	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if _, err := os.Stat(cfg.Journal.Path); err != nil {
		fmt.Fprintf(os.Stderr, "No journal at %s\n", cfg.Journal.Path)
		os.Exit(1)
	}

	j, err := journal.Open(cfg.Journal.Path, journal.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
		os.Exit(1)
	}
	defer j.Close()

	records, err := j.Recent(context.Background(), *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading journal: %v\n", err)
		os.Exit(1)
	}

	for _, r := range records {
		fmt.Printf("[%d] %s  %-6s %-22s", r.ID, r.Time.Format("2006-01-02 15:04:05.000"), r.Source, r.Kind)
		switch r.Source {
		case journal.SourceDrag:
			fmt.Printf(" (%.0f,%.0f) -> (%.0f,%.0f)", r.StartX, r.StartY, r.X, r.Y)
		case journal.SourceFile:
			fmt.Printf(" (%.0f,%.0f) %s", r.X, r.Y, r.Path)
		default:
			if r.KeyName != "" {
				fmt.Printf(" %s", r.KeyName)
			} else {
				fmt.Printf(" (%.0f,%.0f)", r.X, r.Y)
			}
		}
		fmt.Println()
	}
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file")
	create := fs.Bool("init", false, "Write the default configuration if the file is missing")
	fs.Parse(args)

	path := *configPath
	if path == "" {
		path = config.FindConfigFile()
	}

	var cfg *config.Config
	var err error
	if *create {
		var created bool
		cfg, created, err = config.LoadOrCreate(path)
		if err == nil && created {
			fmt.Printf("Created %s\n", path)
		}
	} else {
		cfg, err = config.NewLoader(path).Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Config file:     %s\n", path)
	fmt.Printf("Drag threshold:  %g\n", cfg.Monitor.DragThreshold)
	fmt.Printf("Grab keys:       %v\n", cfg.Monitor.GrabKeys)
	fmt.Printf("File drag:       %v (mode %s)\n", cfg.FileDrag.Enabled, cfg.FileDrag.Mode)
	if cfg.FileDrag.HelperPath != "" {
		fmt.Printf("Helper:          %s\n", cfg.FileDrag.HelperPath)
	}
	fmt.Printf("Journal:         %v (%s)\n", cfg.Journal.Enabled, cfg.Journal.Path)
	fmt.Printf("Metrics:         %v (%s%s)\n", cfg.Metrics.Enabled, cfg.Metrics.ListenAddr, cfg.Metrics.Path)
	fmt.Printf("Log level:       %s\n", cfg.Logging.Level)
	fmt.Printf("Platform:        %s\n", event.Platform())
}
