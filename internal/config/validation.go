package config

import (
	"errors"
	"fmt"
	"math"
	"net"
	"strings"

	"inputmon/internal/event"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Is lets errors.Is match ErrInvalidConfig.
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalidConfig && len(e) > 0
}

// ErrInvalidConfig is matched by every ValidationErrors value.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidateConfig validates every section and returns all problems found.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	errs = append(errs, validateMonitor(&c.Monitor)...)
	errs = append(errs, validateFileDrag(&c.FileDrag)...)
	errs = append(errs, validateJournal(&c.Journal)...)
	errs = append(errs, validateMetrics(&c.Metrics)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateMonitor(m *MonitorConfig) ValidationErrors {
	var errs ValidationErrors

	if m.DragThreshold <= 0 || math.IsNaN(m.DragThreshold) || math.IsInf(m.DragThreshold, 0) {
		errs = append(errs, ValidationError{
			Field:   "monitor.drag_threshold",
			Message: fmt.Sprintf("must be a positive number, got %v", m.DragThreshold),
		})
	}

	for i, name := range m.GrabKeys {
		if _, ok := event.ParseKey(name); !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("monitor.grab_keys[%d]", i),
				Message: fmt.Sprintf("unknown key name: %s", name),
			})
		}
	}

	return errs
}

// GrabKeyValues returns the parsed grab keys. Unknown names are skipped;
// Validate reports them.
func (m *MonitorConfig) GrabKeyValues() []event.Key {
	var keys []event.Key
	for _, name := range m.GrabKeys {
		if k, ok := event.ParseKey(name); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func validateFileDrag(f *FileDragConfig) ValidationErrors {
	var errs ValidationErrors

	switch strings.ToLower(f.Mode) {
	case "", "auto", "native":
	case "helper":
		if f.HelperPath == "" {
			errs = append(errs, ValidationError{
				Field:   "file_drag.helper_path",
				Message: "helper path is required when mode is 'helper'",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "file_drag.mode",
			Message: fmt.Sprintf("invalid mode: %s (valid: auto, helper, native)", f.Mode),
		})
	}

	return errs
}

func validateJournal(j *JournalConfig) ValidationErrors {
	var errs ValidationErrors

	if j.Enabled && j.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "journal.path",
			Message: "path is required when the journal is enabled",
		})
	}

	return errs
}

func validateMetrics(m *MetricsConfig) ValidationErrors {
	var errs ValidationErrors
	if !m.Enabled {
		return errs
	}

	if _, _, err := net.SplitHostPort(m.ListenAddr); err != nil {
		errs = append(errs, ValidationError{
			Field:   "metrics.listen_addr",
			Message: fmt.Sprintf("invalid address %q: %v", m.ListenAddr, err),
		})
	}
	if !strings.HasPrefix(m.Path, "/") {
		errs = append(errs, ValidationError{
			Field:   "metrics.path",
			Message: "must start with /",
		})
	}

	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level: %s (valid: debug, info, warn, error)", l.Level),
		})
	}

	switch l.Format {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format: %s (valid: text, json)", l.Format),
		})
	}

	switch l.Output {
	case "stdout", "stderr":
	case "file", "both":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: fmt.Sprintf("file path is required when output is '%s'", l.Output),
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid log output: %s (valid: stdout, stderr, file, both)", l.Output),
		})
	}

	if l.MaxSizeMB < 1 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_size_mb",
			Message: "max size must be at least 1 MB",
		})
	}

	if l.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "logging.max_backups",
			Message: "max backups cannot be negative",
		})
	}

	return errs
}
