// Package config handles configuration loading, validation, and hot reload
// for inputmon.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"inputmon/internal/logging"
)

// Config holds the complete daemon configuration.
type Config struct {
	// Monitor configures the pointer and keyboard monitor.
	Monitor MonitorConfig `toml:"monitor" json:"monitor" yaml:"monitor"`

	// FileDrag configures file drag-and-drop monitoring.
	FileDrag FileDragConfig `toml:"file_drag" json:"file_drag" yaml:"file_drag"`

	// Journal configures the optional SQLite event journal.
	Journal JournalConfig `toml:"journal" json:"journal" yaml:"journal"`

	// Metrics configures the metrics endpoint.
	Metrics MetricsConfig `toml:"metrics" json:"metrics" yaml:"metrics"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// MonitorConfig holds input monitor configuration.
type MonitorConfig struct {
	// DragThreshold is the pointer travel, in screen units, after which a
	// press becomes a drag. Applied on hot reload.
	DragThreshold float64 `toml:"drag_threshold" json:"drag_threshold" yaml:"drag_threshold"`

	// GrabKeys are key names whose events are swallowed. Windows only.
	GrabKeys []string `toml:"grab_keys" json:"grab_keys" yaml:"grab_keys"`
}

// FileDragConfig holds file drag monitoring configuration.
type FileDragConfig struct {
	// Enabled starts the file drag monitor with the daemon.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Mode is "auto", "helper" or "native".
	Mode string `toml:"mode" json:"mode" yaml:"mode"`

	// HelperPath is the drag helper executable.
	HelperPath string `toml:"helper_path" json:"helper_path" yaml:"helper_path"`
}

// JournalConfig holds event journal configuration.
type JournalConfig struct {
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file.
	Path string `toml:"path" json:"path" yaml:"path"`

	// RecordKeys stores key identities. Off by default.
	RecordKeys bool `toml:"record_keys" json:"record_keys" yaml:"record_keys"`

	// RecordMoves stores pointer motion, which is high volume.
	RecordMoves bool `toml:"record_moves" json:"record_moves" yaml:"record_moves"`
}

// MetricsConfig holds metrics endpoint configuration.
type MetricsConfig struct {
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// ListenAddr is the host:port the metrics server binds to.
	ListenAddr string `toml:"listen_addr" json:"listen_addr" yaml:"listen_addr"`

	// Path is the URL path metrics are served on.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the log format: "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is the log output: "stdout", "stderr", "file" or "both".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the path to the log file (when Output is "file" or "both").
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`

	// MaxSizeMB is the maximum log file size before rotation.
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of old log files to keep.
	MaxBackups int `toml:"max_backups" json:"max_backups" yaml:"max_backups"`

	// RedactKeys hides key identities in debug logs.
	RedactKeys bool `toml:"redact_keys" json:"redact_keys" yaml:"redact_keys"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	paths := GetDefaultPaths()
	return &Config{
		Monitor: MonitorConfig{
			DragThreshold: 5,
		},
		FileDrag: FileDragConfig{
			Enabled: false,
			Mode:    "auto",
		},
		Journal: JournalConfig{
			Enabled: false,
			Path:    paths.JournalPath,
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: "127.0.0.1:9464",
			Path:       "/metrics",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			FilePath:   filepath.Join(paths.LogDir, "inputmon.log"),
			MaxSizeMB:  50,
			MaxBackups: 3,
			RedactKeys: true,
		},
	}
}

// LoggerConfig converts the section into a logging.Config.
func (l LoggingConfig) LoggerConfig() (*logging.Config, error) {
	level, err := logging.ParseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(l.Format)
	if err != nil {
		return nil, err
	}

	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Format = format
	cfg.Output = l.Output
	cfg.FilePath = l.FilePath
	cfg.MaxSize = int64(l.MaxSizeMB)
	cfg.MaxBackups = l.MaxBackups
	cfg.RedactKeys = l.RedactKeys
	return cfg, nil
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(PlatformConfigDir(), "config.toml")
}

// Load reads configuration from the specified path.
// If the file doesn't exist, returns default configuration.
// Supports TOML, JSON, and YAML formats based on file extension.
func Load(path string) (*Config, error) {
	if path == "" {
		path = FindConfigFile()
	}

	cfg, err := loadConfigFromFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return ValidateConfig(c)
}

// EnsureDirectories creates the directories for the journal and log file.
func (c *Config) EnsureDirectories() error {
	var dirs []string
	if c.Journal.Enabled {
		dirs = append(dirs, filepath.Dir(c.Journal.Path))
	}
	switch c.Logging.Output {
	case "file", "both":
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables are prefixed with INPUTMON_ and use underscores.
// Values that fail to parse are ignored.
func (c *Config) ApplyEnvOverrides() {
	// Monitor overrides
	if v := os.Getenv("INPUTMON_DRAG_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Monitor.DragThreshold = f
		}
	}
	if v := os.Getenv("INPUTMON_GRAB_KEYS"); v != "" {
		c.Monitor.GrabKeys = splitList(v)
	}

	// File drag overrides
	if v := os.Getenv("INPUTMON_FILE_DRAG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.FileDrag.Enabled = b
		}
	}
	if v := os.Getenv("INPUTMON_FILE_DRAG_MODE"); v != "" {
		c.FileDrag.Mode = v
	}
	if v := os.Getenv("INPUTMON_HELPER_PATH"); v != "" {
		c.FileDrag.HelperPath = v
	}

	// Journal overrides
	if v := os.Getenv("INPUTMON_JOURNAL_PATH"); v != "" {
		c.Journal.Path = v
		c.Journal.Enabled = true
	}

	// Metrics overrides
	if v := os.Getenv("INPUTMON_METRICS_ADDR"); v != "" {
		c.Metrics.ListenAddr = v
		c.Metrics.Enabled = true
	}

	// Logging overrides
	if v := os.Getenv("INPUTMON_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("INPUTMON_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("INPUTMON_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Monitor.GrabKeys = append([]string(nil), c.Monitor.GrabKeys...)
	return &clone
}

// SaveConfig writes cfg to path in the format given by its extension,
// TOML when the extension is unknown.
func SaveConfig(cfg *Config, path string) error {
	data, err := encode(cfg, filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func encodeTOML(cfg *Config) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# inputmon configuration\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
