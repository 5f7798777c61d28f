package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "inputmon"

// PlatformDataDir returns the platform-specific data directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/inputmon/
//   - Linux:   $XDG_DATA_HOME/inputmon/ or ~/.local/share/inputmon/
//   - Windows: %APPDATA%\inputmon\
//
// INPUTMON_DATA_DIR overrides all of them.
func PlatformDataDir() string {
	if dir := os.Getenv("INPUTMON_DATA_DIR"); dir != "" {
		return dir
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Application Support", appName)
	case "linux":
		return xdgDir("XDG_DATA_HOME", ".local", "share")
	case "windows":
		return windowsDir("APPDATA")
	default:
		return fallbackDataDir()
	}
}

// PlatformConfigDir returns the platform-specific config directory.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/inputmon/
//   - Linux:   $XDG_CONFIG_HOME/inputmon/ or ~/.config/inputmon/
//   - Windows: %APPDATA%\inputmon\
func PlatformConfigDir() string {
	switch runtime.GOOS {
	case "linux":
		return xdgDir("XDG_CONFIG_HOME", ".config")
	default:
		return PlatformDataDir()
	}
}

// PlatformLogDir returns the platform-specific log directory.
//
// Platform paths:
//   - macOS:   ~/Library/Logs/inputmon/
//   - Linux:   <data dir>/logs/
//   - Windows: %LOCALAPPDATA%\inputmon\logs\
func PlatformLogDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Logs", appName)
	case "windows":
		return filepath.Join(windowsDir("LOCALAPPDATA"), "logs")
	default:
		return filepath.Join(PlatformDataDir(), "logs")
	}
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return home
}

func xdgDir(env string, fallback ...string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName)
	}
	parts := append([]string{homeDir()}, fallback...)
	return filepath.Join(append(parts, appName)...)
}

func windowsDir(env string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName)
	}
	return fallbackDataDir()
}

func fallbackDataDir() string {
	return filepath.Join(homeDir(), "."+appName)
}

// DefaultPaths holds the default locations for inputmon files.
type DefaultPaths struct {
	DataDir     string
	ConfigDir   string
	LogDir      string
	ConfigFile  string
	JournalPath string
}

// GetDefaultPaths returns the default paths for the current platform.
func GetDefaultPaths() *DefaultPaths {
	data := PlatformDataDir()
	cfg := PlatformConfigDir()
	return &DefaultPaths{
		DataDir:     data,
		ConfigDir:   cfg,
		LogDir:      PlatformLogDir(),
		ConfigFile:  filepath.Join(cfg, "config.toml"),
		JournalPath: filepath.Join(data, "journal.db"),
	}
}

// SupportedConfigFormats returns the list of supported config file formats.
func SupportedConfigFormats() []string {
	return []string{"toml", "json", "yaml", "yml"}
}

// FindConfigFile searches the current directory, then the config
// directory, for config.<ext>. It returns ConfigPath when none is found.
func FindConfigFile() string {
	paths := GetDefaultPaths()
	for _, dir := range []string{".", paths.ConfigDir} {
		for _, ext := range SupportedConfigFormats() {
			path := filepath.Join(dir, "config."+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ConfigPath()
}
