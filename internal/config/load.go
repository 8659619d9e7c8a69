package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Overrides carries command-line values that win over the config file.
// Zero values leave the loaded setting untouched.
type Overrides struct {
	Debug         bool
	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	NoDecode      bool
	Debounce      Duration
}

// Load loads configuration with priority: defaults < file < overrides.
// When explicitPath is empty the standard locations are searched.
func Load(explicitPath string, ov Overrides) (*Config, error) {
	// Start with defaults
	cfg := Default()

	configPath := explicitPath
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI overrides (highest priority)
	ov.apply(cfg)

	return cfg, nil
}

func (ov Overrides) apply(cfg *Config) {
	if ov.LogLevel != "" {
		cfg.Logging.Level = ov.LogLevel
	}
	if ov.Debug {
		cfg.Logging.Level = "debug"
	}
	if ov.LogFile != "" {
		cfg.Logging.LogFile = ov.LogFile
	}
	if ov.LogMaxSizeMB > 0 {
		cfg.Logging.MaxSizeMB = ov.LogMaxSizeMB
	}
	if ov.LogMaxBackups > 0 {
		cfg.Logging.MaxBackups = ov.LogMaxBackups
	}
	if ov.NoDecode {
		cfg.Textures.Decode = false
	}
	if ov.Debounce > 0 {
		cfg.Watch.Debounce = ov.Debounce
	}
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./trackmaker.yaml",
		"./trackmaker.toml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "TrackMaker")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "TrackMaker")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "trackmaker")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "trackmaker")
	}
}

// loadFromFile merges a YAML or TOML file into cfg. The format follows the
// file extension.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}
