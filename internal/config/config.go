// Package config handles trackmaker configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/trackmaker/internal/logger"
	"github.com/Faultbox/trackmaker/pkg/formats"
)

// Config holds all pipeline settings.
type Config struct {
	Assets   AssetsConfig   `yaml:"assets" toml:"assets"`
	Textures TexturesConfig `yaml:"textures" toml:"textures"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Watch    WatchConfig    `yaml:"watch" toml:"watch"`
}

// AssetsConfig names the companion files found beside a primary model.
type AssetsConfig struct {
	CollisionSuffix  string `yaml:"collision_suffix" toml:"collision_suffix"`
	CollisionExt     string `yaml:"collision_ext" toml:"collision_ext"`
	AttachmentSuffix string `yaml:"attachment_suffix" toml:"attachment_suffix"`
	AttachmentExt    string `yaml:"attachment_ext" toml:"attachment_ext"`
}

// TexturesConfig controls texture resolution.
type TexturesConfig struct {
	Decode bool `yaml:"decode" toml:"decode"` // Decode images to validate them
}

// LoggingConfig holds logging settings. The rotation fields only apply when
// LogFile is set.
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	LogFile    string `yaml:"log_file" toml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	Debounce Duration `yaml:"debounce" toml:"debounce"`
}

// Duration is a time.Duration written as "250ms" in both YAML and TOML.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// Default returns a Config with sensible default values.
func Default() *Config {
	rotate := logger.DefaultFileConfig("")
	return &Config{
		Assets: AssetsConfig{
			CollisionSuffix:  formats.CollisionSuffix,
			CollisionExt:     formats.CollisionExt,
			AttachmentSuffix: formats.AttachmentSuffix,
			AttachmentExt:    formats.AttachmentExt,
		},
		Textures: TexturesConfig{
			Decode: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  rotate.MaxSizeMB,
			MaxBackups: rotate.MaxBackups,
			MaxAgeDays: rotate.MaxAgeDays,
			Compress:   rotate.Compress,
		},
		Watch: WatchConfig{
			Debounce: Duration(250 * time.Millisecond),
		},
	}
}

// FileConfig converts the logging settings for logger.InitWithFileConfig.
// It is empty when no log file is configured.
func (l LoggingConfig) FileConfig() logger.FileConfig {
	if l.LogFile == "" {
		return logger.FileConfig{}
	}
	return logger.FileConfig{
		Path:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}
