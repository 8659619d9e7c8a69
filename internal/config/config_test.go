package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test asset defaults
	if cfg.Assets.CollisionSuffix != "_KCL" {
		t.Errorf("expected collision suffix _KCL, got %s", cfg.Assets.CollisionSuffix)
	}
	if cfg.Assets.CollisionExt != ".obj" {
		t.Errorf("expected collision ext .obj, got %s", cfg.Assets.CollisionExt)
	}
	if cfg.Assets.AttachmentSuffix != "_Atch" {
		t.Errorf("expected attachment suffix _Atch, got %s", cfg.Assets.AttachmentSuffix)
	}
	if cfg.Assets.AttachmentExt != ".txt" {
		t.Errorf("expected attachment ext .txt, got %s", cfg.Assets.AttachmentExt)
	}

	if !cfg.Textures.Decode {
		t.Error("expected texture decoding to be enabled by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.MaxSizeMB != 50 || cfg.Logging.MaxBackups != 3 || cfg.Logging.MaxAgeDays != 7 || !cfg.Logging.Compress {
		t.Errorf("unexpected rotation defaults: %+v", cfg.Logging)
	}

	if time.Duration(cfg.Watch.Debounce) != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %v", time.Duration(cfg.Watch.Debounce))
	}
}

func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `
assets:
  collision_suffix: "_COL"
  attachment_ext: ".atch"
textures:
  decode: false
logging:
  level: "debug"
  log_file: "track.log"
watch:
  debounce: 1s
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `
[assets]
collision_suffix = "_COL"
attachment_ext = ".atch"

[textures]
decode = false

[logging]
level = "debug"
log_file = "track.log"

[watch]
debounce = "1s"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err != nil {
				t.Fatalf("failed to load config: %v", err)
			}

			if cfg.Assets.CollisionSuffix != "_COL" {
				t.Errorf("expected collision suffix _COL, got %s", cfg.Assets.CollisionSuffix)
			}
			if cfg.Assets.AttachmentExt != ".atch" {
				t.Errorf("expected attachment ext .atch, got %s", cfg.Assets.AttachmentExt)
			}
			// Untouched keys keep their defaults
			if cfg.Assets.CollisionExt != ".obj" {
				t.Errorf("expected collision ext .obj, got %s", cfg.Assets.CollisionExt)
			}
			if cfg.Textures.Decode {
				t.Error("expected decode to be false")
			}
			if cfg.Logging.Level != "debug" {
				t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
			}
			if cfg.Logging.LogFile != "track.log" {
				t.Errorf("expected log file 'track.log', got %s", cfg.Logging.LogFile)
			}
			if time.Duration(cfg.Watch.Debounce) != time.Second {
				t.Errorf("expected debounce 1s, got %v", time.Duration(cfg.Watch.Debounce))
			}
		})
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml syntax", "invalid.yaml", "assets:\n  collision_suffix: [\n  invalid syntax here\n"},
		{"toml syntax", "invalid.toml", "[assets\ncollision_suffix = \n"},
		{"bad duration", "duration.yaml", "watch:\n  debounce: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid config, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Isolate from any real user config
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// TOML is found when it is the only candidate
	if err := os.WriteFile(filepath.Join(tmpDir, "trackmaker.toml"), []byte("[logging]\nlevel = \"warn\"\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./trackmaker.toml" {
		t.Errorf("expected ./trackmaker.toml, got %q", path)
	}

	// YAML takes precedence
	if err := os.WriteFile(filepath.Join(tmpDir, "trackmaker.yaml"), []byte("logging:\n  level: error\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./trackmaker.yaml" {
		t.Errorf("expected ./trackmaker.yaml, got %q", path)
	}
}

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name   string
		ov     Overrides
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug wins over level",
			ov:   Overrides{Debug: true, LogLevel: "error"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "log level and file",
			ov:   Overrides{LogLevel: "warn", LogFile: "out.log"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "warn" {
					t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
				}
				if cfg.Logging.LogFile != "out.log" {
					t.Errorf("expected log file out.log, got %s", cfg.Logging.LogFile)
				}
			},
		},
		{
			name: "no decode",
			ov:   Overrides{NoDecode: true},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Textures.Decode {
					t.Error("expected decode to be disabled")
				}
			},
		},
		{
			name: "debounce",
			ov:   Overrides{Debounce: Duration(time.Second)},
			verify: func(t *testing.T, cfg *Config) {
				if time.Duration(cfg.Watch.Debounce) != time.Second {
					t.Errorf("expected debounce 1s, got %v", time.Duration(cfg.Watch.Debounce))
				}
			},
		},
		{
			name: "zero overrides",
			ov:   Overrides{},
			verify: func(t *testing.T, cfg *Config) {
				if *cfg != *Default() {
					t.Errorf("zero overrides changed config: %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.ov.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
logging:
  level: "warn"
  log_file: "file.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath, Overrides{LogLevel: "error"})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Level should come from the override, not the file
	if cfg.Logging.Level != "error" {
		t.Errorf("expected level error from override, got %s", cfg.Logging.Level)
	}

	// Log file should come from the file since there is no override
	if cfg.Logging.LogFile != "file.log" {
		t.Errorf("expected log file from config file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), Overrides{}); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := Default()
			cfg.Assets.CollisionSuffix = "_COL"
			cfg.Logging.MaxBackups = 9
			cfg.Logging.Compress = false
			cfg.Watch.Debounce = Duration(2 * time.Second)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("SaveTo failed: %v", err)
			}

			loaded, err := Load(path, Overrides{})
			if err != nil {
				t.Fatalf("failed to reload config: %v", err)
			}
			if *loaded != *cfg {
				t.Errorf("reloaded config = %+v, want %+v", loaded, cfg)
			}
		})
	}
}

func TestSaveDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("APPDATA", filepath.Join(home, "appdata"))

	cfg := Default()
	cfg.Logging.Level = "warn"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !strings.HasPrefix(DefaultPath(), home) {
		t.Fatalf("default path %s is outside %s", DefaultPath(), home)
	}
	loaded, err := Load(DefaultPath(), Overrides{})
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if loaded.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %s", loaded.Logging.Level)
	}
}

func TestRotationSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
logging:
  log_file: "track.log"
  max_size_mb: 5
  max_backups: 1
  compress: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(path, Overrides{LogMaxBackups: 4})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Logging.MaxSizeMB != 5 {
		t.Errorf("expected max size 5 from file, got %d", cfg.Logging.MaxSizeMB)
	}
	if cfg.Logging.MaxBackups != 4 {
		t.Errorf("expected max backups 4 from override, got %d", cfg.Logging.MaxBackups)
	}
	if cfg.Logging.MaxAgeDays != 7 {
		t.Errorf("expected default max age 7, got %d", cfg.Logging.MaxAgeDays)
	}
	if cfg.Logging.Compress {
		t.Error("expected compression disabled by file")
	}
}

func TestLoggingFileConfig(t *testing.T) {
	l := Default().Logging
	if got := l.FileConfig(); got.Path != "" {
		t.Errorf("expected no file output without log_file, got %+v", got)
	}

	l.LogFile = "track.log"
	l.MaxBackups = 1
	got := l.FileConfig()
	if got.Path != "track.log" || got.MaxSizeMB != 50 || got.MaxBackups != 1 || got.MaxAgeDays != 7 || !got.Compress {
		t.Errorf("unexpected file config: %+v", got)
	}
}
