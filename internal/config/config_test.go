package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test preview defaults
	if cfg.Preview.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Preview.Width)
	}
	if cfg.Preview.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Preview.Height)
	}
	if cfg.Preview.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Preview.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Preview.TexcoordColors {
		t.Error("expected texcoord colors to be off by default")
	}

	// Test server defaults
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("expected addr 127.0.0.1:8080, got %s", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("expected read timeout 10s, got %v", cfg.Server.ReadTimeout)
	}

	// Test export defaults
	if cfg.Export.Format != "glb" {
		t.Errorf("expected export format 'glb', got %s", cfg.Export.Format)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "surfaces.yaml")

	yamlContent := `
preview:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  texcoord_colors: true
  background: [0, 0, 0]

server:
  addr: ":9000"
  read_timeout: 5s

export:
  output_dir: "out"
  format: obj

logging:
  level: "debug"
  log_file: "surfacetool.log"

surfaces:
  - name: arena
    file: arena.json
  - name: dome
    geometry:
      model: sphere
      radius: 2.5
      center: {x: 0, y: 0, z: 1}
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Preview.Width != 1920 || cfg.Preview.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Preview.Width, cfg.Preview.Height)
	}
	if !cfg.Preview.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Preview.VSync {
		t.Error("expected vsync to be false")
	}
	if !cfg.Preview.TexcoordColors {
		t.Error("expected texcoord colors to be true")
	}
	if cfg.Preview.Background != [3]float32{0, 0, 0} {
		t.Errorf("expected black background, got %v", cfg.Preview.Background)
	}
	if cfg.Preview.FOV != 45 {
		t.Errorf("expected default fov to survive, got %f", cfg.Preview.FOV)
	}

	if cfg.Server.Addr != ":9000" || cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Export.Format != "obj" || cfg.Export.OutputDir != "out" {
		t.Errorf("unexpected export config %+v", cfg.Export)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "surfacetool.log" {
		t.Errorf("expected log file 'surfacetool.log', got %s", cfg.Logging.LogFile)
	}

	if len(cfg.Surfaces) != 2 {
		t.Fatalf("expected 2 surfaces, got %d", len(cfg.Surfaces))
	}
	arena, ok := cfg.Surface("arena")
	if !ok || arena.File != filepath.Join(tmpDir, "arena.json") {
		t.Errorf("expected arena file resolved against config dir, got %q", arena.File)
	}
	dome, ok := cfg.Surface("dome")
	if !ok || dome.Geometry["model"] != "sphere" {
		t.Errorf("unexpected dome entry %+v", dome)
	}
	center, ok := dome.Geometry["center"].(map[string]any)
	if !ok || center["z"] != 1 {
		t.Errorf("unexpected dome center %#v", dome.Geometry["center"])
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
preview:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	sphere := map[string]any{"model": "sphere"}

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"duplicate", func(c *Config) {
			c.Surfaces = []SurfaceEntry{{Name: "a", File: "a.json"}, {Name: "a", File: "b.json"}}
		}, ErrDuplicateSurface},
		{"no source", func(c *Config) {
			c.Surfaces = []SurfaceEntry{{Name: "a"}}
		}, ErrSurfaceSource},
		{"two sources", func(c *Config) {
			c.Surfaces = []SurfaceEntry{{Name: "a", File: "a.json", Geometry: sphere}}
		}, ErrSurfaceSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	cfg := Default()
	cfg.Export.Format = "stl"
	if err := cfg.Validate(); err == nil {
		t.Error("expected unknown export format error")
	}

	cfg = Default()
	cfg.Surfaces = []SurfaceEntry{{File: "a.json"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing name error")
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

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create surfaces.yaml in current directory
	configPath := filepath.Join(tmpDir, "surfaces.yaml")
	if err := os.WriteFile(configPath, []byte("preview:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find surfaces.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "addr flag",
			setup: func() {
				*flagAddr = ":7000"
			},
			verify: func(cfg *Config) {
				if cfg.Server.Addr != ":7000" {
					t.Errorf("expected addr :7000, got %s", cfg.Server.Addr)
				}
			},
			teardown: func() {
				*flagAddr = ""
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Preview.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Preview.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Preview.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Preview.Width)
				}
				if cfg.Preview.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Preview.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "colors flag",
			setup: func() {
				*flagColors = true
			},
			verify: func(cfg *Config) {
				if !cfg.Preview.TexcoordColors || !cfg.Export.TexcoordColors {
					t.Error("expected texcoord colors for preview and export")
				}
			},
			teardown: func() {
				*flagColors = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
preview:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Preview.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Preview.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Preview.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Preview.Height)
	}
}

func TestSaveTo(t *testing.T) {
	cfg := Default()
	cfg.Surfaces = []SurfaceEntry{{Name: "wall", Geometry: map[string]any{"model": "sphere", "radius": 1.5}}}

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	wall, ok := loaded.Surface("wall")
	if !ok || wall.Geometry["radius"] != 1.5 {
		t.Errorf("unexpected reloaded surface %+v", wall)
	}
	if loaded.Server.WriteTimeout != cfg.Server.WriteTimeout {
		t.Errorf("write timeout changed to %v", loaded.Server.WriteTimeout)
	}
}
