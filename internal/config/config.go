// Package config handles surfacetool configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/surfacegeom/pkg/meshio"
)

// Config holds all tool settings.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Preview  PreviewConfig  `yaml:"preview"`
	Server   ServerConfig   `yaml:"server"`
	Export   ExportConfig   `yaml:"export"`
	Surfaces []SurfaceEntry `yaml:"surfaces"`
}

// PreviewConfig holds preview window and rendering settings.
type PreviewConfig struct {
	Width          int        `yaml:"width"`
	Height         int        `yaml:"height"`
	Fullscreen     bool       `yaml:"fullscreen"`
	VSync          bool       `yaml:"vsync"`
	TexcoordColors bool       `yaml:"texcoord_colors"`
	Wireframe      bool       `yaml:"wireframe"`
	FOV            float32    `yaml:"fov"`
	Background     [3]float32 `yaml:"background"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ExportConfig holds mesh export settings.
type ExportConfig struct {
	OutputDir      string `yaml:"output_dir"`
	Format         string `yaml:"format"` // glb, gltf, obj or json
	TexcoordColors bool   `yaml:"texcoord_colors"`
}

// SurfaceEntry names one display surface. Exactly one of File and
// Geometry is set; Geometry holds the same document a JSON file would.
type SurfaceEntry struct {
	Name     string         `yaml:"name"`
	File     string         `yaml:"file,omitempty"`
	Geometry map[string]any `yaml:"geometry,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Configuration errors.
var (
	ErrDuplicateSurface = errors.New("duplicate surface name")
	ErrSurfaceSource    = errors.New("surface needs exactly one of file or geometry")
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Preview: PreviewConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        45,
			Background: [3]float32{0.1, 0.1, 0.12},
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Export: ExportConfig{
			OutputDir: ".",
			Format:    string(meshio.FormatGLB),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks cross-field constraints that YAML decoding cannot.
func (c *Config) Validate() error {
	if _, err := meshio.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	seen := make(map[string]bool, len(c.Surfaces))
	for i, s := range c.Surfaces {
		if s.Name == "" {
			return fmt.Errorf("surface %d: missing name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateSurface, s.Name)
		}
		seen[s.Name] = true
		if (s.File == "") == (s.Geometry == nil) {
			return fmt.Errorf("surface %s: %w", s.Name, ErrSurfaceSource)
		}
	}
	return nil
}

// Surface returns the entry with the given name.
func (c *Config) Surface(name string) (SurfaceEntry, bool) {
	for _, s := range c.Surfaces {
		if s.Name == name {
			return s, true
		}
	}
	return SurfaceEntry{}, false
}
