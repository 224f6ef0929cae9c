package surface

import (
	"fmt"
	"os"
	"path/filepath"
)

// Geometry owns one configured surface model.
type Geometry struct {
	config *Config
	model  Model
}

// New parses a JSON description and builds its model.
func New(data []byte) (*Geometry, error) {
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg)
}

// NewFromValue builds a model from an already decoded document.
func NewFromValue(v map[string]any) (*Geometry, error) {
	cfg, err := ParseConfigValue(v)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg)
}

// NewFromConfig builds a model from a validated configuration.
func NewFromConfig(cfg *Config) (*Geometry, error) {
	model, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Geometry{config: cfg, model: model}, nil
}

// Load reads a JSON description from path. A relative from_file
// filename is resolved against the directory of path.
func Load(path string) (*Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading surface config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.ResolveRelative(filepath.Dir(path))

	g, err := NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// BuildMesh tessellates the surface.
func (g *Geometry) BuildMesh(texcoordColors bool) *Mesh {
	return g.model.BuildMesh(texcoordColors)
}

// Model returns the owned surface model.
func (g *Geometry) Model() Model { return g.model }

// Kind returns the model kind.
func (g *Geometry) Kind() Kind { return g.model.Kind() }

// Config returns the configuration the model was built from.
func (g *Geometry) Config() *Config { return g.config }
