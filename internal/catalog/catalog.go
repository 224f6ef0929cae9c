// Package catalog keeps the named display surfaces a tool session works
// with and caches their tessellations.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/surfacegeom/internal/config"
	"github.com/Faultbox/surfacegeom/internal/logger"
	"github.com/Faultbox/surfacegeom/pkg/surface"
)

// Catalog errors.
var (
	ErrNotFound  = errors.New("surface not found")
	ErrDuplicate = errors.New("surface already registered")
)

// Entry is one named surface.
type Entry struct {
	Name     string
	Source   string // file path, or "inline" for config geometry
	Geometry *surface.Geometry

	meshOnce [2]sync.Once
	meshes   [2]*surface.Mesh
}

// Mesh returns the tessellation for the given color mode. It is built on
// first use and shared afterwards, so callers must not modify it.
func (e *Entry) Mesh(texcoordColors bool) *surface.Mesh {
	i := 0
	if texcoordColors {
		i = 1
	}
	e.meshOnce[i].Do(func() {
		e.meshes[i] = e.Geometry.BuildMesh(texcoordColors)
	})
	return e.meshes[i]
}

// Catalog is a concurrency-safe set of named surfaces.
type Catalog struct {
	entries map[string]*Entry
	cache   *Cache
	mu      sync.RWMutex
	log     *zap.Logger
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		entries: make(map[string]*Entry),
		cache:   NewCache(),
		log:     logger.Named("catalog"),
	}
}

// FromConfig loads every configured surface. The first failing entry
// aborts loading.
func FromConfig(entries []config.SurfaceEntry) (*Catalog, error) {
	c := New()
	for _, e := range entries {
		if err := c.LoadEntry(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadEntry builds and registers one configured surface.
func (c *Catalog) LoadEntry(e config.SurfaceEntry) error {
	var (
		g      *surface.Geometry
		err    error
		source string
	)
	switch {
	case e.File != "":
		source = e.File
		g, err = surface.Load(e.File)
	case e.Geometry != nil:
		source = "inline"
		g, err = surface.NewFromValue(e.Geometry)
	default:
		return fmt.Errorf("surface %s: %w", e.Name, config.ErrSurfaceSource)
	}
	if err != nil {
		return fmt.Errorf("surface %s: %w", e.Name, err)
	}
	return c.Add(e.Name, g, source)
}

// Add registers a built surface under name.
func (c *Catalog) Add(name string, g *surface.Geometry, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	c.entries[name] = &Entry{Name: name, Source: source, Geometry: g}

	c.log.Info("surface loaded",
		zap.String("name", name),
		zap.Stringer("model", g.Kind()),
		zap.String("source", source))
	return nil
}

// Get returns the named surface.
func (c *Catalog) Get(name string) (*Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e, nil
}

// Remove drops a surface and its cached encodings.
func (c *Catalog) Remove(name string) bool {
	c.mu.Lock()
	_, ok := c.entries[name]
	delete(c.entries, name)
	c.mu.Unlock()

	if ok {
		c.cache.DropSurface(name)
	}
	return ok
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of surfaces.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Encoded returns a cached encoding of a surface mesh, producing it with
// encode on a miss. key distinguishes encodings of the same surface.
func (c *Catalog) Encoded(name, key string, encode func(*Entry) ([]byte, error)) ([]byte, error) {
	e, err := c.Get(name)
	if err != nil {
		return nil, err
	}

	if data, ok := c.cache.Get(name, key); ok {
		return data, nil
	}

	data, err := encode(e)
	if err != nil {
		return nil, err
	}
	c.cache.Set(name, key, data)
	c.log.Debug("mesh encoded", zap.String("surface", name), zap.String("key", key), zap.Int("bytes", len(data)))
	return data, nil
}

// CacheStats returns encoding cache hits and misses.
func (c *Catalog) CacheStats() (hits, misses int) {
	return c.cache.Stats()
}
