// Package formats provides parsers for triangulated surface meshes.
package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions without a parser.
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// TriMesh is an indexed triangle list with per-vertex attributes.
// Positions, Normals and TexCoords are parallel; Normals may be nil.
type TriMesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Indices   []uint32
}

// TriangleCount returns the number of triangles.
func (m *TriMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks attribute lengths and index ranges.
func (m *TriMesh) Validate() error {
	n := len(m.Positions)
	if m.Normals != nil && len(m.Normals) != n {
		return fmt.Errorf("%d normals for %d positions", len(m.Normals), n)
	}
	if m.TexCoords != nil && len(m.TexCoords) != n {
		return fmt.Errorf("%d texcoords for %d positions", len(m.TexCoords), n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("index %d out of range [0,%d)", idx, n)
		}
	}
	return nil
}

// LoadTriMesh reads a mesh file, choosing the parser by extension.
func LoadTriMesh(path string) (*TriMesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
