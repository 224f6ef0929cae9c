// Package meshio writes surface meshes to interchange formats.
package meshio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/Faultbox/surfacegeom/pkg/surface"
)

// Format is a mesh file format.
type Format string

// Supported formats.
const (
	FormatGLB  Format = "glb"
	FormatGLTF Format = "gltf"
	FormatOBJ  Format = "obj"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatGLB, FormatGLTF, FormatOBJ, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown mesh format %q", s)
	}
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatGLB:
		return "model/gltf-binary"
	case FormatGLTF:
		return "model/gltf+json"
	case FormatOBJ:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Write encodes m to w in format f. FormatGLTF embeds its buffer.
func Write(w io.Writer, f Format, m *surface.Mesh, name string) error {
	switch f {
	case FormatGLB:
		return WriteGLB(w, m, name)
	case FormatGLTF:
		return WriteGLTF(w, m, name)
	case FormatOBJ:
		return WriteOBJ(w, m, name)
	case FormatJSON:
		return WriteJSON(w, m)
	default:
		return fmt.Errorf("unknown mesh format %q", f)
	}
}

// Save writes m to path, choosing the format from the extension.
func Save(path string, m *surface.Mesh, name string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create %s", path)
	}
	if err := Write(file, f, m, name); err != nil {
		file.Close()
		return errors.Wrapf(err, "Failed to write %s", path)
	}
	return errors.Wrapf(file.Close(), "Failed to close %s", path)
}

func ensureDir(dir string) error {
	return errors.Wrapf(os.MkdirAll(dir, 0755), "Failed to create %s", dir)
}
