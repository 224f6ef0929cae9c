package formats

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// glTF import errors.
var (
	ErrGLTFNoMesh     = errors.New("glTF document has no triangle mesh")
	ErrGLTFNoPosition = errors.New("glTF primitive has no POSITION attribute")
	ErrGLTFBadIndex   = errors.New("glTF reference out of range")
)

// accessor resolves an accessor index and checks the buffer view and
// buffer it points at.
func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%w: accessor %d of %d", ErrGLTFBadIndex, idx, len(doc.Accessors))
	}
	acc := doc.Accessors[idx]
	if acc.BufferView != nil {
		bv := *acc.BufferView
		if int(bv) >= len(doc.BufferViews) || doc.BufferViews[bv] == nil {
			return nil, fmt.Errorf("%w: accessor %d buffer view %d of %d", ErrGLTFBadIndex, idx, bv, len(doc.BufferViews))
		}
		if buf := doc.BufferViews[bv].Buffer; int(buf) >= len(doc.Buffers) || doc.Buffers[buf] == nil {
			return nil, fmt.Errorf("%w: buffer view %d buffer %d of %d", ErrGLTFBadIndex, bv, buf, len(doc.Buffers))
		}
	}
	return acc, nil
}

// LoadGLTF reads a .gltf or .glb file and merges every triangle primitive
// of every mesh into one TriMesh. Node transforms are not applied.
func LoadGLTF(path string) (*TriMesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening glTF: %w", err)
	}
	m, err := FromGLTF(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// FromGLTF converts a decoded glTF document.
func FromGLTF(doc *gltf.Document) (*TriMesh, error) {
	out := &TriMesh{}
	hasNormals, hasUV := true, true

	for _, mesh := range doc.Meshes {
		if mesh == nil {
			continue
		}
		for i, prim := range mesh.Primitives {
			if prim == nil || prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes["POSITION"]
			if !ok {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, i, ErrGLTFNoPosition)
			}

			acc, err := accessor(doc, posIdx)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d positions: %w", mesh.Name, i, err)
			}
			positions, err := modeler.ReadPosition(doc, acc, nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d positions: %w", mesh.Name, i, err)
			}
			base := uint32(len(out.Positions))
			out.Positions = append(out.Positions, positions...)

			if idx, ok := prim.Attributes["NORMAL"]; ok {
				acc, err := accessor(doc, idx)
				if err != nil {
					return nil, fmt.Errorf("mesh %q primitive %d normals: %w", mesh.Name, i, err)
				}
				normals, err := modeler.ReadNormal(doc, acc, nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %q primitive %d normals: %w", mesh.Name, i, err)
				}
				out.Normals = append(out.Normals, normals...)
			} else {
				hasNormals = false
				out.Normals = append(out.Normals, make([][3]float32, len(positions))...)
			}

			if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
				acc, err := accessor(doc, idx)
				if err != nil {
					return nil, fmt.Errorf("mesh %q primitive %d texcoords: %w", mesh.Name, i, err)
				}
				uvs, err := modeler.ReadTextureCoord(doc, acc, nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %q primitive %d texcoords: %w", mesh.Name, i, err)
				}
				out.TexCoords = append(out.TexCoords, uvs...)
			} else {
				hasUV = false
				out.TexCoords = append(out.TexCoords, make([][2]float32, len(positions))...)
			}

			if prim.Indices != nil {
				acc, err := accessor(doc, *prim.Indices)
				if err != nil {
					return nil, fmt.Errorf("mesh %q primitive %d indices: %w", mesh.Name, i, err)
				}
				indices, err := modeler.ReadIndices(doc, acc, nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %q primitive %d indices: %w", mesh.Name, i, err)
				}
				for _, idx := range indices {
					out.Indices = append(out.Indices, base+idx)
				}
			} else {
				for k := range positions {
					out.Indices = append(out.Indices, base+uint32(k))
				}
			}
		}
	}

	if len(out.Indices) == 0 {
		return nil, ErrGLTFNoMesh
	}
	if !hasNormals {
		out.Normals = nil
	}
	if !hasUV {
		out.TexCoords = nil
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
