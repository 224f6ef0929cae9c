package meshio

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/surfacegeom/pkg/surface"
)

// GLTFDocument builds a single-mesh glTF document. Strips are flattened
// into one triangle list and per-vertex colors become COLOR_0.
func GLTFDocument(m *surface.Mesh, name string) *gltf.Document {
	doc := gltf.NewDocument()

	n := len(m.Vertices)
	positions := make([][3]float32, n)
	normals := make([][3]float32, n)
	uvs := make([][2]float32, n)
	for i := range m.Vertices {
		positions[i] = m.Vertices[i].Array()
		normals[i] = m.Normals[i].Normalize().Array()
		uvs[i] = m.TexCoords[i].Array()
	}

	attributes := map[string]uint32{
		"POSITION":   modeler.WritePosition(doc, positions),
		"NORMAL":     modeler.WriteNormal(doc, normals),
		"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
	}
	if m.ColorBinding == surface.BindPerVertex {
		colors := make([][4]uint8, n)
		for i, c := range m.Colors {
			colors[i] = [4]uint8{unorm8(c[0]), unorm8(c[1]), unorm8(c[2]), unorm8(c[3])}
		}
		attributes["COLOR_0"] = modeler.WriteColor(doc, colors)
	}
	indices := modeler.WriteIndices(doc, m.Triangles())

	material := uint32(len(doc.Materials))
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name:        "surface",
		DoubleSided: true,
	})

	meshIndex := uint32(len(doc.Meshes))
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: name,
		Primitives: []*gltf.Primitive{
			{
				Indices:    &indices,
				Attributes: attributes,
				Material:   &material,
			},
		},
	})

	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: name, Mesh: &meshIndex})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	return doc
}

func unorm8(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	default:
		return uint8(f*255 + 0.5)
	}
}

// WriteGLB writes m as binary glTF.
func WriteGLB(w io.Writer, m *surface.Mesh, name string) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return errors.Wrap(encoder.Encode(GLTFDocument(m, name)), "Failed to encode glb")
}

// WriteGLTF writes m as JSON glTF with the buffer embedded as a data URI.
func WriteGLTF(w io.Writer, m *surface.Mesh, name string) error {
	doc := GLTFDocument(m, name)
	embedBuffers(doc)

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = false
	return errors.Wrap(encoder.Encode(doc), "Failed to encode gltf")
}

func embedBuffers(doc *gltf.Document) {
	for _, b := range doc.Buffers {
		b.EmbeddedResource()
	}
}

// SaveGLTF writes m to path as .glb or .gltf depending on the extension.
func SaveGLTF(path string, m *surface.Mesh, name string) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}

	doc := GLTFDocument(m, name)
	if strings.HasSuffix(strings.ToLower(path), ".glb") {
		return errors.Wrapf(gltf.SaveBinary(doc, path), "Failed to save %s", path)
	}
	embedBuffers(doc)
	return errors.Wrapf(gltf.Save(doc, path), "Failed to save %s", path)
}
