package meshio

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/Faultbox/surfacegeom/pkg/surface"
)

type jsonPrimitive struct {
	Mode    string   `json:"mode"`
	Indices []uint32 `json:"indices"`
}

type jsonMesh struct {
	Vertices     [][3]float32    `json:"vertices"`
	Normals      [][3]float32    `json:"normals"`
	TexCoords    [][2]float32    `json:"texcoords"`
	Colors       [][4]float32    `json:"colors"`
	ColorBinding string          `json:"color_binding"`
	Primitives   []jsonPrimitive `json:"primitives"`
}

// WriteJSON writes the mesh arrays as a JSON object.
func WriteJSON(w io.Writer, m *surface.Mesh) error {
	out := jsonMesh{
		Vertices:     make([][3]float32, len(m.Vertices)),
		Normals:      make([][3]float32, len(m.Normals)),
		TexCoords:    make([][2]float32, len(m.TexCoords)),
		Colors:       make([][4]float32, len(m.Colors)),
		ColorBinding: "overall",
		Primitives:   make([]jsonPrimitive, len(m.Primitives)),
	}
	if m.ColorBinding == surface.BindPerVertex {
		out.ColorBinding = "per_vertex"
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = v.Array()
	}
	for i, n := range m.Normals {
		out.Normals[i] = n.Array()
	}
	for i, tc := range m.TexCoords {
		out.TexCoords[i] = tc.Array()
	}
	for i, c := range m.Colors {
		out.Colors[i] = c
	}
	for i, p := range m.Primitives {
		out.Primitives[i] = jsonPrimitive{Mode: p.Mode.String(), Indices: p.Indices}
	}

	return errors.Wrap(json.NewEncoder(w).Encode(out), "Failed to encode mesh json")
}
