package preview

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/surfacegeom/pkg/surface"
)

// floatsPerVertex is position(3) + normal(3) + color(4).
const floatsPerVertex = 10

// interleave packs mesh attributes in the layout the surface shader reads.
func interleave(m *surface.Mesh) []float32 {
	out := make([]float32, 0, len(m.Vertices)*floatsPerVertex)
	for i, v := range m.Vertices {
		n := m.Normals[i]
		c := m.ColorAt(i)
		out = append(out, v.X, v.Y, v.Z, n.X, n.Y, n.Z, c[0], c[1], c[2], c[3])
	}
	return out
}

// gpuMesh is a mesh uploaded to vertex and index buffers.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

func uploadMesh(m *surface.Mesh) *gpuMesh {
	vertices := interleave(m)
	indices := m.Triangles()

	g := &gpuMesh{indexCount: int32(len(indices))}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	}

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	stride := int32(floatsPerVertex * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, stride, 6*4)

	gl.BindVertexArray(0)
	return g
}

func (g *gpuMesh) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (g *gpuMesh) destroy() {
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteVertexArrays(1, &g.vao)
}
