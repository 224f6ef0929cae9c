package surface

import (
	"fmt"

	"github.com/Faultbox/surfacegeom/pkg/math"
)

// PrimitiveMode is the topology of a primitive group.
type PrimitiveMode int

const (
	// QuadStrip: every new pair of vertices forms a quad with the previous pair.
	QuadStrip PrimitiveMode = iota
	// Triangles: every three indices form an independent triangle.
	Triangles
)

// String returns a human-readable mode name.
func (m PrimitiveMode) String() string {
	switch m {
	case QuadStrip:
		return "QuadStrip"
	case Triangles:
		return "Triangles"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ColorBinding tells how Mesh.Colors apply to vertices.
type ColorBinding int

const (
	BindOverall   ColorBinding = iota // Colors[0] applies to the whole mesh
	BindPerVertex                     // Colors[i] belongs to vertex i
)

// Primitive is one drawable group of vertex indices.
type Primitive struct {
	Mode    PrimitiveMode
	Indices []uint32
}

// Mesh is a tessellated surface ready for a rendering pipeline.
// Vertices, Normals and TexCoords are parallel arrays.
type Mesh struct {
	Vertices     []math.Vec3
	Normals      []math.Vec3
	TexCoords    []math.Vec2
	Colors       []math.Vec4
	ColorBinding ColorBinding
	Primitives   []Primitive
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Validate checks that the parallel arrays agree in length and that every
// primitive only references existing vertices.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	if len(m.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrInvalidMesh, len(m.Normals), n)
	}
	if len(m.TexCoords) != n {
		return fmt.Errorf("%w: %d texcoords for %d vertices", ErrInvalidMesh, len(m.TexCoords), n)
	}

	switch m.ColorBinding {
	case BindOverall:
		if len(m.Colors) != 1 {
			return fmt.Errorf("%w: overall binding needs 1 color, got %d", ErrInvalidMesh, len(m.Colors))
		}
	case BindPerVertex:
		if len(m.Colors) != n {
			return fmt.Errorf("%w: %d colors for %d vertices", ErrInvalidMesh, len(m.Colors), n)
		}
	default:
		return fmt.Errorf("%w: unknown color binding %d", ErrInvalidMesh, m.ColorBinding)
	}

	for i, p := range m.Primitives {
		switch p.Mode {
		case QuadStrip:
			if len(p.Indices) < 4 || len(p.Indices)%2 != 0 {
				return fmt.Errorf("%w: primitive %d: quad strip with %d indices", ErrInvalidMesh, i, len(p.Indices))
			}
		case Triangles:
			if len(p.Indices)%3 != 0 {
				return fmt.Errorf("%w: primitive %d: triangle list with %d indices", ErrInvalidMesh, i, len(p.Indices))
			}
		default:
			return fmt.Errorf("%w: primitive %d: unknown mode %d", ErrInvalidMesh, i, p.Mode)
		}
		for _, idx := range p.Indices {
			if int(idx) >= n {
				return fmt.Errorf("%w: primitive %d: index %d out of range [0,%d)", ErrInvalidMesh, i, idx, n)
			}
		}
	}
	return nil
}

// Bounds returns the bounding box of all vertices. An empty mesh has
// zero bounds.
func (m *Mesh) Bounds() Bounds {
	if len(m.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		b.Min.X = min(b.Min.X, v.X)
		b.Min.Y = min(b.Min.Y, v.Y)
		b.Min.Z = min(b.Min.Z, v.Z)
		b.Max.X = max(b.Max.X, v.X)
		b.Max.Y = max(b.Max.Y, v.Y)
		b.Max.Z = max(b.Max.Z, v.Z)
	}
	return b
}

// Triangles flattens every primitive into a single triangle list.
// Quad strip step (a, b, c, d) becomes triangles (a, b, c) and (c, b, d).
func (m *Mesh) Triangles() []uint32 {
	var out []uint32
	for _, p := range m.Primitives {
		switch p.Mode {
		case QuadStrip:
			for k := 0; k+3 < len(p.Indices); k += 2 {
				a, b, c, d := p.Indices[k], p.Indices[k+1], p.Indices[k+2], p.Indices[k+3]
				out = append(out, a, b, c, c, b, d)
			}
		case Triangles:
			out = append(out, p.Indices...)
		}
	}
	return out
}

// ColorAt returns the color of vertex i honoring the color binding.
func (m *Mesh) ColorAt(i int) math.Vec4 {
	if m.ColorBinding == BindPerVertex {
		return m.Colors[i]
	}
	return m.Colors[0]
}

var opaqueWhite = math.Vec4{1, 1, 1, 1}

// meshBuilder records positions, normals and texcoords in lock-step.
type meshBuilder struct {
	mesh           *Mesh
	texcoordColors bool
}

func newMeshBuilder(capacity int, texcoordColors bool) *meshBuilder {
	m := &Mesh{
		Vertices:  make([]math.Vec3, 0, capacity),
		Normals:   make([]math.Vec3, 0, capacity),
		TexCoords: make([]math.Vec2, 0, capacity),
	}
	if texcoordColors {
		m.Colors = make([]math.Vec4, 0, capacity)
		m.ColorBinding = BindPerVertex
	}
	return &meshBuilder{mesh: m, texcoordColors: texcoordColors}
}

// count returns the number of vertices added so far.
func (b *meshBuilder) count() int {
	return len(b.mesh.Vertices)
}

// sample adds the vertex that model maps tc to.
func (b *meshBuilder) sample(model Model, tc math.Vec2) {
	b.add(model.TexcoordToWorld(tc), model.TexcoordToNormal(tc), tc)
}

func (b *meshBuilder) add(pos, normal math.Vec3, tc math.Vec2) {
	b.mesh.Vertices = append(b.mesh.Vertices, pos)
	b.mesh.Normals = append(b.mesh.Normals, normal)
	b.mesh.TexCoords = append(b.mesh.TexCoords, tc)
	if b.texcoordColors {
		b.mesh.Colors = append(b.mesh.Colors, math.Vec4{tc.X, tc.Y, 0, 1})
	}
}

// quadStrip registers the vertices [first, first+n) as one quad strip.
func (b *meshBuilder) quadStrip(first, n int) {
	indices := make([]uint32, n)
	for i := range indices {
		indices[i] = uint32(first + i)
	}
	b.mesh.Primitives = append(b.mesh.Primitives, Primitive{Mode: QuadStrip, Indices: indices})
}

func (b *meshBuilder) triangles(indices []uint32) {
	b.mesh.Primitives = append(b.mesh.Primitives, Primitive{Mode: Triangles, Indices: append([]uint32(nil), indices...)})
}

func (b *meshBuilder) finish() *Mesh {
	if !b.texcoordColors {
		b.mesh.Colors = []math.Vec4{opaqueWhite}
		b.mesh.ColorBinding = BindOverall
	}
	return b.mesh
}
