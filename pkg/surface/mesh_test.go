package surface

import (
	"errors"
	"testing"

	"github.com/Faultbox/surfacegeom/pkg/math"
)

func quadMesh() *Mesh {
	return &Mesh{
		Vertices:     []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 2}},
		Normals:      make([]math.Vec3, 4),
		TexCoords:    make([]math.Vec2, 4),
		Colors:       []math.Vec4{{1, 1, 1, 1}},
		ColorBinding: BindOverall,
		Primitives:   []Primitive{{Mode: QuadStrip, Indices: []uint32{0, 1, 2, 3}}},
	}
}

func TestMesh_Validate(t *testing.T) {
	if err := quadMesh().Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	tests := []struct {
		name   string
		modify func(m *Mesh)
	}{
		{"short normals", func(m *Mesh) { m.Normals = m.Normals[:3] }},
		{"short texcoords", func(m *Mesh) { m.TexCoords = nil }},
		{"no overall color", func(m *Mesh) { m.Colors = nil }},
		{"short per-vertex colors", func(m *Mesh) { m.ColorBinding = BindPerVertex }},
		{"odd strip", func(m *Mesh) { m.Primitives[0].Indices = []uint32{0, 1, 2, 3, 0} }},
		{"tiny strip", func(m *Mesh) { m.Primitives[0].Indices = []uint32{0, 1} }},
		{"partial triangle", func(m *Mesh) { m.Primitives[0] = Primitive{Mode: Triangles, Indices: []uint32{0, 1}} }},
		{"index out of range", func(m *Mesh) { m.Primitives[0].Indices[3] = 4 }},
		{"unknown mode", func(m *Mesh) { m.Primitives[0].Mode = PrimitiveMode(9) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := quadMesh()
			tt.modify(m)
			if err := m.Validate(); !errors.Is(err, ErrInvalidMesh) {
				t.Errorf("expected ErrInvalidMesh, got %v", err)
			}
		})
	}
}

func TestMesh_Triangles(t *testing.T) {
	m := quadMesh()
	m.Primitives = append(m.Primitives, Primitive{Mode: Triangles, Indices: []uint32{3, 2, 1}})

	got := m.Triangles()
	want := []uint32{0, 1, 2, 2, 1, 3, 3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %d indices, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMesh_Bounds(t *testing.T) {
	b := quadMesh().Bounds()
	if b.Min != (math.Vec3{X: 0, Y: 0, Z: 0}) || b.Max != (math.Vec3{X: 1, Y: 1, Z: 2}) {
		t.Errorf("unexpected bounds %+v", b)
	}
	if c := b.Center(); c != (math.Vec3{X: 0.5, Y: 0.5, Z: 1}) {
		t.Errorf("unexpected center %v", c)
	}
	if s := b.Size(); s != (math.Vec3{X: 1, Y: 1, Z: 2}) {
		t.Errorf("unexpected size %v", s)
	}

	if (&Mesh{}).Bounds() != (Bounds{}) {
		t.Error("expected zero bounds for an empty mesh")
	}
}

func TestMesh_ColorAt(t *testing.T) {
	m := quadMesh()
	if m.ColorAt(3) != (math.Vec4{1, 1, 1, 1}) {
		t.Errorf("overall color: got %v", m.ColorAt(3))
	}

	m.ColorBinding = BindPerVertex
	m.Colors = []math.Vec4{{0, 0, 0, 1}, {0, 1, 0, 1}, {1, 0, 0, 1}, {1, 1, 0, 1}}
	if m.ColorAt(2) != (math.Vec4{1, 0, 0, 1}) {
		t.Errorf("per-vertex color: got %v", m.ColorAt(2))
	}
}

func TestPrimitiveMode_String(t *testing.T) {
	if QuadStrip.String() != "QuadStrip" || Triangles.String() != "Triangles" {
		t.Errorf("unexpected names %s %s", QuadStrip, Triangles)
	}
	if PrimitiveMode(7).String() != "Unknown(7)" {
		t.Errorf("unexpected unknown name %s", PrimitiveMode(7))
	}
}

func TestMeshes_AreIndependent(t *testing.T) {
	s := mustSphere(t, 1, vec3(0, 0, 0))
	a := s.BuildMesh(false)
	b := s.BuildMesh(false)

	a.Vertices[0] = vec3(9, 9, 9)
	if b.Vertices[0] == a.Vertices[0] {
		t.Error("meshes share vertex storage")
	}
}
