package surface

import (
	"errors"
	gomath "math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/surfacegeom/pkg/formats"
	"github.com/Faultbox/surfacegeom/pkg/math"
)

// testWall is a 2x1 wall in the XZ plane mapped onto the unit UV square.
func testWall() *formats.TriMesh {
	return &formats.TriMesh{
		Positions: [][3]float32{{0, 0, 0}, {2, 0, 0}, {2, 0, 1}, {0, 0, 1}},
		TexCoords: [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

const wallOBJ = `v 0 0 0
v 2 0 0
v 2 0 1
v 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
`

func mustArbitrary(t *testing.T) *Arbitrary {
	t.Helper()
	a, err := NewArbitrary(testWall(), DefaultPrecision)
	if err != nil {
		t.Fatalf("NewArbitrary failed: %v", err)
	}
	return a
}

func TestNewArbitrary_Errors(t *testing.T) {
	noUV := testWall()
	noUV.TexCoords = nil
	if _, err := NewArbitrary(noUV, DefaultPrecision); !errors.Is(err, ErrNoTexCoords) {
		t.Errorf("expected ErrNoTexCoords, got %v", err)
	}

	bad := testWall()
	bad.Indices = []uint32{0, 1, 7}
	if _, err := NewArbitrary(bad, DefaultPrecision); !errors.Is(err, ErrInvalidMesh) {
		t.Errorf("expected ErrInvalidMesh, got %v", err)
	}

	for _, p := range []float64{0, -1, gomath.NaN()} {
		if _, err := NewArbitrary(testWall(), p); !errors.Is(err, ErrDegenerate) {
			t.Errorf("precision %v: expected ErrDegenerate, got %v", p, err)
		}
	}
}

func TestArbitrary_Lookup(t *testing.T) {
	a := mustArbitrary(t)

	tests := []struct {
		tc   math.Vec2
		want math.Vec3
	}{
		{math.Vec2{X: 0, Y: 0}, vec3(0, 0, 0)},
		{math.Vec2{X: 1, Y: 1}, vec3(2, 0, 1)},
		{math.Vec2{X: 0.5, Y: 0.5}, vec3(1, 0, 0.5)},
		{math.Vec2{X: 0.25, Y: 0.75}, vec3(0.5, 0, 0.75)},
	}
	for _, tt := range tests {
		if got := a.TexcoordToWorld(tt.tc); !nearVec3(got, tt.want, 1e-6) {
			t.Errorf("%v: got %v, want %v", tt.tc, got, tt.want)
		}
		if n := a.TexcoordToNormal(tt.tc); !nearVec3(n, vec3(0, -1, 0), 1e-6) {
			t.Errorf("%v: normal %v", tt.tc, n)
		}
	}

	if p := a.TexcoordToWorld(math.Vec2{X: 1.5, Y: 0.5}); !p.IsNaN() {
		t.Errorf("expected NaN outside the mapping, got %v", p)
	}
	if n := a.TexcoordToNormal(math.Vec2{X: -0.1, Y: 0.5}); !n.IsNaN() {
		t.Errorf("expected NaN normal outside the mapping, got %v", n)
	}
}

func TestArbitrary_BuildMesh(t *testing.T) {
	a := mustArbitrary(t)

	m := a.BuildMesh(false)
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", m.VertexCount())
	}
	if len(m.Primitives) != 1 || m.Primitives[0].Mode != Triangles || len(m.Primitives[0].Indices) != 6 {
		t.Errorf("expected one triangle list of 6 indices, got %+v", m.Primitives)
	}
	if got := len(m.Triangles()); got != 6 {
		t.Errorf("expected 6 triangle indices, got %d", got)
	}
}

func TestArbitrary_InverseAndIntersect(t *testing.T) {
	a := mustArbitrary(t)

	got, ok := a.FirstSurface(vec3(1, 5, 0.5), vec3(1, 0, 0.5))
	if !ok || !nearVec3(got, vec3(1, 0, 0.5), 1e-6) {
		t.Errorf("FirstSurface: got %v %v", got, ok)
	}
	if _, ok := a.FirstSurface(vec3(5, 5, 0.5), vec3(5, 0, 0.5)); ok {
		t.Error("expected miss beside the wall")
	}

	tc, ok := a.WorldToTexcoord(vec3(0.5, 0.3, 0.25))
	if !ok || !nearVec2(tc, math.Vec2{X: 0.25, Y: 0.25}, 1e-6) {
		t.Errorf("WorldToTexcoord: got %v %v", tc, ok)
	}
	if _, ok := a.WorldToTexcoord(vec3(9, 0, 9)); ok {
		t.Error("expected a point beside the wall to fail")
	}

	if c := a.Center(); !nearVec3(c, vec3(1, 0, 0.5), 1e-6) {
		t.Errorf("Center: got %v", c)
	}
}

func TestLoadArbitrary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wall.obj")
	if err := os.WriteFile(path, []byte(wallOBJ), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	a, err := LoadArbitrary(path, 1e-4)
	if err != nil {
		t.Fatalf("LoadArbitrary failed: %v", err)
	}
	if a.Filename() != path || a.Precision() != 1e-4 || a.TriangleCount() != 2 {
		t.Errorf("unexpected surface %q %v %d", a.Filename(), a.Precision(), a.TriangleCount())
	}
	if got := a.TexcoordToWorld(math.Vec2{X: 0.5, Y: 0.5}); !nearVec3(got, vec3(1, 0, 0.5), 1e-6) {
		t.Errorf("lookup: got %v", got)
	}

	if _, err := LoadArbitrary(filepath.Join(dir, "missing.obj"), 1e-4); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
