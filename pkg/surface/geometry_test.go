package surface

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/surfacegeom/pkg/math"
)

func TestNew_SphereLookup(t *testing.T) {
	g, err := New([]byte(`{"model":"sphere","radius":2,"center":{"x":0,"y":0,"z":0}}`))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if g.Kind() != KindSphere {
		t.Errorf("expected sphere, got %s", g.Kind())
	}

	p := g.Model().TexcoordToWorld(math.Vec2{X: 0.25, Y: 0.5})
	if !nearVec3(p, vec3(0, 2, 0), 1e-6) {
		t.Errorf("expected (0,2,0), got %v", p)
	}
	if m := g.BuildMesh(false); m.VertexCount() != 3240 {
		t.Errorf("expected 3240 vertices, got %d", m.VertexCount())
	}
}

func TestNew_CylinderPlanes(t *testing.T) {
	g, err := New([]byte(`{"model":"cylinder","radius":1,"base":{"x":0,"y":0,"z":0},"axis":{"x":0,"y":0,"z":5}}`))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	bottom := g.Model().TexcoordToWorld(math.Vec2{X: 0, Y: 0})
	if !near(float64(bottom.Z), 0, 1e-6) || !near(float64(bottom.Length()), 1, 1e-6) {
		t.Errorf("expected a unit-circle point at z=0, got %v", bottom)
	}
	top := g.Model().TexcoordToWorld(math.Vec2{X: 0, Y: 1})
	if !near(float64(top.Z), 5, 1e-6) {
		t.Errorf("expected z=5, got %v", top)
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New([]byte(`{"model":"unknown_shape"}`)); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
	if _, err := New([]byte(`{"model":"cylinder","radius":1,"base":{"x":0,"y":0,"z":0}}`)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := New([]byte(`{"model":"sphere","radius":1e39,"center":{"x":0,"y":0,"z":0}}`)); !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate for a radius beyond float32, got %v", err)
	}
	if _, err := NewFromValue(map[string]any{"model": "sphere", "radius": -1.0, "center": map[string]any{"x": 0, "y": 0, "z": 0}}); !errors.Is(err, ErrDegenerate) {
		t.Errorf("expected ErrDegenerate, got %v", err)
	}
}

func TestLoad_RelativeFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "meshes"), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "meshes", "wall.obj"), []byte(wallOBJ), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	path := filepath.Join(dir, "wall.json")
	if err := os.WriteFile(path, []byte(`{"model":"from_file","filename":"meshes/wall.obj"}`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if g.Kind() != KindFromFile {
		t.Errorf("expected from_file, got %s", g.Kind())
	}
	if want := filepath.Join(dir, "meshes", "wall.obj"); g.Config().File.Filename != want {
		t.Errorf("expected %q, got %q", want, g.Config().File.Filename)
	}
	if m := g.BuildMesh(true); m.Validate() != nil || m.VertexCount() != 4 {
		t.Errorf("unexpected mesh with %d vertices", m.VertexCount())
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
