// Package surface models physical projection surfaces and turns them into
// renderable meshes.
//
// Every surface maps a normalized 2D surface coordinate (u, v) to a world
// position and a normal. The angle conventions used by the analytic models
// are shared with an independently maintained scripting implementation and
// must not change.
package surface

import (
	"fmt"

	"github.com/Faultbox/surfacegeom/pkg/math"
)

// Kind identifies one of the supported surface models.
type Kind int

const (
	KindCylinder        Kind = iota + 1 // Open cylinder around an arbitrary axis
	KindSphere                          // Full sphere
	KindPlanarRectangle                 // Flat parallelogram given by three corners
	KindFromFile                        // Arbitrary UV-mapped mesh loaded from disk
)

var kindNames = map[Kind]string{
	KindCylinder:        "cylinder",
	KindSphere:          "sphere",
	KindPlanarRectangle: "planar_rectangle",
	KindFromFile:        "from_file",
}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a configuration "model" value to a Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w %s", ErrUnknownModel, name)
}

// Model is a display surface. Implementations are immutable after
// construction, so all methods are safe for concurrent use.
type Model interface {
	// Kind reports which surface model this is.
	Kind() Kind
	// TexcoordToWorld maps a surface coordinate to a world position.
	TexcoordToWorld(tc math.Vec2) math.Vec3
	// TexcoordToNormal maps a surface coordinate to the surface normal.
	// The result is not necessarily unit length.
	TexcoordToNormal(tc math.Vec2) math.Vec3
	// BuildMesh tessellates the surface. Each call returns a new mesh.
	BuildMesh(texcoordColors bool) *Mesh
}

// Inverter is implemented by models that can map a world position back to
// its surface coordinate.
type Inverter interface {
	WorldToTexcoord(p math.Vec3) (math.Vec2, bool)
}

// Intersector is implemented by models that can intersect a ray with the
// surface. The ray starts at from and points towards to.
type Intersector interface {
	FirstSurface(from, to math.Vec3) (math.Vec3, bool)
}

// Centerer is implemented by models with a natural center point.
type Centerer interface {
	Center() math.Vec3
}
