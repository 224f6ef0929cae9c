package surface

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/surfacegeom/pkg/math"
)

const tolerance = 1e-4

func near(a, b float64, tol float64) bool {
	return gomath.Abs(a-b) <= tol
}

func nearVec3(a, b math.Vec3, tol float64) bool {
	return near(float64(a.X), float64(b.X), tol) &&
		near(float64(a.Y), float64(b.Y), tol) &&
		near(float64(a.Z), float64(b.Z), tol)
}

func nearVec2(a, b math.Vec2, tol float64) bool {
	return near(float64(a.X), float64(b.X), tol) && near(float64(a.Y), float64(b.Y), tol)
}

func vec3(x, y, z float32) math.Vec3 {
	return math.Vec3{X: x, Y: y, Z: z}
}

func mustCylinder(t *testing.T, radius float64, base, axis math.Vec3) *Cylinder {
	t.Helper()
	c, err := NewCylinder(radius, base, axis)
	if err != nil {
		t.Fatalf("NewCylinder failed: %v", err)
	}
	return c
}

func mustSphere(t *testing.T, radius float64, center math.Vec3) *Sphere {
	t.Helper()
	s, err := NewSphere(radius, center)
	if err != nil {
		t.Fatalf("NewSphere failed: %v", err)
	}
	return s
}

func mustRectangle(t *testing.T, ll, ul, lr math.Vec3) *PlanarRectangle {
	t.Helper()
	r, err := NewPlanarRectangle(ll, ul, lr)
	if err != nil {
		t.Fatalf("NewPlanarRectangle failed: %v", err)
	}
	return r
}

// roundTripCoords stays away from the u wrap-around seam.
var roundTripCoords = []math.Vec2{
	{X: 0.001, Y: 0.001},
	{X: 0.001, Y: 0.999},
	{X: 0.999, Y: 0.999},
	{X: 0.999, Y: 0.001},
	{X: 0.5, Y: 0.001},
	{X: 0.001, Y: 0.5},
	{X: 0.3, Y: 0.7},
}

func checkRoundTrip(t *testing.T, m interface {
	Model
	Inverter
}) {
	t.Helper()
	for _, tc := range roundTripCoords {
		world := m.TexcoordToWorld(tc)
		back, ok := m.WorldToTexcoord(world)
		if !ok {
			t.Errorf("%s: WorldToTexcoord(%v) failed", m.Kind(), world)
			continue
		}
		if !nearVec2(back, tc, tolerance) {
			t.Errorf("%s: round trip %v -> %v -> %v", m.Kind(), tc, world, back)
		}
		if again := m.TexcoordToWorld(back); !nearVec3(again, world, tolerance) {
			t.Errorf("%s: world round trip %v -> %v", m.Kind(), world, again)
		}
	}
}
