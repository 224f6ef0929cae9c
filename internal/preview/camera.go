// Package preview renders surface meshes in an SDL2/OpenGL window and
// captures offscreen snapshots of them.
package preview

import (
	gomath "math"

	"github.com/Faultbox/surfacegeom/pkg/math"
	"github.com/Faultbox/surfacegeom/pkg/surface"
)

// OrbitCamera orbits around a center point with Z as the up axis.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // elevation above the XY plane, radians
	Yaw      float32 // rotation around Z, radians

	MinDistance float32
	MaxDistance float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        5,
		Pitch:           0.4,
		Yaw:             -gomath.Pi / 2,
		MinDistance:     0.01,
		MaxDistance:     1e6,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	// Pitch tilts +X up towards +Z, then yaw turns about Z.
	q := math.QuatFromAxisAngle(math.Vec3{Z: 1}, c.Yaw).
		Mul(math.QuatFromAxisAngle(math.Vec3{Y: 1}, -c.Pitch))
	return c.Center.Add(q.Rotate(math.Vec3{X: c.Distance}))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{Z: 1})
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = max(-c.MaxPitch, min(c.MaxPitch, c.Pitch))
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = max(c.MinDistance, min(c.MaxDistance, c.Distance))
}

// FitToBounds centers the camera on b and backs off until a sphere
// around the box fits a vertical field of view of fovY radians.
func (c *OrbitCamera) FitToBounds(b surface.Bounds, fovY float32) {
	c.Center = b.Center()
	radius := b.Size().Length() / 2
	if radius == 0 {
		radius = 1
	}
	c.Distance = radius / float32(gomath.Sin(float64(fovY)/2)) * 1.1
	c.MinDistance = radius * 0.05
	c.MaxDistance = radius * 100
}

// ClipPlanes returns near and far planes that enclose b from the current
// camera position.
func (c *OrbitCamera) ClipPlanes(b surface.Bounds) (near, far float32) {
	radius := b.Size().Length() / 2
	d := c.Position().Distance(b.Center())
	far = d + radius*2
	near = max(far/1e4, d-radius*2)
	if near <= 0 {
		near = far / 1e4
	}
	return near, far
}
