package surface

import (
	gomath "math"

	"github.com/Faultbox/surfacegeom/pkg/math"
)

// cylinderSegments is the number of angular segments in a cylinder mesh.
const cylinderSegments = 256

var unitZ = math.Vec3{X: 0, Y: 0, Z: 1}

// Cylinder is an open cylinder. The axis vector runs from the base center
// to the top center; its length is the cylinder height.
type Cylinder struct {
	radius float64
	base   math.Vec3
	axis   math.Vec3

	// derived from axis
	rotation  math.Mat4 // +Z onto the unit axis
	transform math.Mat4 // rotation, then translation to base
	height    float64
}

// NewCylinder creates a cylinder. The radius must be positive and the
// axis must not be zero.
func NewCylinder(radius float64, base, axis math.Vec3) (*Cylinder, error) {
	if !validRadius(radius) {
		return nil, degenerate("cylinder radius %v must be positive and fit a float32", radius)
	}
	if !base.IsFinite() || !axis.IsFinite() {
		return nil, degenerate("cylinder base %v or axis %v is not finite", base, axis)
	}
	if axis.IsZero() {
		return nil, degenerate("cylinder axis has zero length")
	}

	rotation := math.RotateBetween(unitZ, axis)
	return &Cylinder{
		radius:    radius,
		base:      base,
		axis:      axis,
		rotation:  rotation,
		transform: math.Translate(base.X, base.Y, base.Z).Mul(rotation),
		height:    float64(axis.Length()),
	}, nil
}

// Kind implements Model.
func (c *Cylinder) Kind() Kind { return KindCylinder }

// Radius returns the cylinder radius.
func (c *Cylinder) Radius() float64 { return c.radius }

// Base returns the center of the bottom rim.
func (c *Cylinder) Base() math.Vec3 { return c.base }

// Axis returns the base-to-top axis vector.
func (c *Cylinder) Axis() math.Vec3 { return c.axis }

// Height returns the length of the axis.
func (c *Cylinder) Height() float64 { return c.height }

// TexcoordToWorld maps u to the angle u*2pi+pi and v to the height
// fraction.
func (c *Cylinder) TexcoordToWorld(tc math.Vec2) math.Vec3 {
	cs, sn := sincos32(float64(tc.X)*2.0*gomath.Pi + gomath.Pi)
	local := math.Vec3From64(float64(cs)*c.radius, float64(sn)*c.radius, float64(tc.Y)*c.height)
	return c.transform.TransformVec3(local)
}

// TexcoordToNormal uses the angle u*2pi. The missing half turn relative
// to TexcoordToWorld makes the normal point at the axis.
func (c *Cylinder) TexcoordToNormal(tc math.Vec2) math.Vec3 {
	cs, sn := sincos32(float64(tc.X) * 2.0 * gomath.Pi)
	return c.rotation.TransformDirection(math.Vec3{X: cs, Y: sn, Z: 0})
}

// BuildMesh emits a top and a bottom vertex for each of the
// cylinderSegments+1 angular steps and joins them in one quad strip.
func (c *Cylinder) BuildMesh(texcoordColors bool) *Mesh {
	b := newMeshBuilder(2*cylinderSegments+2, texcoordColors)

	fracDelta := 1.0 / float64(cylinderSegments)
	frac := 0.0
	for i := 0; i <= cylinderSegments; i, frac = i+1, frac+fracDelta {
		b.sample(c, math.Vec2{X: float32(frac), Y: 1})
		b.sample(c, math.Vec2{X: float32(frac), Y: 0})
	}
	b.quadStrip(0, b.count())

	return b.finish()
}

// toLocal expresses p in the cylinder frame: base at the origin, axis
// along +Z.
func (c *Cylinder) toLocal(p math.Vec3) (x, y, z float64) {
	l := c.rotation.Transpose().TransformDirection(p.Sub(c.base))
	return float64(l.X), float64(l.Y), float64(l.Z)
}

// WorldToTexcoord inverts TexcoordToWorld. Points off the surface are
// projected radially; points on the axis cannot be inverted.
func (c *Cylinder) WorldToTexcoord(p math.Vec3) (math.Vec2, bool) {
	x, y, z := c.toLocal(p)
	if x == 0 && y == 0 {
		return math.Vec2{}, false
	}
	u := (gomath.Atan2(y, x) - gomath.Pi) / (2 * gomath.Pi)
	u -= gomath.Floor(u)
	return math.Vec2{X: float32(u), Y: float32(z / c.height)}, true
}

// FirstSurface returns the nearest point where the ray from->to enters or
// leaves the finite cylinder wall.
func (c *Cylinder) FirstSurface(from, to math.Vec3) (math.Vec3, bool) {
	ox, oy, oz := c.toLocal(from)
	tx, ty, tz := c.toLocal(to)
	dx, dy, dz := tx-ox, ty-oy, tz-oz

	a := dx*dx + dy*dy
	if a == 0 {
		return math.Vec3{}, false // parallel to the axis
	}
	halfB := ox*dx + oy*dy
	cc := ox*ox + oy*oy - c.radius*c.radius

	for _, t := range solveQuadratic(a, halfB, cc) {
		if t < 0 {
			continue
		}
		if z := oz + t*dz; z >= 0 && z <= c.height {
			return pointAlong(from, to, t), true
		}
	}
	return math.Vec3{}, false
}

// Center returns the midpoint of the axis.
func (c *Cylinder) Center() math.Vec3 {
	return c.base.Add(c.axis.Scale(0.5))
}

// sincos32 evaluates cosine and sine in single precision: the angle is
// rounded to float32 first, as the companion renderer does.
func sincos32(angle float64) (cs, sn float32) {
	a := float64(float32(angle))
	return float32(gomath.Cos(a)), float32(gomath.Sin(a))
}

// validRadius reports whether r is positive and survives conversion to
// float32 vertex data.
func validRadius(r float64) bool {
	f := float32(r)
	return r > 0 && !gomath.IsInf(r, 0) && f > 0 && !gomath.IsInf(float64(f), 0)
}

// solveQuadratic returns the real roots of a*t^2 + 2*halfB*t + c in
// ascending order.
func solveQuadratic(a, halfB, c float64) []float64 {
	disc := halfB*halfB - a*c
	if disc < 0 {
		return nil
	}
	sq := gomath.Sqrt(disc)
	return []float64{(-halfB - sq) / a, (-halfB + sq) / a}
}

// pointAlong returns from + t*(to-from) computed in double precision.
func pointAlong(from, to math.Vec3, t float64) math.Vec3 {
	return math.Vec3From64(
		float64(from.X)+t*(float64(to.X)-float64(from.X)),
		float64(from.Y)+t*(float64(to.Y)-float64(from.Y)),
		float64(from.Z)+t*(float64(to.Z)-float64(from.Z)),
	)
}
