package surface

import (
	gomath "math"

	"github.com/Faultbox/surfacegeom/pkg/math"
)

// Sphere tessellation density.
const (
	sphereAzimuthSegments = 80
	sphereElevationBands  = 20
)

// Sphere is a full sphere. u is the azimuth fraction, v runs from the
// south pole (0) to the north pole (1).
type Sphere struct {
	radius float64
	center math.Vec3
}

// NewSphere creates a sphere with a positive radius.
func NewSphere(radius float64, center math.Vec3) (*Sphere, error) {
	if !validRadius(radius) {
		return nil, degenerate("sphere radius %v must be positive and fit a float32", radius)
	}
	if !center.IsFinite() {
		return nil, degenerate("sphere center %v is not finite", center)
	}
	return &Sphere{radius: radius, center: center}, nil
}

// Kind implements Model.
func (s *Sphere) Kind() Kind { return KindSphere }

// Radius returns the sphere radius.
func (s *Sphere) Radius() float64 { return s.radius }

// Center returns the sphere center.
func (s *Sphere) Center() math.Vec3 { return s.center }

// direction returns the unit vector for azimuth u*2pi and elevation
// v*pi - pi/2.
func sphereDirection(tc math.Vec2) (x, y, z float64) {
	az := float64(tc.X) * 2.0 * gomath.Pi
	el := float64(tc.Y)*gomath.Pi - gomath.Pi/2.0

	ca, sa := gomath.Cos(az), gomath.Sin(az)
	ce, se := gomath.Cos(el), gomath.Sin(el)
	return ca * ce, sa * ce, se
}

// TexcoordToWorld implements Model.
func (s *Sphere) TexcoordToWorld(tc math.Vec2) math.Vec3 {
	x, y, z := sphereDirection(tc)
	r := s.radius
	return math.Vec3From64(r*x, r*y, r*z).Add(s.center)
}

// TexcoordToNormal returns the outward unit normal.
func (s *Sphere) TexcoordToNormal(tc math.Vec2) math.Vec3 {
	return math.Vec3From64(sphereDirection(tc))
}

// BuildMesh emits one quad strip per elevation band. Each strip walks the
// azimuth from 0 to 1 inclusive, upper band edge first.
func (s *Sphere) BuildMesh(texcoordColors bool) *Mesh {
	b := newMeshBuilder(2*(sphereAzimuthSegments+1)*sphereElevationBands, texcoordColors)

	azDelta := 1.0 / float64(sphereAzimuthSegments)
	elDelta := 1.0 / float64(sphereElevationBands)

	fracEl := 0.0
	for band := 0; band < sphereElevationBands; band, fracEl = band+1, fracEl+elDelta {
		fracEl2 := fracEl + elDelta
		first := b.count()

		fracAz := 0.0
		for step := 0; step <= sphereAzimuthSegments; step, fracAz = step+1, fracAz+azDelta {
			b.sample(s, math.Vec2{X: float32(fracAz), Y: float32(fracEl2)})
			b.sample(s, math.Vec2{X: float32(fracAz), Y: float32(fracEl)})
		}
		b.quadStrip(first, b.count()-first)
	}

	return b.finish()
}

// WorldToTexcoord inverts TexcoordToWorld using the direction from the
// center; the distance is ignored. The center itself cannot be inverted.
func (s *Sphere) WorldToTexcoord(p math.Vec3) (math.Vec2, bool) {
	d := p.Sub(s.center)
	x, y, z := float64(d.X), float64(d.Y), float64(d.Z)
	r := gomath.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return math.Vec2{}, false
	}

	u := gomath.Atan2(y, x) / (2 * gomath.Pi)
	u -= gomath.Floor(u)
	el := gomath.Asin(gomath.Max(-1, gomath.Min(1, z/r)))
	v := (el + gomath.Pi/2) / gomath.Pi
	return math.Vec2{X: float32(u), Y: float32(v)}, true
}

// FirstSurface returns the nearest intersection of the ray from->to with
// the sphere at or in front of from.
func (s *Sphere) FirstSurface(from, to math.Vec3) (math.Vec3, bool) {
	ox := float64(from.X) - float64(s.center.X)
	oy := float64(from.Y) - float64(s.center.Y)
	oz := float64(from.Z) - float64(s.center.Z)
	dx := float64(to.X) - float64(from.X)
	dy := float64(to.Y) - float64(from.Y)
	dz := float64(to.Z) - float64(from.Z)

	a := dx*dx + dy*dy + dz*dz
	if a == 0 {
		return math.Vec3{}, false
	}
	halfB := ox*dx + oy*dy + oz*dz
	c := ox*ox + oy*oy + oz*oz - s.radius*s.radius

	for _, t := range solveQuadratic(a, halfB, c) {
		if t >= 0 {
			return pointAlong(from, to, t), true
		}
	}
	return math.Vec3{}, false
}
