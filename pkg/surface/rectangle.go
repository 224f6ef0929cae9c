package surface

import (
	"github.com/Faultbox/surfacegeom/pkg/math"
)

// PlanarRectangle is a flat surface spanned by three corners. u runs from
// the lower-left towards the lower-right corner, v towards the upper-left.
type PlanarRectangle struct {
	lowerLeft  math.Vec3
	upperLeft  math.Vec3
	lowerRight math.Vec3

	// derived
	dirU   math.Vec3
	dirV   math.Vec3
	normal math.Vec3
}

// NewPlanarRectangle creates a rectangle. The two edges must not be
// parallel.
func NewPlanarRectangle(lowerLeft, upperLeft, lowerRight math.Vec3) (*PlanarRectangle, error) {
	if !lowerLeft.IsFinite() || !upperLeft.IsFinite() || !lowerRight.IsFinite() {
		return nil, degenerate("rectangle corners must be finite")
	}

	r := &PlanarRectangle{
		lowerLeft:  lowerLeft,
		upperLeft:  upperLeft,
		lowerRight: lowerRight,
		dirU:       lowerRight.Sub(lowerLeft),
		dirV:       upperLeft.Sub(lowerLeft),
	}
	r.normal = r.dirU.Cross(r.dirV)
	if r.normal.IsZero() {
		return nil, degenerate("rectangle edges %v and %v are parallel", r.dirU, r.dirV)
	}
	return r, nil
}

// Kind implements Model.
func (r *PlanarRectangle) Kind() Kind { return KindPlanarRectangle }

// Corners returns the lower-left, upper-left and lower-right corners.
func (r *PlanarRectangle) Corners() (lowerLeft, upperLeft, lowerRight math.Vec3) {
	return r.lowerLeft, r.upperLeft, r.lowerRight
}

// Normal returns the unnormalized surface normal dirU x dirV.
func (r *PlanarRectangle) Normal() math.Vec3 { return r.normal }

// TexcoordToWorld is an affine map; coordinates outside [0,1] extrapolate
// beyond the corners.
func (r *PlanarRectangle) TexcoordToWorld(tc math.Vec2) math.Vec3 {
	return r.lowerLeft.Add(r.dirU.Scale(tc.X)).Add(r.dirV.Scale(tc.Y))
}

// TexcoordToNormal returns the same normal everywhere.
func (r *PlanarRectangle) TexcoordToNormal(math.Vec2) math.Vec3 {
	return r.normal
}

// BuildMesh emits the four corners as a single quad strip.
func (r *PlanarRectangle) BuildMesh(texcoordColors bool) *Mesh {
	b := newMeshBuilder(4, texcoordColors)
	for u := 0; u <= 1; u++ {
		for v := 0; v <= 1; v++ {
			b.sample(r, math.Vec2{X: float32(u), Y: float32(v)})
		}
	}
	b.quadStrip(0, b.count())
	return b.finish()
}

// WorldToTexcoord projects p onto the rectangle plane and returns its
// surface coordinate.
func (r *PlanarRectangle) WorldToTexcoord(p math.Vec3) (math.Vec2, bool) {
	d := p.Sub(r.lowerLeft)
	uu := float64(r.dirU.Dot(r.dirU))
	uv := float64(r.dirU.Dot(r.dirV))
	vv := float64(r.dirV.Dot(r.dirV))
	du := float64(d.Dot(r.dirU))
	dv := float64(d.Dot(r.dirV))

	det := uu*vv - uv*uv
	if det == 0 {
		return math.Vec2{}, false
	}
	u := (du*vv - dv*uv) / det
	v := (dv*uu - du*uv) / det
	return math.Vec2{X: float32(u), Y: float32(v)}, true
}

// FirstSurface intersects the ray from->to with the plane and keeps hits
// inside the rectangle.
func (r *PlanarRectangle) FirstSurface(from, to math.Vec3) (math.Vec3, bool) {
	dir := to.Sub(from)
	denom := float64(r.normal.Dot(dir))
	if denom == 0 {
		return math.Vec3{}, false
	}
	t := float64(r.normal.Dot(r.lowerLeft.Sub(from))) / denom
	if t < 0 {
		return math.Vec3{}, false
	}

	hit := pointAlong(from, to, t)
	tc, ok := r.WorldToTexcoord(hit)
	if !ok || tc.X < 0 || tc.X > 1 || tc.Y < 0 || tc.Y > 1 {
		return math.Vec3{}, false
	}
	return hit, true
}

// Center returns the middle of the rectangle.
func (r *PlanarRectangle) Center() math.Vec3 {
	return r.TexcoordToWorld(math.Vec2{X: 0.5, Y: 0.5})
}
