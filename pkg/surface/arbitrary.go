package surface

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/surfacegeom/pkg/formats"
	"github.com/Faultbox/surfacegeom/pkg/math"
)

// DefaultPrecision is the UV lookup tolerance used when a from_file
// configuration does not set one.
const DefaultPrecision = 1e-6

// ErrNoTexCoords is returned when a surface file carries no UV mapping.
var ErrNoTexCoords = errors.New("surface mesh has no texture coordinates")

// Arbitrary is a UV-mapped triangle mesh loaded from a file. Surface
// coordinates are resolved by locating the containing triangle in UV
// space and interpolating.
type Arbitrary struct {
	filename  string
	precision float64

	positions []math.Vec3
	normals   []math.Vec3
	texcoords []math.Vec2
	indices   []uint32
}

// LoadArbitrary reads an OBJ or glTF surface file.
func LoadArbitrary(filename string, precision float64) (*Arbitrary, error) {
	tm, err := formats.LoadTriMesh(filename)
	if err != nil {
		return nil, fmt.Errorf("loading surface %s: %w", filename, err)
	}
	a, err := NewArbitrary(tm, precision)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	a.filename = filename
	return a, nil
}

// NewArbitrary wraps an in-memory triangle mesh. Missing normals are
// computed from the faces.
func NewArbitrary(tm *formats.TriMesh, precision float64) (*Arbitrary, error) {
	if !(precision > 0) || gomath.IsInf(precision, 0) {
		return nil, degenerate("precision %v must be positive", precision)
	}
	if err := tm.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMesh, err)
	}
	if tm.TriangleCount() == 0 {
		return nil, degenerate("surface mesh has no triangles")
	}
	if tm.TexCoords == nil {
		return nil, ErrNoTexCoords
	}

	a := &Arbitrary{
		precision: precision,
		positions: make([]math.Vec3, len(tm.Positions)),
		texcoords: make([]math.Vec2, len(tm.TexCoords)),
		indices:   append([]uint32(nil), tm.Indices...),
	}
	for i, p := range tm.Positions {
		a.positions[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
		if !a.positions[i].IsFinite() {
			return nil, degenerate("vertex %d is not finite", i)
		}
	}
	for i, uv := range tm.TexCoords {
		a.texcoords[i] = math.Vec2{X: uv[0], Y: uv[1]}
	}

	if tm.Normals != nil {
		a.normals = make([]math.Vec3, len(tm.Normals))
		for i, n := range tm.Normals {
			a.normals[i] = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
	} else {
		a.normals = faceNormals(a.positions, a.indices)
	}
	return a, nil
}

// faceNormals accumulates area-weighted face normals per vertex.
func faceNormals(positions []math.Vec3, indices []uint32) []math.Vec3 {
	normals := make([]math.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		n := positions[i1].Sub(positions[i0]).Cross(positions[i2].Sub(positions[i0]))
		normals[i0] = normals[i0].Add(n)
		normals[i1] = normals[i1].Add(n)
		normals[i2] = normals[i2].Add(n)
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

// Kind implements Model.
func (a *Arbitrary) Kind() Kind { return KindFromFile }

// Filename returns the source file, empty for in-memory meshes.
func (a *Arbitrary) Filename() string { return a.filename }

// Precision returns the UV lookup tolerance.
func (a *Arbitrary) Precision() float64 { return a.precision }

// TriangleCount returns the number of surface triangles.
func (a *Arbitrary) TriangleCount() int { return len(a.indices) / 3 }

// locate finds the first triangle whose UV footprint contains tc and
// returns its first index offset and barycentric weights.
func (a *Arbitrary) locate(tc math.Vec2) (int, [3]float64, bool) {
	px, py := float64(tc.X), float64(tc.Y)
	eps := a.precision

	for i := 0; i+2 < len(a.indices); i += 3 {
		t0 := a.texcoords[a.indices[i]]
		t1 := a.texcoords[a.indices[i+1]]
		t2 := a.texcoords[a.indices[i+2]]

		x0, y0 := float64(t0.X), float64(t0.Y)
		e1x, e1y := float64(t1.X)-x0, float64(t1.Y)-y0
		e2x, e2y := float64(t2.X)-x0, float64(t2.Y)-y0
		det := e1x*e2y - e2x*e1y
		if det == 0 {
			continue
		}
		dx, dy := px-x0, py-y0
		w1 := (dx*e2y - e2x*dy) / det
		w2 := (e1x*dy - dx*e1y) / det
		w0 := 1 - w1 - w2
		if w0 >= -eps && w1 >= -eps && w2 >= -eps {
			return i, [3]float64{w0, w1, w2}, true
		}
	}
	return 0, [3]float64{}, false
}

func interpolate(v []math.Vec3, idx []uint32, w [3]float64) math.Vec3 {
	a, b, c := v[idx[0]], v[idx[1]], v[idx[2]]
	return math.Vec3From64(
		w[0]*float64(a.X)+w[1]*float64(b.X)+w[2]*float64(c.X),
		w[0]*float64(a.Y)+w[1]*float64(b.Y)+w[2]*float64(c.Y),
		w[0]*float64(a.Z)+w[1]*float64(b.Z)+w[2]*float64(c.Z),
	)
}

// TexcoordToWorld returns NaN components when tc lies outside the UV
// mapping.
func (a *Arbitrary) TexcoordToWorld(tc math.Vec2) math.Vec3 {
	i, w, ok := a.locate(tc)
	if !ok {
		return math.NaN3()
	}
	return interpolate(a.positions, a.indices[i:i+3], w)
}

// TexcoordToNormal returns the interpolated unit normal, or NaN components
// when tc lies outside the UV mapping.
func (a *Arbitrary) TexcoordToNormal(tc math.Vec2) math.Vec3 {
	i, w, ok := a.locate(tc)
	if !ok {
		return math.NaN3()
	}
	return interpolate(a.normals, a.indices[i:i+3], w).Normalize()
}

// BuildMesh emits the loaded vertices with one triangle list.
func (a *Arbitrary) BuildMesh(texcoordColors bool) *Mesh {
	b := newMeshBuilder(len(a.positions), texcoordColors)
	for i := range a.positions {
		b.add(a.positions[i], a.normals[i], a.texcoords[i])
	}
	b.triangles(a.indices)
	return b.finish()
}

// FirstSurface returns the nearest triangle hit along from->to
// (Moller-Trumbore).
func (a *Arbitrary) FirstSurface(from, to math.Vec3) (math.Vec3, bool) {
	best := gomath.Inf(1)
	for i := 0; i+2 < len(a.indices); i += 3 {
		t, _, _, ok := a.rayTriangle(from, to, i)
		if ok && t < best {
			best = t
		}
	}
	if gomath.IsInf(best, 1) {
		return math.Vec3{}, false
	}
	return pointAlong(from, to, best), true
}

// WorldToTexcoord maps a point on the mesh back to its surface
// coordinate. The point is projected onto the closest triangle whose
// interior contains the projection.
func (a *Arbitrary) WorldToTexcoord(p math.Vec3) (math.Vec2, bool) {
	bestDist := gomath.Inf(1)
	var best math.Vec2
	for i := 0; i+2 < len(a.indices); i += 3 {
		v0 := a.positions[a.indices[i]]
		n := a.positions[a.indices[i+1]].Sub(v0).Cross(a.positions[a.indices[i+2]].Sub(v0))
		if n.IsZero() {
			continue
		}
		n = n.Normalize()
		dist := float64(p.Sub(v0).Dot(n))
		from := p.Add(n)
		to := p.Sub(n)
		_, u, v, ok := a.rayTriangleUnbounded(from, to, i)
		if !ok || gomath.Abs(dist) >= bestDist {
			continue
		}
		bestDist = gomath.Abs(dist)
		t0 := a.texcoords[a.indices[i]]
		t1 := a.texcoords[a.indices[i+1]]
		t2 := a.texcoords[a.indices[i+2]]
		w0 := 1 - u - v
		best = math.Vec2{
			X: float32(w0*float64(t0.X) + u*float64(t1.X) + v*float64(t2.X)),
			Y: float32(w0*float64(t0.Y) + u*float64(t1.Y) + v*float64(t2.Y)),
		}
	}
	return best, !gomath.IsInf(bestDist, 1)
}

// rayTriangle intersects the ray with triangle i for t >= 0.
func (a *Arbitrary) rayTriangle(from, to math.Vec3, i int) (t, u, v float64, ok bool) {
	t, u, v, ok = a.rayTriangleUnbounded(from, to, i)
	return t, u, v, ok && t >= 0
}

// rayTriangleUnbounded intersects the line through from and to with
// triangle i. t is measured in units of to-from.
func (a *Arbitrary) rayTriangleUnbounded(from, to math.Vec3, i int) (t, u, v float64, ok bool) {
	v0 := a.positions[a.indices[i]]
	e1 := a.positions[a.indices[i+1]].Sub(v0)
	e2 := a.positions[a.indices[i+2]].Sub(v0)
	dir := to.Sub(from)

	pv := dir.Cross(e2)
	det := float64(e1.Dot(pv))
	if det == 0 {
		return 0, 0, 0, false
	}
	tv := from.Sub(v0)
	u = float64(tv.Dot(pv)) / det
	qv := tv.Cross(e1)
	v = float64(dir.Dot(qv)) / det

	eps := a.precision
	if u < -eps || v < -eps || u+v > 1+eps {
		return 0, 0, 0, false
	}
	t = float64(e2.Dot(qv)) / det
	return t, u, v, true
}

// Center returns the center of the mesh bounding box.
func (a *Arbitrary) Center() math.Vec3 {
	lo, hi := a.positions[0], a.positions[0]
	for _, p := range a.positions[1:] {
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo.Add(hi).Scale(0.5)
}
