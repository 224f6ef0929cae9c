package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	q := mgl32.QuatRotate(angle, mgl32.Vec3{axis.X, axis.Y, axis.Z})
	return Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}
}

// antiparallelEpsilon is the 1+cos(angle) below which two directions are
// treated as exactly opposite.
const antiparallelEpsilon = 1e-7

// QuatBetween returns the shortest rotation taking direction from onto
// direction to. It is computed in float64 so directions just short of
// opposite still rotate onto to; exactly opposite inputs yield a half
// turn about an axis perpendicular to from. Zero vectors give identity.
func QuatBetween(from, to Vec3) Quat {
	fx, fy, fz, ok1 := unit64(from)
	tx, ty, tz, ok2 := unit64(to)
	if !ok1 || !ok2 {
		return QuatIdentity()
	}

	w := 1 + fx*tx + fy*ty + fz*tz
	if w < antiparallelEpsilon {
		// from x X, or from x Y when from lies close to X
		ax, ay, az := 0.0, fz, -fy
		if math.Abs(fx) > 0.9 {
			ax, ay, az = -fz, 0, fx
		}
		n := math.Sqrt(ax*ax + ay*ay + az*az)
		return QuatFromAxisAngle(Vec3From64(ax/n, ay/n, az/n), math.Pi)
	}

	x := fy*tz - fz*ty
	y := fz*tx - fx*tz
	z := fx*ty - fy*tx
	n := math.Sqrt(x*x + y*y + z*z + w*w)
	return Quat{X: float32(x / n), Y: float32(y / n), Z: float32(z / n), W: float32(w / n)}
}

func unit64(v Vec3) (x, y, z float64, ok bool) {
	x, y, z = float64(v.X), float64(v.Y), float64(v.Z)
	n := math.Sqrt(x*x + y*y + z*z)
	if n == 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, 0, 0, false
	}
	return x / n, y / n, z / n, true
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two quaternions (combines rotations).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to v. q must be normalized.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}
