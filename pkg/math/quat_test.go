package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{X: 1, Y: 2, Z: 3, W: 4}
	n := q.Normalize()

	length := float32(math.Sqrt(float64(n.X*n.X + n.Y*n.Y + n.Z*n.Z + n.W*n.W)))
	if math.Abs(float64(length-1.0)) > 0.0001 {
		t.Errorf("Normalized quaternion length should be 1, got %v", length)
	}
}

func TestQuatToMat4(t *testing.T) {
	// Identity quaternion should produce identity matrix
	m := QuatIdentity().ToMat4()

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(m[i]-identity[i])) > 0.0001 {
			t.Errorf("Identity quat should produce identity matrix, element %d: got %v, want %v", i, m[i], identity[i])
		}
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatRotateMatchesMatrix(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{1, 2, 3}.Normalize(), 1.1)
	v := Vec3{-1, 0.5, 2}

	byQuat := q.Rotate(v)
	byMat := q.ToMat4().TransformDirection(v)
	if byQuat.Distance(byMat) > 1e-5 {
		t.Errorf("Rotate = %v, ToMat4 = %v", byQuat, byMat)
	}
}

func TestQuatBetween(t *testing.T) {
	from := Vec3{0, 0, 1}
	to := Vec3{0, 4, 4}
	q := QuatBetween(from, to)

	got := q.Rotate(from)
	want := to.Normalize()
	if got.Distance(want) > 1e-5 {
		t.Errorf("QuatBetween rotates %v to %v, want %v", from, got, want)
	}
}

func TestQuatMulComposes(t *testing.T) {
	a := QuatFromAxisAngle(Vec3{0, 0, 1}, float32(math.Pi/2))
	b := QuatFromAxisAngle(Vec3{0, 0, 1}, float32(math.Pi/2))
	got := a.Mul(b).Rotate(Vec3{1, 0, 0})
	if got.Distance(Vec3{-1, 0, 0}) > 1e-5 {
		t.Errorf("two quarter turns should map +X to -X, got %v", got)
	}
}

func TestQuatBetween_NearOpposite(t *testing.T) {
	from := Vec3{0, 0, 1}
	tests := []Vec3{
		{0.02, 0, -1},
		{0, -0.03, -1},
		{0.0005, 0.0005, -1},
		{0, 0, -1},
		{-3, 0, 0},
	}
	for _, to := range tests {
		q := QuatBetween(from, to)
		got := q.Rotate(from)
		want := to.Normalize()
		if got.Distance(want) > 1e-5 {
			t.Errorf("QuatBetween(%v, %v) rotates to %v, want %v", from, to, got, want)
		}
		byMat := RotateBetween(from, to).TransformDirection(from)
		if byMat.Distance(want) > 1e-5 {
			t.Errorf("RotateBetween(%v, %v) maps to %v, want %v", from, to, byMat, want)
		}
	}
}

func TestQuatBetween_Zero(t *testing.T) {
	if q := QuatBetween(Vec3{}, Vec3{0, 0, 1}); q != QuatIdentity() {
		t.Errorf("expected identity for zero input, got %v", q)
	}
}
