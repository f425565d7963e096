package mathutil

import "math"

// Mat4 is a 4×4 matrix stored row-major. Points are column vectors, so
// Mat4Mul(a, b) applies b first.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix, ignoring the
// projective row. Use Project for perspective matrices.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// Project transforms a point (w=1) and performs the perspective divide.
// |w| is clamped to at least minW, keeping its sign, so points on the
// camera plane never divide by zero.
func (m Mat4) Project(v Vec3, minW float64) Vec3 {
	p := m.MulPoint(v)
	w := m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]
	inv := SafeDiv(1, w, minW)
	return Vec3{p[0] * inv, p[1] * inv, p[2] * inv}
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Perspective builds a right-handed perspective projection with clip z in
// [-1, 1]. fovY is in radians.
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovY/2)
	nf := 1.0 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, 2 * far * near * nf,
		0, 0, -1, 0,
	}
}

// LookAt builds a right-handed view matrix. A degenerate eye/target or
// up vector falls back to unit axes instead of producing NaNs.
func LookAt(eye, target, up Vec3) Mat4 {
	z := eye.Sub(target).Normalize()
	if z == (Vec3{}) {
		z = Vec3{0, 0, 1}
	}
	x := up.Cross(z).Normalize()
	if x == (Vec3{}) {
		x = Vec3{1, 0, 0}
	}
	y := z.Cross(x)

	return Mat4{
		x[0], x[1], x[2], -x.Dot(eye),
		y[0], y[1], y[2], -y.Dot(eye),
		z[0], z[1], z[2], -z.Dot(eye),
		0, 0, 0, 1,
	}
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	id := Mat4Identity()
	for i := 0; i < 16; i++ {
		d := m[i] - id[i]
		if d > 1e-8 || d < -1e-8 {
			return false
		}
	}
	return true
}
