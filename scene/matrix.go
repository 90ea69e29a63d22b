// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package scene

import "github.com/chewxy/math32"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 is a homogeneous 4D vector.
type Vec4 struct {
	X, Y, Z, W float32
}

// Mat4 is a 4x4 matrix stored column-major, as GPU uniforms expect:
// element (row r, column c) is at index c*4+r.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a translation matrix.
func Translation(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// RotationXYZ returns the rotation for Euler angles applied in XYZ order
// (the matrix equals Rx * Ry * Rz).
func RotationXYZ(x, y, z float32) Mat4 {
	a, b := math32.Cos(x), math32.Sin(x)
	c, d := math32.Cos(y), math32.Sin(y)
	e, f := math32.Cos(z), math32.Sin(z)
	ae, af, be, bf := a*e, a*f, b*e, b*f

	// Columns of Rx*Ry*Rz.
	return Mat4{
		c * e, af + be*d, bf - ae*d, 0,
		-c * f, ae - bf*d, be + af*d, 0,
		d, -b * c, a * c, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a right-handed perspective projection with vertical
// field of view fovY (radians), mapping depth [near, far] to clip [-1, 1].
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	nf := 1 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Mul returns m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var r Mat4
	for c := range 4 {
		for row := range 4 {
			var s float32
			for k := range 4 {
				s += m[k*4+row] * n[c*4+k]
			}
			r[c*4+row] = s
		}
	}
	return r
}

// InverseRigid returns the inverse of a rigid transform (rotation + translation).
func (m Mat4) InverseRigid() Mat4 {
	// Transpose the rotation block.
	r := Mat4{
		m[0], m[4], m[8], 0,
		m[1], m[5], m[9], 0,
		m[2], m[6], m[10], 0,
		0, 0, 0, 1,
	}
	t := r.MulVec4(Vec4{m[12], m[13], m[14], 0})
	r[12], r[13], r[14] = -t.X, -t.Y, -t.Z
	return r
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		W: m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulPoint transforms a point (w = 1) and returns the xyz part.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	v := m.MulVec4(Vec4{p.X, p.Y, p.Z, 1})
	return Vec3{v.X, v.Y, v.Z}
}
