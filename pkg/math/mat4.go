package math

import "math"

// Mat4 is a 4x4 affine transform in column-major order.
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// Values are float64 because transformed points feed vertex quantization,
// which must be bit-stable across repeated calls.
type Mat4 [16]float64

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float64) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scale returns a scale matrix.
func Scale(x, y, z float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotateZ returns a rotation matrix around the Z axis.
// angle is in radians.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)

	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FromBasis builds an affine transform from an origin and three basis
// vectors, the representation BIM hosts use for instance and link placement.
func FromBasis(origin, basisX, basisY, basisZ Vec3) Mat4 {
	return Mat4{
		basisX.X, basisX.Y, basisX.Z, 0,
		basisY.X, basisY.Y, basisY.Z, 0,
		basisZ.X, basisZ.Y, basisZ.Z, 0,
		origin.X, origin.Y, origin.Z, 1,
	}
}

// Mul multiplies this matrix by another (m * other).
// Applied to a point, other acts first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// TransformPoint transforms a point by this matrix (assumes w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// Origin returns the translation part.
func (m Mat4) Origin() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// IsIdentity reports whether m is exactly the identity matrix.
func (m Mat4) IsIdentity() bool {
	return m == Identity()
}

// RowMajor returns the matrix flattened row by row.
func (m Mat4) RowMajor() []float64 {
	out := make([]float64, 16)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row*4+col] = m[col*4+row]
		}
	}
	return out
}
