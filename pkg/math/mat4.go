package math

// Mat4 is a 4x4 column-major affine transform.
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * other, so other is applied first.
func (m Mat4) Mul(other Mat4) Mat4 {
	var r Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float32
			for k := range 4 {
				sum += m[k*4+row] * other[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// TransformPoint applies the full transform to a point.
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
}

// TransformDir applies the linear part only, for normals and axes.
func (m Mat4) TransformDir(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// Vec4 is a 4-component vector. Tangents store handedness in W.
type Vec4 [4]float32
