// Package math provides the vector and matrix types used by the brush compiler.
package math

import "math"

// Axis identifies a cardinal axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	default:
		return "Z"
	}
}

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Neg returns -v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Abs returns the component-wise absolute value.
func (v Vec3) Abs() Vec3 {
	return Vec3{absf(v.X), absf(v.Y), absf(v.Z)}
}

// Min returns the component-wise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{min(v.X, other.X), min(v.Y, other.Y), min(v.Z, other.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{max(v.X, other.X), max(v.Y, other.Y), max(v.Z, other.Z)}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// LengthSq returns the squared magnitude.
func (v Vec3) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// DistanceSq returns the squared distance to another point.
func (v Vec3) DistanceSq(other Vec3) float32 {
	return v.Sub(other).LengthSq()
}

// Component returns the coordinate along the given axis.
func (v Vec3) Component(a Axis) float32 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// DominantAxis returns the axis with the largest absolute component.
// Ties resolve in the order X, Z, Y so horizontal axes win.
func (v Vec3) DominantAxis() Axis {
	a := v.Abs()
	switch {
	case a.X >= a.Y && a.X >= a.Z:
		return AxisX
	case a.Z >= a.Y:
		return AxisZ
	default:
		return AxisY
	}
}

// Drop projects v onto the plane perpendicular to axis a.
func (v Vec3) Drop(a Axis) Vec2 {
	switch a {
	case AxisX:
		return Vec2{v.Y, v.Z}
	case AxisY:
		return Vec2{v.X, v.Z}
	default:
		return Vec2{v.X, v.Y}
	}
}

// MoveToward moves v toward target by at most dist.
func (v Vec3) MoveToward(target Vec3, dist float32) Vec3 {
	delta := target.Sub(v)
	l := delta.Length()
	if l <= dist || l == 0 {
		return target
	}
	return v.Add(delta.Scale(dist / l))
}

// ApproxEqual reports whether every component differs by at most eps.
func (v Vec3) ApproxEqual(other Vec3, eps float32) bool {
	d := v.Sub(other).Abs()
	return d.X <= eps && d.Y <= eps && d.Z <= eps
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
