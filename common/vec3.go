package common

import "math"

// Vec3 is a 3D vector. Y is up; the ground plane is XZ.
type Vec3 struct {
	X, Y, Z float64
}

var (
	Zero    = Vec3{}
	Up      = Vec3{Y: 1}
	Forward = Vec3{Z: 1}
)

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// IsZero reports whether v is shorter than Epsilon.
func (v Vec3) IsZero() bool {
	return v.LenSq() < Epsilon*Epsilon
}

// Normalized returns v scaled to unit length, or the zero vector when v is
// too short to have a direction.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l < Epsilon {
		return Zero
	}
	return v.Scale(1 / l)
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Reflect mirrors v about the plane with normal n (n must be unit length).
func (v Vec3) Reflect(n Vec3) Vec3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// RotateY rotates v around the up axis by deg degrees. Positive angles turn
// clockwise when viewed from above, matching a left-handed Y-up frame.
func (v Vec3) RotateY(deg float64) Vec3 {
	r := Deg2Rad(deg)
	s, c := math.Sin(r), math.Cos(r)
	return Vec3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		Lerp(v.X, o.X, t),
		Lerp(v.Y, o.Y, t),
		Lerp(v.Z, o.Z, t),
	}
}

// ClampLen shortens v to at most max.
func (v Vec3) ClampLen(max float64) Vec3 {
	l := v.Len()
	if l <= max || l < Epsilon {
		return v
	}
	return v.Scale(max / l)
}
