package math

import "github.com/chewxy/math32"

// Vec2 is a 2D vector. Texture coordinates store U in X and V in Y.
type Vec2 struct {
	X, Y float32
}

// UV returns a texture coordinate.
func UV(u, v float32) Vec2 {
	return Vec2{u, v}
}

// U returns the horizontal texture coordinate.
func (v Vec2) U() float32 { return v.X }

// V returns the vertical texture coordinate.
func (v Vec2) V() float32 { return v.Y }

// FlipV returns the coordinate with V mirrored (1 - V), converting between
// top-left and bottom-left image origins.
func (v Vec2) FlipV() Vec2 {
	return Vec2{v.X, 1 - v.Y}
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Length returns the magnitude.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns a unit vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float32 {
	return v.Sub(other).Length()
}
