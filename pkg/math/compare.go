package math

import "github.com/chewxy/math32"

// Epsilon32 is the machine epsilon of float32. Comparison tolerances are
// never smaller than this.
const Epsilon32 float32 = 1.1920929e-07

// floorEps clamps a caller-supplied tolerance to Epsilon32.
func floorEps(eps float32) float32 {
	if eps < Epsilon32 {
		return Epsilon32
	}
	return eps
}

func near(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

// Equal reports whether every component of a and b differs by at most eps.
func (v Vec3) Equal(other Vec3, eps float32) bool {
	eps = floorEps(eps)
	return near(v.X, other.X, eps) && near(v.Y, other.Y, eps) && near(v.Z, other.Z, eps)
}

// LexLess orders vectors by X, then Y, then Z.
func (v Vec3) LexLess(other Vec3) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	if v.Y != other.Y {
		return v.Y < other.Y
	}
	return v.Z < other.Z
}

// LessWithEps is LexLess restricted to vectors that are not Equal within eps.
// Near-duplicates compare as equivalent, so they collapse into one entry of
// an ordered set. The same eps must be used for every comparison on one set.
func (v Vec3) LessWithEps(other Vec3, eps float32) bool {
	return v.LexLess(other) && !v.Equal(other, eps)
}

// Equal reports whether both components of a and b differ by at most eps.
func (v Vec2) Equal(other Vec2, eps float32) bool {
	eps = floorEps(eps)
	return near(v.X, other.X, eps) && near(v.Y, other.Y, eps)
}

// LexLess orders coordinates by U, then V.
func (v Vec2) LexLess(other Vec2) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	return v.Y < other.Y
}

// LessWithEps is LexLess restricted to coordinates that are not Equal within eps.
func (v Vec2) LessWithEps(other Vec2, eps float32) bool {
	return v.LexLess(other) && !v.Equal(other, eps)
}
