package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec builds an r2.Vec
func Vec(x, y float64) r2.Vec {
	return r2.Vec{X: x, Y: y}
}

// Length returns the Euclidean norm of v
func Length(v r2.Vec) float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the Euclidean distance between a and b
func Distance(a, b r2.Vec) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Normalize returns the unit vector of v and its original length
// Vectors shorter than Epsilon normalize to zero
func Normalize(v r2.Vec) (r2.Vec, float64) {
	mag := Length(v)
	if mag < Epsilon {
		return r2.Vec{}, mag
	}
	inv := 1.0 / mag
	return r2.Vec{X: v.X * inv, Y: v.Y * inv}, mag
}

// FromAngle returns the unit vector at angle theta (radians)
func FromAngle(theta float64) r2.Vec {
	return r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}
}

// Perpendicular returns v rotated 90° counter-clockwise
func Perpendicular(v r2.Vec) r2.Vec {
	return r2.Vec{X: -v.Y, Y: v.X}
}

// ClampLength limits v to maxLen while preserving direction
func ClampLength(v r2.Vec, maxLen float64) r2.Vec {
	unit, mag := Normalize(v)
	if mag <= maxLen {
		return v
	}
	return r2.Scale(maxLen, unit)
}

// LerpVec interpolates between a and b
func LerpVec(a, b r2.Vec, t float64) r2.Vec {
	return r2.Vec{X: Lerp(a.X, b.X, t), Y: Lerp(a.Y, b.Y, t)}
}
