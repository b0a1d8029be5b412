package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const sqrt3 = 1.7320508075688772

// PixelToAxial converts a position to fractional axial (q, r) coordinates of a flat-top
// hex lattice with circumradius size; aspect stretches the lattice vertically
func PixelToAxial(p r2.Vec, size, aspect float64) (q, r float64) {
	q = (2.0 / 3.0 * p.X) / size
	r = (-1.0/3.0*p.X + sqrt3/3.0*p.Y/aspect) / size
	return q, r
}

// AxialToPixel converts integer axial coordinates back to the hex center position
func AxialToPixel(q, r int, size, aspect float64) r2.Vec {
	fq, fr := float64(q), float64(r)
	return r2.Vec{
		X: size * (1.5 * fq),
		Y: size * aspect * (sqrt3 * (fr + fq/2)),
	}
}

// CubeRound rounds fractional axial coordinates to the nearest hex
// The axis with the largest rounding residual is recomputed from the other two so q+r+s=0 holds
func CubeRound(q, r float64) (int, int) {
	s := -(q + r)

	rq := math.Round(q)
	rr := math.Round(r)
	rs := math.Round(s)

	qDiff := math.Abs(rq - q)
	rDiff := math.Abs(rr - r)
	sDiff := math.Abs(rs - s)

	if qDiff > rDiff && qDiff > sDiff {
		rq = -(rr + rs)
	} else if rDiff > sDiff {
		rr = -(rq + rs)
	}

	return int(rq), int(rr)
}

// NearestHexCenter returns the center of the lattice cell containing p
func NearestHexCenter(p r2.Vec, size, aspect float64) r2.Vec {
	q, r := PixelToAxial(p, size, aspect)
	rq, rr := CubeRound(q, r)
	return AxialToPixel(rq, rr, size, aspect)
}
