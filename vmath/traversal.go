package vmath

import (
	"math"
)

// CellTraverser is a zero-allocation iterator over every grid cell a segment crosses (Supercover DDA)
// Coordinates are continuous; cell (x, y) covers [x, x+1) × [y, y+1)
type CellTraverser struct {
	currX, currY     int
	targetX, targetY int
	stepX, stepY     int

	tMaxX, tMaxY     float64
	tDeltaX, tDeltaY float64

	// t is the parametric position of the current cell entry along the segment
	t float64

	started bool
	done    bool
}

// NewCellTraverser creates an iterator from (x1, y1) to (x2, y2)
func NewCellTraverser(x1, y1, x2, y2 float64) CellTraverser {
	t := CellTraverser{
		currX:   int(math.Floor(x1)),
		currY:   int(math.Floor(y1)),
		targetX: int(math.Floor(x2)),
		targetY: int(math.Floor(y2)),
		stepX:   1,
		stepY:   1,
	}

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		t.stepX = -1
		dx = -dx
	}
	if dy < 0 {
		t.stepY = -1
		dy = -dy
	}

	if dx < Epsilon {
		t.tMaxX = math.Inf(1)
	} else {
		t.tDeltaX = 1 / dx
		frac := x1 - math.Floor(x1)
		if t.stepX > 0 {
			t.tMaxX = (1 - frac) * t.tDeltaX
		} else {
			t.tMaxX = frac * t.tDeltaX
		}
	}

	if dy < Epsilon {
		t.tMaxY = math.Inf(1)
	} else {
		t.tDeltaY = 1 / dy
		frac := y1 - math.Floor(y1)
		if t.stepY > 0 {
			t.tMaxY = (1 - frac) * t.tDeltaY
		} else {
			t.tMaxY = frac * t.tDeltaY
		}
	}

	return t
}

// Next advances to the next cell, returns false once the target cell was yielded
func (t *CellTraverser) Next() bool {
	if t.done {
		return false
	}
	if !t.started {
		t.started = true
		return true
	}

	if t.currX == t.targetX && t.currY == t.targetY {
		t.done = true
		return false
	}

	if t.tMaxX < t.tMaxY {
		if t.currX != t.targetX {
			t.t = t.tMaxX
			t.currX += t.stepX
			t.tMaxX += t.tDeltaX
		} else {
			t.t = t.tMaxY
			t.currY += t.stepY
			t.tMaxY += t.tDeltaY
		}
	} else if t.tMaxX > t.tMaxY {
		if t.currY != t.targetY {
			t.t = t.tMaxY
			t.currY += t.stepY
			t.tMaxY += t.tDeltaY
		} else {
			t.t = t.tMaxX
			t.currX += t.stepX
			t.tMaxX += t.tDeltaX
		}
	} else {
		t.t = t.tMaxX
		if t.currX != t.targetX {
			t.currX += t.stepX
			t.tMaxX += t.tDeltaX
		}
		if t.currY != t.targetY {
			t.currY += t.stepY
			t.tMaxY += t.tDeltaY
		}
	}

	return true
}

// Pos returns the current cell
func (t *CellTraverser) Pos() (int, int) {
	return t.currX, t.currY
}

// Progress returns the segment parameter in [0, 1] at which the current cell was entered
func (t *CellTraverser) Progress() float64 {
	return Clamp01(t.t)
}
