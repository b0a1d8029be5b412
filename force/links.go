package force

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/vmath"
)

// Links is the adjacency read by the spring field, set by the host after each graph update
type Links struct {
	adj [][]int
}

// Set replaces the adjacency; nil disables every spring
func (l *Links) Set(adj [][]int) {
	l.adj = adj
}

// Spring pulls linked particles together past restLength and pushes them apart inside it
// Each neighbor contributes (dist-rest)/rest along the link, magnitude is the sum's length capped at 1
// Indices missing from the adjacency or the particle slice are ignored
func Spring(links *Links, restLength float64) Field {
	if restLength <= 0 {
		restLength = 1
	}
	return func(pos r2.Vec, _ float64, ctx *Context) Force {
		if links == nil || ctx == nil || ctx.Current < 0 || ctx.Current >= len(links.adj) {
			return Zero
		}
		var sum r2.Vec
		for _, j := range links.adj[ctx.Current] {
			if j < 0 || j >= len(ctx.Particles) || j == ctx.Current {
				continue
			}
			dir, dist := vmath.Normalize(r2.Sub(ctx.Particles[j].Pos, pos))
			if dist < vmath.Epsilon {
				continue
			}
			sum = r2.Add(sum, r2.Scale((dist-restLength)/restLength, dir))
		}
		dir, mag := vmath.Normalize(sum)
		if mag < vmath.Epsilon {
			return Zero
		}
		return Force{Magnitude: math.Min(1, mag), Direction: dir}
	}
}

// CenterGravity pulls toward the canvas center
// Magnitude grows linearly from 0 at the center to 1 at half the canvas diagonal
func CenterGravity() Field {
	return func(pos r2.Vec, _ float64, ctx *Context) Force {
		if ctx == nil || ctx.Width <= 0 || ctx.Height <= 0 {
			return Zero
		}
		center := r2.Vec{X: ctx.Width / 2, Y: ctx.Height / 2}
		dir, dist := vmath.Normalize(r2.Sub(center, pos))
		if dist < vmath.Epsilon {
			return Zero
		}
		half := math.Hypot(ctx.Width, ctx.Height) / 2
		return Force{Magnitude: math.Min(1, dist/half), Direction: dir}
	}
}
