package force

import (
	"math"

	"github.com/aquilax/go-perlin"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/vmath"
)

// Perlin noise tuning, same defaults as the go-perlin docs
const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3
)

// Perlin is a coherent noise flow: the direction angle is 3D noise over (x, y, t) spread across a full turn
// scale converts canvas units to noise space, speed converts seconds
func Perlin(seed int64, scale, speed, magnitude float64) Field {
	noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed)

	return func(pos r2.Vec, t float64, _ *Context) Force {
		n := noise.Noise3D(pos.X*scale, pos.Y*scale, t*speed)
		return Force{
			Magnitude: magnitude,
			Direction: vmath.FromAngle(n * 2 * math.Pi),
		}
	}
}
