package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeRoundPreservesConstraint(t *testing.T) {
	rng := NewFastRand(42)
	for i := 0; i < 1000; i++ {
		q := rng.Float64()*20 - 10
		r := rng.Float64()*20 - 10
		rq, rr := CubeRound(q, r)
		rs := -(rq + rr)

		// Rounded cell must be the nearest in cube distance terms
		assert.LessOrEqual(t, math.Abs(float64(rq)-q), 1.0)
		assert.LessOrEqual(t, math.Abs(float64(rr)-r), 1.0)
		assert.LessOrEqual(t, math.Abs(float64(rs)+(q+r)), 1.0)
	}
}

func TestNearestHexCenterIsFixedPoint(t *testing.T) {
	tests := []struct {
		name   string
		q, r   int
		size   float64
		aspect float64
	}{
		{"origin", 0, 0, 100, 1},
		{"neighbor", 1, 0, 100, 1},
		{"negative", -2, 3, 40, 1},
		{"stretched", 2, -1, 60, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			center := AxialToPixel(tt.q, tt.r, tt.size, tt.aspect)
			got := NearestHexCenter(center, tt.size, tt.aspect)
			assert.InDelta(t, center.X, got.X, 1e-9)
			assert.InDelta(t, center.Y, got.Y, 1e-9)
		})
	}
}

func TestPairKeyCanonical(t *testing.T) {
	const n = 37
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			k := MakePairKey(i, j, n)
			require.Equal(t, k, MakePairKey(j, i, n))
			lo, hi := k.Split(n)
			require.Equal(t, i, lo)
			require.Equal(t, j, hi)
		}
	}
}

func TestNormalizeZeroSafe(t *testing.T) {
	unit, mag := Normalize(Vec(0, 0))
	assert.Equal(t, 0.0, unit.X)
	assert.Equal(t, 0.0, unit.Y)
	assert.Equal(t, 0.0, mag)

	unit, mag = Normalize(Vec(3, 4))
	assert.InDelta(t, 5.0, mag, 1e-12)
	assert.InDelta(t, 1.0, Length(unit), 1e-12)
}

func TestEaseOutCubicEndpoints(t *testing.T) {
	assert.Equal(t, 0.0, EaseOutCubic(0))
	assert.Equal(t, 1.0, EaseOutCubic(1))
	assert.Equal(t, 1.0, EaseOutCubic(2))

	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := EaseOutCubic(float64(i) / 100)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, math.Pi, WrapAngle(-math.Pi), 1e-12)
	assert.InDelta(t, 0.5, WrapAngle(2*math.Pi+0.5), 1e-12)
}

func TestFastRandRange(t *testing.T) {
	rng := NewFastRand(0)
	for i := 0; i < 10000; i++ {
		f := rng.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
		n := rng.Intn(7)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 7)
	}
	assert.Equal(t, 0, rng.Intn(0))
}

func TestFastRandSmallSeedsStartMixed(t *testing.T) {
	for _, seed := range []uint64{0, 1, 2, 3, 42, 7919} {
		rng := NewFastRand(seed)
		for i := 0; i < 4; i++ {
			assert.Greater(t, rng.Float64(), 1e-3, "seed %d draw %d", seed, i)
		}
	}
}

func TestFastRandSmallSeedMean(t *testing.T) {
	const n = 20000
	var sum float64
	for seed := uint64(1); seed <= n; seed++ {
		sum += NewFastRand(seed).Float64()
	}
	assert.InDelta(t, 0.5, sum/n, 0.02)
}

func TestFastRandDeterministic(t *testing.T) {
	a, b := NewFastRand(5), NewFastRand(5)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
	assert.NotEqual(t, NewFastRand(5).Next(), NewFastRand(6).Next())
}

func TestShuffleIsPermutation(t *testing.T) {
	s := []int{0, 1, 2, 3, 4, 5, 6, 7}
	Shuffle(NewFastRand(9), s)
	seen := make(map[int]bool)
	for _, v := range s {
		seen[v] = true
	}
	assert.Len(t, seen, 8)
}

func TestCellTraverserVisitsEndpoints(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
	}{
		{"horizontal", 0.5, 0.5, 10.5, 0.5},
		{"vertical", 3.2, 9.7, 3.2, 1.1},
		{"diagonal", 0.5, 0.5, 7.5, 7.5},
		{"steep negative", 12.3, 1.2, 2.7, 20.9},
		{"single cell", 4.1, 4.2, 4.9, 4.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewCellTraverser(tt.x1, tt.y1, tt.x2, tt.y2)
			var cells [][2]int
			for tr.Next() {
				x, y := tr.Pos()
				cells = append(cells, [2]int{x, y})
				require.Less(t, len(cells), 1000, "traversal must terminate")
			}
			require.NotEmpty(t, cells)
			assert.Equal(t, [2]int{int(math.Floor(tt.x1)), int(math.Floor(tt.y1))}, cells[0])
			assert.Equal(t, [2]int{int(math.Floor(tt.x2)), int(math.Floor(tt.y2))}, cells[len(cells)-1])

			// Consecutive cells are 8-connected
			for i := 1; i < len(cells); i++ {
				dx := cells[i][0] - cells[i-1][0]
				dy := cells[i][1] - cells[i-1][1]
				assert.LessOrEqual(t, dx*dx+dy*dy, 2)
			}
		})
	}
}
