package vmath

// Rand is the random source consumed by the simulation
// *math/rand.Rand and *FastRand both satisfy it
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// FastRand is a xorshift64 generator, cheap enough to call per pair per tick
type FastRand struct {
	state uint64
}

// NewFastRand seeds a generator
// The seed is spread with splitmix64 so small seeds do not start in a low-entropy state;
// a zero result is remapped since xorshift has a zero fixed point
func NewFastRand(seed uint64) *FastRand {
	state := splitmix64(seed)
	if state == 0 {
		state = 1
	}
	return &FastRand{state: state}
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Next returns the next raw 64-bit value
func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Intn returns a value in [0, n), 0 when n <= 0
func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a value in [0, 1) using the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Shuffle permutes s in place (Fisher-Yates)
func Shuffle(rng Rand, s []int) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
