package vmath

// PairKey is the canonical key of an unordered index pair: lo*n + hi with lo < hi
type PairKey uint64

// MakePairKey packs the unordered pair (i, j) for a population of n
func MakePairKey(i, j, n int) PairKey {
	if i > j {
		i, j = j, i
	}
	return PairKey(uint64(i)*uint64(n) + uint64(j))
}

// Split unpacks the key into (lo, hi) for the same population n
func (k PairKey) Split(n int) (int, int) {
	if n <= 0 {
		return 0, 0
	}
	return int(uint64(k) / uint64(n)), int(uint64(k) % uint64(n))
}
