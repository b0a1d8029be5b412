package graph

// MaxEncounters caps the encounter count used for scoring
const MaxEncounters = 10

// Familiarity is the memory of one pair having been within range
type Familiarity struct {
	LastSeen   float64
	Encounters int
}

// Score returns the familiarity in [0, 1] at time now
// Full strength until decayTime has passed since LastSeen, linear ramp to 0 at maxAge, 0 after
func (f Familiarity) Score(now, decayTime, maxAge float64) float64 {
	age := now - f.LastSeen
	if age >= maxAge || f.Encounters <= 0 {
		return 0
	}

	n := f.Encounters
	if n > MaxEncounters {
		n = MaxEncounters
	}
	normalized := float64(n) / MaxEncounters

	decay := 1.0
	if age > decayTime {
		span := maxAge - decayTime
		if span <= 0 {
			return 0
		}
		decay = 1 - (age-decayTime)/span
	}
	if decay < 0 {
		decay = 0
	}
	return normalized * decay
}

// Expired reports whether the record should be forgotten
func (f Familiarity) Expired(now, maxAge float64) bool {
	return now-f.LastSeen >= maxAge
}
