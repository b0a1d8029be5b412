package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/synapse/vmath"
)

const (
	crackDuration  = 120 * time.Millisecond
	rumbleBase     = 900 * time.Millisecond
	rumblePerFork  = 80 * time.Millisecond
	rumbleMax      = 2500 * time.Millisecond
	rumbleCutoff   = 180.0
	crackCutoff    = 2400.0
	rumbleAttack   = 40 * time.Millisecond
	crackAttack    = 2 * time.Millisecond
	thunderSubFreq = 42.0
)

// ThunderDuration is the cue length for a strike with the given branch count
func ThunderDuration(branches int) time.Duration {
	d := rumbleBase + time.Duration(max(branches-1, 0))*rumblePerFork
	return min(d, rumbleMax)
}

// Thunder builds the cue for one strike: a filtered noise crack over a low rumble
// Louder and longer with more branches; energy in [0, 1] scales the crack
func Thunder(branches int, energy, volume float64, rate beep.SampleRate, rng vmath.Rand) beep.Streamer {
	length := ThunderDuration(branches)

	crack := newEnvelope(
		newLowpass(newOscillator(0, crackDuration, WaveNoise, rate, rng), crackCutoff, rate),
		crackDuration, crackAttack, 6, rate)

	rumble := newEnvelope(
		newLowpass(newOscillator(0, length, WaveNoise, rate, rng), rumbleCutoff, rate),
		length, rumbleAttack, 3, rate)

	sub := newEnvelope(
		newOscillator(thunderSubFreq, length, WaveSine, rate, rng),
		length, rumbleAttack, 4, rate)

	mixed := beep.Mix(
		newVolume(crack, 0.6*vmath.Clamp01(energy)),
		newVolume(rumble, 2.5),
		newVolume(sub, 0.25),
	)
	return newVolume(mixed, volume)
}
