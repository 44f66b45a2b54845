package oscillator

import (
	"math"

	"github.com/hiway/dtmf/pkg/tone"
)

// Phase holds the low and high group angles of a dual tone, in radians.
// The same shape is used for per-sample phase steps.
type Phase struct {
	Low  float64
	High float64
}

// StepFor returns the per-sample angular increment of each component of pair
// at sampleRate. sampleRate must be positive; this is not checked.
func StepFor(pair tone.Pair, sampleRate float64) Phase {
	base := 2 * math.Pi / sampleRate
	return Phase{Low: pair.Low * base, High: pair.High * base}
}

// WaveSample returns sin(Low) + sin(High), which lies in [-2, 2].
func (p Phase) WaveSample() float64 {
	return math.Sin(p.Low) + math.Sin(p.High)
}

// Advanced returns p advanced by step.
func (p Phase) Advanced(step Phase) Phase {
	return Phase{Low: p.Low + step.Low, High: p.High + step.High}
}

// Advance adds step to p in place. Angles are never wrapped.
func (p *Phase) Advance(step Phase) {
	p.Low += step.Low
	p.High += step.High
}
