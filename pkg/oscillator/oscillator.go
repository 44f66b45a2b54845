// Package oscillator generates dual tone waves sample by sample.
//
// An Oscillator is a pull-based, never-ending source: every call to Next
// returns a sample and there is no end-of-stream. It is not safe for
// concurrent use; callers sharing one must serialize Next and volume changes.
package oscillator

import (
	"github.com/hiway/dtmf/pkg/tone"
	"github.com/hiway/dtmf/pkg/volume"
)

// Oscillator produces the dual tone wave of a single symbol.
type Oscillator struct {
	symbol     tone.Symbol
	sampleRate float64
	volume     volume.Volume

	phase Phase
	step  Phase
}

// New creates an oscillator for symbol at sampleRate, starting at phase zero.
// sampleRate must be positive and finite; other values give non-finite
// samples rather than an error.
func New(symbol tone.Symbol, vol volume.Volume, sampleRate float64) *Oscillator {
	return &Oscillator{
		symbol:     symbol,
		sampleRate: sampleRate,
		volume:     vol,
		step:       StepFor(symbol.Pair(), sampleRate),
	}
}

// Next returns the sample at the current phase scaled by the current volume
// coefficient, then advances the phase. The first sample is always 0.
func (o *Oscillator) Next() float64 {
	sample := o.phase.WaveSample() * o.volume.Coefficient()
	o.phase.Advance(o.step)
	return sample
}

// Fill writes the next len(buf) samples into buf.
func (o *Oscillator) Fill(buf []float64) {
	for i := range buf {
		buf[i] = o.Next()
	}
}

// Symbol returns the symbol being generated.
func (o *Oscillator) Symbol() tone.Symbol { return o.symbol }

// SampleRate returns the sample rate the phase step was derived from.
func (o *Oscillator) SampleRate() float64 { return o.sampleRate }

// Volume returns the current volume.
func (o *Oscillator) Volume() volume.Volume { return o.volume }

// SetVolume replaces the volume. It applies from the next sample on, with no
// ramping.
func (o *Oscillator) SetVolume(v volume.Volume) { o.volume = v }

// SetLevel changes the volume level in place. An invalid level is rejected
// and the current volume is kept.
func (o *Oscillator) SetLevel(level float32) error {
	return o.volume.SetLevel(level)
}

// Phase returns the phase the next sample will be taken at.
func (o *Oscillator) Phase() Phase { return o.phase }

// Step returns the per-sample phase increment.
func (o *Oscillator) Step() Phase { return o.step }
