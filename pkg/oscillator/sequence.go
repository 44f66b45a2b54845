package oscillator

import (
	"github.com/hiway/dtmf/pkg/tone"
	"github.com/hiway/dtmf/pkg/volume"
)

// Sequence holds the configuration of a dual tone and hands out fresh
// oscillators for it, each starting from phase zero.
type Sequence struct {
	Symbol     tone.Symbol
	Volume     volume.Volume
	SampleRate float64
}

// NewOscillator returns an oscillator that shares no state with any other.
func (s Sequence) NewOscillator() *Oscillator {
	return New(s.Symbol, s.Volume, s.SampleRate)
}
