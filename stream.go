package dtmf

import (
	"github.com/faiface/beep"

	"github.com/hiway/dtmf/pkg/volume"
)

// Streamer adapts a Generator to beep.Streamer. Samples are divided by the
// full-scale amplitude so a full-volume tone peaks at 1.0, and the same value
// is written to both channels. It never drains.
type Streamer struct {
	gen Generator
}

// NewStreamer wraps gen.
func NewStreamer(gen Generator) *Streamer {
	return &Streamer{gen: gen}
}

// Stream fills samples and always reports ok.
func (s *Streamer) Stream(samples [][2]float64) (n int, ok bool) {
	const scale = 2 * volume.MaxCoefficient
	for i := range samples {
		v := s.gen.Next() / scale
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

// Err always returns nil.
func (s *Streamer) Err() error {
	return nil
}

// Stream returns a beep streamer limited to opts.Duration, along with the
// format it is sampled at.
func Stream(opts Options) (beep.Streamer, beep.Format, error) {
	seq, err := opts.Sequence()
	if err != nil {
		return nil, beep.Format{}, err
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(opts.rate()),
		NumChannels: 2,
		Precision:   BitDepthInBytes,
	}
	return beep.Take(opts.Frames(), NewStreamer(seq.NewOscillator())), format, nil
}
