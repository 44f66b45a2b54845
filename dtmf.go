package dtmf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/go-audio/audio"

	"github.com/hiway/dtmf/pkg/oscillator"
	"github.com/hiway/dtmf/pkg/tone"
	"github.com/hiway/dtmf/pkg/volume"
)

const (
	// SampleRate is the default number of samples per second
	SampleRate = 48000
	// ChannelCount is the default channel count (stereo)
	ChannelCount = 2
	// BitDepthInBytes represents 16-bit audio
	BitDepthInBytes = 2
)

// Generator is a never-ending source of samples, such as an
// *oscillator.Oscillator.
type Generator interface {
	Next() float64
}

// Options contains parameters for rendering a finite burst of a dual tone
type Options struct {
	Symbol tone.Symbol
	// Duration of the burst
	Duration time.Duration
	// Volume level (0.0 to 1.0)
	Volume float32
	// SampleRate in Hz, SampleRate if zero
	SampleRate int
	// ChannelCount, ChannelCount if zero
	ChannelCount int
}

// DefaultOptions returns the default tone options
func DefaultOptions() Options {
	return Options{
		Symbol:       tone.Tone1,
		Duration:     100 * time.Millisecond,
		Volume:       0.5,
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
	}
}

func (o Options) rate() int {
	if o.SampleRate <= 0 {
		return SampleRate
	}
	return o.SampleRate
}

func (o Options) channels() int {
	if o.ChannelCount <= 0 {
		return ChannelCount
	}
	return o.ChannelCount
}

// Frames returns the number of sample frames covering o.Duration.
func (o Options) Frames() int {
	return int(float64(o.rate()) * o.Duration.Seconds())
}

// Sequence validates the options and returns the oscillator factory for them.
func (o Options) Sequence() (oscillator.Sequence, error) {
	if !o.Symbol.Valid() {
		return oscillator.Sequence{}, fmt.Errorf("invalid dtmf symbol %q", o.Symbol)
	}
	if o.Duration < 0 {
		return oscillator.Sequence{}, fmt.Errorf("tone duration cannot be negative, got %v", o.Duration)
	}
	vol, err := volume.New(o.Volume)
	if err != nil {
		return oscillator.Sequence{}, err
	}
	return oscillator.Sequence{
		Symbol:     o.Symbol,
		Volume:     vol,
		SampleRate: float64(o.rate()),
	}, nil
}

// Render pulls frames samples from gen and returns them as interleaved 16-bit
// PCM, copying each sample to every channel. Non-positive counts render nothing.
func Render(gen Generator, frames, channels int) []int16 {
	if frames <= 0 || channels <= 0 {
		return []int16{}
	}
	data := make([]int16, frames*channels)
	for i := 0; i < frames; i++ {
		v := toInt16(gen.Next())
		for ch := 0; ch < channels; ch++ {
			data[i*channels+ch] = v
		}
	}
	return data
}

func toInt16(v float64) int16 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(math.Round(v))
}

// GenerateTone renders opts as signed 16-bit little-endian PCM bytes.
func GenerateTone(opts Options) ([]byte, error) {
	seq, err := opts.Sequence()
	if err != nil {
		return nil, err
	}
	data := Render(seq.NewOscillator(), opts.Frames(), opts.channels())

	buf := new(bytes.Buffer)
	buf.Grow(len(data) * BitDepthInBytes)
	if err := binary.Write(buf, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("failed to write tone data to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderBuffer renders opts into a go-audio integer PCM buffer.
func RenderBuffer(opts Options) (*audio.IntBuffer, error) {
	seq, err := opts.Sequence()
	if err != nil {
		return nil, err
	}
	pcm := Render(seq.NewOscillator(), opts.Frames(), opts.channels())

	data := make([]int, len(pcm))
	for i, v := range pcm {
		data[i] = int(v)
	}
	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: opts.channels(),
			SampleRate:  opts.rate(),
		},
		Data:           data,
		SourceBitDepth: BitDepthInBytes * 8,
	}, nil
}
