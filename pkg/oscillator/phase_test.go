package oscillator

import (
	"math"
	"testing"

	"github.com/hiway/dtmf/pkg/tone"
)

func TestStepFor(t *testing.T) {
	step := StepFor(tone.Tone1.Pair(), 8000)
	if math.Abs(step.Low-0.5474) > 1e-3 {
		t.Errorf("expected low step ~0.5474, got %f", step.Low)
	}
	if math.Abs(step.High-0.9498) > 1e-3 {
		t.Errorf("expected high step ~0.9498, got %f", step.High)
	}

	for _, sym := range tone.Symbols() {
		pair := sym.Pair()
		step := StepFor(pair, 44100)
		if math.Abs(step.Low-2*math.Pi*pair.Low/44100) > 1e-12 {
			t.Errorf("%s: low step %v does not match 2*pi*f/rate", sym, step.Low)
		}
		if math.Abs(step.High-2*math.Pi*pair.High/44100) > 1e-12 {
			t.Errorf("%s: high step %v does not match 2*pi*f/rate", sym, step.High)
		}
	}
}

func TestWaveSample(t *testing.T) {
	if got := (Phase{}).WaveSample(); got != 0 {
		t.Errorf("expected 0 at zero phase, got %v", got)
	}
	p := Phase{Low: math.Pi / 2, High: math.Pi / 2}
	if got := p.WaveSample(); math.Abs(got-2) > 1e-12 {
		t.Errorf("expected 2 at coinciding peaks, got %v", got)
	}
}

func TestAdvance(t *testing.T) {
	step := Phase{Low: 0.25, High: 0.5}
	var p Phase
	for i := 0; i < 4; i++ {
		p.Advance(step)
	}
	if p.Low != 1 || p.High != 2 {
		t.Errorf("expected {1 2}, got %+v", p)
	}

	q := p.Advanced(step)
	if q.Low != 1.25 || q.High != 2.5 {
		t.Errorf("expected {1.25 2.5}, got %+v", q)
	}
	if p.Low != 1 || p.High != 2 {
		t.Errorf("Advanced mutated receiver: %+v", p)
	}
}

func TestAdvanceDoesNotWrap(t *testing.T) {
	step := Phase{Low: math.Pi, High: math.Pi}
	var p Phase
	for i := 0; i < 10; i++ {
		p.Advance(step)
	}
	if p.Low < 9*math.Pi {
		t.Errorf("phase wrapped: %v", p.Low)
	}
}
