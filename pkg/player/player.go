package player

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"

	"github.com/hiway/dtmf"
	"github.com/hiway/dtmf/pkg/profile"
	"github.com/hiway/dtmf/pkg/tone"
)

// DefaultMinSoundGap is the minimum time between playing tones
const DefaultMinSoundGap = 25 * time.Millisecond

// Player is the interface for sounding a symbol with a profile.
type Player interface {
	Play(sym tone.Symbol, p *profile.Profile) error
	Close() error
}

var (
	otoCtx  *oto.Context
	otoRate int
	once    sync.Once
	ctxErr  error
)

// initOtoContext initializes the oto context singleton. Only the first
// sample rate requested takes effect.
func initOtoContext(sampleRate int) (*oto.Context, int, error) {
	once.Do(func() {
		op := &oto.NewContextOptions{}
		op.SampleRate = sampleRate
		op.ChannelCount = dtmf.ChannelCount
		op.Format = oto.FormatSignedInt16LE

		var readyChan chan struct{}
		otoCtx, readyChan, ctxErr = oto.NewContext(op)
		if ctxErr == nil {
			<-readyChan
			otoRate = sampleRate
		}
	})
	return otoCtx, otoRate, ctxErr
}

// OtoPlayer plays dual tones through ebitengine/oto/v3.
type OtoPlayer struct {
	log           zerolog.Logger
	ctx           *oto.Context
	sampleRate    int
	minSoundGap   time.Duration
	lastSoundTime time.Time
	mu            sync.Mutex // Protects lastSoundTime and minSoundGap
}

// NewOtoPlayer creates a new player using the Oto library.
func NewOtoPlayer(sampleRate int, log zerolog.Logger) (*OtoPlayer, error) {
	ctx, rate, err := initOtoContext(sampleRate)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Oto audio context")
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}
	if rate != sampleRate {
		log.Warn().Int("requested", sampleRate).Int("actual", rate).Msg("Audio context already running at another sample rate")
	}
	log.Debug().Int("sample_rate", rate).Msg("Oto audio context initialized successfully")

	return &OtoPlayer{
		log:         log.With().Str("player_type", "oto").Logger(),
		ctx:         ctx,
		sampleRate:  rate,
		minSoundGap: DefaultMinSoundGap,
	}, nil
}

// SetMinSoundGap sets the minimum duration between tones.
func (p *OtoPlayer) SetMinSoundGap(gap time.Duration) {
	p.mu.Lock()
	p.minSoundGap = gap
	p.mu.Unlock()
	p.log.Debug().Dur("min_gap", gap).Msg("Set minimum sound gap")
}

// claim reports whether a tone may start now and, if so, records the start.
func (p *OtoPlayer) claim() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	if now.Sub(p.lastSoundTime) < p.minSoundGap {
		return false
	}
	p.lastSoundTime = now
	return true
}

// Play renders and plays sym with the duration and volume of prof. It blocks
// until playback ends.
func (p *OtoPlayer) Play(sym tone.Symbol, prof *profile.Profile) error {
	if prof.Volume <= 0 || prof.Duration <= 0 {
		p.log.Debug().Str("profile", prof.Name).Msg("Skipping playback for zero-volume or zero-duration profile")
		return nil
	}
	if !p.claim() {
		p.log.Trace().Str("symbol", sym.String()).Msg("Skipping tone due to minimum gap")
		return nil
	}

	p.log.Debug().
		Str("symbol", sym.String()).
		Str("profile", prof.Name).
		Int("duration_ms", prof.Duration).
		Float32("volume", prof.Volume).
		Msg("Generating and playing tone")

	data, err := dtmf.GenerateTone(dtmf.Options{
		Symbol:       sym,
		Duration:     prof.Length(),
		Volume:       prof.Volume,
		SampleRate:   p.sampleRate,
		ChannelCount: dtmf.ChannelCount,
	})
	if err != nil {
		return fmt.Errorf("failed to generate tone %s: %w", sym, err)
	}

	if err := p.playSound(bytes.NewReader(data)); err != nil {
		p.log.Error().Err(err).Str("symbol", sym.String()).Msg("Failed to play tone")
		return fmt.Errorf("failed to play tone %s: %w", sym, err)
	}

	p.log.Trace().Str("symbol", sym.String()).Msg("Finished playing tone")
	return nil
}

// playSound plays raw PCM from reader and waits for it to drain.
func (p *OtoPlayer) playSound(reader io.Reader) error {
	player := p.ctx.NewPlayer(reader)
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(time.Millisecond)
	}

	if err := player.Err(); err != nil {
		return fmt.Errorf("oto player error: %w", err)
	}
	return nil
}

// Close releases player resources. The oto context is process-wide and stays open.
func (p *OtoPlayer) Close() error {
	p.log.Debug().Msg("Closing OtoPlayer")
	return nil
}

// StubPlayer pulls tones through a beep stream at the pace they would play,
// without touching an audio device.
type StubPlayer struct {
	log        zerolog.Logger
	sampleRate int

	mu   sync.Mutex
	peak float64
}

// NewStubPlayer creates a new StubPlayer.
func NewStubPlayer(log zerolog.Logger) *StubPlayer {
	return &StubPlayer{
		log:        log.With().Str("player_type", "stub").Logger(),
		sampleRate: dtmf.SampleRate,
	}
}

// Play streams the tone in 10ms chunks, sleeping for each chunk's duration.
func (p *StubPlayer) Play(sym tone.Symbol, prof *profile.Profile) error {
	st, format, err := dtmf.Stream(dtmf.Options{
		Symbol:     sym,
		Duration:   prof.Length(),
		Volume:     prof.Volume,
		SampleRate: p.sampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to render tone %s: %w", sym, err)
	}

	chunk := make([][2]float64, format.SampleRate.N(10*time.Millisecond))
	frames, peak := 0, 0.0
	for {
		n, ok := st.Stream(chunk)
		for _, frame := range chunk[:n] {
			peak = math.Max(peak, math.Abs(frame[0]))
		}
		frames += n
		if n > 0 {
			time.Sleep(format.SampleRate.D(n))
		}
		if !ok {
			break
		}
	}

	p.mu.Lock()
	p.peak = peak
	p.mu.Unlock()

	p.log.Info().
		Str("symbol", sym.String()).
		Str("profile", prof.Name).
		Int("frames", frames).
		Float64("peak", peak).
		Msg("Simulated tone")
	return nil
}

// Peak returns the largest absolute sample, on a 0..1 scale, of the last tone played.
func (p *StubPlayer) Peak() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}

// Close cleans up the StubPlayer resources.
func (p *StubPlayer) Close() error {
	p.log.Debug().Msg("Closing StubPlayer")
	return nil
}
