package player

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hiway/dtmf/pkg/profile"
	"github.com/hiway/dtmf/pkg/tone"
)

func TestStubPlayer(t *testing.T) {
	p := NewStubPlayer(zerolog.Nop())
	prof := &profile.Profile{Name: "short", Duration: 5, Volume: 0.5}

	start := time.Now()
	if err := p.Play(tone.Tone4, prof); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("expected Play to take at least 5ms, took %v", elapsed)
	}
	if peak := p.Peak(); peak <= 0 || peak > 0.5 {
		t.Errorf("expected a half-volume peak in (0, 0.5], got %v", peak)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestStubPlayerRejectsBadVolume(t *testing.T) {
	p := NewStubPlayer(zerolog.Nop())
	if err := p.Play(tone.Tone4, &profile.Profile{Duration: 5, Volume: 2}); err == nil {
		t.Error("expected error for out of range volume")
	}
}

func TestOtoPlayerClaimRespectsGap(t *testing.T) {
	p := &OtoPlayer{log: zerolog.Nop(), minSoundGap: time.Hour}
	if !p.claim() {
		t.Fatal("first claim should succeed")
	}
	if p.claim() {
		t.Error("second claim within the gap should fail")
	}
	p.SetMinSoundGap(0)
	if !p.claim() {
		t.Error("claim should succeed once the gap is zero")
	}
}

func TestStubPlayerSilentProfile(t *testing.T) {
	p := NewStubPlayer(zerolog.Nop())
	if err := p.Play(tone.ToneD, &profile.Profile{Duration: 5, Volume: 0}); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if p.Peak() != 0 {
		t.Errorf("expected zero peak for a silent profile, got %v", p.Peak())
	}
}

func TestOtoPlayerSilentProfileKeepsGapFree(t *testing.T) {
	p := &OtoPlayer{log: zerolog.Nop(), minSoundGap: time.Hour}
	if err := p.Play(tone.Tone1, &profile.Profile{Name: "mute", Duration: 10, Volume: 0}); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if err := p.Play(tone.Tone1, &profile.Profile{Name: "empty", Duration: 0, Volume: 0.5}); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !p.claim() {
		t.Error("skipped profiles should not use up the minimum gap")
	}
}
