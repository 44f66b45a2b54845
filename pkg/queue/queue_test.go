package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hiway/dtmf/pkg/config"
	"github.com/hiway/dtmf/pkg/profile"
	"github.com/hiway/dtmf/pkg/tone"
)

type recordingPlayer struct {
	mu      sync.Mutex
	played  []tone.Symbol
	block   chan struct{}
	started chan struct{}
}

func (p *recordingPlayer) Play(sym tone.Symbol, _ *profile.Profile) error {
	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	p.played = append(p.played, sym)
	p.mu.Unlock()
	return nil
}

func (p *recordingPlayer) Close() error { return nil }

func (p *recordingPlayer) snapshot() []tone.Symbol {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]tone.Symbol(nil), p.played...)
}

func newQueueConfig(t *testing.T, prof *profile.Profile, maxLength int) *config.Queue {
	t.Helper()
	if err := prof.Validate(); err != nil {
		t.Fatal(err)
	}
	return &config.Queue{Name: "test", Match: []string{"1"}, ProfileName: "p", MaxLength: maxLength, Profile: prof}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestQueuePlaysInOrder(t *testing.T) {
	p := &recordingPlayer{}
	cfg := newQueueConfig(t, &profile.Profile{Duration: 10, Volume: 0.5}, 8)
	q, err := NewQueue(cfg, p, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer q.Stop()

	for _, key := range []string{"1", "5", "#"} {
		if !q.Trigger(key) {
			t.Fatalf("Trigger(%q) rejected", key)
		}
	}
	waitFor(t, func() bool { return len(p.snapshot()) == 3 })

	got := p.snapshot()
	want := []tone.Symbol{tone.Tone1, tone.Tone5, tone.TonePound}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("played[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestQueueDropsWhenFull(t *testing.T) {
	p := &recordingPlayer{block: make(chan struct{}), started: make(chan struct{}, 1)}
	cfg := newQueueConfig(t, &profile.Profile{Duration: 10, Volume: 0.5}, 1)
	q, err := NewQueue(cfg, p, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	q.Add(tone.Tone1)
	<-p.started // player now busy with the first symbol

	if !q.Add(tone.Tone2) {
		t.Fatal("expected second symbol to fill the buffer")
	}
	if q.Add(tone.Tone3) {
		t.Error("expected third symbol to be dropped")
	}

	close(p.block)
	waitFor(t, func() bool { return len(p.snapshot()) == 2 })
	q.Stop()
}

func TestTriggerUsesFixedSymbol(t *testing.T) {
	p := &recordingPlayer{}
	cfg := newQueueConfig(t, &profile.Profile{Duration: 10, Volume: 0.5, Symbol: "A"}, 2)
	q, err := NewQueue(cfg, p, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer q.Stop()

	if !q.Trigger("\r") {
		t.Fatal("expected fixed-symbol profile to accept any key")
	}
	waitFor(t, func() bool { return len(p.snapshot()) == 1 })
	if got := p.snapshot()[0]; got != tone.ToneA {
		t.Errorf("expected A, got %s", got)
	}
}

func TestTriggerIgnoresNonSymbols(t *testing.T) {
	cfg := newQueueConfig(t, &profile.Profile{Duration: 10, Volume: 0.5}, 2)
	q, err := NewQueue(cfg, &recordingPlayer{}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer q.Stop()

	if q.Trigger("x") {
		t.Error("expected non-keypad key to be ignored")
	}
}

func TestNewQueueRequiresProfile(t *testing.T) {
	if _, err := NewQueue(&config.Queue{Name: "bare"}, &recordingPlayer{}, zerolog.Nop()); err == nil {
		t.Error("expected error for queue without profile")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	cfg := newQueueConfig(t, &profile.Profile{Duration: 10, Volume: 0.5}, 1)
	q, err := NewQueue(cfg, &recordingPlayer{}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	q.Stop()
	q.Stop()
}
