package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/hiway/dtmf/pkg/tone"
	"github.com/hiway/dtmf/pkg/volume"
)

func TestValidate(t *testing.T) {
	good := &Profile{Name: "key", Duration: 80, Volume: 0.4}
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if good.Length() != 80*time.Millisecond {
		t.Errorf("unexpected length %v", good.Length())
	}

	bad := []*Profile{
		{Duration: 0, Volume: 0.5},
		{Duration: -5, Volume: 0.5},
		{Duration: 50, Volume: 1.5},
		{Duration: 50, Volume: 0.5, Symbol: "E"},
		{Duration: 50, Volume: 0.5, Symbol: "##"},
	}
	for i, p := range bad {
		if err := p.Validate(); err == nil {
			t.Errorf("case %d: expected error for %+v", i, p)
		}
	}

	p := &Profile{Duration: 50, Volume: -0.1}
	if err := p.Validate(); !errors.Is(err, volume.ErrInvalidLevel) {
		t.Errorf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	p := &Profile{Duration: 50, Volume: 0.5}
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
	if sym, ok := p.Resolve("7"); !ok || sym != tone.Tone7 {
		t.Errorf("expected 7, got %s/%v", sym, ok)
	}
	if _, ok := p.Resolve("\r"); ok {
		t.Error("expected carriage return not to resolve without a fixed symbol")
	}

	fixed := &Profile{Duration: 50, Volume: 0.5, Symbol: "#"}
	if err := fixed.Validate(); err != nil {
		t.Fatal(err)
	}
	if sym, ok := fixed.Resolve("\r"); !ok || sym != tone.TonePound {
		t.Errorf("expected #, got %s/%v", sym, ok)
	}
}
