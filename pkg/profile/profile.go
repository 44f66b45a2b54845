package profile

import (
	"errors"
	"fmt"
	"time"

	"github.com/hiway/dtmf/pkg/tone"
	"github.com/hiway/dtmf/pkg/volume"
)

// Profile defines how a triggered tone sounds, as read from the config file.
type Profile struct {
	Name     string  `toml:"-"`        // Name is derived from the map key in TOML
	Symbol   string  `toml:"symbol"`   // Fixed symbol to play; empty plays the matched key
	Duration int     `toml:"duration"` // Duration in milliseconds
	Volume   float32 `toml:"volume"`   // Volume (0.0 to 1.0)

	fixed tone.Symbol
}

// Validate checks the profile and resolves its fixed symbol, if any.
func (p *Profile) Validate() error {
	if p.Duration <= 0 {
		return errors.New("profile duration must be positive")
	}
	if _, err := volume.New(p.Volume); err != nil {
		return fmt.Errorf("profile volume: %w", err)
	}
	p.fixed = 0
	if p.Symbol != "" {
		sym, err := tone.ParseSymbol(p.Symbol)
		if err != nil {
			return fmt.Errorf("profile symbol: %w", err)
		}
		p.fixed = sym
	}
	return nil
}

// Resolve picks the symbol to sound for a matched key: the fixed symbol when
// one is configured, otherwise the key itself if it is a keypad symbol.
func (p *Profile) Resolve(key string) (tone.Symbol, bool) {
	if p.fixed != 0 {
		return p.fixed, true
	}
	sym, err := tone.ParseSymbol(key)
	if err != nil {
		return 0, false
	}
	return sym, true
}

// Length returns Duration as a time.Duration.
func (p *Profile) Length() time.Duration {
	return time.Duration(p.Duration) * time.Millisecond
}
