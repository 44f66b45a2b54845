package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/hiway/dtmf/pkg/profile"
	"github.com/hiway/dtmf/pkg/tone"
)

// Sources a queue can listen to.
const (
	SourceInput  = "input"
	SourceOutput = "output"
	SourceBoth   = "both"
)

const (
	DefaultSampleRate = 48000
	DefaultMinGapMs   = 25
)

// Queue defines the configuration for a tone queue.
type Queue struct {
	Name        string           `toml:"-"`       // Name is derived from map key
	Match       []string         `toml:"match"`   // Keys to match
	ProfileName string           `toml:"profile"` // Name of the profile to play
	MaxLength   int              `toml:"max_length"`
	Source      string           `toml:"source"`
	Profile     *profile.Profile `toml:"-"` // Linked after config load
}

// Validate checks if the queue configuration is valid.
func (q *Queue) Validate() error {
	if len(q.Match) == 0 {
		return fmt.Errorf("match patterns cannot be empty")
	}
	if q.ProfileName == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if q.MaxLength < 0 {
		return fmt.Errorf("max_length cannot be negative")
	}
	if q.MaxLength == 0 {
		q.MaxLength = 1
	}
	switch q.Source {
	case "":
		q.Source = SourceInput
	case SourceInput, SourceOutput, SourceBoth:
	default:
		return fmt.Errorf("unknown source %q", q.Source)
	}
	return nil
}

func (q *Queue) matches(b byte) bool {
	s := string(b)
	for _, pattern := range q.Match {
		if pattern == s {
			return true
		}
	}
	return false
}

// MatchesInput checks if a typed byte should trigger this queue.
func (q *Queue) MatchesInput(b byte) bool {
	return q.Source != SourceOutput && q.matches(b)
}

// MatchesOutput checks if a byte printed by the shell should trigger this queue.
func (q *Queue) MatchesOutput(b byte) bool {
	return q.Source != SourceInput && q.matches(b)
}

// Config holds the complete dtmf configuration.
type Config struct {
	SampleRate int                         `toml:"sample_rate"`
	MinGapMs   int64                       `toml:"min_gap_ms"`
	Shell      string                      `toml:"shell"`
	Profiles   map[string]*profile.Profile `toml:"profiles"`
	Queues     map[string]*Queue           `toml:"queues"`
}

// Default returns the built-in configuration: every keypad symbol typed
// sounds its own tone, and Enter sounds '#'.
func Default() *Config {
	keys := make([]string, 0, 20)
	for _, sym := range tone.Symbols() {
		keys = append(keys, sym.String())
	}
	keys = append(keys, "a", "b", "c", "d")

	cfg := &Config{
		SampleRate: DefaultSampleRate,
		MinGapMs:   DefaultMinGapMs,
		Profiles: map[string]*profile.Profile{
			"key":   {Duration: 90, Volume: 0.3},
			"enter": {Duration: 150, Volume: 0.3, Symbol: "#"},
		},
		Queues: map[string]*Queue{
			"keys":  {Match: keys, ProfileName: "key", MaxLength: 4},
			"enter": {Match: []string{"\r", "\n"}, ProfileName: "enter", MaxLength: 1},
		},
	}
	if err := cfg.link(zerolog.Nop()); err != nil {
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return cfg
}

// LoadConfig reads and validates configuration from a TOML file.
func LoadConfig(path string, log zerolog.Logger) (*Config, error) {
	log.Debug().Str("path", path).Msg("Loading configuration file")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Decode(string(data), log)
}

// Decode parses and validates a TOML document.
func Decode(data string, log zerolog.Logger) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if err := cfg.link(log); err != nil {
		return nil, err
	}
	log.Debug().Msg("Configuration loaded and validated successfully")
	return &cfg, nil
}

// link fills defaults, validates profiles and queues, and attaches each queue
// to its profile.
func (c *Config) link(log zerolog.Logger) error {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.SampleRate < 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.MinGapMs < 0 {
		return fmt.Errorf("min_gap_ms cannot be negative")
	}

	for name, p := range c.Profiles {
		p.Name = name
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid profile '%s': %w", name, err)
		}
		log.Debug().Str("profile", name).Msg("Validated profile")
	}

	for name, queue := range c.Queues {
		queue.Name = name
		if err := queue.Validate(); err != nil {
			return fmt.Errorf("invalid queue '%s': %w", name, err)
		}

		p, ok := c.Profiles[queue.ProfileName]
		if !ok {
			return fmt.Errorf("queue '%s' references unknown profile '%s'", name, queue.ProfileName)
		}
		queue.Profile = p

		log.Debug().
			Str("queue", name).
			Str("profile", queue.ProfileName).
			Msg("Validated and linked queue")
	}
	return nil
}
