// Package keypad runs a shell session that sounds DTMF tones as keypad
// symbols are typed or printed.
package keypad

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hiway/dtmf/pkg/config"
	"github.com/hiway/dtmf/pkg/player"
	"github.com/hiway/dtmf/pkg/queue"
	"github.com/hiway/dtmf/pkg/terminal"
)

// Keypad manages the terminal session with DTMF feedback.
type Keypad struct {
	cfg      *config.Config
	term     *terminal.Terminal
	player   player.Player
	queues   []*queue.Queue
	log      zerolog.Logger
	stopOnce sync.Once
	stopChan chan struct{}
}

// New creates a Keypad that plays through the default audio device.
func New(cfg *config.Config, log zerolog.Logger) (*Keypad, error) {
	p, err := player.NewOtoPlayer(cfg.SampleRate, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player: %w", err)
	}
	p.SetMinSoundGap(time.Duration(cfg.MinGapMs) * time.Millisecond)
	return NewWithPlayer(cfg, p, log)
}

// NewWithPlayer creates a Keypad that plays through p.
func NewWithPlayer(cfg *config.Config, p player.Player, log zerolog.Logger) (*Keypad, error) {
	log = log.With().Str("component", "keypad").Logger()

	names := make([]string, 0, len(cfg.Queues))
	for name := range cfg.Queues {
		names = append(names, name)
	}
	sort.Strings(names)

	queues := make([]*queue.Queue, 0, len(names))
	for _, name := range names {
		q, err := queue.NewQueue(cfg.Queues[name], p, log)
		if err != nil {
			for _, q := range queues {
				q.Stop()
			}
			return nil, fmt.Errorf("failed to create queue '%s': %w", name, err)
		}
		queues = append(queues, q)
	}

	shell := cfg.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}

	k := &Keypad{
		cfg:      cfg,
		term:     terminal.NewTerminal(shell, log, os.Stdin, os.Stdout),
		player:   p,
		queues:   queues,
		log:      log,
		stopChan: make(chan struct{}),
	}
	k.term.HandleInput = k.handleInput
	k.term.HandleOutput = k.handleOutput

	return k, nil
}

// Start runs the session until the shell exits or ctx is canceled.
func (k *Keypad) Start(ctx context.Context) error {
	if err := k.term.Start(); err != nil {
		return fmt.Errorf("failed to start terminal: %w", err)
	}

	k.log.Info().Int("queues", len(k.queues)).Msg("Keypad started")

	go func() {
		select {
		case <-ctx.Done():
			k.log.Info().Msg("Context canceled, stopping keypad")
			k.Stop()
		case <-k.stopChan:
		}
	}()

	err := k.term.Wait()
	k.Stop()
	if err != nil {
		return fmt.Errorf("terminal exited with error: %w", err)
	}
	return nil
}

// Stop shuts down the terminal, the queues and the player.
func (k *Keypad) Stop() {
	k.stopOnce.Do(func() {
		close(k.stopChan)
		k.term.Stop()
		for _, q := range k.queues {
			q.Stop()
		}
		if err := k.player.Close(); err != nil {
			k.log.Error().Err(err).Msg("Error closing audio player")
		}
		k.log.Info().Msg("Keypad stopped")
	})
}

func (k *Keypad) handleInput(data []byte) error {
	for _, b := range data {
		for _, q := range k.queues {
			if q.Config.MatchesInput(b) {
				k.log.Trace().Str("queue", q.Config.Name).Str("char", string(b)).Msg("Input matched queue pattern")
				q.Trigger(string(b))
			}
		}
	}
	return nil
}

func (k *Keypad) handleOutput(data []byte) error {
	for _, b := range data {
		for _, q := range k.queues {
			if q.Config.MatchesOutput(b) {
				k.log.Trace().Str("queue", q.Config.Name).Str("char", string(b)).Msg("Output matched queue pattern")
				q.Trigger(string(b))
			}
		}
	}
	return nil
}
