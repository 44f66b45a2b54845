package queue

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hiway/dtmf/pkg/config"
	"github.com/hiway/dtmf/pkg/player"
	"github.com/hiway/dtmf/pkg/tone"
)

// Queue buffers triggered symbols for one configured queue and plays them in
// order on its own goroutine.
type Queue struct {
	Config   *config.Queue
	player   player.Player
	log      zerolog.Logger
	itemChan chan tone.Symbol
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

// NewQueue creates a queue and starts its playback goroutine.
func NewQueue(cfg *config.Queue, player player.Player, log zerolog.Logger) (*Queue, error) {
	if cfg.Profile == nil {
		return nil, fmt.Errorf("queue '%s' has nil profile configuration", cfg.Name)
	}
	size := cfg.MaxLength
	if size < 1 {
		size = 1
	}

	q := &Queue{
		Config:   cfg,
		player:   player,
		log:      log.With().Str("queue", cfg.Name).Logger(),
		itemChan: make(chan tone.Symbol, size),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}

	go q.run()

	return q, nil
}

// Trigger resolves a matched key through the queue's profile and enqueues the
// resulting symbol. It reports false if the key has no symbol or the queue
// is full.
func (q *Queue) Trigger(key string) bool {
	sym, ok := q.Config.Profile.Resolve(key)
	if !ok {
		q.log.Trace().Str("key", key).Msg("Key has no dtmf symbol")
		return false
	}
	return q.Add(sym)
}

// Add attempts to queue a symbol for playback, dropping it if the queue is full.
func (q *Queue) Add(sym tone.Symbol) bool {
	select {
	case q.itemChan <- sym:
		q.log.Trace().Str("symbol", sym.String()).Msg("Symbol added to queue")
		return true
	default:
		q.log.Debug().Str("symbol", sym.String()).Msg("Queue full, dropping symbol")
		return false
	}
}

// Stop signals the queue to stop and waits for the current tone to finish.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		q.log.Debug().Msg("Stopping queue")
		close(q.stopChan)
	})
	<-q.done
}

func (q *Queue) run() {
	q.log.Debug().Msg("Queue processor started")
	defer q.log.Debug().Msg("Queue processor stopped")
	defer close(q.done)

	for {
		select {
		case <-q.stopChan:
			return
		case sym := <-q.itemChan:
			prof := q.Config.Profile
			q.log.Trace().
				Str("symbol", sym.String()).
				Int("duration", prof.Duration).
				Float32("volume", prof.Volume).
				Msg("Playing tone for queued symbol")

			if err := q.player.Play(sym, prof); err != nil {
				q.log.Error().Err(err).Str("symbol", sym.String()).Msg("Failed to play tone")
			}
		}
	}
}
