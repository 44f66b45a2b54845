package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"github.com/hiway/dtmf"
	"github.com/hiway/dtmf/pkg/config"
	"github.com/hiway/dtmf/pkg/keypad"
	"github.com/hiway/dtmf/pkg/player"
	"github.com/hiway/dtmf/pkg/profile"
	"github.com/hiway/dtmf/pkg/tone"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a TOML config file (skips the default search)")
		debug      = flag.Bool("debug", false, "enable debug logging")
		play       = flag.String("play", "", "play a single keypad symbol and exit")
		duration   = flag.Int("duration", 250, "tone duration in milliseconds for -play")
		level      = flag.Float64("volume", 0.5, "volume from 0.0 to 1.0 for -play")
		shell      = flag.String("shell", "", "shell to run (defaults to $SHELL)")
		dryRun     = flag.Bool("dry-run", false, "render tones without opening an audio device")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := loadConfig(*configPath, log)
	if *shell != "" {
		cfg.Shell = *shell
	}

	if *play != "" {
		if err := playOnce(cfg, *play, *duration, float32(*level), *dryRun, log); err != nil {
			log.Fatal().Err(err).Str("symbol", *play).Msg("Failed to play tone")
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	var k *keypad.Keypad
	var err error
	if *dryRun {
		k, err = keypad.NewWithPlayer(cfg, player.NewStubPlayer(log), log)
	} else {
		k, err = keypad.New(cfg, log)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create keypad")
	}
	if err := k.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Keypad session ended with error")
		os.Exit(1)
	}
}

// loadConfig returns the config at path, or, when path is empty, the
// built-in defaults replaced by any config file found in the
// system, user and local locations, later locations winning.
func loadConfig(path string, log zerolog.Logger) *config.Config {
	if path != "" {
		cfg, err := config.LoadConfig(path, log)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to load config")
		}
		return cfg
	}

	candidates := []string{"/usr/local/etc/dtmf.toml"}
	if userPath, err := xdg.SearchConfigFile("dtmf/dtmf.toml"); err == nil {
		candidates = append(candidates, userPath)
	}
	candidates = append(candidates, "./dtmf.toml")

	cfg := config.Default()
	for _, file := range candidates {
		if _, err := os.Stat(file); err != nil {
			if !os.IsNotExist(err) {
				log.Warn().Err(err).Str("path", file).Msg("Error checking config file")
			}
			continue
		}
		loaded, err := config.LoadConfig(file, log)
		if err != nil {
			log.Warn().Err(err).Str("path", file).Msg("Failed to load config file")
			continue
		}
		cfg = loaded
		log.Debug().Str("path", file).Msg("Loaded config")
	}
	return cfg
}

func playOnce(cfg *config.Config, label string, durationMs int, level float32, dryRun bool, log zerolog.Logger) error {
	sym, err := tone.ParseSymbol(label)
	if err != nil {
		return err
	}
	prof := &profile.Profile{Name: "cli", Duration: durationMs, Volume: level}
	if err := prof.Validate(); err != nil {
		return err
	}

	if dryRun {
		buf, err := dtmf.RenderBuffer(dtmf.Options{
			Symbol:     sym,
			Duration:   prof.Length(),
			Volume:     prof.Volume,
			SampleRate: cfg.SampleRate,
		})
		if err != nil {
			return err
		}
		peak := 0
		for _, v := range buf.Data {
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		log.Info().
			Str("symbol", sym.String()).
			Int("frames", buf.NumFrames()).
			Int("sample_rate", buf.Format.SampleRate).
			Int("peak", peak).
			Msg("Rendered tone")

		p := player.NewStubPlayer(log)
		defer p.Close()
		return p.Play(sym, prof)
	}

	p, err := player.NewOtoPlayer(cfg.SampleRate, log)
	if err != nil {
		return err
	}
	defer p.Close()
	return p.Play(sym, prof)
}
