package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Handler observes a chunk of bytes passing through the terminal.
type Handler func(data []byte) error

// Terminal runs a shell in a PTY, relaying the user's keystrokes to it and
// its output back, and lets handlers observe both directions.
type Terminal struct {
	log       zerolog.Logger
	shellPath string
	stdin     *os.File
	stdout    io.Writer
	ptyFile   *os.File
	cmd       *exec.Cmd
	restore   func()
	stopOnce  sync.Once
	stopChan  chan struct{}

	// Called with every chunk typed by the user and every chunk printed by the shell.
	HandleInput  Handler
	HandleOutput Handler
}

// NewTerminal creates a Terminal that will run shellPath.
func NewTerminal(shellPath string, log zerolog.Logger, stdin *os.File, stdout io.Writer) *Terminal {
	return &Terminal{
		log:       log.With().Str("component", "terminal").Logger(),
		shellPath: shellPath,
		stdin:     stdin,
		stdout:    stdout,
		restore:   func() {},
		stopChan:  make(chan struct{}),
	}
}

// Start launches the shell and begins relaying I/O. When stdin is a
// terminal it is switched to raw mode until Stop.
func (t *Terminal) Start() error {
	t.log.Debug().Str("shell", t.shellPath).Msg("Starting terminal")

	t.cmd = exec.Command(t.shellPath)
	f, err := pty.Start(t.cmd)
	if err != nil {
		return fmt.Errorf("failed to start pty: %w", err)
	}
	t.ptyFile = f

	fd := int(t.stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to set raw mode: %w", err)
		}
		t.restore = func() {
			if err := term.Restore(fd, oldState); err != nil {
				t.log.Warn().Err(err).Msg("Failed to restore terminal state")
			}
		}
		go t.handleResizes()
	}

	go t.relay("input", t.stdin, t.ptyFile, t.HandleInput)
	go t.relay("output", t.ptyFile, t.stdout, t.HandleOutput)

	t.log.Info().Msg("Terminal session started")
	return nil
}

// Stop closes the PTY and restores the terminal. It is safe to call more than once.
func (t *Terminal) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
		if t.ptyFile != nil {
			t.ptyFile.Close()
		}
		t.restore()
		t.log.Info().Msg("Terminal session stopped")
	})
}

// Wait blocks until the shell exits, then stops the terminal.
func (t *Terminal) Wait() error {
	if t.cmd == nil || t.cmd.Process == nil {
		return errors.New("command not started")
	}
	state, err := t.cmd.Process.Wait()
	t.Stop()
	if err != nil {
		return fmt.Errorf("error waiting for command: %w", err)
	}
	t.log.Debug().Str("status", state.String()).Msg("Shell process exited")
	return nil
}

func (t *Terminal) handleResizes() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	defer signal.Stop(ch)

	t.watchResizes(ch, func() error {
		return pty.InheritSize(t.stdin, t.ptyFile)
	})
}

// watchResizes calls resize once up front and again for every signal on ch
// until the terminal stops. A signal already pending counts as the first.
func (t *Terminal) watchResizes(ch chan os.Signal, resize func() error) {
	select {
	case ch <- syscall.SIGWINCH:
	default:
	}
	for {
		select {
		case <-ch:
			if err := resize(); err != nil {
				t.log.Warn().Err(err).Msg("Failed to resize PTY")
			}
		case <-t.stopChan:
			return
		}
	}
}

// relay copies src to dst, showing every chunk to h first. Any read or
// write failure ends the session.
func (t *Terminal) relay(direction string, src io.Reader, dst io.Writer, h Handler) {
	log := t.log.With().Str("direction", direction).Logger()
	buf := make([]byte, 4096)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			data := buf[:n]
			if h != nil {
				if herr := h(data); herr != nil {
					log.Error().Err(herr).Msg("Handler failed")
				}
			}
			if _, werr := dst.Write(data); werr != nil {
				log.Error().Err(werr).Msg("Write error")
				t.Stop()
				return
			}
		}
		if err != nil {
			if closedErr(err) {
				log.Debug().Err(err).Msg("Relay finished")
			} else {
				log.Error().Err(err).Msg("Read error")
			}
			t.Stop()
			return
		}
	}
}

func closedErr(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "input/output error") || strings.Contains(msg, "file descriptor closed")
}
