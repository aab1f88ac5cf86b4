package playback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"sync"
	"time"
)

// ErrBlocked means audio could not be started on this machine. Callers
// treat it as "play silently" rather than as a failure.
var ErrBlocked = errors.New("audio playback blocked")

// Player starts audio playback.
type Player interface {
	Play(ctx context.Context, data []byte, mimeType string) (Playback, error)
}

// Playback is one running clip.
type Playback interface {
	// Done is closed when the clip ends or is stopped.
	Done() <-chan struct{}
	Stop()
}

type Config struct {
	Command string
	Args    []string
}

func DefaultConfig() Config {
	return Config{
		Command: "ffplay",
		Args:    []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-i", "-"},
	}
}

// ExecPlayer pipes audio into an external player process.
type ExecPlayer struct {
	config   Config
	lookPath func(string) (string, error)
}

func NewExecPlayer(config Config) *ExecPlayer {
	return &ExecPlayer{config: config, lookPath: exec.LookPath}
}

// Available reports whether the player binary can be found.
func (p *ExecPlayer) Available() bool {
	_, err := p.lookPath(p.config.Command)
	return err == nil
}

func (p *ExecPlayer) Play(ctx context.Context, data []byte, mimeType string) (Playback, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no audio", ErrBlocked)
	}

	path, err := p.lookPath(p.config.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found: %v", ErrBlocked, p.config.Command, err)
	}

	playCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(playCtx, path, p.config.Args...)
	cmd.Stdin = bytes.NewReader(data)

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("%w: start %s: %v", ErrBlocked, p.config.Command, err)
	}
	log.Printf("Playback: playing %d bytes (%s) via %s", len(data), mimeType, p.config.Command)

	pb := &execPlayback{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(pb.done)
		start := time.Now()
		if err := cmd.Wait(); err != nil && playCtx.Err() == nil {
			log.Printf("Playback: player exited with error after %v: %v", time.Since(start), err)
		}
		cancel()
	}()
	return pb, nil
}

type execPlayback struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

func (p *execPlayback) Done() <-chan struct{} {
	return p.done
}

// Stop kills the player and waits for it to exit.
func (p *execPlayback) Stop() {
	p.stopOnce.Do(p.cancel)
	<-p.done
}

// Nop plays nothing; every call reports ErrBlocked.
type Nop struct{}

func (Nop) Play(ctx context.Context, data []byte, mimeType string) (Playback, error) {
	return nil, ErrBlocked
}

// FallbackDuration estimates how long a spoken reply lasts when audio could
// not be played.
func FallbackDuration(text string, perRune, padding time.Duration) time.Duration {
	return time.Duration(len([]rune(text)))*perRune + padding
}
