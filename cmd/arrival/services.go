package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/leonardotrapani/arrival/internal/config"
	"github.com/leonardotrapani/arrival/internal/notify"
	"github.com/leonardotrapani/arrival/internal/playback"
	"github.com/leonardotrapani/arrival/internal/speech"
	"github.com/leonardotrapani/arrival/internal/transcriber"
)

// services holds the provider clients built from the config and swaps them
// when the config file changes. Interactions already running keep the
// clients they started with.
type services struct {
	mu          sync.RWMutex
	transcriber transcriber.Transcriber
	chain       *speech.Chain
	player      playback.Player
	notifier    notify.Notifier
}

func newServices(cfg *config.Config) (*services, error) {
	s := &services{}
	if err := s.apply(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *services) apply(cfg *config.Config) error {
	t, err := transcriber.New(cfg.ToTranscriberConfig())
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	primary, secondary := cfg.ToSpeechConfigs()
	chain, err := speech.NewChainFromConfig(primary, secondary)
	if err != nil {
		return fmt.Errorf("failed to create speech chain: %w", err)
	}

	var player playback.Player = playback.Nop{}
	if cfg.Playback.Command != "" {
		exec := playback.NewExecPlayer(cfg.ToPlaybackConfig())
		if !exec.Available() {
			log.Printf("Services: player %q not found, replies will be silent", cfg.Playback.Command)
		}
		player = exec
	}

	s.mu.Lock()
	s.transcriber = t
	s.chain = chain
	s.player = player
	s.notifier = notify.New(cfg.Notifications.Enabled, cfg.Notifications.Type)
	s.mu.Unlock()
	return nil
}

// reload is registered with the config manager.
func (s *services) reload(cfg *config.Config) {
	if err := s.apply(cfg); err != nil {
		log.Printf("Services: keeping previous providers: %v", err)
		return
	}
	log.Printf("Services: providers reloaded (transcription=%s, speech=%s)", cfg.Transcription.Provider, cfg.Speech.Primary.Provider)
}

func (s *services) Transcribe(ctx context.Context, wav []byte) (string, error) {
	s.mu.RLock()
	t := s.transcriber
	s.mu.RUnlock()
	return t.Transcribe(ctx, wav)
}

func (s *services) Name() string {
	return "services"
}

func (s *services) Synthesize(ctx context.Context, text string) (speech.Audio, error) {
	res := s.Run(ctx, text)
	return res.Audio, res.Err
}

func (s *services) Run(ctx context.Context, text string) speech.Result {
	s.mu.RLock()
	chain := s.chain
	s.mu.RUnlock()
	return chain.Run(ctx, text)
}

func (s *services) Play(ctx context.Context, data []byte, mimeType string) (playback.Playback, error) {
	s.mu.RLock()
	p := s.player
	s.mu.RUnlock()
	return p.Play(ctx, data, mimeType)
}

func (s *services) currentNotifier() notify.Notifier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifier
}

func (s *services) RecordingChanged(on bool)     { s.currentNotifier().RecordingChanged(on) }
func (s *services) Transcribing()                { s.currentNotifier().Transcribing() }
func (s *services) Speaking(provider string)     { s.currentNotifier().Speaking(provider) }
func (s *services) Error(msg string)             { s.currentNotifier().Error(msg) }
func (s *services) Notify(title, message string) { s.currentNotifier().Notify(title, message) }
