package speech

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyAudio is reported when a provider answers 2xx with no bytes.
	ErrEmptyAudio = errors.New("provider returned empty audio")
	// ErrChainExhausted is returned when every provider in a chain failed.
	ErrChainExhausted = errors.New("all speech providers failed")
)

// Audio is a synthesized clip.
type Audio struct {
	Data     []byte
	MimeType string
}

// Synthesizer turns reply text into audio.
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string) (Audio, error)
}

// ProviderError is a failed synthesis call. Fallback is set when the
// provider explicitly allowed the caller to try the next provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Fallback   bool
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Provider, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Role selects which contract an "endpoint" provider speaks.
type Role string

const (
	RolePrimary   Role = "primary"
	RoleSecondary Role = "secondary"
)

// Config describes one synthesis provider.
type Config struct {
	Provider        string
	URL             string
	APIKey          string
	Voice           string
	Model           string
	Speed           float64
	Stability       float64
	SimilarityBoost float64
	Timeout         time.Duration
}

func DefaultPrimaryConfig() Config {
	return Config{
		Provider:        "endpoint",
		URL:             "http://localhost:8787/speak",
		Stability:       0.5,
		SimilarityBoost: 0.75,
		Timeout:         20 * time.Second,
	}
}

func DefaultSecondaryConfig() Config {
	return Config{
		Provider: "endpoint",
		URL:      "http://localhost:8787/speak-fallback",
		Voice:    "nova",
		Model:    "tts-1",
		Speed:    1.0,
		Timeout:  20 * time.Second,
	}
}
