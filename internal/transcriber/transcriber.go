package transcriber

import (
	"context"
	"fmt"
	"time"

	"github.com/leonardotrapani/arrival/internal/provider"
)

// Transcriber turns a finalized WAV recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// Configuration for the transcriber
type Config struct {
	Provider string
	URL      string // endpoint URL; overrides the provider default
	APIKey   string
	Language string
	Model    string
	Timeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Provider: provider.ProviderEndpoint,
		URL:      "http://localhost:8787/transcribe",
		Timeout:  30 * time.Second,
	}
}

// New creates the adapter for config.Provider.
func New(config Config) (Transcriber, error) {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	switch config.Provider {
	case provider.ProviderEndpoint:
		if config.URL == "" {
			return nil, fmt.Errorf("endpoint transcription requires a url")
		}
		return NewEndpointAdapter(config), nil

	case provider.ProviderOpenAI:
		if config.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		if config.Model == "" {
			config.Model = provider.GetProvider(provider.ProviderOpenAI).DefaultModel(provider.Transcription)
		}
		return NewOpenAIAdapter(config), nil

	case provider.ProviderGroq, provider.ProviderMistral:
		if err := resolveHosted(&config); err != nil {
			return nil, err
		}
		return NewOpenAIAdapter(config), nil

	case provider.ProviderElevenLabs:
		if err := resolveHosted(&config); err != nil {
			return nil, err
		}
		return NewElevenLabsAdapter(config), nil

	case provider.ProviderDeepgram:
		if err := resolveHosted(&config); err != nil {
			return nil, err
		}
		return NewDeepgramAdapter(config), nil

	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", config.Provider)
	}
}

// resolveHosted fills the default model and the model's endpoint URL for a
// hosted provider, and requires its API key.
func resolveHosted(config *Config) error {
	p := provider.GetProvider(config.Provider)
	if p == nil {
		return fmt.Errorf("unsupported transcription provider: %s", config.Provider)
	}
	if config.APIKey == "" {
		return fmt.Errorf("%s API key required", config.Provider)
	}
	if config.Model == "" {
		config.Model = p.DefaultModel(provider.Transcription)
	}
	if config.URL == "" {
		m, err := provider.GetModel(config.Provider, config.Model)
		if err != nil {
			return err
		}
		config.URL = m.Endpoint.URL()
	}
	return nil
}
