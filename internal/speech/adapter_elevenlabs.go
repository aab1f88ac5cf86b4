package speech

import (
	"context"
	"net/http"
	"strings"

	"github.com/leonardotrapani/arrival/internal/provider"
)

// ElevenLabs calls the ElevenLabs text-to-speech API directly.
type ElevenLabs struct {
	client *http.Client
	config Config
}

type elevenLabsRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id,omitempty"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Speed           float64 `json:"speed,omitempty"`
}

func NewElevenLabs(config Config) *ElevenLabs {
	return &ElevenLabs{
		client: &http.Client{Timeout: config.Timeout},
		config: config,
	}
}

func (e *ElevenLabs) Name() string {
	return "elevenlabs-synth"
}

func (e *ElevenLabs) Synthesize(ctx context.Context, text string) (Audio, error) {
	url := strings.TrimRight(e.config.URL, "/") + "/" + e.config.Voice
	return postJSON(ctx, e.client, e.Name(), url, map[string]string{"xi-api-key": e.config.APIKey}, elevenLabsRequest{
		Text:    text,
		ModelID: e.config.Model,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       e.config.Stability,
			SimilarityBoost: e.config.SimilarityBoost,
			Speed:           e.config.Speed,
		},
	})
}

func elevenLabsDefaults(config Config) (Config, error) {
	if config.Model == "" {
		config.Model = provider.GetProvider(provider.ProviderElevenLabs).DefaultModel(provider.Speech)
	}
	if config.Voice == "" {
		config.Voice = provider.DefaultElevenLabsVoice
	}
	if config.URL == "" {
		m, err := provider.GetModel(provider.ProviderElevenLabs, config.Model)
		if err != nil {
			return config, err
		}
		config.URL = m.Endpoint.URL()
	}
	return config, nil
}
