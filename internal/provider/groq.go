package provider

import "strings"

// GroqProvider implements Provider for Groq's OpenAI-compatible Whisper API
type GroqProvider struct{}

func (p *GroqProvider) Name() string {
	return ProviderGroq
}

func (p *GroqProvider) RequiresAPIKey() bool {
	return true
}

func (p *GroqProvider) ValidateAPIKey(key string) bool {
	return strings.HasPrefix(key, "gsk_")
}

func (p *GroqProvider) Models() []Model {
	endpoint := &EndpointConfig{BaseURL: "https://api.groq.com/openai", Path: "/v1/audio/transcriptions"}

	return []Model{
		{
			ID:          "whisper-large-v3-turbo",
			Name:        "Whisper Large v3 Turbo",
			Description: "Fast multilingual Whisper",
			Type:        Transcription,
			AdapterType: AdapterOpenAI,
			Endpoint:    endpoint,
			DocsURL:     "https://console.groq.com/docs/speech-to-text",
		},
		{
			ID:          "whisper-large-v3",
			Name:        "Whisper Large v3",
			Description: "Most accurate Whisper on Groq",
			Type:        Transcription,
			AdapterType: AdapterOpenAI,
			Endpoint:    endpoint,
			DocsURL:     "https://console.groq.com/docs/speech-to-text",
		},
	}
}

func (p *GroqProvider) DefaultModel(t ModelType) string {
	switch t {
	case Transcription:
		return "whisper-large-v3-turbo"
	}
	return ""
}
