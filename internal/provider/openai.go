package provider

import "strings"

// OpenAIProvider implements Provider for OpenAI Whisper and TTS
type OpenAIProvider struct{}

var openAIVoices = []string{"alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer"}

func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

func (p *OpenAIProvider) RequiresAPIKey() bool {
	return true
}

func (p *OpenAIProvider) ValidateAPIKey(key string) bool {
	return strings.HasPrefix(key, "sk-")
}

func (p *OpenAIProvider) Models() []Model {
	transcriptions := &EndpointConfig{BaseURL: "https://api.openai.com", Path: "/v1/audio/transcriptions"}
	speech := &EndpointConfig{BaseURL: "https://api.openai.com", Path: "/v1/audio/speech"}

	return []Model{
		// transcription models
		{
			ID:          "whisper-1",
			Name:        "Whisper 1",
			Description: "OpenAI's production speech-to-text model",
			Type:        Transcription,
			AdapterType: AdapterOpenAI,
			Endpoint:    transcriptions,
		},
		{
			ID:          "gpt-4o-mini-transcribe",
			Name:        "GPT-4o Mini Transcribe",
			Description: "Cheaper, faster transcription",
			Type:        Transcription,
			AdapterType: AdapterOpenAI,
			Endpoint:    transcriptions,
		},
		// speech models
		{
			ID:          "tts-1",
			Name:        "TTS 1",
			Description: "Low latency text-to-speech",
			Type:        Speech,
			AdapterType: AdapterOpenAI,
			Voices:      openAIVoices,
			Endpoint:    speech,
		},
		{
			ID:          "tts-1-hd",
			Name:        "TTS 1 HD",
			Description: "Higher quality text-to-speech",
			Type:        Speech,
			AdapterType: AdapterOpenAI,
			Voices:      openAIVoices,
			Endpoint:    speech,
		},
		{
			ID:          "gpt-4o-mini-tts",
			Name:        "GPT-4o Mini TTS",
			Description: "Steerable speech synthesis",
			Type:        Speech,
			AdapterType: AdapterOpenAI,
			Voices:      openAIVoices,
			Endpoint:    speech,
		},
	}
}

func (p *OpenAIProvider) DefaultModel(t ModelType) string {
	switch t {
	case Transcription:
		return "whisper-1"
	case Speech:
		return "tts-1"
	}
	return ""
}
