package provider

// ElevenLabsProvider implements Provider for ElevenLabs Scribe and TTS
type ElevenLabsProvider struct{}

// DefaultElevenLabsVoice is the "Rachel" premade voice.
const DefaultElevenLabsVoice = "21m00Tcm4TlvDq8ikWAM"

func (p *ElevenLabsProvider) Name() string {
	return ProviderElevenLabs
}

func (p *ElevenLabsProvider) RequiresAPIKey() bool {
	return true
}

func (p *ElevenLabsProvider) ValidateAPIKey(key string) bool {
	// ElevenLabs API keys don't have a consistent prefix, just check non-empty
	return len(key) > 0
}

func (p *ElevenLabsProvider) Models() []Model {
	stt := &EndpointConfig{BaseURL: "https://api.elevenlabs.io", Path: "/v1/speech-to-text"}
	tts := &EndpointConfig{BaseURL: "https://api.elevenlabs.io", Path: "/v1/text-to-speech"}

	return []Model{
		{
			ID:          "scribe_v1",
			Name:        "Scribe v1",
			Description: "90+ languages, best accuracy",
			Type:        Transcription,
			AdapterType: AdapterElevenLabs,
			Endpoint:    stt,
			DocsURL:     "https://elevenlabs.io/speech-to-text",
		},
		{
			ID:          "eleven_multilingual_v2",
			Name:        "Multilingual v2",
			Description: "Most lifelike, emotionally rich speech",
			Type:        Speech,
			AdapterType: AdapterElevenLabs,
			Endpoint:    tts,
			DocsURL:     "https://elevenlabs.io/docs/models",
		},
		{
			ID:          "eleven_turbo_v2_5",
			Name:        "Turbo v2.5",
			Description: "Balanced quality and latency",
			Type:        Speech,
			AdapterType: AdapterElevenLabs,
			Endpoint:    tts,
			DocsURL:     "https://elevenlabs.io/docs/models",
		},
		{
			ID:          "eleven_flash_v2_5",
			Name:        "Flash v2.5",
			Description: "Lowest latency",
			Type:        Speech,
			AdapterType: AdapterElevenLabs,
			Endpoint:    tts,
			DocsURL:     "https://elevenlabs.io/docs/models",
		},
	}
}

func (p *ElevenLabsProvider) DefaultModel(t ModelType) string {
	switch t {
	case Transcription:
		return "scribe_v1"
	case Speech:
		return "eleven_multilingual_v2"
	}
	return ""
}
