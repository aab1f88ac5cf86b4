package provider

// DeepgramProvider implements Provider for Deepgram pre-recorded transcription
type DeepgramProvider struct{}

func (p *DeepgramProvider) Name() string {
	return ProviderDeepgram
}

func (p *DeepgramProvider) RequiresAPIKey() bool {
	return true
}

func (p *DeepgramProvider) ValidateAPIKey(key string) bool {
	// Deepgram API keys are alphanumeric, just check non-empty
	return len(key) > 0
}

func (p *DeepgramProvider) Models() []Model {
	endpoint := &EndpointConfig{BaseURL: "https://api.deepgram.com", Path: "/v1/listen"}
	docsURL := "https://developers.deepgram.com/docs/models-languages-overview"

	return []Model{
		{
			ID:          "nova-3",
			Name:        "Nova-3",
			Description: "Best accuracy, 40+ languages",
			Type:        Transcription,
			AdapterType: AdapterDeepgram,
			Endpoint:    endpoint,
			DocsURL:     docsURL,
		},
		{
			ID:          "nova-2",
			Name:        "Nova-2",
			Description: "Fast, 30+ languages, filler words",
			Type:        Transcription,
			AdapterType: AdapterDeepgram,
			Endpoint:    endpoint,
			DocsURL:     docsURL,
		},
	}
}

func (p *DeepgramProvider) DefaultModel(t ModelType) string {
	switch t {
	case Transcription:
		return "nova-3"
	}
	return ""
}
