package provider

import "strings"

// ModelType represents what a model is used for
type ModelType int

const (
	Transcription ModelType = iota
	Speech
)

func (t ModelType) String() string {
	switch t {
	case Transcription:
		return "transcription"
	case Speech:
		return "speech"
	default:
		return "unknown"
	}
}

// Model represents a model with full metadata
type Model struct {
	ID          string          // unique identifier (e.g., "whisper-1", "eleven_multilingual_v2")
	Name        string          // display name
	Description string          // short description
	Type        ModelType       // transcription or speech
	AdapterType string          // which adapter to use (e.g., "openai", "elevenlabs")
	Voices      []string        // voices accepted by speech models
	Endpoint    *EndpointConfig // nil when the URL comes from config
	DocsURL     string
}

// EndpointConfig holds HTTP endpoint configuration
type EndpointConfig struct {
	BaseURL string // e.g., "https://api.openai.com"
	Path    string // e.g., "/v1/audio/transcriptions"
}

// URL joins base and path.
func (e *EndpointConfig) URL() string {
	if e == nil {
		return ""
	}
	return strings.TrimRight(e.BaseURL, "/") + e.Path
}

// SupportsVoice returns true if the model accepts the given voice.
// Models without a voice list accept any voice.
func (m *Model) SupportsVoice(voice string) bool {
	if len(m.Voices) == 0 {
		return true
	}
	for _, v := range m.Voices {
		if v == voice {
			return true
		}
	}
	return false
}
