package provider

// Provider name constants for config and registry
const (
	ProviderEndpoint   = "endpoint"
	ProviderOpenAI     = "openai"
	ProviderElevenLabs = "elevenlabs"
	ProviderGroq       = "groq"
	ProviderMistral    = "mistral"
	ProviderDeepgram   = "deepgram"
)

// Environment variable names for API keys
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvElevenLabsKey = "ELEVENLABS_API_KEY"
	EnvGroqKey       = "GROQ_API_KEY"
	EnvMistralKey    = "MISTRAL_API_KEY"
	EnvDeepgramKey   = "DEEPGRAM_API_KEY"
	EnvEndpointKey   = "ARRIVAL_ENDPOINT_KEY"
)

// Adapter type constants for transcription and synthesis backends
const (
	AdapterEndpoint   = "endpoint"
	AdapterOpenAI     = "openai"
	AdapterElevenLabs = "elevenlabs"
	AdapterDeepgram   = "deepgram"
)

// EnvVarForProvider returns the environment variable name for a provider's API key
func EnvVarForProvider(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return EnvOpenAIKey
	case ProviderElevenLabs:
		return EnvElevenLabsKey
	case ProviderGroq:
		return EnvGroqKey
	case ProviderMistral:
		return EnvMistralKey
	case ProviderDeepgram:
		return EnvDeepgramKey
	case ProviderEndpoint:
		return EnvEndpointKey
	default:
		return ""
	}
}
