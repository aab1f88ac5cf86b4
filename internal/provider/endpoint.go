package provider

// EndpointProvider is a self-hosted service speaking the arrival contract
// (multipart transcription, JSON-in/audio-out synthesis). Its URL always
// comes from config and it has no model catalogue.
type EndpointProvider struct{}

func (p *EndpointProvider) Name() string {
	return ProviderEndpoint
}

func (p *EndpointProvider) RequiresAPIKey() bool {
	return false
}

func (p *EndpointProvider) ValidateAPIKey(key string) bool {
	return true
}

func (p *EndpointProvider) Models() []Model {
	return nil
}

func (p *EndpointProvider) DefaultModel(t ModelType) string {
	return ""
}
