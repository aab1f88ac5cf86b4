package provider

import (
	"fmt"
	"sort"
)

// Provider describes a transcription or speech synthesis service.
type Provider interface {
	Name() string
	RequiresAPIKey() bool
	ValidateAPIKey(key string) bool
	Models() []Model
	DefaultModel(t ModelType) string
}

// ProviderConfig holds configuration for a single provider
type ProviderConfig struct {
	APIKey string `toml:"api_key"`
}

var registry = make(map[string]Provider)

func init() {
	Register(&EndpointProvider{})
	Register(&OpenAIProvider{})
	Register(&ElevenLabsProvider{})
	Register(&GroqProvider{})
	Register(&MistralProvider{})
	Register(&DeepgramProvider{})
}

// Register adds a provider to the registry
func Register(p Provider) {
	registry[p.Name()] = p
}

// GetProvider returns a provider by name, or nil if not found
func GetProvider(name string) Provider {
	return registry[name]
}

// ListProviders returns all registered provider names, sorted
func ListProviders() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListProvidersFor returns the sorted names of providers that support t.
// The endpoint provider supports every type.
func ListProvidersFor(t ModelType) []string {
	var names []string
	for name, p := range registry {
		if name == ProviderEndpoint || len(ModelsOfType(p, t)) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ModelsOfType filters a provider's models by type
func ModelsOfType(p Provider, t ModelType) []Model {
	var out []Model
	for _, m := range p.Models() {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

// GetModel looks up a model by provider and ID
func GetModel(providerName, modelID string) (*Model, error) {
	p := GetProvider(providerName)
	if p == nil {
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
	for _, m := range p.Models() {
		if m.ID == modelID {
			m := m
			return &m, nil
		}
	}
	return nil, fmt.Errorf("provider %s has no model %q", providerName, modelID)
}
