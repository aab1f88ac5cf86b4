package speech

import (
	"fmt"

	"github.com/leonardotrapani/arrival/internal/provider"
)

// New builds the synthesizer for one slot of the chain. The role only
// matters for the "endpoint" provider, which speaks a different request
// contract in each slot.
func New(role Role, config Config) (Synthesizer, error) {
	switch config.Provider {
	case provider.ProviderEndpoint:
		if config.URL == "" {
			return nil, fmt.Errorf("%s endpoint synthesis requires a url", role)
		}
		if role == RolePrimary {
			return NewPrimaryEndpoint(config), nil
		}
		return NewSecondaryEndpoint(config), nil

	case provider.ProviderElevenLabs:
		if config.APIKey == "" {
			return nil, fmt.Errorf("ElevenLabs API key required")
		}
		config, err := elevenLabsDefaults(config)
		if err != nil {
			return nil, err
		}
		return NewElevenLabs(config), nil

	case provider.ProviderOpenAI:
		if config.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		if config.Model == "" {
			config.Model = provider.GetProvider(provider.ProviderOpenAI).DefaultModel(provider.Speech)
		}
		if config.Voice == "" {
			config.Voice = "nova"
		}
		if m, err := provider.GetModel(provider.ProviderOpenAI, config.Model); err == nil && !m.SupportsVoice(config.Voice) {
			return nil, fmt.Errorf("voice %q not supported by %s", config.Voice, config.Model)
		}
		return NewOpenAI(config), nil

	default:
		return nil, fmt.Errorf("unsupported speech provider: %s", config.Provider)
	}
}

// NewChainFromConfig builds the primary → secondary chain. A slot with an
// empty provider is left out.
func NewChainFromConfig(primary, secondary Config) (*Chain, error) {
	var providers []Synthesizer
	for _, slot := range []struct {
		role   Role
		config Config
	}{{RolePrimary, primary}, {RoleSecondary, secondary}} {
		if slot.config.Provider == "" {
			continue
		}
		s, err := New(slot.role, slot.config)
		if err != nil {
			return nil, fmt.Errorf("%s speech provider: %w", slot.role, err)
		}
		providers = append(providers, s)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no speech providers configured")
	}
	return NewChain(providers...), nil
}
