package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/arrival/internal/config"
	"github.com/leonardotrapani/arrival/internal/provider"
)

// editProviders lets the user set API keys per provider
func editProviders(cfg *config.Config) error {
	for {
		var options []huh.Option[string]
		for _, name := range provider.ListProviders() {
			options = append(options, huh.NewOption(formatProviderOption(cfg, name), name))
		}
		options = append(options, huh.NewOption("Done", "back"))

		var selected string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Provider Settings").
					Description("Select a provider to configure its API key").
					Options(options...).
					Value(&selected),
			),
		).WithTheme(getTheme())

		if err := form.Run(); err != nil {
			return err
		}

		if selected == "back" {
			return nil
		}

		apiKey, err := configureSingleProvider(cfg, selected)
		if err != nil || apiKey == "" {
			continue
		}
		cfg.Providers[selected] = provider.ProviderConfig{APIKey: apiKey}
	}
}

// formatProviderOption formats a provider menu option with status
func formatProviderOption(cfg *config.Config, name string) string {
	status := "(not configured)"
	if pc, exists := cfg.Providers[name]; exists && pc.APIKey != "" {
		status = "(configured)"
	} else if env := provider.EnvVarForProvider(name); env != "" && os.Getenv(env) != "" {
		status = fmt.Sprintf("(from %s)", env)
	}

	switch name {
	case provider.ProviderOpenAI:
		return fmt.Sprintf("OpenAI - Whisper + TTS %s", status)
	case provider.ProviderElevenLabs:
		return fmt.Sprintf("ElevenLabs - Scribe + voices %s", status)
	case provider.ProviderGroq:
		return fmt.Sprintf("Groq - fast Whisper transcription %s", status)
	case provider.ProviderMistral:
		return fmt.Sprintf("Mistral - Voxtral transcription %s", status)
	case provider.ProviderDeepgram:
		return fmt.Sprintf("Deepgram - Nova transcription %s", status)
	case provider.ProviderEndpoint:
		return fmt.Sprintf("Custom endpoint - bearer token %s", status)
	default:
		return fmt.Sprintf("%s %s", name, status)
	}
}

// configureSingleProvider asks whether to replace an existing key, then
// prompts for a new one. Returns an empty key when the user keeps the
// current one.
func configureSingleProvider(cfg *config.Config, providerName string) (string, error) {
	if pc, exists := cfg.Providers[providerName]; exists && pc.APIKey != "" {
		displayName := getProviderDisplayName(providerName)

		var update bool
		confirmForm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("%s API Key", displayName)).
					Description(fmt.Sprintf("Current: %s", maskAPIKey(pc.APIKey))).
					Affirmative("Update key").
					Negative("Keep current").
					Value(&update),
			),
		).WithTheme(getTheme())

		if err := confirmForm.Run(); err != nil {
			return "", err
		}

		if !update {
			return "", nil
		}
	}

	return inputAPIKey(providerName)
}

func inputAPIKey(providerName string) (string, error) {
	p := provider.GetProvider(providerName)
	displayName := getProviderDisplayName(providerName)

	desc := fmt.Sprintf("Enter your %s API key", displayName)
	if env := provider.EnvVarForProvider(providerName); env != "" {
		desc = fmt.Sprintf("%s (or set %s instead)", desc, env)
	}

	var apiKey string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("%s API Key", displayName)).
				Description(desc).
				EchoMode(huh.EchoModePassword).
				Value(&apiKey).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("API key is required")
					}
					if p != nil && !p.ValidateAPIKey(s) {
						return fmt.Errorf("invalid API key format for %s", displayName)
					}
					return nil
				}),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}

	return apiKey, nil
}

// ensureProviderKey prompts for a key when a provider that needs one has
// none in the config or the environment.
func ensureProviderKey(cfg *config.Config, providerName string) {
	p := provider.GetProvider(providerName)
	if p == nil || !p.RequiresAPIKey() {
		return
	}
	if pc, ok := cfg.Providers[providerName]; ok && pc.APIKey != "" {
		return
	}
	if env := provider.EnvVarForProvider(providerName); env != "" && os.Getenv(env) != "" {
		return
	}

	apiKey, err := inputAPIKey(providerName)
	if err != nil || apiKey == "" {
		return
	}
	cfg.Providers[providerName] = provider.ProviderConfig{APIKey: apiKey}
}
