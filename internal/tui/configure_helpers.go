package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/arrival/internal/config"
	"github.com/leonardotrapani/arrival/internal/language"
	"github.com/leonardotrapani/arrival/internal/provider"
)

// providerDisplayNames maps provider IDs to human-readable names
var providerDisplayNames = map[string]string{
	provider.ProviderOpenAI:     "OpenAI",
	provider.ProviderElevenLabs: "ElevenLabs",
	provider.ProviderGroq:       "Groq",
	provider.ProviderMistral:    "Mistral",
	provider.ProviderDeepgram:   "Deepgram",
	provider.ProviderEndpoint:   "Custom endpoint",
}

func getProviderDisplayName(providerName string) string {
	if name, ok := providerDisplayNames[providerName]; ok {
		return name
	}
	return providerName
}

// maskAPIKey returns a masked version of an API key for display
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:7] + "..." + key[len(key)-4:]
}

// getConfiguredProviders returns the sorted providers with API keys
func getConfiguredProviders(cfg *config.Config) []string {
	var providers []string
	for name, pc := range cfg.Providers {
		if pc.APIKey != "" {
			providers = append(providers, name)
		}
	}
	sort.Strings(providers)
	return providers
}

func formatProvidersLabel(cfg *config.Config) string {
	configured := getConfiguredProviders(cfg)
	if len(configured) == 0 {
		return "Providers (none configured)"
	}
	return fmt.Sprintf("Providers (%s)", strings.Join(configured, ", "))
}

func formatTranscriptionLabel(cfg *config.Config) string {
	lang := language.Auto.Name
	if cfg.Transcription.Language != "" {
		lang = language.FromCode(cfg.Transcription.Language).Name
	}
	return fmt.Sprintf("Transcription (%s, %s)", formatSlot(cfg.Transcription.Provider, cfg.Transcription.Model), lang)
}

func formatSpeechLabel(cfg *config.Config) string {
	secondary := "off"
	if cfg.Speech.Secondary.Provider != "" {
		secondary = formatSlot(cfg.Speech.Secondary.Provider, cfg.Speech.Secondary.Model)
	}
	return fmt.Sprintf("Speech (%s, then %s)", formatSlot(cfg.Speech.Primary.Provider, cfg.Speech.Primary.Model), secondary)
}

func formatTimingLabel(cfg *config.Config) string {
	return fmt.Sprintf("Screen Timing (arrival=%s, choice=%s)", cfg.Timing.Arrival, cfg.Timing.ChoiceAdvance)
}

func formatPlaybackLabel(cfg *config.Config) string {
	if cfg.Playback.Command == "" {
		return "Playback (silent)"
	}
	return fmt.Sprintf("Playback (%s)", cfg.Playback.Command)
}

func formatNotificationsLabel(cfg *config.Config) string {
	if !cfg.Notifications.Enabled {
		return "Notifications (off)"
	}
	return fmt.Sprintf("Notifications (%s)", cfg.Notifications.Type)
}

func formatSlot(providerName, model string) string {
	if providerName == "" {
		return "not set"
	}
	if model == "" {
		return getProviderDisplayName(providerName)
	}
	return fmt.Sprintf("%s/%s", getProviderDisplayName(providerName), model)
}

// validateDuration accepts Go duration strings such as "4s" or "700ms".
func validateDuration(allowZero bool) func(string) error {
	return func(s string) error {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("must be a duration like 4s or 700ms")
		}
		if d < 0 || (d == 0 && !allowZero) {
			return fmt.Errorf("must be greater than zero")
		}
		return nil
	}
}

// parseDuration is only called on input that passed validateDuration.
func parseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(strings.TrimSpace(s))
	return d
}

func showSummary(cfg *config.Config) (bool, error) {
	fmt.Println()
	fmt.Println(StyleHeader.Render("Configuration Summary"))
	fmt.Println()

	providers := getConfiguredProviders(cfg)
	if len(providers) == 0 {
		providers = []string{"none (keys from environment)"}
	}
	fmt.Printf("  %s %s\n", StyleLabel.Render("Providers:"), strings.Join(providers, ", "))
	fmt.Printf("  %s %s\n", StyleLabel.Render("Transcription:"), formatSlot(cfg.Transcription.Provider, cfg.Transcription.Model))
	if cfg.Transcription.Language != "" {
		fmt.Printf("  %s %s\n", StyleLabel.Render("Language:"), language.FromCode(cfg.Transcription.Language).Label())
	}
	fmt.Printf("  %s %s\n", StyleLabel.Render("Empty transcript:"), cfg.Transcription.EmptyPolicy)
	fmt.Printf("  %s %s\n", StyleLabel.Render("Primary voice:"), formatSlot(cfg.Speech.Primary.Provider, cfg.Speech.Primary.Model))
	if cfg.Speech.Secondary.Provider != "" {
		fmt.Printf("  %s %s\n", StyleLabel.Render("Fallback voice:"), formatSlot(cfg.Speech.Secondary.Provider, cfg.Speech.Secondary.Model))
	} else {
		fmt.Printf("  %s off\n", StyleLabel.Render("Fallback voice:"))
	}

	t := cfg.Timing
	fmt.Printf("  %s %s / %s / %s / %s / %s / %s\n", StyleLabel.Render("Screens:"),
		t.Arrival, t.Thesis, t.Why, t.Capabilities, t.Integrations, t.Honesty)

	if cfg.Playback.Command != "" {
		fmt.Printf("  %s %s %s\n", StyleLabel.Render("Player:"), cfg.Playback.Command, strings.Join(cfg.Playback.Args, " "))
	} else {
		fmt.Printf("  %s silent\n", StyleLabel.Render("Player:"))
	}

	if cfg.Notifications.Enabled {
		fmt.Printf("  %s %s\n", StyleLabel.Render("Notifications:"), cfg.Notifications.Type)
	} else {
		fmt.Printf("  %s disabled\n", StyleLabel.Render("Notifications:"))
	}

	fmt.Println()

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save this configuration?").
				Affirmative("Save").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirmed, nil
}
