package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/arrival/internal/config"
	"github.com/leonardotrapani/arrival/internal/provider"
)

const speechSlotOff = "off"

// editSpeech configures the primary voice and the optional fallback voice
func editSpeech(cfg *config.Config) error {
	if err := editSpeechSlot(cfg, "Primary Voice", &cfg.Speech.Primary, false); err != nil {
		return err
	}
	return editSpeechSlot(cfg, "Fallback Voice", &cfg.Speech.Secondary, true)
}

func editSpeechSlot(cfg *config.Config, title string, slot *config.SpeechProviderConfig, optional bool) error {
	options := providerOptions(provider.Speech)
	if optional {
		options = append(options, huh.NewOption("Off (no fallback)", speechSlotOff))
	}

	selected := slot.Provider
	if optional && selected == "" {
		selected = speechSlotOff
	}

	providerForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Description(fmt.Sprintf("Currently: %s", formatSlot(slot.Provider, slot.Model))).
				Options(options...).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := providerForm.Run(); err != nil {
		return err
	}

	if selected == speechSlotOff {
		*slot = config.SpeechProviderConfig{}
		return nil
	}

	if selected != slot.Provider {
		timeout := slot.Timeout
		*slot = config.SpeechProviderConfig{Provider: selected, Timeout: timeout}
		if selected == provider.ProviderElevenLabs {
			slot.Stability = 0.5
			slot.SimilarityBoost = 0.75
		}
	}
	ensureProviderKey(cfg, selected)

	if selected == provider.ProviderEndpoint {
		url := slot.URL
		if err := inputURL(title+" URL", "Receives JSON text and answers with audio", &url); err != nil {
			return err
		}
		slot.URL = url
	} else {
		model := slot.Model
		if model == "" {
			model = provider.GetProvider(selected).DefaultModel(provider.Speech)
		}
		if err := selectModel(title+" Model", selected, provider.Speech, &model); err != nil {
			return err
		}
		slot.Model = model
	}

	return selectVoice(title, selected, slot)
}

// selectVoice picks from the model's voice list, or asks for a voice ID
// when the model accepts any voice.
func selectVoice(title, providerName string, slot *config.SpeechProviderConfig) error {
	voice := slot.Voice
	var field huh.Field

	model, err := provider.GetModel(providerName, slot.Model)
	if err == nil && len(model.Voices) > 0 {
		if !model.SupportsVoice(voice) {
			voice = model.Voices[0]
		}
		var options []huh.Option[string]
		for _, v := range model.Voices {
			options = append(options, huh.NewOption(v, v))
		}
		field = huh.NewSelect[string]().
			Title(title + " Voice").
			Options(options...).
			Value(&voice)
	} else {
		placeholder := ""
		if providerName == provider.ProviderElevenLabs {
			placeholder = provider.DefaultElevenLabsVoice
		}
		field = huh.NewInput().
			Title(title + " Voice").
			Description("Voice ID understood by the service. Empty: service default").
			Placeholder(placeholder).
			Value(&voice)
	}

	form := huh.NewForm(huh.NewGroup(field)).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return err
	}

	slot.Voice = strings.TrimSpace(voice)
	return nil
}
