package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/arrival/internal/config"
	"github.com/leonardotrapani/arrival/internal/language"
	"github.com/leonardotrapani/arrival/internal/pipeline"
	"github.com/leonardotrapani/arrival/internal/provider"
)

// editTranscription handles the speech-to-text section
func editTranscription(cfg *config.Config) error {
	selectedProvider := cfg.Transcription.Provider
	providerForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription Provider").
				Description(fmt.Sprintf("Currently: %s", formatSlot(cfg.Transcription.Provider, cfg.Transcription.Model))).
				Options(providerOptions(provider.Transcription)...).
				Value(&selectedProvider),
		),
	).WithTheme(getTheme())

	if err := providerForm.Run(); err != nil {
		return err
	}

	if selectedProvider != cfg.Transcription.Provider {
		cfg.Transcription.Model = ""
		cfg.Transcription.URL = ""
	}
	cfg.Transcription.Provider = selectedProvider
	ensureProviderKey(cfg, selectedProvider)

	if selectedProvider == provider.ProviderEndpoint {
		url := cfg.Transcription.URL
		if err := inputURL("Transcription URL", "Receives the recording as multipart form data", &url); err != nil {
			return err
		}
		cfg.Transcription.URL = url
	} else {
		model := cfg.Transcription.Model
		if model == "" {
			model = provider.GetProvider(selectedProvider).DefaultModel(provider.Transcription)
		}
		if err := selectModel("Transcription Model", selectedProvider, provider.Transcription, &model); err != nil {
			return err
		}
		cfg.Transcription.Model = model
	}

	if err := editLanguage(cfg); err != nil {
		return err
	}

	policy := cfg.Transcription.EmptyPolicy
	fallback := cfg.Transcription.FallbackText
	policyForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("When nothing was heard").
				Description("What to do when the transcription comes back empty").
				Options(
					huh.NewOption("Answer a default greeting", string(pipeline.EmptyTranscriptFallback)),
					huh.NewOption("Ask the visitor to try again", string(pipeline.EmptyTranscriptError)),
				).
				Value(&policy),
			huh.NewInput().
				Title("Default greeting").
				Description("Used as the transcript when nothing was heard. Empty: greeting of the language").
				Placeholder(language.Greeting(cfg.Transcription.Language)).
				Value(&fallback),
		),
	).WithTheme(getTheme())

	if err := policyForm.Run(); err != nil {
		return err
	}

	cfg.Transcription.EmptyPolicy = policy
	cfg.Transcription.FallbackText = strings.TrimSpace(fallback)
	return nil
}

// editLanguage picks the transcription language
func editLanguage(cfg *config.Config) error {
	selected := cfg.Transcription.Language
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language").
				Description("Language the visitor is expected to speak").
				Options(getLanguageOptions()...).
				Filtering(true).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Transcription.Language = selected
	return nil
}

func getLanguageOptions() []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption(language.Auto.Name, language.Auto.Code)}
	for _, lang := range language.List() {
		options = append(options, huh.NewOption(lang.Label(), lang.Code))
	}
	return options
}

// providerOptions lists the providers able to serve t
func providerOptions(t provider.ModelType) []huh.Option[string] {
	var options []huh.Option[string]
	for _, name := range provider.ListProvidersFor(t) {
		options = append(options, huh.NewOption(getProviderDisplayName(name), name))
	}
	return options
}

// getModelOptions lists a provider's models of type t
func getModelOptions(providerName string, t provider.ModelType) []huh.Option[string] {
	p := provider.GetProvider(providerName)
	if p == nil {
		return nil
	}
	var options []huh.Option[string]
	for _, m := range provider.ModelsOfType(p, t) {
		label := m.ID
		if m.Description != "" {
			label = fmt.Sprintf("%s (%s)", m.ID, m.Description)
		}
		options = append(options, huh.NewOption(label, m.ID))
	}
	return options
}

func selectModel(title, providerName string, t provider.ModelType, model *string) error {
	options := getModelOptions(providerName, t)
	if len(options) == 0 {
		return nil
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Description(fmt.Sprintf("Models offered by %s", getProviderDisplayName(providerName))).
				Options(options...).
				Value(model),
		),
	).WithTheme(getTheme())
	return form.Run()
}

func inputURL(title, desc string, url *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description(desc).
				Placeholder("http://localhost:8080/...").
				Value(url).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return fmt.Errorf("must be an http or https URL")
					}
					return nil
				}),
		),
	).WithTheme(getTheme())
	if err := form.Run(); err != nil {
		return err
	}
	*url = strings.TrimSpace(*url)
	return nil
}
