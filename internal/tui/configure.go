package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/leonardotrapani/arrival/internal/config"
	"github.com/leonardotrapani/arrival/internal/provider"
)

// ConfigureResult holds the configuration result from the TUI
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// ConfigSection represents a configuration section
type ConfigSection string

const (
	SectionProviders     ConfigSection = "providers"
	SectionTranscription ConfigSection = "transcription"
	SectionSpeech        ConfigSection = "speech"
	SectionTiming        ConfigSection = "timing"
	SectionPlayback      ConfigSection = "playback"
	SectionNotifications ConfigSection = "notifications"
	SectionSaveExit      ConfigSection = "save_exit"
	SectionDiscardExit   ConfigSection = "discard_exit"
)

// Configure runs the menu-based configuration editor on a copy of cfg.
func Configure(cfg *config.Config) (*ConfigureResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	working := *cfg
	working.Providers = make(map[string]provider.ProviderConfig, len(cfg.Providers))
	for name, pc := range cfg.Providers {
		working.Providers[name] = pc
	}

	for {
		clearScreen()
		fmt.Println(Logo())
		fmt.Println()

		section, err := selectSection(&working)
		if err != nil {
			return &ConfigureResult{Cancelled: true}, nil
		}

		switch section {
		case SectionSaveExit:
			confirmed, err := showSummary(&working)
			if err != nil {
				return &ConfigureResult{Cancelled: true}, nil
			}
			if !confirmed {
				continue
			}
			if err := working.Validate(); err != nil {
				fmt.Println(StyleError.Render("Configuration is not valid: " + err.Error()))
				fmt.Println(StyleMuted.Render("Press enter to go back to the menu."))
				_, _ = fmt.Scanln()
				continue
			}
			return &ConfigureResult{Config: &working}, nil

		case SectionDiscardExit:
			return &ConfigureResult{Cancelled: true}, nil

		case SectionProviders:
			_ = editProviders(&working)

		case SectionTranscription:
			_ = editTranscription(&working)

		case SectionSpeech:
			_ = editSpeech(&working)

		case SectionTiming:
			_ = editTiming(&working)

		case SectionPlayback:
			_ = editPlayback(&working)

		case SectionNotifications:
			_ = editNotifications(&working)
		}
	}
}

func selectSection(cfg *config.Config) (ConfigSection, error) {
	options := []huh.Option[ConfigSection]{
		huh.NewOption(formatProvidersLabel(cfg), SectionProviders),
		huh.NewOption(formatTranscriptionLabel(cfg), SectionTranscription),
		huh.NewOption(formatSpeechLabel(cfg), SectionSpeech),
		huh.NewOption(formatTimingLabel(cfg), SectionTiming),
		huh.NewOption(formatPlaybackLabel(cfg), SectionPlayback),
		huh.NewOption(formatNotificationsLabel(cfg), SectionNotifications),
		huh.NewOption("Save & Exit", SectionSaveExit),
		huh.NewOption("Discard & Exit", SectionDiscardExit),
	}

	var selected ConfigSection
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ConfigSection]().
				Title("Configuration Menu").
				Description("↑/↓ navigate • enter select • esc cancel").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}

	return selected, nil
}

// clearScreen clears the terminal screen
func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
