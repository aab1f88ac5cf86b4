package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/leonardotrapani/arrival/internal/config"
)

// editNotifications handles the notifications section
func editNotifications(cfg *config.Config) error {
	enabled := cfg.Notifications.Enabled

	desc := "Notify when recording starts, a reply is spoken or something fails"
	if cfg.Notifications.Enabled {
		desc = fmt.Sprintf("Currently: enabled (%s). %s", cfg.Notifications.Type, desc)
	} else {
		desc = "Currently: disabled. " + desc
	}

	enableForm := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable notifications?").
				Description(desc).
				Value(&enabled),
		),
	).WithTheme(getTheme())

	if err := enableForm.Run(); err != nil {
		return err
	}

	cfg.Notifications.Enabled = enabled

	if !enabled {
		return nil
	}

	notifType := cfg.Notifications.Type
	if notifType == "" || notifType == "none" {
		notifType = "desktop"
	}

	typeForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Notification Type").
				Description("How should notifications be displayed?").
				Options(
					huh.NewOption("Desktop notifications (notify-send)", "desktop"),
					huh.NewOption("Log file only", "log"),
					huh.NewOption("None (silent)", "none"),
				).
				Value(&notifType),
		),
	).WithTheme(getTheme())

	if err := typeForm.Run(); err != nil {
		return err
	}

	cfg.Notifications.Type = notifType
	return nil
}
